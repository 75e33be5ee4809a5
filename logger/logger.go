// SPDX-FileCopyrightText: 2026 Greenbone AG
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// CustomFormatter embeds logrus.TextFormatter and tags every line with
// the run's correlation id, so log lines from concurrent validator
// invocations (or grepping a shared CI log) can be told apart.
type CustomFormatter struct {
	logrus.TextFormatter
	RunID string
}

func (f *CustomFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	// ANSI colors
	colorReset := "\033[0m"
	colorCyan := "\033[36m"
	colorGreen := "\033[32m"
	colorYellow := "\033[33m"
	colorRed := "\033[31m"
	colorBlue := "\033[34m"

	// Timestamp
	timestamp := entry.Time.Format("2006-01-02T15:04:05.000Z07:00")

	levelColor := ""
	switch entry.Level {
	case logrus.DebugLevel:
		levelColor = colorBlue
	case logrus.InfoLevel:
		levelColor = colorGreen
	case logrus.WarnLevel:
		levelColor = colorYellow
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		levelColor = colorRed
	default:
		levelColor = colorReset
	}
	level := fmt.Sprintf("%s%s%s", levelColor, entry.Level.String(), colorReset)

	caller := ""
	if entry.HasCaller() {
		caller = fmt.Sprintf("%s:%d", filepath.Base(entry.Caller.File), entry.Caller.Line)
	}

	var keys []string
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := ""
	for _, k := range keys {
		v := entry.Data[k]
		fields += fmt.Sprintf(" %s%s%s=%v", colorCyan, k, colorReset, v)
	}

	logLine := fmt.Sprintf(
		"%s [%s] [Run: %s] %s %s%s\n",
		timestamp, level, f.RunID, caller, entry.Message, fields,
	)

	return []byte(logLine), nil
}

var log *logrus.Logger

// RunID identifies this process's validator invocation. It is
// generated once at package init and carried on every log line and
// into CaseResult.RunID so a terminal report, an XLSX export, and the
// raw log for one run can be correlated after the fact.
var RunID = uuid.NewString()

func init() {
	log = logrus.New()

	log.SetReportCaller(true)

	log.SetFormatter(&CustomFormatter{
		TextFormatter: logrus.TextFormatter{
			FullTimestamp: true,
		},
		RunID: RunID,
	})

	log.SetOutput(os.Stdout)
}

// GetLogger returns the process-wide logger. SetLevel should be called
// once at startup with the level resolved from config.Config.LogLevel.
func GetLogger() *logrus.Logger {
	return log
}

// SetLevel resolves a config log-level string ("debug"/"info"/"warn"/
// "error", case-insensitive) into a logrus level and applies it,
// falling back to Info for anything unrecognized.
func SetLevel(levelName string) {
	log.SetLevel(parseLevel(strings.ToLower(levelName)))
}

func parseLevel(logLvl string) logrus.Level {
	switch logLvl {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	}
	return logrus.InfoLevel
}
