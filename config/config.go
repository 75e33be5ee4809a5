// SPDX-FileCopyrightText: 2026 Greenbone AG
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads validator configuration in layers: built-in
// defaults, then an optional YAML file, then environment variables
// (loaded from an optional .env). CLI flags are applied on top by
// cmd/wopi-validator after Load returns, since only cobra knows which
// flags the operator actually passed.
package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ozgen/wopi-validator/utils"
)

type RunningEnv string

const (
	EnvK8s    RunningEnv = "k8s"
	EnvDocker RunningEnv = "docker"
	EnvLocal  RunningEnv = "local"
)

// Config holds every setting a validator run needs. Fields mirror the
// CLI's flag table (WopiEndpoint/AccessToken/... via -w/-t/-l/...)
// plus ambient fields every run carries regardless (LogLevel,
// RunningEnv).
type Config struct {
	WopiEndpoint          string
	AccessToken           string
	AccessTokenTTLSeconds int

	// FileID identifies the document under test on the WOPI host,
	// bound into every case's initial state as "File". The host is
	// expected to have already provisioned a file at this id; setup
	// only PUTs bytes into it, it never creates the id itself.
	FileID string

	TestName     string
	TestCategory string
	TestGroup    string

	CatalogPath   string
	IgnoreSkipped bool

	ProofKeyPath    string
	ProofKeyOldPath string
	ResourceDir     string

	LogLevel       string
	XlsxReportPath string
	RunningEnv     RunningEnv
}

// fileConfig mirrors Config for YAML unmarshalling: it uses pointer
// fields so an absent key in the file leaves the default untouched,
// the same "only override what's present" behavior the env layer gets
// for free from utils.GetEnv's defaultValue argument.
type fileConfig struct {
	WopiEndpoint          *string `yaml:"wopiEndpoint"`
	AccessToken           *string `yaml:"accessToken"`
	AccessTokenTTLSeconds *int    `yaml:"accessTokenTtlSeconds"`
	FileID                *string `yaml:"fileId"`
	TestName              *string `yaml:"testName"`
	TestCategory          *string `yaml:"testCategory"`
	TestGroup             *string `yaml:"testGroup"`
	CatalogPath           *string `yaml:"catalogPath"`
	IgnoreSkipped         *bool   `yaml:"ignoreSkipped"`
	ProofKeyPath          *string `yaml:"proofKeyPath"`
	ProofKeyOldPath       *string `yaml:"proofKeyOldPath"`
	ResourceDir           *string `yaml:"resourceDir"`
	LogLevel              *string `yaml:"logLevel"`
	XlsxReportPath        *string `yaml:"xlsxReportPath"`
	RunningEnv            *string `yaml:"runningEnv"`
}

func defaults() Config {
	return Config{
		AccessTokenTTLSeconds: 1800,
		TestCategory:          "All",
		CatalogPath:           "TestCases.xml",
		ProofKeyPath:          "proofkey.pem",
		ProofKeyOldPath:       "proofkey_old.pem",
		ResourceDir:           "resources",
		LogLevel:              "info",
		RunningEnv:            EnvLocal,
	}
}

// Load builds a Config from defaults, then configPath if it exists,
// then environment variables, in that priority order. configPath ==
// "" skips the YAML layer entirely; a configPath that doesn't exist is
// not an error, the same tolerant treatment godotenv.Load() gets
// below.
func Load(configPath string) (Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	if configPath != "" && utils.FileExists(configPath) {
		raw, err := os.ReadFile(configPath)
		if err != nil {
			return Config{}, err
		}
		var fc fileConfig
		if err := yaml.Unmarshal(raw, &fc); err != nil {
			return Config{}, err
		}
		applyFile(&cfg, fc)
	}

	applyEnv(&cfg)

	return cfg, nil
}

func applyFile(cfg *Config, fc fileConfig) {
	if fc.WopiEndpoint != nil {
		cfg.WopiEndpoint = *fc.WopiEndpoint
	}
	if fc.AccessToken != nil {
		cfg.AccessToken = *fc.AccessToken
	}
	if fc.AccessTokenTTLSeconds != nil {
		cfg.AccessTokenTTLSeconds = *fc.AccessTokenTTLSeconds
	}
	if fc.FileID != nil {
		cfg.FileID = *fc.FileID
	}
	if fc.TestName != nil {
		cfg.TestName = *fc.TestName
	}
	if fc.TestCategory != nil {
		cfg.TestCategory = *fc.TestCategory
	}
	if fc.TestGroup != nil {
		cfg.TestGroup = *fc.TestGroup
	}
	if fc.CatalogPath != nil {
		cfg.CatalogPath = *fc.CatalogPath
	}
	if fc.IgnoreSkipped != nil {
		cfg.IgnoreSkipped = *fc.IgnoreSkipped
	}
	if fc.ProofKeyPath != nil {
		cfg.ProofKeyPath = *fc.ProofKeyPath
	}
	if fc.ProofKeyOldPath != nil {
		cfg.ProofKeyOldPath = *fc.ProofKeyOldPath
	}
	if fc.ResourceDir != nil {
		cfg.ResourceDir = *fc.ResourceDir
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
	if fc.XlsxReportPath != nil {
		cfg.XlsxReportPath = *fc.XlsxReportPath
	}
	if fc.RunningEnv != nil {
		cfg.RunningEnv = RunningEnv(*fc.RunningEnv)
	}
}

func applyEnv(cfg *Config) {
	cfg.WopiEndpoint = utils.GetEnv("WOPI_ENDPOINT", cfg.WopiEndpoint)
	cfg.AccessToken = utils.GetEnv("WOPI_ACCESS_TOKEN", cfg.AccessToken)
	cfg.AccessTokenTTLSeconds = utils.GetEnvAsInt("WOPI_ACCESS_TOKEN_TTL_SECONDS", cfg.AccessTokenTTLSeconds)
	cfg.FileID = utils.GetEnv("WOPI_FILE_ID", cfg.FileID)
	cfg.TestName = utils.GetEnv("WOPI_TEST_NAME", cfg.TestName)
	cfg.TestCategory = utils.GetEnv("WOPI_TEST_CATEGORY", cfg.TestCategory)
	cfg.TestGroup = utils.GetEnv("WOPI_TEST_GROUP", cfg.TestGroup)
	cfg.CatalogPath = utils.GetEnv("WOPI_CATALOG_PATH", cfg.CatalogPath)
	cfg.IgnoreSkipped = utils.GetEnvAsBool("WOPI_IGNORE_SKIPPED", cfg.IgnoreSkipped)
	cfg.ProofKeyPath = utils.GetEnv("WOPI_PROOF_KEY_PATH", cfg.ProofKeyPath)
	cfg.ProofKeyOldPath = utils.GetEnv("WOPI_PROOF_KEY_OLD_PATH", cfg.ProofKeyOldPath)
	cfg.ResourceDir = utils.GetEnv("WOPI_RESOURCE_DIR", cfg.ResourceDir)
	cfg.LogLevel = utils.GetEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.XlsxReportPath = utils.GetEnv("WOPI_XLSX_REPORT_PATH", cfg.XlsxReportPath)
	cfg.RunningEnv = RunningEnv(utils.GetEnv("RUNNING_ENV", string(cfg.RunningEnv)))
}
