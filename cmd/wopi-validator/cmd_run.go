// SPDX-FileCopyrightText: 2026 Greenbone AG
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/ozgen/wopi-validator/config"
	"github.com/ozgen/wopi-validator/internal/capabilities"
	"github.com/ozgen/wopi-validator/internal/catalog"
	"github.com/ozgen/wopi-validator/internal/diagnostics"
	"github.com/ozgen/wopi-validator/internal/execution"
	"github.com/ozgen/wopi-validator/internal/model"
	"github.com/ozgen/wopi-validator/internal/proofkey"
	"github.com/ozgen/wopi-validator/internal/report"
	"github.com/ozgen/wopi-validator/internal/resources"
	"github.com/ozgen/wopi-validator/internal/testcase"
	"github.com/ozgen/wopi-validator/logger"
)

var runFlags struct {
	configPath    string
	wopiEndpoint  string
	accessToken   string
	ttlSeconds    int
	fileID        string
	testName      string
	testCategory  string
	testGroup     string
	catalogPath   string
	ignoreSkipped bool
	xlsxReport    string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a test catalog against a WOPI endpoint and report Pass/Fail/Skipped",
	RunE:  runRun,
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&runFlags.configPath, "config", "", "path to a YAML config file")
	f.StringVarP(&runFlags.wopiEndpoint, "wopi-endpoint", "w", "", "base WOPI endpoint URL, e.g. https://host/wopi")
	f.StringVarP(&runFlags.accessToken, "access-token", "t", "", "access token presented on every request")
	f.IntVarP(&runFlags.ttlSeconds, "ttl", "l", 0, "access token TTL in seconds")
	f.StringVarP(&runFlags.fileID, "file-id", "f", "", "id of the WOPI file under test")
	f.StringVarP(&runFlags.testName, "name", "n", "", "run exactly one case by name")
	f.StringVarP(&runFlags.testCategory, "category", "c", "", "restrict to a category (WopiCore, OfficeNativeClient, OfficeOnline, All)")
	f.StringVarP(&runFlags.testGroup, "group", "g", "", "restrict to a single test group")
	f.StringVarP(&runFlags.catalogPath, "catalog", "r", "", "path to the XML test catalog")
	f.BoolVar(&runFlags.ignoreSkipped, "ignore-skipped", false, "don't fail the run on skipped cases")
	f.StringVar(&runFlags.xlsxReport, "xlsx-report", "", "append this run's results to an XLSX workbook at this path")
}

func runRun(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(runFlags.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyRunFlags(&cfg, cmd)

	logger.SetLevel(cfg.LogLevel)
	log := logger.GetLogger()

	if cfg.WopiEndpoint == "" {
		return fmt.Errorf("wopi endpoint is required (-w or WOPI_ENDPOINT)")
	}
	if cfg.AccessToken == "" {
		return fmt.Errorf("access token is required (-t or WOPI_ACCESS_TOKEN)")
	}
	if summary := diagnostics.SummarizeAccessToken(cfg.AccessToken); summary != "" {
		log.Debug(summary)
	}

	catalogFile, err := os.Open(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("open catalog %s: %w", cfg.CatalogPath, err)
	}
	doc, err := catalog.Parse(catalogFile)
	_ = catalogFile.Close()
	if err != nil {
		return fmt.Errorf("parse catalog: %w", err)
	}

	keys, err := proofkey.LoadOrGenerateKeyPair(cfg.ProofKeyPath, cfg.ProofKeyOldPath)
	if err != nil {
		return fmt.Errorf("load proof key: %w", err)
	}

	resourceMgr := resources.NewManager(cfg.ResourceDir, doc.ResourceCatalog)

	httpClient := &http.Client{
		Timeout: time.Duration(cfg.AccessTokenTTLSeconds) * time.Second,
		// Redirects are asserted explicitly by response-header/status
		// validators, not followed transparently.
		CheckRedirect: func(_ *http.Request, _ []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	executor := &execution.Executor{
		HTTPClient:  httpClient,
		Signer:      proofkey.NewSigner(keys),
		ResourceMgr: resourceMgr,
		Log:         log,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	caps, err := capabilities.Probe(ctx, httpClient, cfg.WopiEndpoint, cfg.FileID, cfg.AccessToken)
	if err != nil {
		log.WithError(err).Warn("capability probe failed; capability-gated cases will be skipped")
		caps = map[string]bool{}
	}

	runner := &testcase.Runner{
		Executor:     executor,
		ResourceMgr:  resourceMgr,
		Log:          log,
		ByName:       doc.CasesByName,
		Capabilities: caps,
	}

	entries := catalog.Select(doc.Entries, catalog.Filter{
		TestName:     cfg.TestName,
		TestCategory: model.Category(cfg.TestCategory),
		TestGroup:    cfg.TestGroup,
	})
	if len(entries) == 0 {
		return fmt.Errorf("no test cases matched the given filter")
	}

	seed := map[string]string{
		"WopiEndpoint":   cfg.WopiEndpoint,
		"AccessToken":    cfg.AccessToken,
		"AccessTokenTTL": fmt.Sprintf("%d", cfg.AccessTokenTTLSeconds),
		"File":           cfg.FileID,
	}

	results := runner.RunAll(ctx, entries, logger.RunID, seed)
	summary := report.Aggregate(results)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, report.TerminalReport(results, summary))

	if cfg.XlsxReportPath != "" {
		if err := report.ExportXLSX(cfg.XlsxReportPath, results, logger.RunID, time.Now()); err != nil {
			log.WithError(err).Warn("xlsx export failed")
		}
	}

	os.Exit(summary.ExitCode(cfg.IgnoreSkipped))
	return nil
}

// applyRunFlags overlays flags the operator explicitly passed on the
// command line onto a config already resolved from defaults, an
// optional YAML file, and the environment. Only Changed() flags win,
// so an unset flag never clobbers a value the lower layers supplied.
func applyRunFlags(cfg *config.Config, cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("wopi-endpoint") {
		cfg.WopiEndpoint = runFlags.wopiEndpoint
	}
	if flags.Changed("access-token") {
		cfg.AccessToken = runFlags.accessToken
	}
	if flags.Changed("ttl") {
		cfg.AccessTokenTTLSeconds = runFlags.ttlSeconds
	}
	if flags.Changed("file-id") {
		cfg.FileID = runFlags.fileID
	}
	if flags.Changed("name") {
		cfg.TestName = runFlags.testName
	}
	if flags.Changed("category") {
		cfg.TestCategory = runFlags.testCategory
	}
	if flags.Changed("group") {
		cfg.TestGroup = runFlags.testGroup
	}
	if flags.Changed("catalog") {
		cfg.CatalogPath = runFlags.catalogPath
	}
	if flags.Changed("ignore-skipped") {
		cfg.IgnoreSkipped = runFlags.ignoreSkipped
	}
	if flags.Changed("xlsx-report") {
		cfg.XlsxReportPath = runFlags.xlsxReport
	}
}
