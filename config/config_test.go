// SPDX-FileCopyrightText: 2026 Greenbone AG
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"WOPI_ENDPOINT", "WOPI_ACCESS_TOKEN", "WOPI_ACCESS_TOKEN_TTL_SECONDS",
		"WOPI_FILE_ID", "WOPI_TEST_NAME", "WOPI_TEST_CATEGORY", "WOPI_TEST_GROUP",
		"WOPI_CATALOG_PATH", "WOPI_IGNORE_SKIPPED", "WOPI_PROOF_KEY_PATH",
		"WOPI_PROOF_KEY_OLD_PATH", "WOPI_RESOURCE_DIR", "LOG_LEVEL",
		"WOPI_XLSX_REPORT_PATH", "RUNNING_ENV",
	} {
		_ = os.Unsetenv(k)
	}
}

func TestLoad_Defaults_NoFileNoEnv(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.CatalogPath != "TestCases.xml" {
		t.Fatalf("CatalogPath: expected default, got %q", cfg.CatalogPath)
	}
	if cfg.TestCategory != "All" {
		t.Fatalf("TestCategory: expected %q, got %q", "All", cfg.TestCategory)
	}
	if cfg.AccessTokenTTLSeconds != 1800 {
		t.Fatalf("AccessTokenTTLSeconds: expected 1800, got %d", cfg.AccessTokenTTLSeconds)
	}
	if cfg.RunningEnv != EnvLocal {
		t.Fatalf("RunningEnv: expected %q, got %q", EnvLocal, cfg.RunningEnv)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("LogLevel: expected %q, got %q", "info", cfg.LogLevel)
	}
}

func TestLoad_YAMLFileOverridesDefaults(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlContent := `
wopiEndpoint: https://wopi.example.com
accessToken: file-token
testCategory: WopiCore
ignoreSkipped: true
`
	if err := os.WriteFile(path, []byte(yamlContent), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.WopiEndpoint != "https://wopi.example.com" {
		t.Fatalf("WopiEndpoint: got %q", cfg.WopiEndpoint)
	}
	if cfg.AccessToken != "file-token" {
		t.Fatalf("AccessToken: got %q", cfg.AccessToken)
	}
	if cfg.TestCategory != "WopiCore" {
		t.Fatalf("TestCategory: got %q", cfg.TestCategory)
	}
	if !cfg.IgnoreSkipped {
		t.Fatalf("IgnoreSkipped: expected true")
	}
	// untouched by the file, still the default
	if cfg.CatalogPath != "TestCases.xml" {
		t.Fatalf("CatalogPath: expected default to survive, got %q", cfg.CatalogPath)
	}
}

func TestLoad_MissingFilePath_IsNotAnError(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.CatalogPath != "TestCases.xml" {
		t.Fatalf("expected defaults when file is absent, got %q", cfg.CatalogPath)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("accessToken: file-token\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("WOPI_ACCESS_TOKEN", "env-token")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AccessToken != "env-token" {
		t.Fatalf("expected env to win over file, got %q", cfg.AccessToken)
	}
}

func TestLoad_EnvOverridesDefaults_AllFields(t *testing.T) {
	clearEnv(t)

	t.Setenv("WOPI_ENDPOINT", "https://env.example.com")
	t.Setenv("WOPI_ACCESS_TOKEN", "tok")
	t.Setenv("WOPI_ACCESS_TOKEN_TTL_SECONDS", "60")
	t.Setenv("WOPI_FILE_ID", "file-42")
	t.Setenv("WOPI_TEST_NAME", "Locks.Lock")
	t.Setenv("WOPI_TEST_CATEGORY", "OfficeOnline")
	t.Setenv("WOPI_TEST_GROUP", "Locks")
	t.Setenv("WOPI_CATALOG_PATH", "/tmp/Cases.xml")
	t.Setenv("WOPI_IGNORE_SKIPPED", "true")
	t.Setenv("WOPI_PROOF_KEY_PATH", "/tmp/key.pem")
	t.Setenv("WOPI_PROOF_KEY_OLD_PATH", "/tmp/key_old.pem")
	t.Setenv("WOPI_RESOURCE_DIR", "/tmp/resources")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("WOPI_XLSX_REPORT_PATH", "/tmp/report.xlsx")
	t.Setenv("RUNNING_ENV", "k8s")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.WopiEndpoint != "https://env.example.com" {
		t.Fatalf("WopiEndpoint: got %q", cfg.WopiEndpoint)
	}
	if cfg.AccessTokenTTLSeconds != 60 {
		t.Fatalf("AccessTokenTTLSeconds: got %d", cfg.AccessTokenTTLSeconds)
	}
	if cfg.FileID != "file-42" {
		t.Fatalf("FileID: got %q", cfg.FileID)
	}
	if cfg.TestCategory != "OfficeOnline" {
		t.Fatalf("TestCategory: got %q", cfg.TestCategory)
	}
	if !cfg.IgnoreSkipped {
		t.Fatalf("IgnoreSkipped: expected true")
	}
	if cfg.RunningEnv != EnvK8s {
		t.Fatalf("RunningEnv: got %q", cfg.RunningEnv)
	}
}
