// SPDX-FileCopyrightText: 2026 Greenbone AG
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ozgen/wopi-validator/internal/proofkey"
)

var discoveryExportFlags struct {
	proofKeyPath    string
	proofKeyOldPath string
	outputPath      string
}

var discoveryExportCmd = &cobra.Command{
	Use:   "discovery-export",
	Short: "Print (or write) the <wopi-discovery> proof-key document for this validator's key pair",
	RunE:  runDiscoveryExport,
}

func init() {
	f := discoveryExportCmd.Flags()
	f.StringVar(&discoveryExportFlags.proofKeyPath, "proof-key-path", "proofkey.pem", "path to the current RSA proof key")
	f.StringVar(&discoveryExportFlags.proofKeyOldPath, "proof-key-old-path", "proofkey_old.pem", "path to the previous RSA proof key")
	f.StringVarP(&discoveryExportFlags.outputPath, "output", "o", "", "write the document here instead of stdout")
}

func runDiscoveryExport(cmd *cobra.Command, _ []string) error {
	keys, err := proofkey.LoadOrGenerateKeyPair(discoveryExportFlags.proofKeyPath, discoveryExportFlags.proofKeyOldPath)
	if err != nil {
		return fmt.Errorf("load proof key: %w", err)
	}

	xmlDoc, err := proofkey.ExportDiscoveryXML(keys)
	if err != nil {
		return fmt.Errorf("render discovery document: %w", err)
	}

	if discoveryExportFlags.outputPath == "" {
		fmt.Fprintln(cmd.OutOrStdout(), string(xmlDoc))
		return nil
	}
	return os.WriteFile(discoveryExportFlags.outputPath, xmlDoc, 0o644)
}
