// SPDX-FileCopyrightText: 2026 Greenbone AG
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "wopi-validator",
	Short: "Conformance validator for WOPI (Web Application Open Platform Interface) hosts",
	Long: "wopi-validator drives a declarative XML test catalog against a live WOPI\n" +
		"endpoint, validating responses, headers, and proof-key signatures, and\n" +
		"reports Pass/Fail/Skipped per case and per group.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(discoveryExportCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
