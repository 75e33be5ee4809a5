// SPDX-FileCopyrightText: 2026 Greenbone AG
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package report implements the Outcome Model (C8): aggregating case
// results per group and overall, and the exit-code rule.
package report

import (
	"github.com/ozgen/wopi-validator/internal/model"
)

// GroupSummary tallies the Pass/Fail/Skipped counts for one test group.
type GroupSummary struct {
	Name    string
	Pass    int
	Fail    int
	Skipped int
}

func (g GroupSummary) Total() int { return g.Pass + g.Fail + g.Skipped }

// Summary is the full outcome model for a run: per-group tallies in
// catalog order, plus the overall totals.
type Summary struct {
	Groups  []GroupSummary
	Overall GroupSummary
}

// Aggregate reduces a run's case results into a Summary, preserving the
// group order in which groups were first encountered.
func Aggregate(results []model.CaseResult) Summary {
	var summary Summary
	index := make(map[string]int)

	for _, r := range results {
		i, ok := index[r.GroupName]
		if !ok {
			i = len(summary.Groups)
			index[r.GroupName] = i
			summary.Groups = append(summary.Groups, GroupSummary{Name: r.GroupName})
		}
		tally(&summary.Groups[i], r.Status)
		tally(&summary.Overall, r.Status)
	}

	return summary
}

func tally(g *GroupSummary, status model.CaseStatus) {
	switch status {
	case model.StatusPass:
		g.Pass++
	case model.StatusFail:
		g.Fail++
	case model.StatusSkipped:
		g.Skipped++
	}
}

// ExitCode implements the exit-code rule: non-zero on Fail
// always; non-zero on Skipped too unless ignoreSkipped is set.
func (s Summary) ExitCode(ignoreSkipped bool) int {
	if s.Overall.Fail > 0 {
		return 1
	}
	if !ignoreSkipped && s.Overall.Skipped > 0 {
		return 1
	}
	return 0
}
