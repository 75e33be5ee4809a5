// SPDX-FileCopyrightText: 2026 Greenbone AG
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package report

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ozgen/wopi-validator/internal/model"
)

// TerminalReport renders a per-case table plus a per-group and overall
// summary, in the idiom of dpopsuev-asterisk's TableBuilder wrapper
// around go-pretty/v6/table (adopted directly here rather than through
// an intermediate abstraction, since this module renders exactly one
// table shape rather than switching between ASCII/Markdown modes).
func TerminalReport(results []model.CaseResult, summary Summary) string {
	w := table.NewWriter()
	w.SetStyle(table.StyleLight)
	w.AppendHeader(table.Row{"Group", "Case", "Category", "Status", "Duration", "Detail"})
	w.SetColumnConfigs([]table.ColumnConfig{
		{Number: 6, WidthMax: 60, Align: text.AlignLeft},
	})

	for _, r := range results {
		w.AppendRow(table.Row{r.GroupName, r.CaseName, r.Category, string(r.Status), r.Duration().Round(time.Millisecond), r.FinalFailMessage})
	}

	for _, g := range summary.Groups {
		w.AppendRow(table.Row{g.Name, "(group total)", "", fmt.Sprintf("%d pass / %d fail / %d skipped", g.Pass, g.Fail, g.Skipped), "", ""})
	}
	w.AppendFooter(table.Row{"Overall", "", "", fmt.Sprintf("%d pass / %d fail / %d skipped", summary.Overall.Pass, summary.Overall.Fail, summary.Overall.Skipped), "", ""})

	return w.Render()
}
