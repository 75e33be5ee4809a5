// SPDX-FileCopyrightText: 2026 Greenbone AG
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ozgen/wopi-validator/internal/model"
)

func TestTerminalReport_ContainsCaseAndSummaryRows(t *testing.T) {
	results := []model.CaseResult{
		{GroupName: "Locks", CaseName: "Locks.Lock", Category: model.WopiCore, Status: model.StatusPass, Started: time.Now(), Completed: time.Now()},
		{GroupName: "Locks", CaseName: "Locks.Unlock", Category: model.WopiCore, Status: model.StatusFail, FinalFailMessage: "boom", Started: time.Now(), Completed: time.Now()},
	}
	summary := Aggregate(results)

	out := TerminalReport(results, summary)
	require.Contains(t, out, "Locks.Lock")
	require.Contains(t, out, "Locks.Unlock")
	require.Contains(t, out, "boom")
	// table.StyleLight renders footer cells upper-cased.
	require.Contains(t, out, "OVERALL")
}
