// SPDX-FileCopyrightText: 2026 Greenbone AG
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package testcase implements the Test Case Executor (C6): the state
// machine that drives one TestCase from setup through cleanup and
// reduces its request outcomes to a single Pass/Fail/Skipped verdict.
//
// Grounded on tianhaocui-Epi/internal/runner/runner.go's
// sequential-execute-and-collect-a-result-struct idiom for driving one
// unit of work through HTTP and producing a typed result, and on
// giantswarm-muster/internal/testing/test_runner.go's sequential
// per-item loop shape for running many cases in catalog order.
package testcase

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ozgen/wopi-validator/internal/execution"
	"github.com/ozgen/wopi-validator/internal/model"
	"github.com/ozgen/wopi-validator/internal/resources"
)

// putFileHeaderName is the WOPI override header used to disambiguate a
// PUT to /files/{id}/contents from other verbs the same URL accepts.
const putFileHeaderName = "X-WOPI-Override"

// Runner drives TestCases against a live endpoint.
type Runner struct {
	Executor    *execution.Executor
	ResourceMgr *resources.Manager
	Log         *logrus.Logger

	// ByName resolves a FollowupPrerequisiteName to its TestCase,
	// populated by the catalog loader from the full parsed set.
	ByName map[string]model.TestCase

	// Capabilities holds the server capability flags this run has
	// discovered so far (via a prior capabilities-probe request),
	// gating TestCase.PreconditionCapability.
	Capabilities map[string]bool
}

// RunID identifies one invocation of the validator for correlation
// across log lines and the optional Excel report.
type RunID = string

// RunCase executes a single top-level TestCase and reduces its outcome.
// groupName is stamped onto the result for per-group reporting (C8);
// it plays no role in execution semantics.
func (r *Runner) RunCase(ctx context.Context, tc model.TestCase, groupName string, runID RunID, seed map[string]string) model.CaseResult {
	return r.runCase(ctx, tc, groupName, runID, seed, 0)
}

// RunAll executes every case in the given order, using a plain
// sequential loop rather than fanning cases out concurrently.
func (r *Runner) RunAll(ctx context.Context, entries []Entry, runID RunID, seed map[string]string) []model.CaseResult {
	results := make([]model.CaseResult, 0, len(entries))
	for _, e := range entries {
		results = append(results, r.RunCase(ctx, e.TestCase, e.GroupName, runID, seed))
	}
	return results
}

// Entry pairs a parsed TestCase with the group it was declared under,
// mirroring the "TestExecutionData (case + group name +
// category)" filter input.
type Entry struct {
	TestCase  model.TestCase
	GroupName string
}

func (r *Runner) runCase(ctx context.Context, tc model.TestCase, groupName string, runID RunID, seed map[string]string, depth int) model.CaseResult {
	started := time.Now()
	result := model.CaseResult{
		RunID:     runID,
		CaseName:  tc.Name,
		GroupName: groupName,
		Category:  tc.Category,
		Started:   started,
	}

	if tc.PreconditionCapability != "" && !r.Capabilities[tc.PreconditionCapability] {
		result.Status = model.StatusSkipped
		result.FinalFailMessage = fmt.Sprintf("required capability %q not advertised by endpoint", tc.PreconditionCapability)
		result.Completed = time.Now()
		return result
	}

	state := model.NewStateMap(seed)

	if tc.UploadDocumentOnSetup {
		if err := r.setup(ctx, tc, state); err != nil {
			result.Status = model.StatusFail
			result.FinalFailMessage = err.Error()
			result.Completed = time.Now()
			return result
		}
	}

	skipped, skipReason, outcomes := r.runRequests(ctx, tc, groupName, runID, state, depth)
	result.RequestOutcomes = outcomes

	shouldCleanup := tc.DeleteDocumentOnTearDown || anyAlwaysRunCleanup(tc.Requests)
	if shouldCleanup {
		cleanupOutcomes := r.runCleanup(ctx, tc, state)
		result.RequestOutcomes = append(result.RequestOutcomes, cleanupOutcomes...)
	}

	result.Completed = time.Now()
	result.Status, result.FinalFailMessage = reduce(skipped, skipReason, outcomes, tc.FailMessage)
	return result
}

// setup performs the built-in PutFile operation: upload
// the case's resource bytes to the file under test and seed state with
// {FileExtension, BaseFileName}. The file id itself is expected
// to already be bound in state (typically from run configuration), so
// setup only supplies its content and derived metadata.
func (r *Runner) setup(ctx context.Context, tc model.TestCase, state *model.StateMap) error {
	res, err := r.ResourceMgr.GetResource(tc.ResourceID)
	if err != nil {
		return fmt.Errorf("testcase: setup: %w", err)
	}

	state.Set("FileExtension", resources.FileExtension(res.Filename))
	state.Set("BaseFileName", res.Filename)

	putFile := model.Request{
		Name:        "PutFile(setup)",
		Method:      "POST",
		URLTemplate: "{WopiEndpoint}/files/{File}/contents",
		HeaderTemplates: []model.HeaderTemplate{
			{Name: putFileHeaderName, Template: "PUT"},
		},
		BodyTemplate:   string(res.Bytes),
		BodyIsText:     false,
		WantStatusCode: 200,
		Validators: []model.ValidatorSpec{
			{Kind: model.KindResponseCode, WantStatusCode: 200},
		},
	}

	outcome := r.Executor.Execute(ctx, putFile, state, tc.Category)
	if !outcome.Passed() {
		return fmt.Errorf("testcase: setup PutFile failed: %v", outcome.ValidationFailures)
	}
	return nil
}

// runRequests iterates the case's standard requests in order, recursing
// once into any declared prerequisite (single level: a prerequisite
// case that itself declares a followup is not chased further).
func (r *Runner) runRequests(ctx context.Context, tc model.TestCase, groupName string, runID RunID, state *model.StateMap, depth int) (skipped bool, skipReason string, outcomes []model.RequestOutcome) {
	for _, req := range tc.Requests {
		outcome := r.Executor.Execute(ctx, req, state, tc.Category)
		outcomes = append(outcomes, outcome)

		if req.FollowupPrerequisiteName == "" {
			continue
		}
		if depth > 0 {
			r.Log.WithField("case", tc.Name).Warn("nested prerequisite declared below the first level; ignoring")
			continue
		}

		prereq, ok := r.ByName[req.FollowupPrerequisiteName]
		if !ok {
			return true, fmt.Sprintf("unknown prerequisite case %q", req.FollowupPrerequisiteName), outcomes
		}

		prereqResult := r.runCase(ctx, prereq, groupName, runID, state.Snapshot(), depth+1)
		if prereqResult.Status != model.StatusPass {
			return true, fmt.Sprintf("prerequisite %q did not pass: %s", prereq.Name, prereqResult.FinalFailMessage), outcomes
		}
	}
	return false, "", outcomes
}

func (r *Runner) runCleanup(ctx context.Context, tc model.TestCase, state *model.StateMap) []model.RequestOutcome {
	outcomes := make([]model.RequestOutcome, 0, len(tc.CleanupRequests))
	for _, req := range tc.CleanupRequests {
		outcomes = append(outcomes, r.Executor.Execute(ctx, req, state, tc.Category))
	}
	return outcomes
}

func anyAlwaysRunCleanup(requests []model.Request) bool {
	for _, req := range requests {
		if req.AlwaysRunCleanup {
			return true
		}
	}
	return false
}

// reduce implements the Report step: Pass iff every standard
// request's validators all passed, Skipped if a declared prerequisite
// was unmet, Fail otherwise. An unmet capability precondition is
// reported Skipped by runCase before reduce is reached.
func reduce(skipped bool, skipReason string, outcomes []model.RequestOutcome, failMessageOverride string) (model.CaseStatus, string) {
	if skipped {
		return model.StatusSkipped, skipReason
	}

	for _, o := range outcomes {
		if !o.Passed() {
			if failMessageOverride != "" {
				return model.StatusFail, failMessageOverride
			}
			return model.StatusFail, fmt.Sprintf("%s: %v", o.RequestName, o.ValidationFailures)
		}
	}

	return model.StatusPass, ""
}
