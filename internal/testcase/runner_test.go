// SPDX-FileCopyrightText: 2026 Greenbone AG
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package testcase

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/ozgen/wopi-validator/internal/execution"
	"github.com/ozgen/wopi-validator/internal/model"
	"github.com/ozgen/wopi-validator/internal/proofkey"
	"github.com/ozgen/wopi-validator/internal/resources"
)

type scriptedTransport struct {
	responses []*http.Response
	i         int
}

func (s *scriptedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp := s.responses[s.i]
	if s.i < len(s.responses)-1 {
		s.i++
	}
	return resp, nil
}

func resp(status int) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     make(http.Header),
		Body:       io.NopCloser(strings.NewReader(`{}`)),
	}
}

func newRunner(rt http.RoundTripper) *Runner {
	keys, _ := proofkey.GenerateKeyPair()
	exec := &execution.Executor{
		HTTPClient:  &http.Client{Transport: rt},
		Signer:      proofkey.NewSigner(keys),
		ResourceMgr: resources.NewManager("../../testdata/resources", map[string]string{"doc1": "sample.docx"}),
		Log:         logrus.New(),
	}
	return &Runner{
		Executor:     exec,
		ResourceMgr:  exec.ResourceMgr,
		Log:          logrus.New(),
		ByName:       map[string]model.TestCase{},
		Capabilities: map[string]bool{},
	}
}

func seedState() map[string]string {
	return map[string]string{
		"WopiEndpoint": "https://wopi.example.com",
		"File":         "abc",
		"AccessToken":  "tok",
	}
}

func TestRunCase_AllRequestsPass_ReportsPass(t *testing.T) {
	r := newRunner(&scriptedTransport{responses: []*http.Response{resp(200), resp(200)}})
	tc := model.TestCase{
		Name:       "CheckFileInfo.Basic",
		Category:   model.WopiCore,
		ResourceID: "doc1",
		Requests: []model.Request{
			{Name: "Req1", Method: http.MethodGet, URLTemplate: "{WopiEndpoint}/files/{File}",
				Validators: []model.ValidatorSpec{{Kind: model.KindResponseCode, WantStatusCode: 200}}},
			{Name: "Req2", Method: http.MethodGet, URLTemplate: "{WopiEndpoint}/files/{File}",
				Validators: []model.ValidatorSpec{{Kind: model.KindResponseCode, WantStatusCode: 200}}},
		},
	}

	result := r.RunCase(context.Background(), tc, "Locks", "run-1", seedState())
	require.Equal(t, model.StatusPass, result.Status)
	require.Equal(t, "Locks", result.GroupName)
	require.Len(t, result.RequestOutcomes, 2)
}

func TestRunCase_ValidationFailure_ReportsFail(t *testing.T) {
	r := newRunner(&scriptedTransport{responses: []*http.Response{resp(404)}})
	tc := model.TestCase{
		Name:       "CheckFileInfo.Basic",
		Category:   model.WopiCore,
		ResourceID: "doc1",
		Requests: []model.Request{
			{Name: "Req1", Method: http.MethodGet, URLTemplate: "{WopiEndpoint}/files/{File}",
				Validators: []model.ValidatorSpec{{Kind: model.KindResponseCode, WantStatusCode: 200}}},
		},
	}

	result := r.RunCase(context.Background(), tc, "Locks", "run-1", seedState())
	require.Equal(t, model.StatusFail, result.Status)
	require.NotEmpty(t, result.FinalFailMessage)
}

func TestRunCase_MissingCapability_ReportsSkippedWithoutHTTPCalls(t *testing.T) {
	// Two scripted responses so that any HTTP call would advance transport.i.
	transport := &scriptedTransport{responses: []*http.Response{resp(200), resp(200)}}
	r := newRunner(transport)
	tc := model.TestCase{
		Name:                    "Locks.RefreshLock",
		Category:                model.WopiCore,
		ResourceID:              "doc1",
		PreconditionCapability:  "SupportsLocks",
		Requests: []model.Request{
			{Name: "Req1", Method: http.MethodPost, URLTemplate: "{WopiEndpoint}/files/{File}"},
		},
	}

	result := r.RunCase(context.Background(), tc, "Locks", "run-1", seedState())
	require.Equal(t, model.StatusSkipped, result.Status)
	require.Empty(t, result.RequestOutcomes)
	require.Equal(t, 0, transport.i)
}

func TestRunCase_CapabilityPresent_RunsNormally(t *testing.T) {
	r := newRunner(&scriptedTransport{responses: []*http.Response{resp(200)}})
	r.Capabilities["SupportsLocks"] = true
	tc := model.TestCase{
		Name:                   "Locks.RefreshLock",
		Category:               model.WopiCore,
		ResourceID:             "doc1",
		PreconditionCapability: "SupportsLocks",
		Requests: []model.Request{
			{Name: "Req1", Method: http.MethodPost, URLTemplate: "{WopiEndpoint}/files/{File}",
				Validators: []model.ValidatorSpec{{Kind: model.KindResponseCode, WantStatusCode: 200}}},
		},
	}

	result := r.RunCase(context.Background(), tc, "Locks", "run-1", seedState())
	require.Equal(t, model.StatusPass, result.Status)
}

func TestRunCase_CleanupAlwaysRunsAfterFailure(t *testing.T) {
	r := newRunner(&scriptedTransport{responses: []*http.Response{resp(500), resp(200)}})
	tc := model.TestCase{
		Name:                     "Locks.Lock",
		Category:                 model.WopiCore,
		ResourceID:               "doc1",
		DeleteDocumentOnTearDown: true,
		Requests: []model.Request{
			{Name: "Req1", Method: http.MethodPost, URLTemplate: "{WopiEndpoint}/files/{File}",
				Validators: []model.ValidatorSpec{{Kind: model.KindResponseCode, WantStatusCode: 200}}},
		},
		CleanupRequests: []model.Request{
			{Name: "Unlock", Method: http.MethodPost, URLTemplate: "{WopiEndpoint}/files/{File}",
				Validators: []model.ValidatorSpec{{Kind: model.KindResponseCode, WantStatusCode: 200}}},
		},
	}

	result := r.RunCase(context.Background(), tc, "Locks", "run-1", seedState())
	require.Equal(t, model.StatusFail, result.Status)
	require.Len(t, result.RequestOutcomes, 2)
	require.True(t, result.RequestOutcomes[1].Passed())
}

func TestRunCase_PrerequisiteFails_ReportsSkipped(t *testing.T) {
	r := newRunner(&scriptedTransport{responses: []*http.Response{resp(200), resp(404)}})
	r.ByName["Lock.Setup"] = model.TestCase{
		Name:       "Lock.Setup",
		Category:   model.WopiCore,
		ResourceID: "doc1",
		Requests: []model.Request{
			{Name: "Lock", Method: http.MethodPost, URLTemplate: "{WopiEndpoint}/files/{File}",
				Validators: []model.ValidatorSpec{{Kind: model.KindResponseCode, WantStatusCode: 200}}},
		},
	}

	tc := model.TestCase{
		Name:       "Locks.RefreshLock",
		Category:   model.WopiCore,
		ResourceID: "doc1",
		Requests: []model.Request{
			{Name: "Req1", Method: http.MethodGet, URLTemplate: "{WopiEndpoint}/files/{File}",
				FollowupPrerequisiteName: "Lock.Setup"},
		},
	}

	result := r.RunCase(context.Background(), tc, "Locks", "run-1", seedState())
	require.Equal(t, model.StatusSkipped, result.Status)
	require.Contains(t, result.FinalFailMessage, "Lock.Setup")
}

func TestRunCase_PrerequisitePasses_RunsToCompletion(t *testing.T) {
	r := newRunner(&scriptedTransport{responses: []*http.Response{resp(200), resp(200)}})
	r.ByName["Lock.Setup"] = model.TestCase{
		Name:       "Lock.Setup",
		Category:   model.WopiCore,
		ResourceID: "doc1",
		Requests: []model.Request{
			{Name: "Lock", Method: http.MethodPost, URLTemplate: "{WopiEndpoint}/files/{File}",
				Validators: []model.ValidatorSpec{{Kind: model.KindResponseCode, WantStatusCode: 200}}},
		},
	}

	tc := model.TestCase{
		Name:       "Locks.RefreshLock",
		Category:   model.WopiCore,
		ResourceID: "doc1",
		Requests: []model.Request{
			{Name: "Req1", Method: http.MethodGet, URLTemplate: "{WopiEndpoint}/files/{File}",
				FollowupPrerequisiteName: "Lock.Setup",
				Validators:               []model.ValidatorSpec{{Kind: model.KindResponseCode, WantStatusCode: 200}}},
		},
	}

	result := r.RunCase(context.Background(), tc, "Locks", "run-1", seedState())
	require.Equal(t, model.StatusPass, result.Status)
}

func TestRunCase_UploadDocumentOnSetup_SeedsFileMetadata(t *testing.T) {
	r := newRunner(&scriptedTransport{responses: []*http.Response{resp(200), resp(200)}})
	tc := model.TestCase{
		Name:                  "PutRelativeFile.SuggestedTarget",
		Category:              model.WopiCore,
		ResourceID:            "doc1",
		UploadDocumentOnSetup: true,
		Requests: []model.Request{
			{Name: "Req1", Method: http.MethodPost, URLTemplate: "{WopiEndpoint}/files/{File}",
				Validators: []model.ValidatorSpec{{Kind: model.KindResponseCode, WantStatusCode: 200}}},
		},
	}

	result := r.RunCase(context.Background(), tc, "PutRelativeFile", "run-1", seedState())
	require.Equal(t, model.StatusPass, result.Status)
	require.Equal(t, "docx", result.RequestOutcomes[0].StateAfter["FileExtension"])
	require.Equal(t, "sample.docx", result.RequestOutcomes[0].StateAfter["BaseFileName"])
}

func TestRunAll_PreservesCatalogOrder(t *testing.T) {
	r := newRunner(&scriptedTransport{responses: []*http.Response{resp(200), resp(200)}})
	entries := []Entry{
		{GroupName: "A", TestCase: model.TestCase{Name: "A.1", Category: model.WopiCore, ResourceID: "doc1", Requests: []model.Request{
			{Name: "R", Method: http.MethodGet, URLTemplate: "{WopiEndpoint}/x", Validators: []model.ValidatorSpec{{Kind: model.KindResponseCode, WantStatusCode: 200}}},
		}}},
		{GroupName: "B", TestCase: model.TestCase{Name: "B.1", Category: model.WopiCore, ResourceID: "doc1", Requests: []model.Request{
			{Name: "R", Method: http.MethodGet, URLTemplate: "{WopiEndpoint}/x", Validators: []model.ValidatorSpec{{Kind: model.KindResponseCode, WantStatusCode: 200}}},
		}}},
	}

	results := r.RunAll(context.Background(), entries, "run-1", seedState())
	require.Len(t, results, 2)
	require.Equal(t, "A.1", results[0].CaseName)
	require.Equal(t, "B.1", results[1].CaseName)
}
