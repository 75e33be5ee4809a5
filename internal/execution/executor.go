// SPDX-FileCopyrightText: 2026 Greenbone AG
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package execution implements the Request executor (C5): expands
// templates, synthesizes headers (including proof-key signatures),
// issues the HTTP exchange, captures the response, runs validators,
// and runs state savers.
//
// Grounded on internal/server/server.go's per-request pipeline shape
// (config -> resolve -> validate -> respond), inverted here from
// server-side response synthesis to client-side request
// execution.
package execution

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ozgen/wopi-validator/internal/model"
	"github.com/ozgen/wopi-validator/internal/proofkey"
	"github.com/ozgen/wopi-validator/internal/resources"
	"github.com/ozgen/wopi-validator/internal/substitution"
	"github.com/ozgen/wopi-validator/internal/validators"
)

// Ticks-since-year-1 epoch offset to Unix epoch, in 100ns ticks
// (.NET's DateTime.Ticks convention, which is what WOPI's
// X-WOPI-TimeStamp header uses). 621355968000000000 is the number of
// ticks between 0001-01-01 and 1970-01-01.
const ticksAtUnixEpoch = 621355968000000000

// Client is the HTTP collaborator the executor drives. It is
// deliberately the narrowest interface that satisfies *http.Client, so
// tests can substitute a fake RoundTripper without a real socket.
type Client interface {
	Do(req *http.Request) (*http.Response, error)
}

// Executor runs a single Request against a live WOPI endpoint.
type Executor struct {
	HTTPClient        Client
	Signer            *proofkey.Signer
	ResourceMgr       *resources.Manager
	Log               *logrus.Logger
	OfficeNativeAgent string
	DefaultUserAgent  string
}

// Execute runs one Request end to end and returns its outcome. It
// never returns an error for a failed validation or a transport
// failure — those become part of the outcome's ValidationFailures, so
// that subsequent requests in the case still run.
func (e *Executor) Execute(ctx context.Context, req model.Request, state *model.StateMap, category model.Category) model.RequestOutcome {
	start := time.Now()

	expandedURL, urlErr := e.expandURL(req, state)
	if urlErr != nil {
		return e.transportFailureOutcome(req, start, urlErr.Error(), state)
	}

	body := e.expandBody(req, state)

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, expandedURL, bytes.NewReader(body))
	if err != nil {
		return e.transportFailureOutcome(req, start, fmt.Sprintf("Transport error: %s", err.Error()), state)
	}

	e.applyHeaders(httpReq, req, state)
	e.applyUserAgent(httpReq, req, category)

	if req.RequiresProofKey {
		if err := e.attachProofKey(httpReq, state, expandedURL); err != nil {
			e.Log.WithError(err).Warn("failed to attach proof key")
		}
	}

	resp, err := e.HTTPClient.Do(httpReq)
	if err != nil {
		return e.transportFailureOutcome(req, start, fmt.Sprintf("Transport error: %s", err.Error()), state)
	}
	defer resp.Body.Close()

	capture, err := captureResponse(resp, start)
	if err != nil {
		return e.transportFailureOutcome(req, start, fmt.Sprintf("Transport error: %s", err.Error()), state)
	}

	vs := validators.BuildAll(req.Validators)
	result := validators.RunAll(vs, capture, e.ResourceMgr, state)

	runStateSavers(req.StateSavers, capture, state)

	return model.RequestOutcome{
		RequestName:        req.Name,
		StatusCode:         capture.StatusCode,
		Elapsed:            capture.Elapsed,
		ValidationFailures: result.Failures,
		StateAfter:         state.Snapshot(),
	}
}

func (e *Executor) expandURL(req model.Request, state *model.StateMap) (string, error) {
	expanded, err := substitution.Expand(req.URLTemplate, state)
	if err != nil {
		return substitution.ExpandBestEffort(req.URLTemplate, state), fmt.Errorf("UnboundVariableError: %w", err)
	}
	return appendAccessTokenQueryParam(expanded, state), nil
}

// appendAccessTokenQueryParam appends access_token=<AccessToken> to the
// URL's query string when the caller hasn't already added it.
func appendAccessTokenQueryParam(rawURL string, state *model.StateMap) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	if q.Get("access_token") != "" {
		return rawURL
	}
	token, ok := state.Get("AccessToken")
	if !ok || token == "" {
		return rawURL
	}
	q.Set("access_token", token)
	u.RawQuery = q.Encode()
	return u.String()
}

func (e *Executor) expandBody(req model.Request, state *model.StateMap) []byte {
	if req.BodyTemplate == "" {
		return nil
	}
	if !req.BodyIsText {
		return []byte(req.BodyTemplate)
	}
	expanded, err := substitution.Expand(req.BodyTemplate, state)
	if err != nil {
		expanded = substitution.ExpandBestEffort(req.BodyTemplate, state)
	}
	return []byte(expanded)
}

func (e *Executor) applyHeaders(httpReq *http.Request, req model.Request, state *model.StateMap) {
	for _, h := range req.HeaderTemplates {
		value, err := substitution.Expand(h.Template, state)
		if err != nil {
			value = substitution.ExpandBestEffort(h.Template, state)
		}
		httpReq.Header.Set(h.Name, value)
	}

	if token, ok := state.Get("AccessToken"); ok && httpReq.Header.Get("Authorization") == "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
}

func (e *Executor) applyUserAgent(httpReq *http.Request, req model.Request, category model.Category) {
	switch {
	case req.UserAgentOverride != "":
		httpReq.Header.Set("User-Agent", req.UserAgentOverride)
	case category == model.OfficeNativeClient && e.OfficeNativeAgent != "":
		httpReq.Header.Set("User-Agent", e.OfficeNativeAgent)
	case e.DefaultUserAgent != "":
		httpReq.Header.Set("User-Agent", e.DefaultUserAgent)
	}
}

// previousAccessTokenURLKey is the state key a rotation-test case
// populates (typically via a SaveState state saver on an earlier
// request) with the access-token URL signed under a key that has
// since rotated out. When bound, attachProofKey signs it too so the
// case can assert a host still accepts the previous key's signature.
const previousAccessTokenURLKey = "PreviousAccessTokenUrl"

// attachProofKey synthesizes X-WOPI-TimeStamp and the two proof-key
// signatures (current and previous key, per the wire contract's
// X-WOPI-Proof/X-WOPI-ProofOld pair), plus a rotation signature against
// the previous access-token URL when one is held in state.
func (e *Executor) attachProofKey(httpReq *http.Request, state *model.StateMap, effectiveURL string) error {
	if e.Signer == nil {
		return fmt.Errorf("execution: proof key requested but no signer configured")
	}

	token, ok := state.Get("AccessToken")
	if !ok {
		return fmt.Errorf("execution: proof key requested but AccessToken is unbound")
	}

	ticks := timeToWopiTicks(time.Now().UTC())
	httpReq.Header.Set("X-WOPI-TimeStamp", strconv.FormatInt(ticks, 10))

	sig, err := e.Signer.Sign(token, effectiveURL, ticks)
	if err != nil {
		return fmt.Errorf("execution: sign proof key: %w", err)
	}
	httpReq.Header.Set("X-WOPI-Proof", sig)

	sigOld, err := e.Signer.SignOld(token, effectiveURL, ticks)
	if err != nil {
		return fmt.Errorf("execution: sign old proof key: %w", err)
	}
	httpReq.Header.Set("X-WOPI-ProofOld", sigOld)

	if prevURL, ok := state.Get(previousAccessTokenURLKey); ok && prevURL != "" {
		sigPrev, err := e.Signer.Sign(token, prevURL, ticks)
		if err != nil {
			return fmt.Errorf("execution: sign proof key for previous access-token url: %w", err)
		}
		httpReq.Header.Set("X-WOPI-ProofOldRotation", sigPrev)
	}

	return nil
}

func timeToWopiTicks(t time.Time) int64 {
	unixTicks := t.UnixNano() / 100
	return unixTicks + ticksAtUnixEpoch
}

func captureResponse(resp *http.Response, start time.Time) (*model.ResponseCapture, error) {
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	headers := make(map[string][]string, len(resp.Header))
	for k, v := range resp.Header {
		headers[k] = v
	}

	capture := &model.ResponseCapture{
		StatusCode: resp.StatusCode,
		StatusText: resp.Status,
		Headers:    headers,
		BodyBytes:  bodyBytes,
		Elapsed:    time.Since(start),
	}

	if text, ok := asUTF8Text(bodyBytes); ok {
		capture.BodyText = text
		capture.HasText = true
	}

	return capture, nil
}

func asUTF8Text(b []byte) (string, bool) {
	if len(b) == 0 {
		return "", false
	}
	for i := 0; i < len(b); {
		r := b[i]
		switch {
		case r < 0x80:
			i++
		case r&0xE0 == 0xC0:
			i += 2
		case r&0xF0 == 0xE0:
			i += 3
		case r&0xF8 == 0xF0:
			i += 4
		default:
			return "", false
		}
		if i > len(b) {
			return "", false
		}
	}
	return string(b), true
}

func (e *Executor) transportFailureOutcome(req model.Request, start time.Time, message string, state *model.StateMap) model.RequestOutcome {
	return model.RequestOutcome{
		RequestName:        req.Name,
		StatusCode:         0,
		Elapsed:            time.Since(start),
		ValidationFailures: []string{message},
		StateAfter:         state.Snapshot(),
	}
}
