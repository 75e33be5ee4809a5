// SPDX-FileCopyrightText: 2026 Greenbone AG
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package validators

import (
	"bytes"
	"fmt"

	"github.com/google/go-cmp/cmp"

	"github.com/ozgen/wopi-validator/internal/model"
	"github.com/ozgen/wopi-validator/internal/resources"
)

// ResponseContentValidator verifies the response body bytes equal
// either a named fixture resource's bytes, or a named state-map value
//. On mismatch it renders a diff via google/go-cmp,
// grounded on the pack's use of go-cmp for structural diagnostics
// (dpopsuev-asterisk, giantswarm-muster) rather than a bare byte dump.
type ResponseContentValidator struct {
	ExpectedResourceID string
	ExpectedStateKey   string
}

func (v *ResponseContentValidator) Validate(resp *model.ResponseCapture, resourceMgr *resources.Manager, state *model.StateMap) model.ValidationResult {
	expected, source, err := v.resolveExpected(resourceMgr, state)
	if err != nil {
		return model.Fail(err.Error())
	}

	if bytes.Equal(expected, resp.BodyBytes) {
		return model.Pass()
	}

	return model.Fail(fmt.Sprintf(
		"Response body did not match %s:\n%s",
		source,
		diffText(expected, resp.BodyBytes),
	))
}

func (v *ResponseContentValidator) resolveExpected(resourceMgr *resources.Manager, state *model.StateMap) ([]byte, string, error) {
	if v.ExpectedResourceID != "" {
		b, err := resourceMgr.GetFileContents(v.ExpectedResourceID)
		if err != nil {
			return nil, "", fmt.Errorf("ResponseContentValidator: %w", err)
		}
		return b, fmt.Sprintf("resource %q", v.ExpectedResourceID), nil
	}
	if v.ExpectedStateKey != "" {
		s, ok := state.Get(v.ExpectedStateKey)
		if !ok {
			return nil, "", fmt.Errorf("ResponseContentValidator: unbound state key %q", v.ExpectedStateKey)
		}
		return []byte(s), fmt.Sprintf("state key %q", v.ExpectedStateKey), nil
	}
	return nil, "", fmt.Errorf("ResponseContentValidator: neither ExpectedResourceID nor ExpectedStateKey set")
}

// diffText renders expected/actual as text when neither contains a
// control byte other than tab, CR or LF (the common case for WOPI
// JSON/text bodies); otherwise it falls back to a byte-length summary
// since cmp.Diff on raw binary produces unreadable noise.
func diffText(expected, actual []byte) string {
	if isPrintableText(expected) && isPrintableText(actual) {
		return cmp.Diff(string(expected), string(actual))
	}
	return fmt.Sprintf("expected %d bytes, got %d bytes (binary content)", len(expected), len(actual))
}

func isPrintableText(b []byte) bool {
	for _, r := range b {
		if r == '\n' || r == '\r' || r == '\t' {
			continue
		}
		if r < 0x20 || r == 0x7f {
			return false
		}
	}
	return true
}
