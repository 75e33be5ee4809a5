// SPDX-FileCopyrightText: 2026 Greenbone AG
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package validators

import (
	"fmt"
	"net/url"

	"github.com/ozgen/wopi-validator/internal/model"
	"github.com/ozgen/wopi-validator/internal/resources"
)

// ResponseHeaderValidator asserts one of several header conditions,
// Header lookup is case-insensitive.
type ResponseHeaderValidator struct {
	HeaderName             string
	Assertion              model.HeaderAssertion
	LiteralValue           string
	StateKey               string
	MustIncludeAccessToken bool
}

func (v *ResponseHeaderValidator) Validate(resp *model.ResponseCapture, _ *resources.Manager, state *model.StateMap) model.ValidationResult {
	value, present := resp.HeaderValue(v.HeaderName)

	switch v.Assertion {
	case model.HeaderAbsent:
		if present {
			return model.Fail(fmt.Sprintf("Expected header %q to be absent, got %q", v.HeaderName, value))
		}
		return model.Pass()

	case model.HeaderPresent:
		if !present {
			return model.Fail(fmt.Sprintf("Expected header %q to be present", v.HeaderName))
		}
		return model.Pass()

	case model.HeaderEqualsLiteral:
		if !present {
			return model.Fail(fmt.Sprintf("Expected header %q to equal %q, but header was absent", v.HeaderName, v.LiteralValue))
		}
		if value != v.LiteralValue {
			return model.Fail(fmt.Sprintf("Expected header %q to equal %q, got %q", v.HeaderName, v.LiteralValue, value))
		}
		return model.Pass()

	case model.HeaderEqualsState:
		expected, ok := state.Get(v.StateKey)
		if !ok {
			return model.Fail(fmt.Sprintf("Expected state key %q to be bound for header %q comparison", v.StateKey, v.HeaderName))
		}
		if !present {
			return model.Fail(fmt.Sprintf("Expected header %q to equal saved value %q, but header was absent", v.HeaderName, expected))
		}
		if value != expected {
			return model.Fail(fmt.Sprintf("Expected header %q to equal saved value %q, got %q", v.HeaderName, expected, value))
		}
		return model.Pass()

	case model.HeaderIsAbsoluteURL:
		if !present {
			return model.Fail(fmt.Sprintf("Expected header %q to be an absolute URL, but header was absent", v.HeaderName))
		}
		return validateAbsoluteURL(v.HeaderName, value, v.MustIncludeAccessToken)

	default:
		return model.Fail(fmt.Sprintf("ResponseHeaderValidator: unknown assertion %q", v.Assertion))
	}
}

// validateAbsoluteURL parses value as an absolute URL and, when
// mustIncludeAccessToken is set, fails iff the access_token query
// parameter is absent.
func validateAbsoluteURL(label, value string, mustIncludeAccessToken bool) model.ValidationResult {
	u, err := url.Parse(value)
	if err != nil || !u.IsAbs() {
		return model.Fail(fmt.Sprintf("Expected %q to be an absolute URL, got %q", label, value))
	}

	if mustIncludeAccessToken {
		if u.Query().Get("access_token") == "" {
			return model.Fail(fmt.Sprintf("Expected %q URL to include an access_token query parameter, got %q", label, value))
		}
	}

	return model.Pass()
}
