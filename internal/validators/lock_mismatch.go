// SPDX-FileCopyrightText: 2026 Greenbone AG
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package validators

import (
	"fmt"

	"github.com/ozgen/wopi-validator/internal/model"
	"github.com/ozgen/wopi-validator/internal/resources"
)

// LockMismatchValidator is specialized for lock-conflict responses: it
// verifies X-WOPI-Lock equals either a literal or a saved state value,
// and tolerates a missing header when IsRequired is false. StateKey
// takes precedence when both LiteralValue and StateKey are set and the
// state key is bound, matching resolveExpectedLiteral's "saved state
// wins over literal" precedence used for JSON property validators.
type LockMismatchValidator struct {
	LiteralValue string
	StateKey     string
	IsRequired   bool
}

const lockHeaderName = "X-WOPI-Lock"

func (v *LockMismatchValidator) Validate(resp *model.ResponseCapture, _ *resources.Manager, state *model.StateMap) model.ValidationResult {
	value, present := resp.HeaderValue(lockHeaderName)

	if !present {
		if v.IsRequired {
			return model.Fail(fmt.Sprintf("Expected header %q to be present", lockHeaderName))
		}
		return model.Pass()
	}

	expected, err := v.expectedValue(state)
	if err != nil {
		return model.Fail(err.Error())
	}

	if value != expected {
		return model.Fail(fmt.Sprintf("Expected %q to equal %q, got %q", lockHeaderName, expected, value))
	}
	return model.Pass()
}

func (v *LockMismatchValidator) expectedValue(state *model.StateMap) (string, error) {
	if v.StateKey != "" {
		if saved, ok := state.Get(v.StateKey); ok {
			return saved, nil
		}
	}
	if v.LiteralValue != "" {
		return v.LiteralValue, nil
	}
	return "", fmt.Errorf("LockMismatchValidator: neither a bound StateKey nor LiteralValue is set")
}
