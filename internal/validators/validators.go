// SPDX-FileCopyrightText: 2026 Greenbone AG
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package validators implements the Validator Set (C4): pluggable,
// side-effect-free predicates over a captured response. Grounded on the
// teacher's internal/openapi interface-per-collaborator convention
// (IXxx interface, concrete struct implementing it, testify/mock in
// tests) generalized from "does this request need a body" checks to
// full response conformance checks.
package validators

import (
	"github.com/ozgen/wopi-validator/internal/model"
	"github.com/ozgen/wopi-validator/internal/resources"
)

// IValidator is the shared contract every concrete validator satisfies.
type IValidator interface {
	Validate(resp *model.ResponseCapture, resourceMgr *resources.Manager, state *model.StateMap) model.ValidationResult
}

// Build turns a declarative ValidatorSpec into a runnable IValidator.
func Build(spec model.ValidatorSpec) IValidator {
	switch spec.Kind {
	case model.KindResponseCode:
		return &ResponseCodeValidator{WantStatusCode: spec.WantStatusCode}
	case model.KindResponseContent:
		return &ResponseContentValidator{
			ExpectedResourceID: spec.ExpectedResourceID,
			ExpectedStateKey:   spec.ExpectedStateKey,
		}
	case model.KindResponseHeader:
		return &ResponseHeaderValidator{
			HeaderName:             spec.HeaderName,
			Assertion:              spec.Assertion,
			LiteralValue:           spec.LiteralValue,
			StateKey:               spec.StateKey,
			MustIncludeAccessToken: spec.MustIncludeAccessToken,
		}
	case model.KindLockMismatch:
		return &LockMismatchValidator{
			LiteralValue: spec.LiteralValue,
			StateKey:     spec.StateKey,
			IsRequired:   spec.IsRequired,
		}
	case model.KindJSONContent:
		return &JSONContentValidator{Properties: spec.PropertyValidators}
	default:
		return unknownKindValidator{kind: string(spec.Kind)}
	}
}

// BuildAll turns a slice of specs into runnable validators, preserving
// declaration order.
func BuildAll(specs []model.ValidatorSpec) []IValidator {
	out := make([]IValidator, 0, len(specs))
	for _, s := range specs {
		out = append(out, Build(s))
	}
	return out
}

// RunAll runs every validator and aggregates their failures without
// short-circuiting.
func RunAll(vs []IValidator, resp *model.ResponseCapture, resourceMgr *resources.Manager, state *model.StateMap) model.ValidationResult {
	results := make([]model.ValidationResult, 0, len(vs))
	for _, v := range vs {
		results = append(results, v.Validate(resp, resourceMgr, state))
	}
	return model.Merge(results...)
}

type unknownKindValidator struct{ kind string }

func (u unknownKindValidator) Validate(*model.ResponseCapture, *resources.Manager, *model.StateMap) model.ValidationResult {
	return model.Fail("unknown validator kind: " + u.kind)
}
