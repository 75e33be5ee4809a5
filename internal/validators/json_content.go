// SPDX-FileCopyrightText: 2026 Greenbone AG
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package validators

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/ozgen/wopi-validator/internal/model"
	"github.com/ozgen/wopi-validator/internal/resources"
)

// JSONContentValidator parses the body as a JSON object and applies a
// sequence of property validators to JSON-path-selected tokens,
// aggregating every offender's failure into one ValidationResult in
// declaration order.
type JSONContentValidator struct {
	Properties []model.PropertyValidatorSpec
}

func (v *JSONContentValidator) Validate(resp *model.ResponseCapture, _ *resources.Manager, state *model.StateMap) model.ValidationResult {
	var doc any
	if err := json.Unmarshal(resp.BodyBytes, &doc); err != nil {
		return model.Fail(fmt.Sprintf("JsonContentValidator: %s", err.Error()))
	}

	var results []model.ValidationResult
	for _, p := range v.Properties {
		results = append(results, validateProperty(doc, state, p))
	}
	return model.Merge(results...)
}

func validateProperty(doc any, state *model.StateMap, p model.PropertyValidatorSpec) model.ValidationResult {
	token, present := selectJSONPath(doc, p.Path)
	isEmpty := !present || isEmptyToken(token)

	if isEmpty {
		if p.IsRequired {
			return model.Fail("Required property missing")
		}
		return model.Pass()
	}

	switch p.Kind {
	case model.PropString, model.PropInteger, model.PropLong, model.PropBoolean:
		return validateEquality(state, p, token)
	case model.PropEndsWith:
		return validateEndsWith(p, token)
	case model.PropRegex:
		return validateRegex(p, token)
	case model.PropAbsoluteURL:
		return validateAbsoluteURLToken(p, token)
	case model.PropArrayContains:
		return validateArrayContains(p, token)
	case model.PropArrayLength:
		return validateArrayLength(p, token)
	default:
		return model.Fail(fmt.Sprintf("JsonContentValidator: unknown property kind %q", p.Kind))
	}
}

func isEmptyToken(token any) bool {
	switch t := token.(type) {
	case nil:
		return true
	case string:
		return t == ""
	}
	return false
}

// resolveExpectedLiteral implements the "expected value vs expected
// state key" precedence: when both are set, saved state wins if it is
// bound; otherwise the literal is used.
func resolveExpectedLiteral(state *model.StateMap, stateKey, literal string) (string, bool) {
	if stateKey != "" {
		if v, ok := state.Get(stateKey); ok {
			return v, true
		}
	}
	if literal != "" {
		return literal, true
	}
	return "", false
}

func validateEquality(state *model.StateMap, p model.PropertyValidatorSpec, token any) model.ValidationResult {
	expected, ok := resolveExpectedLiteral(state, p.ExpectedStateKey, p.ExpectedLiteral)
	if !ok {
		// Neither state nor literal yields a value: treat this as
		// "nothing to compare against", so a present token passes
		// silently rather than failing a check that was never
		// configured with an expectation.
		return model.Pass()
	}

	actual := fmt.Sprint(token)

	switch p.Kind {
	case model.PropInteger, model.PropLong:
		expInt, err1 := strconv.ParseInt(strings.TrimSpace(expected), 10, 64)
		actInt, err2 := parseNumericToken(token)
		if err1 != nil || err2 != nil || expInt != actInt {
			return model.Fail(fmt.Sprintf("Expected %q at %q, got %q", expected, p.Path, actual))
		}
		return model.Pass()

	case model.PropBoolean:
		expBool, err1 := strconv.ParseBool(strings.TrimSpace(expected))
		actBool, ok2 := token.(bool)
		if err1 != nil || !ok2 || expBool != actBool {
			return model.Fail(fmt.Sprintf("Expected %q at %q, got %q", expected, p.Path, actual))
		}
		return model.Pass()

	default: // PropString
		if actual != expected {
			return model.Fail(fmt.Sprintf("Expected %q at %q, got %q", expected, p.Path, actual))
		}
		return model.Pass()
	}
}

func parseNumericToken(token any) (int64, error) {
	switch t := token.(type) {
	case float64:
		return int64(t), nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(t), 10, 64)
	default:
		return 0, fmt.Errorf("not a number: %v", token)
	}
}

func validateEndsWith(p model.PropertyValidatorSpec, token any) model.ValidationResult {
	s, ok := token.(string)
	if !ok {
		return model.Fail(fmt.Sprintf("Expected string at %q, got %T", p.Path, token))
	}
	if !strings.HasSuffix(s, p.ExpectedLiteral) {
		return model.Fail(fmt.Sprintf("Expected %q at %q to end with %q", s, p.Path, p.ExpectedLiteral))
	}
	return model.Pass()
}

func validateRegex(p model.PropertyValidatorSpec, token any) model.ValidationResult {
	s, ok := token.(string)
	if !ok {
		return model.Fail(fmt.Sprintf("Expected string at %q, got %T", p.Path, token))
	}
	re, err := regexp.Compile(p.Regex)
	if err != nil {
		return model.Fail(fmt.Sprintf("Invalid regex %q: %s", p.Regex, err.Error()))
	}
	matched := re.MatchString(s)
	if matched != p.ShouldMatch {
		if p.ShouldMatch {
			return model.Fail(fmt.Sprintf("Expected %q at %q to match %q", s, p.Path, p.Regex))
		}
		return model.Fail(fmt.Sprintf("Expected %q at %q to not match %q", s, p.Path, p.Regex))
	}
	return model.Pass()
}

func validateAbsoluteURLToken(p model.PropertyValidatorSpec, token any) model.ValidationResult {
	s, ok := token.(string)
	if !ok {
		return model.Fail(fmt.Sprintf("Expected string URL at %q, got %T", p.Path, token))
	}
	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() {
		return model.Fail(fmt.Sprintf("Expected %q at %q to be an absolute URL", s, p.Path))
	}
	if p.MustIncludeAccessToken && u.Query().Get("access_token") == "" {
		return model.Fail(fmt.Sprintf("Expected %q at %q to include an access_token query parameter", s, p.Path))
	}
	return model.Pass()
}

func validateArrayContains(p model.PropertyValidatorSpec, token any) model.ValidationResult {
	arr, ok := token.([]any)
	if !ok {
		return model.Fail(fmt.Sprintf("Expected array at %q, got %T", p.Path, token))
	}
	for _, item := range arr {
		if s, ok := item.(string); ok && strings.EqualFold(s, p.ExpectedLiteral) {
			return model.Pass()
		}
	}
	return model.Fail(fmt.Sprintf("Expected array at %q to contain %q", p.Path, p.ExpectedLiteral))
}

func validateArrayLength(p model.PropertyValidatorSpec, token any) model.ValidationResult {
	arr, ok := token.([]any)
	if !ok {
		return model.Fail(fmt.Sprintf("Expected array at %q, got %T", p.Path, token))
	}
	if len(arr) != p.ExpectedArrayLength {
		return model.Fail(fmt.Sprintf("Expected array at %q to have length %d, got %d", p.Path, p.ExpectedArrayLength, len(arr)))
	}
	return model.Pass()
}
