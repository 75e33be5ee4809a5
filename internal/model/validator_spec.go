// SPDX-FileCopyrightText: 2026 Greenbone AG
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// ValidatorKind tags which concrete validator a ValidatorSpec configures.
type ValidatorKind string

const (
	KindResponseCode    ValidatorKind = "ResponseCode"
	KindResponseContent ValidatorKind = "ResponseContent"
	KindResponseHeader  ValidatorKind = "ResponseHeader"
	KindLockMismatch    ValidatorKind = "LockMismatch"
	KindJSONContent     ValidatorKind = "JSONContent"
)

// HeaderAssertion enumerates the ResponseHeaderValidator assertion modes.
type HeaderAssertion string

const (
	HeaderAbsent        HeaderAssertion = "Absent"
	HeaderPresent       HeaderAssertion = "Present"
	HeaderEqualsLiteral HeaderAssertion = "EqualsLiteral"
	HeaderEqualsState   HeaderAssertion = "EqualsState"
	HeaderIsAbsoluteURL HeaderAssertion = "IsAbsoluteURL"
)

// ValidatorSpec is a tagged union describing one configured validator,
// as parsed from the catalog. Only the fields relevant to Kind are set.
type ValidatorSpec struct {
	Kind ValidatorKind

	// ResponseCode
	WantStatusCode int

	// ResponseContent
	ExpectedResourceID string
	ExpectedStateKey   string

	// ResponseHeader / LockMismatch
	HeaderName             string
	Assertion              HeaderAssertion
	LiteralValue           string
	StateKey               string
	MustIncludeAccessToken bool
	IsRequired             bool

	// JSONContent
	PropertyValidators []PropertyValidatorSpec
}

// PropertyKind enumerates the JsonContentValidator property-validator kinds.
type PropertyKind string

const (
	PropString        PropertyKind = "String"
	PropInteger       PropertyKind = "Integer"
	PropLong          PropertyKind = "Long"
	PropBoolean       PropertyKind = "Boolean"
	PropEndsWith      PropertyKind = "EndsWith"
	PropRegex         PropertyKind = "Regex"
	PropAbsoluteURL   PropertyKind = "AbsoluteURL"
	PropArrayContains PropertyKind = "ArrayContains"
	PropArrayLength   PropertyKind = "ArrayLength"
)

// PropertyValidatorSpec configures one JSON-path property assertion.
type PropertyValidatorSpec struct {
	Kind PropertyKind
	Path string

	ExpectedLiteral  string
	ExpectedStateKey string

	Regex        string
	ShouldMatch  bool

	MustIncludeAccessToken bool

	ExpectedArrayLength int

	IsRequired bool
}
