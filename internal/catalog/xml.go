// SPDX-FileCopyrightText: 2026 Greenbone AG
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package catalog implements the test-catalog collaborator and the
// Filter & Dispatcher: parsing the XML test-case document into the
// package's data model, and selecting a subset of parsed cases by
// name/category/group.
//
// XML parsing uses stdlib encoding/xml since no third-party XML
// library appears anywhere in the pack this module draws on (see
// DESIGN.md); the filter/dispatcher logic in filter.go is the module's own,
// a linear-scan-with-early-return lookup in the same shape as a route
// table walk.
package catalog

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/ozgen/wopi-validator/internal/model"
	"github.com/ozgen/wopi-validator/internal/testcase"
)

// xmlDocument is the root <TestSuite> element.
type xmlDocument struct {
	XMLName    xml.Name        `xml:"TestSuite"`
	Resources  []xmlResource   `xml:"Resources>Resource"`
	Requests   []xmlRequest    `xml:"Requests>Request"`
	TestGroups []xmlTestGroup  `xml:"TestGroups>TestGroup"`
}

type xmlResource struct {
	ID   string `xml:"id,attr"`
	File string `xml:"file,attr"`
}

type xmlRequest struct {
	Name                     string `xml:"name,attr"`
	Method                   string `xml:"method,attr"`
	URL                      string `xml:"url,attr"`
	Body                     string `xml:"body,attr"`
	BodyIsText               bool   `xml:"bodyIsText,attr"`
	WantStatusCode           int    `xml:"wantStatusCode,attr"`
	WantStatusText           string `xml:"wantStatusText,attr"`
	RequiresProofKey         bool   `xml:"requiresProofKey,attr"`
	AlwaysRunCleanup         bool   `xml:"alwaysRunCleanup,attr"`
	FollowupPrerequisiteName string `xml:"followupPrerequisiteName,attr"`
	UserAgentOverride        string `xml:"userAgentOverride,attr"`

	Headers     []xmlHeader     `xml:"Headers>Header"`
	Validators  xmlValidators   `xml:"Validators"`
	StateSavers xmlStateSavers  `xml:"StateSavers"`
}

type xmlHeader struct {
	Name     string `xml:"name,attr"`
	Template string `xml:"value,attr"`
}

type xmlValidators struct {
	ResponseCode    []xmlResponseCode    `xml:"ResponseCode"`
	ResponseHeader  []xmlResponseHeader  `xml:"ResponseHeader"`
	ResponseContent []xmlResponseContent `xml:"ResponseContent"`
	LockMismatch    []xmlLockMismatch    `xml:"LockMismatch"`
	JSONContent     []xmlJSONContent     `xml:"JsonContent"`
}

type xmlResponseCode struct {
	WantStatusCode int `xml:"wantStatusCode,attr"`
}

type xmlResponseHeader struct {
	Name                   string `xml:"name,attr"`
	Assertion              string `xml:"assertion,attr"`
	LiteralValue           string `xml:"literalValue,attr"`
	StateKey               string `xml:"stateKey,attr"`
	MustIncludeAccessToken bool   `xml:"mustIncludeAccessToken,attr"`
}

type xmlResponseContent struct {
	ExpectedResourceID string `xml:"expectedResourceId,attr"`
	ExpectedStateKey   string `xml:"expectedStateKey,attr"`
}

type xmlLockMismatch struct {
	LiteralValue string `xml:"literalValue,attr"`
	StateKey     string `xml:"stateKey,attr"`
	IsRequired   bool   `xml:"isRequired,attr"`
}

type xmlJSONContent struct {
	Properties []xmlProperty `xml:"Property"`
}

type xmlProperty struct {
	Kind                   string `xml:"kind,attr"`
	Path                   string `xml:"path,attr"`
	ExpectedLiteral        string `xml:"expectedLiteral,attr"`
	ExpectedStateKey       string `xml:"expectedStateKey,attr"`
	Regex                  string `xml:"regex,attr"`
	ShouldMatch            bool   `xml:"shouldMatch,attr"`
	MustIncludeAccessToken bool   `xml:"mustIncludeAccessToken,attr"`
	ExpectedArrayLength    int    `xml:"expectedArrayLength,attr"`
	IsRequired             bool   `xml:"isRequired,attr"`
}

type xmlStateSavers struct {
	SaveHeader     []xmlSaveHeader     `xml:"SaveHeader"`
	SaveHeaderList []xmlSaveHeader     `xml:"SaveHeaderList"`
	SaveJSONProp   []xmlSaveJSONProp   `xml:"SaveJsonProperty"`
	SaveBody       []xmlSaveBody       `xml:"SaveBody"`
	SaveLiteral    []xmlSaveLiteral    `xml:"SaveState"`
}

type xmlSaveHeader struct {
	Name string `xml:"name,attr"`
	As   string `xml:"as,attr"`
}

type xmlSaveJSONProp struct {
	Path string `xml:"path,attr"`
	As   string `xml:"as,attr"`
}

type xmlSaveBody struct {
	As       string `xml:"as,attr"`
	Encoding string `xml:"encoding,attr"`
}

type xmlSaveLiteral struct {
	Key   string `xml:"key,attr"`
	Value string `xml:"value,attr"`
}

type xmlTestGroup struct {
	Name  string        `xml:"name,attr"`
	Cases []xmlTestCase `xml:"TestCase"`
}

type xmlTestCase struct {
	Name                     string `xml:"name,attr"`
	Description              string `xml:"description,attr"`
	Category                 string `xml:"category,attr"`
	TestCaseType             string `xml:"testCaseType,attr"`
	ResourceID               string `xml:"resourceId,attr"`
	UploadDocumentOnSetup    bool   `xml:"uploadDocumentOnSetup,attr"`
	DeleteDocumentOnTearDown bool   `xml:"deleteDocumentOnTearDown,attr"`
	FailMessage              string `xml:"failMessage,attr"`
	DocumentationLink        string `xml:"documentationLink,attr"`
	UIScreenShot             string `xml:"uiScreenShot,attr"`
	PreconditionCapability   string `xml:"preconditionCapability,attr"`

	RequestRefs         []xmlRequestRef `xml:"Requests>RequestRef"`
	CleanupRequestRefs  []xmlRequestRef `xml:"CleanupRequests>RequestRef"`
}

type xmlRequestRef struct {
	Name string `xml:"name,attr"`
}

// ErrConfiguration reports a malformed catalog or a reference to an
// unknown resource/request. Prerequisite names are not checked here;
// the runner reports an unknown prerequisite when it reaches it.
type ErrConfiguration struct {
	Detail string
}

func (e *ErrConfiguration) Error() string {
	return fmt.Sprintf("catalog: configuration error: %s", e.Detail)
}

// Document is the fully parsed catalog: the resource id->filename map
// (fed to resources.NewManager), the flat map of TestCases by name (fed
// to testcase.Runner.ByName for prerequisite resolution), and the
// group-ordered entries (fed to Select and then RunAll).
type Document struct {
	ResourceCatalog map[string]string
	CasesByName     map[string]model.TestCase
	Entries         []testcase.Entry
}

// Parse reads an XML catalog document into a Document.
func Parse(r io.Reader) (*Document, error) {
	var doc xmlDocument
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, &ErrConfiguration{Detail: err.Error()}
	}

	resourceCatalog := make(map[string]string, len(doc.Resources))
	for _, res := range doc.Resources {
		resourceCatalog[res.ID] = res.File
	}

	requestsByName := make(map[string]xmlRequest, len(doc.Requests))
	for _, req := range doc.Requests {
		requestsByName[req.Name] = req
	}

	result := &Document{
		ResourceCatalog: resourceCatalog,
		CasesByName:     make(map[string]model.TestCase),
	}

	for _, group := range doc.TestGroups {
		for _, xc := range group.Cases {
			tc, err := toTestCase(xc, requestsByName, resourceCatalog)
			if err != nil {
				return nil, err
			}
			if _, dup := result.CasesByName[tc.Name]; dup {
				return nil, &ErrConfiguration{Detail: fmt.Sprintf("duplicate test case name %q", tc.Name)}
			}
			result.CasesByName[tc.Name] = tc
			result.Entries = append(result.Entries, testcase.Entry{TestCase: tc, GroupName: group.Name})
		}
	}

	return result, nil
}

func toTestCase(xc xmlTestCase, requestsByName map[string]xmlRequest, resourceCatalog map[string]string) (model.TestCase, error) {
	if xc.Name == "" {
		return model.TestCase{}, &ErrConfiguration{Detail: "TestCase missing name"}
	}
	if xc.ResourceID == "" {
		return model.TestCase{}, &ErrConfiguration{Detail: fmt.Sprintf("TestCase %q missing resourceId", xc.Name)}
	}
	if _, ok := resourceCatalog[xc.ResourceID]; !ok {
		return model.TestCase{}, &ErrConfiguration{Detail: fmt.Sprintf("TestCase %q references unknown resource %q", xc.Name, xc.ResourceID)}
	}

	requests, err := resolveRefs(xc.Name, xc.RequestRefs, requestsByName, model.Standard)
	if err != nil {
		return model.TestCase{}, err
	}
	if len(requests) == 0 {
		return model.TestCase{}, &ErrConfiguration{Detail: fmt.Sprintf("TestCase %q has no standard requests", xc.Name)}
	}

	cleanup, err := resolveRefs(xc.Name, xc.CleanupRequestRefs, requestsByName, model.Cleanup)
	if err != nil {
		return model.TestCase{}, err
	}

	category, err := parseCategory(xc.Category)
	if err != nil {
		return model.TestCase{}, &ErrConfiguration{Detail: fmt.Sprintf("TestCase %q: %s", xc.Name, err.Error())}
	}

	caseType := model.Default
	if xc.TestCaseType == string(model.Prerequisite) {
		caseType = model.Prerequisite
	}

	return model.TestCase{
		Name:                     xc.Name,
		Description:              xc.Description,
		Category:                 category,
		TestCaseType:             caseType,
		ResourceID:               xc.ResourceID,
		UploadDocumentOnSetup:    xc.UploadDocumentOnSetup,
		DeleteDocumentOnTearDown: xc.DeleteDocumentOnTearDown,
		Requests:                 requests,
		CleanupRequests:          cleanup,
		FailMessage:              xc.FailMessage,
		DocumentationLink:        xc.DocumentationLink,
		UIScreenShot:             xc.UIScreenShot,
		PreconditionCapability:   xc.PreconditionCapability,
	}, nil
}

func resolveRefs(caseName string, refs []xmlRequestRef, requestsByName map[string]xmlRequest, classification model.RequestClassification) ([]model.Request, error) {
	out := make([]model.Request, 0, len(refs))
	for _, ref := range refs {
		xr, ok := requestsByName[ref.Name]
		if !ok {
			return nil, &ErrConfiguration{Detail: fmt.Sprintf("TestCase %q references unknown request %q", caseName, ref.Name)}
		}
		req, err := toRequest(xr, classification)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, nil
}

func toRequest(xr xmlRequest, classification model.RequestClassification) (model.Request, error) {
	headers := make([]model.HeaderTemplate, 0, len(xr.Headers))
	for _, h := range xr.Headers {
		headers = append(headers, model.HeaderTemplate{Name: h.Name, Template: h.Template})
	}

	validators, err := toValidators(xr.Name, xr.Validators)
	if err != nil {
		return model.Request{}, err
	}

	savers := toStateSavers(xr.StateSavers)

	return model.Request{
		Name:                     xr.Name,
		Classification:           classification,
		Method:                   xr.Method,
		URLTemplate:              xr.URL,
		HeaderTemplates:          headers,
		BodyTemplate:             xr.Body,
		BodyIsText:               xr.BodyIsText,
		WantStatusCode:           xr.WantStatusCode,
		WantStatusText:           xr.WantStatusText,
		RequiresProofKey:         xr.RequiresProofKey,
		Validators:               validators,
		StateSavers:              savers,
		FollowupPrerequisiteName: xr.FollowupPrerequisiteName,
		AlwaysRunCleanup:         xr.AlwaysRunCleanup,
		UserAgentOverride:        xr.UserAgentOverride,
	}, nil
}

func toValidators(requestName string, xv xmlValidators) ([]model.ValidatorSpec, error) {
	var out []model.ValidatorSpec

	for _, v := range xv.ResponseCode {
		out = append(out, model.ValidatorSpec{Kind: model.KindResponseCode, WantStatusCode: v.WantStatusCode})
	}
	for _, v := range xv.ResponseHeader {
		assertion, err := parseHeaderAssertion(v.Assertion)
		if err != nil {
			return nil, &ErrConfiguration{Detail: fmt.Sprintf("request %q: %s", requestName, err.Error())}
		}
		out = append(out, model.ValidatorSpec{
			Kind:                   model.KindResponseHeader,
			HeaderName:             v.Name,
			Assertion:              assertion,
			LiteralValue:           v.LiteralValue,
			StateKey:               v.StateKey,
			MustIncludeAccessToken: v.MustIncludeAccessToken,
		})
	}
	for _, v := range xv.ResponseContent {
		out = append(out, model.ValidatorSpec{
			Kind:               model.KindResponseContent,
			ExpectedResourceID: v.ExpectedResourceID,
			ExpectedStateKey:   v.ExpectedStateKey,
		})
	}
	for _, v := range xv.LockMismatch {
		out = append(out, model.ValidatorSpec{
			Kind:         model.KindLockMismatch,
			LiteralValue: v.LiteralValue,
			StateKey:     v.StateKey,
			IsRequired:   v.IsRequired,
		})
	}
	for _, v := range xv.JSONContent {
		props := make([]model.PropertyValidatorSpec, 0, len(v.Properties))
		for _, p := range v.Properties {
			kind, err := parsePropertyKind(p.Kind)
			if err != nil {
				return nil, &ErrConfiguration{Detail: fmt.Sprintf("request %q: %s", requestName, err.Error())}
			}
			props = append(props, model.PropertyValidatorSpec{
				Kind:                   kind,
				Path:                   p.Path,
				ExpectedLiteral:        p.ExpectedLiteral,
				ExpectedStateKey:       p.ExpectedStateKey,
				Regex:                  p.Regex,
				ShouldMatch:            p.ShouldMatch,
				MustIncludeAccessToken: p.MustIncludeAccessToken,
				ExpectedArrayLength:    p.ExpectedArrayLength,
				IsRequired:             p.IsRequired,
			})
		}
		out = append(out, model.ValidatorSpec{Kind: model.KindJSONContent, PropertyValidators: props})
	}

	return out, nil
}

func toStateSavers(xs xmlStateSavers) []model.StateSaverSpec {
	var out []model.StateSaverSpec

	for _, s := range xs.SaveHeader {
		out = append(out, model.StateSaverSpec{Kind: model.SaveHeader, HeaderName: s.Name, As: s.As})
	}
	for _, s := range xs.SaveHeaderList {
		out = append(out, model.StateSaverSpec{Kind: model.SaveHeaderList, HeaderName: s.Name, As: s.As})
	}
	for _, s := range xs.SaveJSONProp {
		out = append(out, model.StateSaverSpec{Kind: model.SaveJSONProp, JSONPath: s.Path, As: s.As})
	}
	for _, s := range xs.SaveBody {
		encoding := model.BodyAsBase64
		if s.Encoding == string(model.BodyAsText) {
			encoding = model.BodyAsText
		}
		out = append(out, model.StateSaverSpec{Kind: model.SaveBody, As: s.As, Encoding: encoding})
	}
	for _, s := range xs.SaveLiteral {
		out = append(out, model.StateSaverSpec{Kind: model.SaveLiteral, LiteralKey: s.Key, LiteralValue: s.Value})
	}

	return out
}

func parseCategory(raw string) (model.Category, error) {
	switch raw {
	case "", string(model.WopiCore):
		return model.WopiCore, nil
	case string(model.OfficeNativeClient):
		return model.OfficeNativeClient, nil
	case string(model.OfficeOnline):
		return model.OfficeOnline, nil
	default:
		return "", fmt.Errorf("unknown category %q", raw)
	}
}

func parseHeaderAssertion(raw string) (model.HeaderAssertion, error) {
	switch model.HeaderAssertion(raw) {
	case model.HeaderAbsent, model.HeaderPresent, model.HeaderEqualsLiteral, model.HeaderEqualsState, model.HeaderIsAbsoluteURL:
		return model.HeaderAssertion(raw), nil
	default:
		return "", fmt.Errorf("unknown header assertion %q", raw)
	}
}

func parsePropertyKind(raw string) (model.PropertyKind, error) {
	switch model.PropertyKind(raw) {
	case model.PropString, model.PropInteger, model.PropLong, model.PropBoolean, model.PropEndsWith,
		model.PropRegex, model.PropAbsoluteURL, model.PropArrayContains, model.PropArrayLength:
		return model.PropertyKind(raw), nil
	default:
		return "", fmt.Errorf("unknown property kind %q", raw)
	}
}
