// SPDX-FileCopyrightText: 2026 Greenbone AG
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package catalog

import (
	"strings"

	"github.com/ozgen/wopi-validator/internal/model"
	"github.com/ozgen/wopi-validator/internal/testcase"
)

// Filter selects a subset of a Document's Entries by name, category,
// and group. The zero value selects everything.
type Filter struct {
	TestName     string
	TestCategory model.Category
	TestGroup    string
}

// Select applies the filter to entries, preserving catalog declaration
// order.
func Select(entries []testcase.Entry, f Filter) []testcase.Entry {
	if f.TestName != "" {
		for _, e := range entries {
			if e.TestCase.Name == f.TestName {
				return []testcase.Entry{e}
			}
		}
		return nil
	}

	out := make([]testcase.Entry, 0, len(entries))
	for _, e := range entries {
		if !categoryMatches(e.TestCase.Category, f.TestCategory) {
			continue
		}
		if f.TestGroup != "" && !strings.EqualFold(e.GroupName, f.TestGroup) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// categoryMatches implements the category lattice:
// All has no effect; WopiCore only matches WopiCore; OfficeNativeClient
// matches WopiCore ∪ OfficeNativeClient; OfficeOnline matches
// WopiCore ∪ OfficeOnline.
func categoryMatches(caseCategory, filter model.Category) bool {
	switch filter {
	case "", "All":
		return true
	case model.WopiCore:
		return caseCategory == model.WopiCore
	case model.OfficeNativeClient:
		return caseCategory == model.WopiCore || caseCategory == model.OfficeNativeClient
	case model.OfficeOnline:
		return caseCategory == model.WopiCore || caseCategory == model.OfficeOnline
	default:
		return false
	}
}
