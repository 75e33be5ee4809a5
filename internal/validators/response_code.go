// SPDX-FileCopyrightText: 2026 Greenbone AG
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package validators

import (
	"fmt"

	"github.com/ozgen/wopi-validator/internal/model"
	"github.com/ozgen/wopi-validator/internal/resources"
)

// ResponseCodeValidator passes iff the response's status code equals
// WantStatusCode.
type ResponseCodeValidator struct {
	WantStatusCode int
}

func (v *ResponseCodeValidator) Validate(resp *model.ResponseCapture, _ *resources.Manager, _ *model.StateMap) model.ValidationResult {
	if resp.StatusCode == v.WantStatusCode {
		return model.Pass()
	}
	return model.Fail(fmt.Sprintf("Expected code %d, got %d", v.WantStatusCode, resp.StatusCode))
}
