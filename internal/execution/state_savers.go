// SPDX-FileCopyrightText: 2026 Greenbone AG
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package execution

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ozgen/wopi-validator/internal/model"
)

// runStateSavers executes every configured state saver in declaration
// order. State savers never fail the request —
// a saver that cannot resolve its source (missing header, bad JSON
// path) simply leaves state unchanged, since it is a capability the
// request declared optimistically, not an assertion.
func runStateSavers(specs []model.StateSaverSpec, resp *model.ResponseCapture, state *model.StateMap) {
	for _, s := range specs {
		switch s.Kind {
		case model.SaveHeader:
			if v, ok := resp.HeaderValue(s.HeaderName); ok {
				state.Set(s.As, v)
			}
		case model.SaveHeaderList:
			if v, ok := resp.HeaderValue(s.HeaderName); ok {
				state.Set(s.As, headerListToJSONArray(v))
			}
		case model.SaveJSONProp:
			if v, ok := jsonPropertyText(resp.BodyBytes, s.JSONPath); ok {
				state.Set(s.As, v)
			}
		case model.SaveBody:
			state.Set(s.As, encodeBody(resp.BodyBytes, s.Encoding))
		case model.SaveLiteral:
			state.Set(s.LiteralKey, s.LiteralValue)
		}
	}
}

// headerListToJSONArray splits a comma-separated header value into a
// JSON array string, e.g. "ReadOnly, ReadWrite" -> ["ReadOnly","ReadWrite"],
// so JSON array property validators can be applied against it later.
func headerListToJSONArray(value string) string {
	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		items = append(items, strings.TrimSpace(p))
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func jsonPropertyText(body []byte, path string) (string, bool) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return "", false
	}

	value, ok := lookupSimplePath(doc, path)
	if !ok {
		return "", false
	}

	switch v := value.(type) {
	case string:
		return v, true
	case nil:
		return "", false
	default:
		return fmt.Sprint(v), true
	}
}

// lookupSimplePath is a minimal dot-path walker, shared in spirit with
// internal/validators' selectJSONPath but kept package-local to avoid
// a dependency from execution -> validators for a two-line helper.
func lookupSimplePath(doc any, path string) (any, bool) {
	current := doc
	for _, key := range strings.Split(path, ".") {
		if key == "" {
			continue
		}
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func encodeBody(body []byte, encoding model.BodyEncoding) string {
	if encoding == model.BodyAsText {
		return string(body)
	}
	return base64.StdEncoding.EncodeToString(body)
}
