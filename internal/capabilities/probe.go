// SPDX-FileCopyrightText: 2026 Greenbone AG
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package capabilities probes a WOPI endpoint's CheckFileInfo response
// for its "Supports*" boolean flags, feeding
// testcase.Runner.Capabilities so cases declaring a
// preconditionCapability can be gated before any of their own requests
// run. No example in the retrieval pack does capability discovery, so
// it follows the same small, single-purpose-file idiom as
// internal/substitution rather than borrowing a shape from elsewhere
// in the pack.
package capabilities

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Probe issues a CheckFileInfo request against endpoint for fileID and
// extracts every top-level boolean property whose name starts with
// "Supports" (e.g. SupportsLocks, SupportsUpdate). On failure it
// returns a nil map and the error; cmd/wopi-validator then carries on
// with an empty capability map, so every capability-gated case reports
// Skipped rather than aborting the whole invocation.
func Probe(ctx context.Context, client *http.Client, endpoint, fileID, accessToken string) (map[string]bool, error) {
	reqURL := fmt.Sprintf("%s/files/%s", strings.TrimSuffix(endpoint, "/"), fileID)
	u, err := url.Parse(reqURL)
	if err != nil {
		return nil, fmt.Errorf("capabilities: parse url: %w", err)
	}
	if accessToken != "" {
		q := u.Query()
		q.Set("access_token", accessToken)
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("capabilities: build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("capabilities: request CheckFileInfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("capabilities: CheckFileInfo returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("capabilities: read body: %w", err)
	}

	return FromCheckFileInfo(body)
}

// FromCheckFileInfo extracts Supports* boolean flags from a raw
// CheckFileInfo JSON body, exported separately from Probe so tests can
// exercise the extraction without a fake transport.
func FromCheckFileInfo(body []byte) (map[string]bool, error) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("capabilities: parse CheckFileInfo body: %w", err)
	}

	caps := make(map[string]bool)
	for key, val := range raw {
		if !strings.HasPrefix(key, "Supports") {
			continue
		}
		b, ok := val.(bool)
		if !ok {
			continue
		}
		caps[key] = b
	}
	return caps, nil
}
