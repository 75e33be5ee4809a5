// SPDX-FileCopyrightText: 2026 Greenbone AG
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package diagnostics implements optional, best-effort inspection of
// the access token for verbose-mode logging: WOPI access tokens are
// opaque bearer tokens as far as the protocol is concerned, but many
// deployments hand out JWTs, and printing their claims (never
// verifying them — this tool holds no key to do so) helps a test
// operator confirm they pointed the validator at the right user/tenant.
//
// Grounded on WonderTwin-AI-wondertwin/twin-clerk's
// jwt.MapClaims-based JWT handling, restricted here to
// jwt.ParseUnverified since there is no verification key to check
// against.
package diagnostics

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// DecodeAccessTokenClaims returns the JWT claims embedded in token
// without verifying its signature. ok is false when token is not a
// JWT (or is malformed) — this is expected for opaque bearer tokens
// and is not an error condition.
func DecodeAccessTokenClaims(token string) (jwt.MapClaims, bool) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	_, _, err := parser.ParseUnverified(token, claims)
	if err != nil {
		return nil, false
	}
	return claims, true
}

// SummarizeAccessToken renders a one-line, log-friendly summary of the
// token's standard claims for verbose-mode diagnostics, or "" if the
// token isn't a JWT.
func SummarizeAccessToken(token string) string {
	claims, ok := DecodeAccessTokenClaims(token)
	if !ok {
		return ""
	}

	sub, _ := claims["sub"].(string)
	iss, _ := claims["iss"].(string)
	exp, _ := claims["exp"].(float64)

	return fmt.Sprintf("access token claims: sub=%q iss=%q exp=%v", sub, iss, exp)
}
