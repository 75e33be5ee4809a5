// SPDX-FileCopyrightText: 2026 Greenbone AG
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package proofkey builds the canonical WOPI proof-key pre-signing byte
// buffer and produces RSA-SHA256 signatures over it, in the idiom the
// pack uses for RSA key handling
// (WonderTwin-AI-wondertwin/twin-clerk/internal/api/handlers_jwt.go):
// crypto/rand for key material, crypto/rsa for signing, and
// encoding/base64 for wire encoding. Unlike a JWT signer, the WOPI
// proof key never touches the payload's JSON shape — it signs a fixed
// binary layout of (token, url, timestamp).
package proofkey

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

// ErrMissingAccessToken is returned when a caller asks for a proof-key
// signature without an access token to sign.
var ErrMissingAccessToken = errors.New("proofkey: access token is required")

// KeyPair holds the current and previous RSA keys used for signing and
// for discovery export. Both keys are read-only after load and may be
// shared freely across cases.
type KeyPair struct {
	Current *rsa.PrivateKey
	Old     *rsa.PrivateKey
}

// GenerateKeyPair creates a fresh, unpersisted 2048-bit RSA current/old
// key pair, used by tests that don't want to depend on on-disk key
// material. The run and discovery-export commands load their keys
// through LoadOrGenerateKeyPair instead.
func GenerateKeyPair() (*KeyPair, error) {
	current, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, fmt.Errorf("proofkey: generate current key: %w", err)
	}
	old, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, fmt.Errorf("proofkey: generate old key: %w", err)
	}
	return &KeyPair{Current: current, Old: old}, nil
}

// Signer produces proof-key signatures against a fixed key pair.
type Signer struct {
	keys *KeyPair
}

func NewSigner(keys *KeyPair) *Signer {
	return &Signer{keys: keys}
}

// CanonicalBytes builds the pre-signing byte buffer:
//
//	len32(tokenBytes) | tokenBytes | len32(upper(url)Bytes) | upper(url)Bytes | len32(8) | i64be(ts)
//
// Lengths are big-endian signed 32-bit; the timestamp is big-endian
// signed 64-bit. The URL is uppercased with a locale-invariant ASCII
// mapping before its length is measured, since a caller
// that measured the original-case length and then uppercased would
// produce a byte buffer no server could reproduce.
func CanonicalBytes(accessToken, url string, timestamp int64) ([]byte, error) {
	if accessToken == "" {
		return nil, ErrMissingAccessToken
	}

	upperURL := UpperInvariant(url)

	tokenBytes := []byte(accessToken)
	urlBytes := []byte(upperURL)

	buf := make([]byte, 0, 4+len(tokenBytes)+4+len(urlBytes)+4+8)
	buf = appendLen32(buf, len(tokenBytes))
	buf = append(buf, tokenBytes...)
	buf = appendLen32(buf, len(urlBytes))
	buf = append(buf, urlBytes...)
	buf = appendLen32(buf, 8)
	buf = appendInt64BE(buf, timestamp)

	return buf, nil
}

// Sign returns the standard base-64 encoding of the RSASSA-PKCS1-v1_5
// SHA-256 signature over the canonical bytes, signed with the current
// key.
func (s *Signer) Sign(accessToken, url string, timestamp int64) (string, error) {
	return s.signWith(s.keys.Current, accessToken, url, timestamp)
}

// SignOld is identical to Sign but signs with the previous key, for
// key-rotation tests.
func (s *Signer) SignOld(accessToken, url string, timestamp int64) (string, error) {
	return s.signWith(s.keys.Old, accessToken, url, timestamp)
}

func (s *Signer) signWith(key *rsa.PrivateKey, accessToken, url string, timestamp int64) (string, error) {
	buf, err := CanonicalBytes(accessToken, url, timestamp)
	if err != nil {
		return "", err
	}

	digest := sha256.Sum256(buf)
	sig, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, digest[:])
	if err != nil {
		return "", fmt.Errorf("proofkey: sign: %w", err)
	}
	return base64.StdEncoding.EncodeToString(sig), nil
}

// PublicKeyParts returns the modulus and exponent of a public key,
// base-64 encoded as unpadded big-endian bytes, for the offline
// discovery-export tool.
func PublicKeyParts(pub *rsa.PublicKey) (modulus, exponent string) {
	modulus = base64.StdEncoding.EncodeToString(pub.N.Bytes())

	expBytes := make([]byte, 4)
	binary.BigEndian.PutUint32(expBytes, uint32(pub.E))
	expBytes = trimLeadingZeros(expBytes)
	exponent = base64.StdEncoding.EncodeToString(expBytes)

	return modulus, exponent
}

// UpperInvariant uppercases ASCII letters only
// "Unicode simple uppercase of ASCII letters suffices for well-formed
// URLs" rule rather than relying on strings.ToUpper's locale-sensitive
// casing tables.
func UpperInvariant(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if 'a' <= c && c <= 'z' {
			c -= 'a' - 'A'
		}
		b.WriteByte(c)
	}
	return b.String()
}

func appendLen32(buf []byte, n int) []byte {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], uint32(int32(n)))
	return append(buf, tmp[:]...)
}

func appendInt64BE(buf []byte, v int64) []byte {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], uint64(v))
	return append(buf, tmp[:]...)
}

func trimLeadingZeros(b []byte) []byte {
	i := 0
	for i < len(b)-1 && b[i] == 0 {
		i++
	}
	return b[i:]
}
