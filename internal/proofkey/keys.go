// SPDX-FileCopyrightText: 2026 Greenbone AG
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package proofkey

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
)

const pemBlockType = "RSA PRIVATE KEY"

// LoadOrGenerateKeyPair loads the current/old RSA keys from
// currentPath/oldPath (PKCS1 PEM, in the giantswarm-muster mock OAuth
// server's pem.EncodeToMemory idiom). Each key is handled on its own:
// when its file cannot be read, a fresh key is generated and persisted
// to that path, and the other key is left as loaded. Keys are
// injected explicitly into the signer rather than read from a fixed
// working-directory path, so this loader is the single place callers
// resolve key material before constructing anything that signs.
func LoadOrGenerateKeyPair(currentPath, oldPath string) (*KeyPair, error) {
	current, err := loadOrGenerateOne(currentPath)
	if err != nil {
		return nil, fmt.Errorf("proofkey: current key: %w", err)
	}
	old, err := loadOrGenerateOne(oldPath)
	if err != nil {
		return nil, fmt.Errorf("proofkey: old key: %w", err)
	}
	return &KeyPair{Current: current, Old: old}, nil
}

func loadOrGenerateOne(path string) (*rsa.PrivateKey, error) {
	if raw, err := os.ReadFile(path); err == nil {
		return decodePEM(raw)
	}

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	if err := os.WriteFile(path, encodePEM(key), 0o600); err != nil {
		return nil, fmt.Errorf("persist %s: %w", path, err)
	}
	return key, nil
}

func decodePEM(raw []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found")
	}
	key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse PKCS1 key: %w", err)
	}
	return key, nil
}

func encodePEM(key *rsa.PrivateKey) []byte {
	return pem.EncodeToMemory(&pem.Block{
		Type:  pemBlockType,
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
}
