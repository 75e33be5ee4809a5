// SPDX-FileCopyrightText: 2026 Greenbone AG
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package proofkey

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/xml"
	"fmt"
)

// discoveryDoc mirrors the <wopi-discovery><proof-key .../></wopi-discovery>
// shape a WOPI host publishes at its discovery endpoint.
type discoveryDoc struct {
	XMLName  xml.Name    `xml:"wopi-discovery"`
	ProofKey proofKeyXML `xml:"proof-key"`
}

type proofKeyXML struct {
	Value       string `xml:"value,attr"`
	Modulus     string `xml:"modulus,attr"`
	Exponent    string `xml:"exponent,attr"`
	OldValue    string `xml:"oldvalue,attr"`
	OldModulus  string `xml:"oldmodulus,attr"`
	OldExponent string `xml:"oldexponent,attr"`
}

// ExportDiscoveryXML renders the <wopi-discovery> proof-key document
// for the offline discovery-export command.
func ExportDiscoveryXML(keys *KeyPair) ([]byte, error) {
	curMod, curExp := PublicKeyParts(&keys.Current.PublicKey)
	oldMod, oldExp := PublicKeyParts(&keys.Old.PublicKey)

	curValue, err := currentValuePlaceholder(keys)
	if err != nil {
		return nil, err
	}

	doc := discoveryDoc{
		ProofKey: proofKeyXML{
			Value:       curValue.current,
			Modulus:     curMod,
			Exponent:    curExp,
			OldValue:    curValue.old,
			OldModulus:  oldMod,
			OldExponent: oldExp,
		},
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("proofkey: marshal discovery xml: %w", err)
	}

	out := append([]byte(xml.Header), body...)
	out = append(out, '\n')
	return out, nil
}

type proofKeyValues struct {
	current string
	old     string
}

// currentValuePlaceholder exports the raw public key value fields
// (base-64 DER of the public key), used verbatim by clients that
// display the "value" attribute rather than reconstructing it from
// modulus/exponent.
func currentValuePlaceholder(keys *KeyPair) (proofKeyValues, error) {
	cur, err := publicKeyValue(&keys.Current.PublicKey)
	if err != nil {
		return proofKeyValues{}, err
	}
	old, err := publicKeyValue(&keys.Old.PublicKey)
	if err != nil {
		return proofKeyValues{}, err
	}
	return proofKeyValues{current: cur, old: old}, nil
}

func publicKeyValue(pub *rsa.PublicKey) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return "", fmt.Errorf("proofkey: marshal public key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(der), nil
}
