// SPDX-FileCopyrightText: 2026 Greenbone AG
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package substitution

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ozgen/wopi-validator/internal/model"
)

func TestExpand_Basic(t *testing.T) {
	state := model.NewStateMap(map[string]string{
		"WopiEndpoint": "https://wopi.example.com",
		"File":         "abc123",
	})

	out, err := Expand("{WopiEndpoint}/wopi/files/{File}", state)
	require.NoError(t, err)
	require.Equal(t, "https://wopi.example.com/wopi/files/abc123", out)
}

func TestExpand_UnboundVariable(t *testing.T) {
	state := model.NewStateMap(nil)
	_, err := Expand("{Missing}", state)
	require.Error(t, err)

	var unbound *ErrUnboundVariable
	require.ErrorAs(t, err, &unbound)
	require.Equal(t, "Missing", unbound.Name)
}

func TestExpand_NoRecursionIntoReplacement(t *testing.T) {
	state := model.NewStateMap(map[string]string{
		"A": "{B}",
		"B": "should-not-appear",
	})

	out, err := Expand("{A}", state)
	require.NoError(t, err)
	require.Equal(t, "{B}", out)
}

func TestExpand_Deterministic(t *testing.T) {
	s1 := model.NewStateMap(map[string]string{"X": "1", "Y": "2"})
	s2 := model.NewStateMap(map[string]string{"X": "1", "Y": "2"})

	o1, err := Expand("{X}-{Y}", s1)
	require.NoError(t, err)
	o2, err := Expand("{X}-{Y}", s2)
	require.NoError(t, err)
	require.Equal(t, o1, o2)
}

func TestExpand_UnmatchedBraceIsLiteral(t *testing.T) {
	state := model.NewStateMap(nil)
	out, err := Expand("plain {unterminated", state)
	require.NoError(t, err)
	require.Equal(t, "plain {unterminated", out)
}

func TestExpandBestEffort_LeavesUnresolvedMarkerLiteral(t *testing.T) {
	state := model.NewStateMap(map[string]string{"Known": "value"})
	out := ExpandBestEffort("{Known}/{Unknown}", state)
	require.Equal(t, "value/{Unknown}", out)
}
