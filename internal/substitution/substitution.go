// SPDX-FileCopyrightText: 2026 Greenbone AG
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package substitution expands "{name}" placeholders in URL, header,
// and body templates from a per-case state map.
package substitution

import (
	"fmt"
	"strings"

	"github.com/ozgen/wopi-validator/internal/model"
)

// ErrUnboundVariable is returned when a template refers to a state key
// that has not been set.
type ErrUnboundVariable struct {
	Name string
}

func (e *ErrUnboundVariable) Error() string {
	return fmt.Sprintf("substitution: unbound variable %q", e.Name)
}

// Expand replaces every "{name}" marker in template with the current
// value of "name" in state. Expansion is single-pass: replacement text
// is never rescanned for further markers, so a state value containing
// "{other}" is emitted literally.
func Expand(template string, state *model.StateMap) (string, error) {
	var b strings.Builder
	b.Grow(len(template))

	i := 0
	for i < len(template) {
		open := strings.IndexByte(template[i:], '{')
		if open < 0 {
			b.WriteString(template[i:])
			break
		}
		open += i
		b.WriteString(template[i:open])

		closeIdx := strings.IndexByte(template[open:], '}')
		if closeIdx < 0 {
			// No matching close brace: treat the rest as literal text.
			b.WriteString(template[open:])
			break
		}
		closeIdx += open

		name := template[open+1 : closeIdx]
		value, ok := state.Get(name)
		if !ok {
			return "", &ErrUnboundVariable{Name: name}
		}
		b.WriteString(value)

		i = closeIdx + 1
	}

	return b.String(), nil
}

// ExpandBestEffort is used when a case must keep running requests after
// an earlier UnboundVariableError: unresolved markers are
// left as literal text instead of aborting the whole request.
func ExpandBestEffort(template string, state *model.StateMap) string {
	var b strings.Builder
	b.Grow(len(template))

	i := 0
	for i < len(template) {
		open := strings.IndexByte(template[i:], '{')
		if open < 0 {
			b.WriteString(template[i:])
			break
		}
		open += i
		b.WriteString(template[i:open])

		closeIdx := strings.IndexByte(template[open:], '}')
		if closeIdx < 0 {
			b.WriteString(template[open:])
			break
		}
		closeIdx += open

		name := template[open+1 : closeIdx]
		if value, ok := state.Get(name); ok {
			b.WriteString(value)
		} else {
			b.WriteString(template[open : closeIdx+1])
		}

		i = closeIdx + 1
	}

	return b.String()
}
