// SPDX-FileCopyrightText: 2026 Greenbone AG
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package resources implements the Resource Manager (C3): a read-only
// lookup from resourceId to fixture document bytes and filename.
// Grounded on internal/samples/sample_provider.go's base-directory +
// id-to-path resolution idiom, generalized from JSON sample bodies to
// opaque document fixtures.
package resources

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ozgen/wopi-validator/internal/model"
)

// ErrUnknownResource is returned when a resourceId has no fixture.
type ErrUnknownResource struct {
	ID string
}

func (e *ErrUnknownResource) Error() string {
	return fmt.Sprintf("resources: unknown resource id %q", e.ID)
}

// Manager resolves resourceId to fixture bytes/filename. It is
// read-only after construction; content is otherwise immutable during
// a run.
type Manager struct {
	byID map[string]catalogEntry
}

type catalogEntry struct {
	filename string
	fullPath string
}

// NewManager builds a Manager over a resource catalog (id -> filename)
// rooted at baseDir. It does not read file bytes eagerly; GetFileContents
// reads lazily so a large fixture set doesn't inflate memory up front.
func NewManager(baseDir string, catalog map[string]string) *Manager {
	m := &Manager{byID: make(map[string]catalogEntry, len(catalog))}
	for id, filename := range catalog {
		m.byID[id] = catalogEntry{
			filename: filename,
			fullPath: filepath.Join(baseDir, filename),
		}
	}
	return m
}

// GetFileContents returns the fixture bytes for id.
func (m *Manager) GetFileContents(id string) ([]byte, error) {
	entry, ok := m.byID[id]
	if !ok {
		return nil, &ErrUnknownResource{ID: id}
	}
	b, err := os.ReadFile(entry.fullPath)
	if err != nil {
		return nil, fmt.Errorf("resources: read %s: %w", entry.fullPath, err)
	}
	return b, nil
}

// GetFileName returns the fixture filename for id, as given in the
// catalog; it does not check that the name carries an extension.
func (m *Manager) GetFileName(id string) (string, error) {
	entry, ok := m.byID[id]
	if !ok {
		return "", &ErrUnknownResource{ID: id}
	}
	return entry.filename, nil
}

// GetResource returns the fully materialized Resource for id.
func (m *Manager) GetResource(id string) (model.Resource, error) {
	name, err := m.GetFileName(id)
	if err != nil {
		return model.Resource{}, err
	}
	b, err := m.GetFileContents(id)
	if err != nil {
		return model.Resource{}, err
	}
	return model.Resource{ID: id, Filename: name, Bytes: b}, nil
}

// FileExtension returns the extension of a resource's filename
// (without the leading dot), used to seed the FileExtension state key
// on case setup.
func FileExtension(filename string) string {
	ext := filepath.Ext(filename)
	return strings.TrimPrefix(ext, ".")
}

// LoadCatalogDir builds a resourceId->filename catalog by scanning a
// directory: every regular file's name (without extension) becomes its
// id. This lets fixtures be dropped into a directory without an extra
// manifest for the common case. It does not merge its result with the
// XML catalog's own <Resources> section (internal/catalog).
func LoadCatalogDir(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("resources: scan %s: %w", dir, err)
	}

	catalog := make(map[string]string, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		id := strings.TrimSuffix(name, filepath.Ext(name))
		catalog[id] = name
	}
	return catalog, nil
}
