// pkg/registry/registry.go
package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"dn-client/internal/models"
)

// LoadRegistry reads a schema file. Both a bare create_info array and a
// SchemaFile object are accepted.
func LoadRegistry(path string) (*SchemaFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes and checks a schema document.
func Parse(data []byte) (*SchemaFile, error) {
	var reg SchemaFile
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &reg.Types); err != nil {
			return nil, fmt.Errorf("parse schema list: %w", err)
		}
	} else if err := json.Unmarshal(trimmed, &reg); err != nil {
		return nil, fmt.Errorf("parse schema file: %w", err)
	}

	seen := make(map[string]bool, len(reg.Types))
	for i, t := range reg.Types {
		if t.TypeID == "" {
			return nil, fmt.Errorf("type %d: missing type id", i)
		}
		if seen[t.TypeID] {
			return nil, fmt.Errorf("type %s: declared twice", t.TypeID)
		}
		seen[t.TypeID] = true
		for j, a := range t.Arguments {
			if !a.Kind.Valid() {
				return nil, fmt.Errorf("type %s argument %d: unknown kind %q", t.TypeID, j, a.Kind)
			}
		}
	}
	return &reg, nil
}

// File serves a schema file as a schema source. The file is read on every
// fetch; callers cache through the schema registry.
type File struct {
	Path string
}

func (f File) FetchSchemas(_ context.Context) ([]models.NotificationTypeSchema, error) {
	reg, err := LoadRegistry(f.Path)
	if err != nil {
		return nil, fmt.Errorf("load schema file %s: %w", f.Path, err)
	}
	return reg.Types, nil
}

// Save writes reg to path as indented JSON, creating parent directories.
func Save(reg *SchemaFile, path string) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}
