package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"dn-client/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRegistry_Object(t *testing.T) {
	reg, err := LoadRegistry(filepath.Join("testdata", "schemas.json"))
	require.NoError(t, err)
	assert.Equal(t, "1", reg.Version)
	require.Len(t, reg.Types, 2)
	assert.Equal(t, "30_MIN_BEFORE_REPEAT", reg.Types[1].TypeID)
	assert.Equal(t, models.KindDatetime, reg.Types[1].Arguments[0].Kind)
}

func TestParse_BareList(t *testing.T) {
	reg, err := Parse([]byte(` [{"type":"ONCE","arguments":[{"type":"TEXT","label":"Message","desc":""}]}]`))
	require.NoError(t, err)
	require.Len(t, reg.Types, 1)
	assert.Equal(t, "ONCE", reg.Types[0].TypeID)
}

func TestParse_Rejects(t *testing.T) {
	tests := map[string]string{
		"bad json":       `{`,
		"missing id":     `[{"arguments":[]}]`,
		"duplicate type": `[{"type":"A","arguments":[]},{"type":"A","arguments":[]}]`,
		"unknown kind":   `[{"type":"A","arguments":[{"type":"COLOR","label":"c"}]}]`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestFile_FetchSchemas(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "types.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"type":"ONCE","arguments":[]}]`), 0o644))

	schemas, err := File{Path: path}.FetchSchemas(context.Background())
	require.NoError(t, err)
	assert.Len(t, schemas, 1)

	_, err = File{Path: filepath.Join(dir, "missing.json")}.FetchSchemas(context.Background())
	assert.Error(t, err)
}

func TestSave_RoundTripsThroughLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "schemas.json")
	reg := &SchemaFile{
		Version: "2",
		Types: []models.NotificationTypeSchema{
			{TypeID: "ONCE", Arguments: []models.ArgumentSpec{{Kind: models.KindDatetime, Label: "When"}}},
		},
	}

	require.NoError(t, Save(reg, path))

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, reg, loaded)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.False(t, info.IsDir())
}
