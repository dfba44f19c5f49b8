package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `{
  "intents": [
    {"tag": "greeting", "patterns": ["Hi", "Hello"], "responses": ["Hello!"]},
    {"tag": "", "patterns": ["ignored"], "responses": ["ignored"]},
    {"tag": "list_files", "patterns": ["How do I list files?"], "responses": ["Use ls."]}
  ]
}`

const sampleYAML = `
intents:
  - tag: greeting
    patterns: [Hi]
    responses: [Hello!]
`

func TestParse_JSONSkipsUntagged(t *testing.T) {
	ds, err := Parse([]byte(sampleJSON), ".json")
	require.NoError(t, err)

	assert.Equal(t, []string{"greeting", "list_files"}, ds.Tags())
	assert.Equal(t, []string{"Use ls."}, ds.Responses("list_files"))
	assert.Nil(t, ds.Responses("unknown"))
	assert.Len(t, ds.Hash, 64)
}

func TestParse_YAML(t *testing.T) {
	ds, err := Parse([]byte(sampleYAML), ".yml")
	require.NoError(t, err)
	require.Len(t, ds.Intents, 1)
	assert.Equal(t, []string{"Hi"}, ds.Intents[0].Patterns)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("{not json"), ".json")
	assert.ErrorIs(t, err, ErrDecode)

	_, err = Parse([]byte(`{"intents": []}`), ".json")
	assert.ErrorIs(t, err, ErrNoIntent)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, ErrNotFound)

	path := filepath.Join(dir, "trainingDataset.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleJSON), 0o644))

	a, err := Load(path)
	require.NoError(t, err)
	b, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, a.Hash, b.Hash)
}
