package config

import (
	"os"
	"path/filepath"
	"testing"

	"cmpr/internal/block"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `cmprdir: .cmpr
buildcmd: make
bootstrap: echo hi
cbcopy: pbcopy
cbpaste: pbpaste
curlbin: curl
model: gpt-4-turbo

language: c
file: a.c
file: b.c
language: python
file: doc.py
`

func TestParseRequiredAndFiles(t *testing.T) {
	c, err := Parse([]byte(sample))
	require.NoError(t, err)
	assert.Equal(t, ".cmpr", c.CmprDir)
	assert.Equal(t, "make", c.BuildCmd)
	assert.Equal(t, "gpt-4-turbo", c.Model)

	require.Len(t, c.Files, 3)
	assert.Equal(t, "a.c", c.Files[0].Path)
	assert.Equal(t, block.C, c.Files[0].Language)
	assert.Equal(t, block.C, c.Files[1].Language)
	assert.Equal(t, "doc.py", c.Files[2].Path)
	assert.Equal(t, block.Python, c.Files[2].Language)
}

func TestUnknownKeysIgnored(t *testing.T) {
	c, err := Parse([]byte("cmprdir: .cmpr\nsome-future-key: whatever\n"))
	require.NoError(t, err)
	assert.Equal(t, ".cmpr", c.CmprDir)
}

func TestTrailingWhitespaceSignificant(t *testing.T) {
	c, err := Parse([]byte("model: gpt-4-turbo  \n"))
	require.NoError(t, err)
	assert.Equal(t, "gpt-4-turbo  ", c.Model)
}

func TestSerializeRoundTripsRequiredFields(t *testing.T) {
	c, err := Parse([]byte(sample))
	require.NoError(t, err)
	again, err := Parse(Serialize(c))
	require.NoError(t, err)
	assert.Equal(t, c, again)
}

func TestEnsureRequiredPromptsOnlyMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf")
	c := &Config{CmprDir: ".cmpr", BuildCmd: "make"}

	var asked []string
	prompt := func(key string) (string, error) {
		asked = append(asked, key)
		return "value-for-" + key, nil
	}

	require.NoError(t, EnsureRequired(path, c, prompt))
	assert.NotContains(t, asked, "cmprdir")
	assert.NotContains(t, asked, "buildcmd")
	assert.Contains(t, asked, "bootstrap")
	assert.Contains(t, asked, "model")

	saved, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(saved), "model: value-for-model")
}

func TestEnsureRequiredSkipsSaveWhenComplete(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf")
	c := &Config{}
	for _, f := range RequiredFields {
		f.Set(c, "x")
	}

	require.NoError(t, EnsureRequired(path, c, func(string) (string, error) {
		t.Fatal("prompt should not be called when nothing is missing")
		return "", nil
	}))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "no save should happen when nothing changed")
}
