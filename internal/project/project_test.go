package project

import (
	"os"
	"path/filepath"
	"testing"

	"cmpr/internal/block"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadTilesArenaAndBlocks(t *testing.T) {
	dir := t.TempDir()
	pathA := writeTemp(t, dir, "a.c", "/* a */\nX\n")
	pathB := writeTemp(t, dir, "b.py", "\"\"\"\nx\n\"\"\"\ncode\n")

	p, err := Load([]FileSpec{
		{Path: pathA, Language: block.C},
		{Path: pathB, Language: block.Python},
	})
	require.NoError(t, err)
	require.Len(t, p.Files, 2)

	assert.Equal(t, p.Files[0].Contents.End, p.Files[1].Contents.Start, "I3")
	assert.Equal(t, p.Arena.Len(), p.Files[1].Contents.End, "I4")
	assert.NotEmpty(t, p.Blocks)

	for _, b := range p.Blocks {
		idx, err := p.FileOf(b)
		require.NoError(t, err)
		assert.Equal(t, b.Span.File, idx)
	}
}

func TestFindBlockLowestIndex(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "a.c", "/* a */\nfind-me\n/* b */\nfind-me\n")
	p, err := Load([]FileSpec{{Path: path, Language: block.C}})
	require.NoError(t, err)

	assert.Equal(t, 0, p.FindBlock("find-me"))
	assert.Equal(t, -1, p.FindBlock("not-present"))
	assert.Equal(t, 0, p.FindBlock(""), "empty pattern matches every block, lowest index wins")
}

func TestShiftFilesAfterPreservesLayout(t *testing.T) {
	dir := t.TempDir()
	pathA := writeTemp(t, dir, "a.c", "/* a */\nX\n")
	pathB := writeTemp(t, dir, "b.c", "/* b */\nY\n")
	p, err := Load([]FileSpec{
		{Path: pathA, Language: block.C},
		{Path: pathB, Language: block.C},
	})
	require.NoError(t, err)

	p.Arena.Splice(p.Files[0].Contents, []byte("/* a */\nXXXXX\n"))
	p.ShiftFilesAfter(0, 4)
	require.NoError(t, p.Reparse())
	assert.Equal(t, p.Files[0].Contents.End, p.Files[1].Contents.Start)
	assert.Equal(t, p.Arena.Len(), p.Files[1].Contents.End)
}
