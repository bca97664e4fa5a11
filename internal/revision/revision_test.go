package revision

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func open(t *testing.T) *Index {
	t.Helper()
	path := filepath.Join(t.TempDir(), "revisions.db")
	ix, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { ix.Close() })
	return ix
}

func TestRecordAndHistoryOrderedByTime(t *testing.T) {
	ix := open(t)
	base := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, ix.Record(Entry{FilePath: "a.c", RevisionPath: "revs/1", Timestamp: base}))
	require.NoError(t, ix.Record(Entry{FilePath: "a.c", RevisionPath: "revs/2", Timestamp: base.Add(time.Minute)}))
	require.NoError(t, ix.Record(Entry{FilePath: "b.c", RevisionPath: "revs/3", Timestamp: base}))

	hist, err := ix.History("a.c")
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, "revs/1", hist[0].RevisionPath)
	assert.Equal(t, "revs/2", hist[1].RevisionPath)
	assert.True(t, hist[0].Timestamp.Before(hist[1].Timestamp))
}

func TestHistoryEmptyForUnknownPath(t *testing.T) {
	ix := open(t)
	hist, err := ix.History("never-touched.c")
	require.NoError(t, err)
	assert.Empty(t, hist)
}
