package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcherEmitsChangedMsgOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.c")
	require.NoError(t, os.WriteFile(path, []byte("int x;\n"), 0o644))

	w, err := New([]string{path})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.NoError(t, os.WriteFile(path, []byte("int y;\n"), 0o644))

	next := w.Next()
	select {
	case v := <-callIn(next):
		msg, ok := v.(ChangedMsg)
		require.True(t, ok, "expected ChangedMsg, got %T", v)
		require.Equal(t, path, msg.Path)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for file change notification")
	}
}

func TestWatcherNextReturnsNilAfterRunExits(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.c")
	require.NoError(t, os.WriteFile(path, []byte("int x;\n"), 0o644))

	w, err := New([]string{path})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	require.Nil(t, w.Next()())
}

// callIn runs fn in a goroutine and forwards its result on the returned
// channel, since fn itself blocks.
func callIn(fn func() interface{}) <-chan interface{} {
	ch := make(chan interface{}, 1)
	go func() { ch <- fn() }()
	return ch
}
