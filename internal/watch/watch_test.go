package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunInvokesCallbackOnChange(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "rules"), 0o755))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fired := make(chan struct{}, 1)
	w := New(dir, 50*time.Millisecond)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(context.Context) error {
			select {
			case fired <- struct{}{}:
			default:
			}
			return nil
		})
	}()

	// Give the watcher a moment to register before touching files.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rules", "style.md"), []byte("body\n"), 0o644))

	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("callback never fired")
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestRunCoalescesBursts(t *testing.T) {
	dir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := make(chan struct{}, 16)
	w := New(dir, 150*time.Millisecond)
	go func() {
		_ = w.Run(ctx, func(context.Context) error {
			calls <- struct{}{}
			return nil
		})
	}()

	time.Sleep(100 * time.Millisecond)
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte{byte('0' + i)}, 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		t.Fatal("callback never fired")
	}

	// The burst was inside one debounce window, so no second call
	// should arrive.
	select {
	case <-calls:
		t.Fatal("burst was not coalesced")
	case <-time.After(400 * time.Millisecond):
	}
}

func TestNewDefaultsDebounce(t *testing.T) {
	w := New("x", 0)
	assert.Equal(t, DefaultDebounce, w.debounce)
}
