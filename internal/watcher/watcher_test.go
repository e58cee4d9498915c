package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsHidden(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/project/src/common/logo.png", false},
		{"/project/src/.DS_Store", true},
		{"/project/src/.git/index", true},
		{"/project/src/common/.cache/x.js", true},
		{"/project/src", false},
		{"/project/src/file.with.dots.js", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, IsHidden("/project/src", tt.path))
		})
	}
}

// recorder collects ChangeFunc calls.
type recorder struct {
	mu      sync.Mutex
	batches [][]string
	calls   chan []string
}

func newRecorder() *recorder {
	return &recorder{calls: make(chan []string, 16)}
}

func (r *recorder) onChange(_ context.Context, changed []string) {
	r.mu.Lock()
	r.batches = append(r.batches, changed)
	r.mu.Unlock()
	r.calls <- changed
}

func (r *recorder) next(t *testing.T) []string {
	t.Helper()

	select {
	case changed := <-r.calls:
		return changed
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for change")
		return nil
	}
}

func (r *recorder) none(t *testing.T, wait time.Duration) {
	t.Helper()

	select {
	case changed := <-r.calls:
		t.Fatalf("unexpected change: %v", changed)
	case <-time.After(wait):
	}
}

func start(t *testing.T, w *Watcher) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(3 * time.Second):
			t.Error("watcher did not stop")
		}
	})

	select {
	case <-w.Ready():
	case err := <-done:
		t.Fatalf("watcher exited: %v", err)
	case <-time.After(3 * time.Second):
		t.Fatal("watcher not ready")
	}
}

func write(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestWatcher_CoalescesBursts(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "common", "a.js"), "a")

	rec := newRecorder()
	start(t, New(root, rec.onChange, WithDebounce(150*time.Millisecond)))

	for i := 0; i < 5; i++ {
		write(t, filepath.Join(root, "common", "a.js"), string(rune('a'+i)))
	}

	changed := rec.next(t)
	assert.Equal(t, []string{filepath.Join(root, "common", "a.js")}, changed)
	rec.none(t, 400*time.Millisecond)
}

func TestWatcher_IgnoresHiddenPaths(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".cache"), 0o755))

	rec := newRecorder()
	start(t, New(root, rec.onChange, WithDebounce(50*time.Millisecond)))

	write(t, filepath.Join(root, ".DS_Store"), "meta")
	write(t, filepath.Join(root, ".cache", "x"), "x")
	rec.none(t, 300*time.Millisecond)

	write(t, filepath.Join(root, "visible.js"), "v")
	assert.Equal(t, []string{filepath.Join(root, "visible.js")}, rec.next(t))
}

func TestWatcher_WatchesNewDirectories(t *testing.T) {
	root := t.TempDir()

	rec := newRecorder()
	start(t, New(root, rec.onChange, WithDebounce(50*time.Millisecond)))

	require.NoError(t, os.MkdirAll(filepath.Join(root, "images"), 0o755))
	assert.Contains(t, rec.next(t), filepath.Join(root, "images"))

	write(t, filepath.Join(root, "images", "logo.png"), "png")
	assert.Contains(t, rec.next(t), filepath.Join(root, "images", "logo.png"))
}

func TestWatcher_SerializesCalls(t *testing.T) {
	root := t.TempDir()

	var (
		running  atomic.Int32
		overlaps atomic.Int32
		calls    atomic.Int32
		release  = make(chan struct{})
		started  = make(chan struct{}, 4)
	)

	onChange := func(_ context.Context, _ []string) {
		if running.Add(1) > 1 {
			overlaps.Add(1)
		}
		defer running.Add(-1)

		n := calls.Add(1)
		started <- struct{}{}
		if n == 1 {
			<-release
		}
	}

	start(t, New(root, onChange, WithDebounce(30*time.Millisecond)))

	write(t, filepath.Join(root, "one.js"), "1")
	select {
	case <-started:
	case <-time.After(3 * time.Second):
		t.Fatal("first call did not start")
	}

	// Several debounced batches arrive while the first call is blocked.
	for i := 0; i < 3; i++ {
		write(t, filepath.Join(root, "two.js"), string(rune('a'+i)))
		time.Sleep(80 * time.Millisecond)
	}
	close(release)

	select {
	case <-started:
	case <-time.After(3 * time.Second):
		t.Fatal("queued call did not run")
	}

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(0), overlaps.Load())
	assert.Equal(t, int32(2), calls.Load(), "changes during a call queue exactly one follow-up")
}

func TestWatcher_MissingRoot(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "src"), func(context.Context, []string) {})
	require.Error(t, w.Run(context.Background()))
}

func TestWatcher_RecoversFromPanics(t *testing.T) {
	root := t.TempDir()

	calls := make(chan struct{}, 4)
	var n atomic.Int32
	onChange := func(context.Context, []string) {
		calls <- struct{}{}
		if n.Add(1) == 1 {
			panic("boom")
		}
	}

	start(t, New(root, onChange, WithDebounce(30*time.Millisecond)))

	for i := 0; i < 2; i++ {
		write(t, filepath.Join(root, "a.js"), string(rune('a'+i)))
		select {
		case <-calls:
		case <-time.After(3 * time.Second):
			t.Fatalf("call %d did not happen", i+1)
		}
	}
}
