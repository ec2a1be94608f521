package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type runner struct {
	calls atomic.Int32
	ch    chan int32
	err   error
}

func newRunner() *runner {
	return &runner{ch: make(chan int32, 16)}
}

func (r *runner) handle(ctx context.Context, path string) error {
	r.ch <- r.calls.Add(1)
	return r.err
}

func (r *runner) await(t *testing.T, want int32) {
	t.Helper()
	select {
	case got := <-r.ch:
		require.Equal(t, want, got)
	case <-time.After(5 * time.Second):
		t.Fatalf("handler call %d never happened", want)
	}
}

func start(t *testing.T, w *Watcher) (stop func()) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	return func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("watcher did not stop")
		}
	}
}

func TestWatcher_DebouncesBurstOfWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.csv")
	require.NoError(t, os.WriteFile(path, []byte("Day,Category,StartTime,EndTime\n"), 0o644))

	r := newRunner()
	stop := start(t, &Watcher{
		Path:       path,
		Debounce:   200 * time.Millisecond,
		Handler:    r.handle,
		Logger:     zerolog.Nop(),
		InitialRun: true,
	})
	defer stop()

	r.await(t, 1)

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("Day,Category,StartTime,EndTime\nMonday,Work,09:00,17:00\n"), 0o644))
	}
	r.await(t, 2)

	time.Sleep(500 * time.Millisecond)
	assert.EqualValues(t, 2, r.calls.Load())
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.csv")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	r := newRunner()
	stop := start(t, &Watcher{
		Path:       path,
		Debounce:   50 * time.Millisecond,
		Handler:    r.handle,
		Logger:     zerolog.Nop(),
		InitialRun: true,
	})
	defer stop()
	r.await(t, 1)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("y"), 0o644))
	time.Sleep(300 * time.Millisecond)
	assert.EqualValues(t, 1, r.calls.Load())
}

func TestWatcher_SurvivesHandlerErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.csv")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	r := newRunner()
	r.err = errors.New("bad row")
	stop := start(t, &Watcher{
		Path:       path,
		Debounce:   50 * time.Millisecond,
		Handler:    r.handle,
		Logger:     zerolog.Nop(),
		InitialRun: true,
	})
	defer stop()
	r.await(t, 1)

	require.NoError(t, os.WriteFile(path, []byte("xy"), 0o644))
	r.await(t, 2)
}

func TestWatcher_RequiresHandler(t *testing.T) {
	err := (&Watcher{Path: "plan.csv"}).Run(context.Background())
	assert.Error(t, err)
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w := &Watcher{
		Path:    filepath.Join(t.TempDir(), "gone", "plan.csv"),
		Handler: func(context.Context, string) error { return nil },
		Logger:  zerolog.Nop(),
	}
	assert.Error(t, w.Run(context.Background()))
}

func TestWaitForContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.csv")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	go func() {
		time.Sleep(30 * time.Millisecond)
		_ = os.WriteFile(path, []byte("Day"), 0o644)
	}()
	require.NoError(t, WaitForContent(context.Background(), path, 100, 10*time.Millisecond))
}

func TestWaitForContent_GivesUp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.csv")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	err := WaitForContent(context.Background(), path, 3, time.Millisecond)
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestWaitForContent_Cancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.csv")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, WaitForContent(ctx, path, 10, time.Second), context.Canceled)
}

func TestWaitForContent_MissingFile(t *testing.T) {
	err := WaitForContent(context.Background(), filepath.Join(t.TempDir(), "nope"), 1, time.Millisecond)
	assert.Error(t, err)
}
