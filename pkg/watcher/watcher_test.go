package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_CoalescesRapidTriggers(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	var callCount atomic.Int32

	for i := 0; i < 10; i++ {
		d.Trigger(func() {
			callCount.Add(1)
		})
		time.Sleep(10 * time.Millisecond)
	}

	time.Sleep(150 * time.Millisecond)

	if count := callCount.Load(); count != 1 {
		t.Errorf("expected 1 callback invocation, got %d", count)
	}
}

func TestDebouncer_LastCallbackWins(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)

	var got atomic.Int32
	d.Trigger(func() { got.Store(1) })
	d.Trigger(func() { got.Store(2) })

	time.Sleep(100 * time.Millisecond)
	if v := got.Load(); v != 2 {
		t.Errorf("expected last callback to run, got %d", v)
	}
}

func TestDebouncer_Cancel(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	var called atomic.Bool
	d.Trigger(func() {
		called.Store(true)
	})
	d.Cancel()

	time.Sleep(100 * time.Millisecond)

	if called.Load() {
		t.Error("callback should not have been invoked after cancel")
	}
}

func TestDebouncer_DefaultDuration(t *testing.T) {
	d := NewDebouncer(0)
	if d.Duration() != DefaultDebounceDuration {
		t.Errorf("expected default duration %v, got %v", DefaultDebounceDuration, d.Duration())
	}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return cond()
}

func TestWatcher_DetectsFileChange(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "congress.json")
	if err := os.WriteFile(tmpFile, []byte("initial"), 0644); err != nil {
		t.Fatal(err)
	}

	var changed atomic.Bool
	w, err := NewWatcher(tmpFile,
		WithDebounceDuration(50*time.Millisecond),
		WithPollInterval(100*time.Millisecond),
		WithOnChange(func() { changed.Store(true) }),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(tmpFile, []byte("modified content"), 0644); err != nil {
		t.Fatal(err)
	}

	if !waitFor(t, 2*time.Second, changed.Load) {
		t.Error("expected change to be detected")
	}
}

func TestWatcher_PollingFallback(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "congress.json")
	if err := os.WriteFile(tmpFile, []byte("initial"), 0644); err != nil {
		t.Fatal(err)
	}

	var changed atomic.Bool
	w, err := NewWatcher(tmpFile,
		WithDebounceDuration(50*time.Millisecond),
		WithPollInterval(50*time.Millisecond),
		WithForcePoll(true),
		WithOnChange(func() { changed.Store(true) }),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if !w.IsPolling() {
		t.Error("expected polling mode")
	}

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(tmpFile, []byte("modified content, longer"), 0644); err != nil {
		t.Fatal(err)
	}

	if !waitFor(t, 2*time.Second, changed.Load) {
		t.Error("expected change to be detected in polling mode")
	}
}

func TestWatcher_ChangedChannel(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "congress.json")
	if err := os.WriteFile(tmpFile, []byte("initial"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(tmpFile,
		WithDebounceDuration(30*time.Millisecond),
		WithPollInterval(50*time.Millisecond),
		WithForcePoll(true),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	time.Sleep(80 * time.Millisecond)
	if err := os.WriteFile(tmpFile, []byte("changed!"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-w.Changed():
	case <-time.After(2 * time.Second):
		t.Error("expected a signal on Changed()")
	}
}

func TestWatcher_EnvForcePoll(t *testing.T) {
	t.Setenv(ForcePollEnv, "1")

	tmpFile := filepath.Join(t.TempDir(), "congress.json")
	if err := os.WriteFile(tmpFile, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(tmpFile)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if !w.IsPolling() {
		t.Errorf("expected %s to force polling", ForcePollEnv)
	}
}

func TestWatcher_FileRemoved(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "congress.json")
	if err := os.WriteFile(tmpFile, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	var (
		mu   sync.Mutex
		errs []error
	)
	w, err := NewWatcher(tmpFile,
		WithPollInterval(50*time.Millisecond),
		WithForcePoll(true),
		WithOnError(func(err error) {
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
		}),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.Remove(tmpFile); err != nil {
		t.Fatal(err)
	}

	removed := waitFor(t, 2*time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, e := range errs {
			if errors.Is(e, ErrFileRemoved) {
				return true
			}
		}
		return false
	})
	if !removed {
		t.Error("expected ErrFileRemoved")
	}

	time.Sleep(150 * time.Millisecond)
	mu.Lock()
	n := len(errs)
	mu.Unlock()
	if n != 1 {
		t.Errorf("removal should be reported once, got %d errors", n)
	}
}

func TestWatcher_StartStop(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "congress.json")
	if err := os.WriteFile(tmpFile, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(tmpFile)
	if err != nil {
		t.Fatal(err)
	}
	if w.IsStarted() {
		t.Error("should not be started before Start")
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !w.IsStarted() {
		t.Error("should be started")
	}
	if err := w.Start(context.Background()); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Start = %v, want ErrAlreadyStarted", err)
	}

	w.Stop()
	if w.IsStarted() {
		t.Error("should be stopped")
	}
	w.Stop()

	// Restart after stop
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("restart: %v", err)
	}
	w.Stop()
}

func TestWatcher_ContextCancelStopsNotifications(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "congress.json")
	if err := os.WriteFile(tmpFile, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	var changed atomic.Bool
	w, err := NewWatcher(tmpFile,
		WithPollInterval(30*time.Millisecond),
		WithDebounceDuration(20*time.Millisecond),
		WithForcePoll(true),
		WithOnChange(func() { changed.Store(true) }),
	)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()
	cancel()
	time.Sleep(60 * time.Millisecond)

	if err := os.WriteFile(tmpFile, []byte("after cancel, different size"), 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(200 * time.Millisecond)
	if changed.Load() {
		t.Error("change reported after context cancel")
	}
}

func TestWatcher_PathAndPollInterval(t *testing.T) {
	w, err := NewWatcher("relative/congress.json", WithPollInterval(5*time.Second))
	if err != nil {
		t.Fatal(err)
	}
	if !filepath.IsAbs(w.Path()) {
		t.Errorf("expected absolute path, got %q", w.Path())
	}
	if w.PollInterval() != 5*time.Second {
		t.Errorf("expected 5s poll interval, got %v", w.PollInterval())
	}

	w, _ = NewWatcher("x", WithPollInterval(0))
	if w.PollInterval() != DefaultPollInterval {
		t.Errorf("expected default poll interval, got %v", w.PollInterval())
	}
}

func TestEnvBool(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"YES", true},
		{" on ", true},
		{"0", false},
		{"false", false},
		{"maybe", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Setenv("CMAP_TEST_BOOL", tt.value)
		if got := envBool("CMAP_TEST_BOOL"); got != tt.want {
			t.Errorf("envBool(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}
