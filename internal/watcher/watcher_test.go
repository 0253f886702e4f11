package watcher_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"rackscope/internal/analyzer"
	"rackscope/internal/testsupport"
	"rackscope/internal/watcher"
)

type processed struct {
	path string
	res  *analyzer.Result
	err  error
}

func startWatcher(t *testing.T, opts ...watcher.Option) (*watcher.Watcher, chan processed, string) {
	t.Helper()
	cfg := testsupport.NewConfig(t, testsupport.WithExportFormats())
	store := testsupport.MustOpenLibrary(t, cfg)
	svc := analyzer.New(cfg, store, nil, nil)

	results := make(chan processed, 8)
	opts = append(opts, watcher.WithResultHandler(func(path string, res *analyzer.Result, err error) {
		results <- processed{path: path, res: res, err: err}
	}))
	w, err := watcher.New(cfg, svc, nil, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("Run returned error: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Error("watcher did not stop")
		}
	})

	select {
	case <-w.Ready():
	case err := <-done:
		t.Fatalf("watcher exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher never became ready")
	}
	return w, results, cfg.Paths.InboxDir
}

func waitResult(t *testing.T, results <-chan processed) processed {
	t.Helper()
	select {
	case got := <-results:
		return got
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for inbox file to be processed")
	}
	return processed{}
}

func padFixture() testsupport.RackFixture {
	return testsupport.RackFixture{
		Chains: []testsupport.ChainFixture{{Name: "Main", Devices: []testsupport.DeviceFixture{{Tag: "Reverb"}}}},
	}
}

func TestWatcherAnalysesNewInboxFiles(t *testing.T) {
	w, results, inbox := startWatcher(t)

	path := testsupport.WriteRackFile(t, inbox, "Pad.adg", padFixture())
	got := waitResult(t, results)
	if got.err != nil {
		t.Fatalf("analysis failed: %v", got.err)
	}
	if got.path != path {
		t.Fatalf("processed %q, want %q", got.path, path)
	}
	if got.res.Analysis == nil || got.res.Document.Name != "Pad" {
		t.Fatalf("unexpected result %+v", got.res)
	}

	status := w.Status()
	if !status.Running || status.Processed != 1 || status.SessionID == "" {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestWatcherIgnoresUnsupportedAndHiddenFiles(t *testing.T) {
	_, results, inbox := startWatcher(t)

	if err := os.WriteFile(filepath.Join(inbox, "notes.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	testsupport.WriteRackFile(t, inbox, ".partial.adg", padFixture())
	path := testsupport.WriteRackFile(t, inbox, "Keys.adg", padFixture())

	got := waitResult(t, results)
	if got.path != path {
		t.Fatalf("expected only Keys.adg to be processed, got %q", got.path)
	}
	select {
	case extra := <-results:
		t.Fatalf("unexpected extra result for %q", extra.path)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherReportsRejectedFiles(t *testing.T) {
	w, results, inbox := startWatcher(t)

	if err := os.WriteFile(filepath.Join(inbox, "Broken.adg"), []byte("not gzip"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got := waitResult(t, results)
	if got.err == nil {
		t.Fatal("expected analysis error for garbage file")
	}
	if status := w.Status(); status.Failed != 1 {
		t.Fatalf("expected one failure, got %+v", status)
	}
}

func TestWatcherScansExistingFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithExportFormats())
	path := testsupport.WriteRackFile(t, cfg.Paths.InboxDir, "Existing.adg", padFixture())
	store := testsupport.MustOpenLibrary(t, cfg)
	svc := analyzer.New(cfg, store, nil, nil)

	results := make(chan processed, 1)
	w, err := watcher.New(cfg, svc, nil,
		watcher.WithScanExisting(true),
		watcher.WithResultHandler(func(p string, res *analyzer.Result, err error) {
			results <- processed{path: p, res: res, err: err}
		}),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	got := waitResult(t, results)
	if got.path != path || got.err != nil {
		t.Fatalf("unexpected result %+v", got)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestWatcherRefusesWhenLocked(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	held := flock.New(cfg.LockPath())
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("TryLock: ok=%v err=%v", ok, err)
	}
	defer held.Unlock()

	store := testsupport.MustOpenLibrary(t, cfg)
	w, err := watcher.New(cfg, analyzer.New(cfg, store, nil, nil), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Run(context.Background()); !errors.Is(err, watcher.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	if w.Status().Running {
		t.Fatal("watcher should not report running after lock failure")
	}
}

func TestNewRequiresDependencies(t *testing.T) {
	if _, err := watcher.New(nil, nil, nil); err == nil {
		t.Fatal("expected error without config")
	}
}
