package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"rackscope/internal/analyzer"
	"rackscope/internal/config"
	"rackscope/internal/logging"
)

var (
	// ErrAlreadyRunning is returned when Run is called on an active watcher.
	ErrAlreadyRunning = errors.New("watcher already running")
	// ErrLocked is returned when another process holds the inbox lock.
	ErrLocked = errors.New("another rackscope watcher instance is already running")
)

// Analyzer is the part of analyzer.Service the watcher depends on.
type Analyzer interface {
	AnalyzeFile(ctx context.Context, path string, opts analyzer.Options) (*analyzer.Result, error)
}

// ResultHandler observes every processed inbox file.
type ResultHandler func(path string, res *analyzer.Result, err error)

// Option customizes a Watcher.
type Option func(*Watcher)

// WithResultHandler registers fn to be called after each analysis.
func WithResultHandler(fn ResultHandler) Option {
	return func(w *Watcher) {
		w.onResult = fn
	}
}

// WithScanExisting queues files already present in the inbox at startup.
func WithScanExisting(enabled bool) Option {
	return func(w *Watcher) {
		w.scanExisting = enabled
	}
}

// Status represents watcher runtime information.
type Status struct {
	Running      bool   `json:"running"`
	SessionID    string `json:"session_id,omitempty"`
	InboxDir     string `json:"inbox_dir"`
	LockFilePath string `json:"lock_file_path"`
	Processed    int64  `json:"processed"`
	Failed       int64  `json:"failed"`
}

// Watcher feeds new inbox files to the analyzer.
type Watcher struct {
	cfg          *config.Config
	analyzer     Analyzer
	logger       *slog.Logger
	debounce     time.Duration
	scanExisting bool
	onResult     ResultHandler

	lockPath string
	lock     *flock.Flock

	running   atomic.Bool
	processed atomic.Int64
	failed    atomic.Int64

	mu        sync.Mutex
	sessionID string
	ready     chan struct{}
	readyOnce sync.Once
}

// New constructs a watcher for cfg.Paths.InboxDir.
func New(cfg *config.Config, an Analyzer, logger *slog.Logger, opts ...Option) (*Watcher, error) {
	if cfg == nil || an == nil {
		return nil, errors.New("watcher requires config and analyzer")
	}
	debounce := time.Duration(cfg.Watch.DebounceMS) * time.Millisecond
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	w := &Watcher{
		cfg:      cfg,
		analyzer: an,
		logger:   logging.NewComponentLogger(logger, "watcher"),
		debounce: debounce,
		lockPath: cfg.LockPath(),
		lock:     flock.New(cfg.LockPath()),
		ready:    make(chan struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w, nil
}

// Ready is closed once the inbox is being watched.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Status returns the current watcher status.
func (w *Watcher) Status() Status {
	w.mu.Lock()
	sessionID := w.sessionID
	w.mu.Unlock()
	return Status{
		Running:      w.running.Load(),
		SessionID:    sessionID,
		InboxDir:     w.cfg.Paths.InboxDir,
		LockFilePath: w.lockPath,
		Processed:    w.processed.Load(),
		Failed:       w.failed.Load(),
	}
}

// Run watches the inbox until ctx is cancelled. It returns nil on a clean
// shutdown.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer w.running.Store(false)

	ok, err := w.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return ErrLocked
	}
	defer func() {
		if err := w.lock.Unlock(); err != nil {
			w.logger.Warn("failed to release watcher lock", logging.Error(err))
		}
	}()

	inbox := w.cfg.Paths.InboxDir
	if err := os.MkdirAll(inbox, 0o755); err != nil {
		return fmt.Errorf("ensure inbox: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fs watcher: %w", err)
	}
	defer fsw.Close()
	if err := fsw.Add(inbox); err != nil {
		return fmt.Errorf("watch inbox: %w", err)
	}

	sessionID := uuid.NewString()
	w.mu.Lock()
	w.sessionID = sessionID
	w.mu.Unlock()

	ctx = logging.WithCorrelationID(ctx, sessionID)
	logger := logging.WithContext(ctx, w.logger)
	logger.Info("inbox watcher started",
		logging.String("inbox", inbox),
		logging.String("lock", w.lockPath),
		logging.Duration("debounce", w.debounce),
		logging.Bool("scan_existing", w.scanExisting),
	)

	pending := make(map[string]time.Time)
	if w.scanExisting {
		w.queueExisting(inbox, pending, logger)
	}
	w.readyOnce.Do(func() { close(w.ready) })

	interval := w.debounce / 2
	if interval < 10*time.Millisecond {
		interval = 10 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("inbox watcher stopped",
				logging.Int64("processed", w.processed.Load()),
				logging.Int64("failed", w.failed.Load()),
			)
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if w.relevant(event) {
				pending[event.Name] = time.Now()
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("inbox watch error", logging.Error(err))
		case now := <-ticker.C:
			w.flush(ctx, pending, now, logger)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}
	return w.candidate(event.Name)
}

func (w *Watcher) candidate(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}
	return w.cfg.SupportsExtension(path)
}

func (w *Watcher) queueExisting(inbox string, pending map[string]time.Time, logger *slog.Logger) {
	entries, err := os.ReadDir(inbox)
	if err != nil {
		logger.Warn("inbox scan failed", logging.Error(err))
		return
	}
	for _, entry := range entries {
		path := filepath.Join(inbox, entry.Name())
		if entry.IsDir() || !w.candidate(path) {
			continue
		}
		pending[path] = time.Time{}
	}
	if len(pending) > 0 {
		logger.Info("queued existing inbox files", logging.Int("count", len(pending)))
	}
}

func (w *Watcher) flush(ctx context.Context, pending map[string]time.Time, now time.Time, logger *slog.Logger) {
	due := make([]string, 0, len(pending))
	for path, last := range pending {
		if now.Sub(last) >= w.debounce {
			due = append(due, path)
		}
	}
	sort.Strings(due)
	for _, path := range due {
		delete(pending, path)
		if ctx.Err() != nil {
			return
		}
		w.process(ctx, path, logger)
	}
}

func (w *Watcher) process(ctx context.Context, path string, logger *slog.Logger) {
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return
	}
	res, err := w.analyzer.AnalyzeFile(ctx, path, analyzer.Options{})
	if err != nil {
		w.failed.Add(1)
		logging.WarnWithContext(logger, "inbox file rejected", "inbox_rejected",
			logging.String(logging.FieldSourcePath, path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check that the file is a gzip-compressed rack preset"),
			logging.String(logging.FieldImpact, "file left in inbox without an analysis"),
		)
	} else {
		w.processed.Add(1)
		attrs := []logging.Attr{
			logging.String(logging.FieldSourcePath, path),
			logging.String("outcome", string(res.Outcome)),
		}
		if res.Analysis != nil {
			attrs = append(attrs, logging.String(logging.FieldAnalysisID, res.Analysis.ID))
		}
		logger.Info("inbox file analysed", logging.Args(attrs...)...)
	}
	if w.onResult != nil {
		w.onResult(path, res, err)
	}
}
