package kv

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce groups bursts of filesystem events into one snapshot diff
const DefaultDebounce = 150 * time.Millisecond

// Change reports that the value stored under Key was added, modified or removed
type Change struct {
	Key string
}

// Watcher watches a store's backing file and reports which keys changed,
// whichever process wrote them.
type Watcher struct {
	mu       sync.Mutex
	store    Store
	logger   *zap.Logger
	watcher  *fsnotify.Watcher
	dir      string
	base     string
	debounce time.Duration
	last     map[string]string
	changes  chan Change
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
}

// WatchOption configures a Watcher
type WatchOption func(*Watcher)

// WithDebounce overrides DefaultDebounce
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) { w.debounce = d }
}

// NewWatcher creates a watcher for store. Stores without a backing file
// return ErrNotWatchable.
func NewWatcher(store Store, logger *zap.Logger, opts ...WatchOption) (*Watcher, error) {
	if store.Path() == "" {
		return nil, ErrNotWatchable
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		store:    store,
		logger:   logger,
		watcher:  fw,
		dir:      filepath.Dir(store.Path()),
		base:     filepath.Base(store.Path()),
		debounce: DefaultDebounce,
		changes:  make(chan Change, 64),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.debounce < 10*time.Millisecond {
		w.debounce = 10 * time.Millisecond
	}
	return w, nil
}

// Changes returns the channel of change notifications. It is closed when
// the watcher stops.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Start records the current contents and begins watching. Non-blocking.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := os.MkdirAll(w.dir, 0700); err != nil {
		w.logger.Warn("store dir unavailable", zap.String("dir", w.dir), zap.Error(err))
	}

	snap, err := w.store.Snapshot()
	if err != nil {
		w.logger.Warn("initial snapshot failed", zap.Error(err))
		snap = map[string]string{}
	}
	w.last = snap

	if err := w.watcher.Add(w.dir); err != nil {
		_ = w.watcher.Close()
		close(w.changes)
		close(w.doneCh)
		return err
	}
	w.logger.Debug("watching store", zap.String("dir", w.dir), zap.String("file", w.base))

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for its goroutine to exit
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)
	defer close(w.changes)
	defer func() {
		if err := w.watcher.Close(); err != nil {
			w.logger.Error("closing fsnotify watcher", zap.Error(err))
		}
	}()

	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	var pendingSince time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !strings.HasPrefix(filepath.Base(event.Name), w.base) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if pendingSince.IsZero() {
				pendingSince = time.Now()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("store watcher error", zap.Error(err))
		case <-ticker.C:
			if pendingSince.IsZero() || time.Since(pendingSince) < w.debounce {
				continue
			}
			pendingSince = time.Time{}
			if !w.emit(ctx) {
				return
			}
		}
	}
}

// emit diffs the store against the last snapshot and sends one Change per
// differing key. Returns false when the watcher is shutting down.
func (w *Watcher) emit(ctx context.Context) bool {
	snap, err := w.store.Snapshot()
	if err != nil {
		w.logger.Debug("snapshot during change failed", zap.Error(err))
		return true
	}

	keys := diffKeys(w.last, snap)
	w.last = snap
	for _, key := range keys {
		w.logger.Debug("store key changed", zap.String("key", key))
		select {
		case w.changes <- Change{Key: key}:
		case <-ctx.Done():
			return false
		case <-w.stopCh:
			return false
		}
	}
	return true
}

func diffKeys(before, after map[string]string) []string {
	var keys []string
	for k, v := range after {
		if old, ok := before[k]; !ok || old != v {
			keys = append(keys, k)
		}
	}
	for k := range before {
		if _, ok := after[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
