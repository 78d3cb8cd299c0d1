// Package certbundle provides server certificate management.
package certbundle

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/consolegate/consolegate-go/internal/telemetry/metric"
)

// Watcher watches the bundle's source files and swaps a freshly loaded
// Bundle into the Store on changes. A failed reload keeps the previous
// bundle active.
type Watcher struct {
	store    *Store
	certFile string
	keyFile  string
	done     chan struct{}
	logger   *slog.Logger
	metrics  *metric.Registry

	// Debounce settings to avoid multiple reloads
	debounce   time.Duration
	lastReload time.Time
	reloadMu   sync.Mutex
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithLogger sets the logger for the watcher.
func WithLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// WithDebounce sets the debounce duration.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithMetrics sets the metrics registry. Defaults to the global registry.
func WithMetrics(reg *metric.Registry) WatcherOption {
	return func(w *Watcher) {
		w.metrics = reg
	}
}

// NewWatcher creates a watcher for the store's active bundle sources.
func NewWatcher(store *Store, opts ...WatcherOption) (*Watcher, error) {
	b := store.Bundle()
	if b == nil {
		return nil, fmt.Errorf("certbundle: store holds no bundle")
	}

	w := &Watcher{
		store:    store,
		certFile: b.CertFile(),
		keyFile:  b.KeyFile(),
		done:     make(chan struct{}),
		logger:   slog.Default(),
		metrics:  metric.Global(),
		debounce: 500 * time.Millisecond,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Start starts watching for certificate changes.
// This function blocks until Stop() is called.
func (w *Watcher) Start() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("certbundle: create watcher: %w", err)
	}

	// Watch the directories containing the source files.
	// This handles vim-style renames better.
	certDir := filepath.Dir(w.certFile)
	if err := watcher.Add(certDir); err != nil {
		watcher.Close()
		return fmt.Errorf("certbundle: watch cert dir %s: %w", certDir, err)
	}

	if w.keyFile != "" {
		keyDir := filepath.Dir(w.keyFile)
		if keyDir != certDir {
			if err := watcher.Add(keyDir); err != nil {
				watcher.Close()
				return fmt.Errorf("certbundle: watch key dir %s: %w", keyDir, err)
			}
		}
	}

	w.logger.Info("certificate watcher started",
		"cert_file", w.certFile,
		"key_file", w.keyFile,
	)

	certBase := filepath.Base(w.certFile)
	keyBase := ""
	if w.keyFile != "" {
		keyBase = filepath.Base(w.keyFile)
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			// Check if the changed file is our cert or key
			changedBase := filepath.Base(event.Name)
			if changedBase != certBase && (keyBase == "" || changedBase != keyBase) {
				continue
			}

			// Only reload on write or create events
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			w.logger.Debug("certificate file changed",
				"file", event.Name,
				"op", event.Op.String(),
			)

			// Debounce rapid changes
			if err := w.debouncedReload(); err != nil {
				w.logger.Error("certificate reload failed, keeping previous bundle",
					"error", err,
					"cert_file", w.certFile,
				)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("certificate watcher error",
				"error", err,
				"cert_file", w.certFile,
			)

		case <-w.done:
			return watcher.Close()
		}
	}
}

// StartAsync starts watching in a goroutine.
func (w *Watcher) StartAsync() {
	go func() {
		if err := w.Start(); err != nil {
			w.logger.Error("certificate watcher stopped with error",
				"error", err,
			)
		}
	}()
}

// Stop stops watching.
func (w *Watcher) Stop() {
	close(w.done)
}

// debouncedReload reloads the bundle with debouncing.
func (w *Watcher) debouncedReload() error {
	w.reloadMu.Lock()
	defer w.reloadMu.Unlock()

	now := time.Now()
	if now.Sub(w.lastReload) < w.debounce {
		return nil
	}
	w.lastReload = now

	// Small delay to ensure file write is complete
	time.Sleep(100 * time.Millisecond)

	return w.reload()
}

func (w *Watcher) reload() error {
	bundle, err := Load(w.certFile, w.keyFile)
	if err != nil {
		w.metrics.RecordCertReload("error")
		return err
	}

	w.store.Swap(bundle)
	w.metrics.RecordCertReload("ok")
	w.metrics.SetCertExpiry(bundle.Expiry())

	w.logger.Info("certificate reloaded",
		"cert_file", w.certFile,
		"fingerprint", bundle.Fingerprint(),
		"expiry", bundle.Expiry(),
	)

	return nil
}
