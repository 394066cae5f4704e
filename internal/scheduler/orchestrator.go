package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/fortuna/mystats/internal/store"
)

// Loader produces a fresh snapshot.
type Loader interface {
	Load(ctx context.Context) (*store.Snapshot, error)
}

// Invalidator drops cached source text before a forced refresh.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Orchestrator keeps the store's snapshot current
type Orchestrator struct {
	loader      Loader
	store       *store.Store
	invalidator Invalidator
	config      *Config
	cancel      context.CancelFunc

	// refreshMu serializes loads so a manual refresh never races the ticker.
	refreshMu sync.Mutex

	mu          sync.RWMutex
	lastAttempt time.Time
	lastSuccess time.Time
	lastErr     error
	refreshes   int
	failures    int
}

// Config holds scheduler configuration
type Config struct {
	Interval      time.Duration // 0 disables periodic refresh
	MaxRetries    int           // attempts per refresh; minimum 1
	RetryDelay    time.Duration
	WatchFiles    bool
	WatchPaths    []string // local source files
	WatchDebounce time.Duration
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() *Config {
	return &Config{
		Interval:      10 * time.Minute,
		MaxRetries:    3,
		RetryDelay:    5 * time.Second,
		WatchFiles:    true,
		WatchDebounce: 500 * time.Millisecond,
	}
}

// NewOrchestrator creates a new scheduler orchestrator. invalidator may be nil.
func NewOrchestrator(loader Loader, st *store.Store, invalidator Invalidator, config *Config) *Orchestrator {
	if config == nil {
		config = DefaultConfig()
	}
	if config.MaxRetries < 1 {
		config.MaxRetries = 1
	}
	if config.WatchDebounce <= 0 {
		config.WatchDebounce = 500 * time.Millisecond
	}
	return &Orchestrator{
		loader:      loader,
		store:       st,
		invalidator: invalidator,
		config:      config,
	}
}

// Start loads the first snapshot, then refreshes on the interval and on
// watched file changes until ctx is canceled or Stop is called.
func (o *Orchestrator) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	o.mu.Lock()
	o.cancel = cancel
	o.mu.Unlock()

	log.Printf("Refresh interval: %v, file watch: %v (%d paths)", o.config.Interval, o.config.WatchFiles, len(o.config.WatchPaths))

	if err := o.refreshWithRetry(ctx); err != nil {
		log.Printf("❌ Initial load failed: %v", err)
	}

	if o.config.Interval > 0 {
		go o.runPeriodicRefresh(ctx)
	}
	if o.config.WatchFiles && len(o.config.WatchPaths) > 0 {
		go o.runFileWatch(ctx)
	}

	<-ctx.Done()
	log.Println("Scheduler orchestrator stopping...")
}

func (o *Orchestrator) runPeriodicRefresh(ctx context.Context) {
	log.Printf("→ Periodic refresh started (interval: %v)", o.config.Interval)

	ticker := time.NewTicker(o.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("→ Periodic refresh stopped")
			return
		case <-ticker.C:
			if err := o.refreshWithRetry(ctx); err != nil {
				log.Printf("  ❌ Scheduled refresh failed, keeping previous data: %v", err)
			}
		}
	}
}

// runFileWatch watches the directories of local sources so that editors
// which replace files on save are still seen.
func (o *Orchestrator) runFileWatch(ctx context.Context) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("  ⚠️  File watch unavailable: %v", err)
		return
	}
	defer watcher.Close()

	watched := make(map[string]bool)
	for _, p := range o.config.WatchPaths {
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		watched[abs] = true
		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			log.Printf("  ⚠️  Cannot watch %s: %v", p, err)
		}
	}

	log.Printf("→ Watching %d source files for changes", len(watched))

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			abs, _ := filepath.Abs(event.Name)
			if !watched[abs] || !event.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			debounce = time.After(o.config.WatchDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("  ⚠️  File watch error: %v", err)
		case <-debounce:
			debounce = nil
			log.Println("  Source file changed, reloading")
			if err := o.refreshWithRetry(ctx); err != nil {
				log.Printf("  ❌ Reload after file change failed, keeping previous data: %v", err)
			}
		}
	}
}

// Refresh forces a reload now, bypassing cached source text.
func (o *Orchestrator) Refresh(ctx context.Context) error {
	log.Println("Manual refresh triggered")
	if o.invalidator != nil {
		if err := o.invalidator.Invalidate(ctx); err != nil {
			log.Printf("  ⚠️  Cache invalidation failed: %v", err)
		}
	}
	return o.refreshWithRetry(ctx)
}

// refreshWithRetry loads a snapshot, retrying on failure. The store keeps its
// previous snapshot when every attempt fails.
func (o *Orchestrator) refreshWithRetry(ctx context.Context) error {
	o.refreshMu.Lock()
	defer o.refreshMu.Unlock()

	var err error
	for attempt := 1; attempt <= o.config.MaxRetries; attempt++ {
		var snap *store.Snapshot
		snap, err = o.loader.Load(ctx)
		o.record(err)
		if err == nil {
			o.store.Replace(snap)
			return nil
		}
		if errors.Is(err, context.Canceled) {
			return err
		}

		log.Printf("  ⚠️  Refresh attempt %d/%d failed: %v", attempt, o.config.MaxRetries, err)

		if attempt < o.config.MaxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(o.config.RetryDelay):
			}
		}
	}
	return fmt.Errorf("refresh failed after %d attempts: %w", o.config.MaxRetries, err)
}

func (o *Orchestrator) record(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	now := time.Now()
	o.lastAttempt = now
	o.lastErr = err
	if err != nil {
		o.failures++
		return
	}
	o.lastSuccess = now
	o.refreshes++
}

// Stop gracefully stops the scheduler
func (o *Orchestrator) Stop() {
	log.Println("Stopping scheduler orchestrator...")
	o.mu.RLock()
	cancel := o.cancel
	o.mu.RUnlock()
	if cancel != nil {
		cancel()
	}
	log.Println("✓ Scheduler orchestrator stopped")
}

// GetStatus returns current scheduler status
func (o *Orchestrator) GetStatus() map[string]interface{} {
	o.mu.RLock()
	defer o.mu.RUnlock()

	status := map[string]interface{}{
		"refresh_interval": o.config.Interval.String(),
		"watch_files":      o.config.WatchFiles,
		"watched_paths":    len(o.config.WatchPaths),
		"refreshes":        o.refreshes,
		"failures":         o.failures,
		"loaded":           o.store.Loaded(),
	}
	if !o.lastAttempt.IsZero() {
		status["last_attempt"] = o.lastAttempt.Format(time.RFC3339)
	}
	if !o.lastSuccess.IsZero() {
		status["last_success"] = o.lastSuccess.Format(time.RFC3339)
	}
	if o.lastErr != nil {
		status["last_error"] = o.lastErr.Error()
	}
	return status
}
