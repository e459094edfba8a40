package app

import (
	"bytes"
	"context"
	"errors"
	"log"
	"time"

	"aura/internal/export"
	"aura/internal/storage"
)

// pollInterval is how often storeWatcher checks a non-file store.
const pollInterval = time.Second

// storeWatcher polls the persisted document for changes made by another
// process (e.g. an MCP session) and calls onChange when the stored bytes
// differ from the last ones seen.
type storeWatcher struct {
	kv       storage.KV
	key      string
	interval time.Duration
	onChange func(context.Context)
	last     []byte
}

func newStoreWatcher(kv storage.KV, key string, onChange func(context.Context)) *storeWatcher {
	return &storeWatcher{kv: kv, key: key, interval: pollInterval, onChange: onChange}
}

// Run polls until ctx is cancelled.
func (w *storeWatcher) Run(ctx context.Context) {
	w.last = w.fingerprint(ctx)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cur := w.fingerprint(ctx)
			if bytes.Equal(cur, w.last) {
				continue
			}
			w.last = cur
			w.onChange(ctx)
		}
	}
}

func (w *storeWatcher) fingerprint(ctx context.Context) []byte {
	data, err := w.kv.Get(ctx, w.key)
	if err != nil && !errors.Is(err, storage.ErrNotFound) && ctx.Err() == nil {
		log.Printf("[EXPORT] poll %s: %v", w.key, err)
	}
	return data
}

// WatchExport re-exports to path whenever the persisted document changes,
// until ctx is cancelled. File stores are watched with fsnotify, every
// other backend is polled.
func (a *App) WatchExport(ctx context.Context, path string) error {
	if source, ok := a.SnapshotFile(); ok {
		w, err := export.NewWatcher(source, path, &a.exports, nil)
		if err != nil {
			return err
		}
		<-ctx.Done()
		return w.Close()
	}

	log.Printf("[EXPORT] polling %s every %s -> %s", a.persister.Key(), pollInterval, path)
	newStoreWatcher(a.kv, a.persister.Key(), func(ctx context.Context) {
		if err := a.Export(ctx, path); err != nil {
			log.Printf("[EXPORT] %v", err)
		}
	}).Run(ctx)
	return nil
}

// ScheduleExport re-exports to path on the cron expression expr until ctx
// is cancelled.
func (a *App) ScheduleExport(ctx context.Context, expr, path string) error {
	s, err := export.NewScheduler(expr, func(ctx context.Context) error {
		return a.Export(ctx, path)
	})
	if err != nil {
		return err
	}
	s.Start()
	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.Stop(stopCtx)
	return nil
}
