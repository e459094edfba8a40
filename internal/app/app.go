package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"aura/internal/config"
	"aura/internal/domain"
	"aura/internal/export"
	"aura/internal/service"
	"aura/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// App owns one editing session: the KV store, the persister that keeps the
// document in it, and the DocumentService every surface edits through.
type App struct {
	cfg     config.Config
	emitter service.EventEmitter

	kv        storage.KV
	persister *service.Persister
	docs      *service.DocumentService
	exports   export.Guard
}

// New creates an App. Nothing is opened until Startup.
func New(cfg config.Config) *App {
	return &App{cfg: cfg, emitter: logEmitter{}}
}

// Startup opens the store, rehydrates the last document (and its timeline
// when history persistence is on) and builds the DocumentService.
func (a *App) Startup(ctx context.Context) error {
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	kv, err := storage.Open(ctx, a.cfg.Store())
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	a.kv = kv
	a.persister = service.NewPersister(kv, a.cfg.SessionKey, a.cfg.PersistHistory)

	doc := a.persister.Load(ctx)
	opts := []service.Option{
		service.WithSnapshotSink(a.persister),
		service.WithHistoryCap(a.cfg.HistoryCap),
	}
	if tl, ok := a.persister.LoadTimeline(ctx, doc); ok {
		opts = append(opts, service.WithTimeline(tl))
		log.Printf("[SESSION] resumed history: %d entries, cursor %d", tl.Len(), tl.Cursor())
	}
	a.docs = service.NewDocumentService(doc, a.emitter, opts...)

	log.Printf("[SESSION] %s: %d block(s) loaded from %s", a.cfg.SessionKey, len(doc), storage.Redact(a.cfg.Store()))
	return nil
}

// Shutdown waits for running exports and releases the store.
func (a *App) Shutdown(ctx context.Context) {
	waitCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	a.exports.Wait(waitCtx)
	cancel()

	if a.kv != nil {
		if err := a.kv.Close(); err != nil {
			log.Printf("[SESSION] close store: %v", err)
		}
		a.kv = nil
	}
}

// Documents returns the session's DocumentService.
func (a *App) Documents() *service.DocumentService {
	return a.docs
}

// Status summarises the session.
func (a *App) Status() service.Status {
	return a.docs.Status()
}

// Stored reads the document currently persisted, which may be newer than
// the in-memory one when another process edits the same session.
func (a *App) Stored(ctx context.Context) domain.Document {
	return a.persister.Load(ctx)
}

// Export writes the persisted document as HTML to path. A call that finds
// another export to path still running is skipped.
func (a *App) Export(ctx context.Context, path string) error {
	var n int
	ran, err := a.exports.Run(path, func() error {
		doc := a.Stored(ctx)
		n = len(doc)
		return export.WriteFile(path, doc)
	})
	switch {
	case err != nil:
		return err
	case !ran:
		log.Printf("[EXPORT] %s: export already running, skipped", path)
	default:
		log.Printf("[EXPORT] wrote %d block(s) to %s", n, path)
	}
	return nil
}

// Exports is the guard every export of this session goes through.
func (a *App) Exports() *export.Guard {
	return &a.exports
}

// SnapshotFile returns the file holding the persisted document when the
// session uses a file:// store.
func (a *App) SnapshotFile() (string, bool) {
	fkv, ok := a.kv.(*storage.FileKV)
	if !ok {
		return "", false
	}
	return fkv.Path(a.persister.Key()), true
}

// logEmitter reports session events on the log in headless mode.
type logEmitter struct{}

func (logEmitter) Emit(_ context.Context, event string, data any) {
	if st, ok := data.(service.Status); ok {
		log.Printf("[EVENT] %s blocks=%d cursor=%d/%d", event, st.Blocks, st.Cursor, st.Length)
		return
	}
	log.Printf("[EVENT] %s", event)
}
