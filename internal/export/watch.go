package export

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Debounce is how long the watcher waits after the last change before
// re-exporting.
const Debounce = 500 * time.Millisecond

// Watcher re-exports a file-backed document snapshot whenever it changes.
type Watcher struct {
	watcher  *fsnotify.Watcher
	source   string
	output   string
	guard    *Guard
	onExport func(error)

	mu    sync.Mutex
	timer *time.Timer
	done  chan struct{}
}

// NewWatcher starts watching source. After each burst of changes the
// document is exported to output through guard (which may be nil) and
// onExport (when set) receives the result. An export skipped because
// another one holds output is not reported.
func NewWatcher(source, output string, guard *Guard, onExport func(error)) (*Watcher, error) {
	absSource, err := filepath.Abs(source)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", source, err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory: snapshot writes replace the file by rename.
	if err := watcher.Add(filepath.Dir(absSource)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(absSource), err)
	}

	w := &Watcher{
		watcher:  watcher,
		source:   absSource,
		output:   output,
		guard:    guard,
		onExport: onExport,
		done:     make(chan struct{}),
	}
	go w.watchLoop()

	log.Printf("[EXPORT] watching %s -> %s", absSource, output)
	return w, nil
}

// Close stops the watcher and cancels any pending export.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return err
}

func (w *Watcher) watchLoop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if absPath, _ := filepath.Abs(event.Name); absPath != w.source {
				continue
			}
			w.schedule()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[EXPORT] watcher error: %v", err)
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(Debounce, w.export)
}

func (w *Watcher) export() {
	ran, err := w.guard.Run(w.output, func() error { return ExportFile(w.source, w.output) })
	if !ran {
		log.Printf("[EXPORT] %s: export already running, skipped", w.output)
		return
	}
	if err != nil {
		log.Printf("[EXPORT] %s: %v", w.source, err)
	} else {
		log.Printf("[EXPORT] wrote %s", w.output)
	}
	if w.onExport != nil {
		w.onExport(err)
	}
}
