package export

import (
	"context"
	"path/filepath"
	"sync"

	"aura/internal/domain"
)

// Guard lets one export at a time write a given output file. Paths are
// compared after resolving them, so "out.html" and "./out.html" share a
// slot. A nil *Guard runs everything unguarded.
type Guard struct {
	mu      sync.Mutex
	writing map[string]struct{}
	wg      sync.WaitGroup
}

func guardKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// Run calls fn unless an export to path is already in flight, in which
// case it returns ran=false without calling fn.
func (g *Guard) Run(path string, fn func() error) (ran bool, err error) {
	if g == nil {
		return true, fn()
	}
	key := guardKey(path)

	g.mu.Lock()
	if g.writing == nil {
		g.writing = make(map[string]struct{})
	}
	if _, busy := g.writing[key]; busy {
		g.mu.Unlock()
		return false, nil
	}
	g.writing[key] = struct{}{}
	g.wg.Add(1)
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		delete(g.writing, key)
		g.mu.Unlock()
		g.wg.Done()
	}()
	return true, fn()
}

// WriteFile is WriteFile run under the guard for path.
func (g *Guard) WriteFile(path string, doc domain.Document) (ran bool, err error) {
	return g.Run(path, func() error { return WriteFile(path, doc) })
}

// Busy reports whether an export to path is in flight.
func (g *Guard) Busy(path string) bool {
	if g == nil {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.writing[guardKey(path)]
	return busy
}

// Wait blocks until exports in flight finish or ctx is done.
func (g *Guard) Wait(ctx context.Context) {
	if g == nil {
		return
	}
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}
