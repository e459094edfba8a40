package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"aura/internal/domain"
	"aura/internal/history"
)

// ─────────────────────────────────────────────────────────────
// Document Service: the live canvas document and its history
// ─────────────────────────────────────────────────────────────

// Events emitted by DocumentService.
const (
	EventDocumentChanged  = "document:changed"
	EventSelectionChanged = "selection:changed"
)

// SnapshotSink receives the live document and timeline after every change.
// Implementations must not fail the edit; see Persister.
type SnapshotSink interface {
	Save(ctx context.Context, doc domain.Document, tl history.Timeline)
}

// Status summarises the session for toolbars and status lines.
type Status struct {
	Blocks   int    `json:"blocks"`
	CanUndo  bool   `json:"canUndo"`
	CanRedo  bool   `json:"canRedo"`
	Cursor   int    `json:"cursor"`
	Length   int    `json:"length"`
	Selected string `json:"selected,omitempty"`
}

// DocumentService owns the single live Document of a session and the
// history timeline it is recorded into. Every accepted edit produces a new
// snapshot and records it; unknown ids are tolerated as recorded no-ops.
type DocumentService struct {
	mu       sync.Mutex
	doc      domain.Document
	timeline history.Timeline
	selected string
	seq      uint64 // bumped on every commit

	saveMu sync.Mutex
	saved  uint64 // seq of the last snapshot handed to sink

	newID      func() string
	emitter    EventEmitter
	sink       SnapshotSink
	historyCap int
	resumed    *history.Timeline
}

// Option customises a DocumentService.
type Option func(*DocumentService)

// WithIDGenerator replaces the uuid-based id allocator.
func WithIDGenerator(gen func() string) Option {
	return func(s *DocumentService) { s.newID = gen }
}

// WithSnapshotSink persists the document after every change.
func WithSnapshotSink(sink SnapshotSink) Option {
	return func(s *DocumentService) { s.sink = sink }
}

// WithHistoryCap bounds the timeline to n snapshots.
func WithHistoryCap(n int) Option {
	return func(s *DocumentService) { s.historyCap = n }
}

// WithTimeline resumes a previously persisted timeline. Its current entry
// becomes the live document and the seed is ignored.
func WithTimeline(tl history.Timeline) Option {
	return func(s *DocumentService) {
		if tl.Len() > 0 {
			s.resumed = &tl
		}
	}
}

// NewBlockID allocates a fresh block id.
func NewBlockID() string {
	return "component-" + uuid.NewString()
}

// NewDocumentService creates a DocumentService seeded with seed. emitter may
// be nil.
func NewDocumentService(seed domain.Document, emitter EventEmitter, opts ...Option) *DocumentService {
	if emitter == nil {
		emitter = noopEmitter{}
	}
	s := &DocumentService{
		doc:        seed.Clone(),
		newID:      NewBlockID,
		emitter:    emitter,
		historyCap: history.DefaultCap,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.resumed != nil {
		s.timeline = s.resumed.WithCap(s.historyCap)
		s.doc = s.timeline.Current()
		s.resumed = nil
	} else {
		s.timeline = history.NewWithCap(s.doc, s.historyCap)
	}
	return s
}

// AddBlock places a new block of kind at pos with the kind's default
// properties, records the result and selects the new block.
func (s *DocumentService) AddBlock(ctx context.Context, kind domain.BlockKind, pos domain.Position) (domain.Block, error) {
	return s.AddBlockAt(ctx, kind, func(domain.Document) domain.Position { return pos })
}

// AddBlockAt is AddBlock with the position chosen by place, which sees the
// live document under the service lock. place must not keep or modify it
// and must not call back into the service.
func (s *DocumentService) AddBlockAt(ctx context.Context, kind domain.BlockKind, place func(domain.Document) domain.Position) (domain.Block, error) {
	if !kind.Valid() {
		return domain.Block{}, fmt.Errorf("add block: %w: %q", domain.ErrUnknownKind, kind)
	}

	s.mu.Lock()
	b := domain.Block{
		ID:         s.newID(),
		Kind:       kind,
		Position:   place(s.doc),
		Properties: domain.DefaultsFor(kind),
		StackOrder: len(s.doc) + 1,
	}
	next := append(s.doc.Clone(), b)
	s.commitLocked(next)
	selChanged := s.selectLocked(b.ID)
	ch := s.changeLocked()
	s.mu.Unlock()

	s.publish(ctx, ch, selChanged)
	return b.Clone(), nil
}

// UpdateBlock shallow-merges patch into the block with id. An unknown id
// leaves the document as it was, but the edit is still recorded.
func (s *DocumentService) UpdateBlock(ctx context.Context, id string, patch domain.BlockPatch) domain.Document {
	ch, _, _ := s.update(ctx, id, func(domain.Block) (domain.BlockPatch, error) { return patch, nil })
	return ch.doc.Clone()
}

// UpdateBlockFunc builds the patch from the block as it stands under the
// service lock, so fields the patch copies from it cannot be stale. An
// unknown id is recorded as a no-op without calling build and found is
// false. When build fails nothing is recorded.
func (s *DocumentService) UpdateBlockFunc(ctx context.Context, id string, build func(domain.Block) (domain.BlockPatch, error)) (updated domain.Block, found bool, err error) {
	ch, i, err := s.update(ctx, id, build)
	if err != nil || i < 0 {
		return domain.Block{}, false, err
	}
	return ch.doc[i].Clone(), true, nil
}

func (s *DocumentService) update(ctx context.Context, id string, build func(domain.Block) (domain.BlockPatch, error)) (change, int, error) {
	s.mu.Lock()
	next := s.doc.Clone()
	i := next.IndexOf(id)
	if i >= 0 {
		patch, err := build(next[i].Clone())
		if err != nil {
			s.mu.Unlock()
			return change{}, -1, err
		}
		next[i] = patch.Apply(next[i])
	}
	s.commitLocked(next)
	ch := s.changeLocked()
	s.mu.Unlock()

	s.publish(ctx, ch, false)
	return ch, i, nil
}

// DeleteBlock removes the block with id and reports whether it existed.
// Unknown ids are recorded no-ops. Deleting the selected block clears the
// selection.
func (s *DocumentService) DeleteBlock(ctx context.Context, id string) (domain.Document, bool) {
	s.mu.Lock()
	next := make(domain.Document, 0, len(s.doc))
	for _, b := range s.doc {
		if b.ID != id {
			next = append(next, b.Clone())
		}
	}
	found := len(next) < len(s.doc)
	s.commitLocked(next)
	selChanged := false
	if s.selected == id && id != "" {
		selChanged = s.selectLocked("")
	}
	ch := s.changeLocked()
	s.mu.Unlock()

	s.publish(ctx, ch, selChanged)
	return ch.doc.Clone(), found
}

// Undo replaces the live document with the previous snapshot and clears
// the selection. It reports false when there is nothing to undo.
func (s *DocumentService) Undo(ctx context.Context) bool {
	return s.travel(ctx, history.Timeline.Undo)
}

// Redo replaces the live document with the next snapshot and clears the
// selection. It reports false when there is nothing to redo.
func (s *DocumentService) Redo(ctx context.Context) bool {
	return s.travel(ctx, history.Timeline.Redo)
}

func (s *DocumentService) travel(ctx context.Context, step func(history.Timeline) (history.Timeline, domain.Document, bool)) bool {
	s.mu.Lock()
	tl, doc, ok := step(s.timeline)
	if !ok {
		s.mu.Unlock()
		return false
	}
	s.timeline = tl
	s.doc = doc
	s.seq++
	selChanged := s.selectLocked("")
	ch := s.changeLocked()
	s.mu.Unlock()

	s.publish(ctx, ch, selChanged)
	return true
}

// ReplaceDocument records doc as a new edit, e.g. after an import.
func (s *DocumentService) ReplaceDocument(ctx context.Context, doc domain.Document) {
	s.mu.Lock()
	s.commitLocked(doc.Clone())
	selChanged := false
	if _, ok := s.doc.Find(s.selected); !ok && s.selected != "" {
		selChanged = s.selectLocked("")
	}
	ch := s.changeLocked()
	s.mu.Unlock()

	s.publish(ctx, ch, selChanged)
}

// Reset clears the canvas as a recorded, undoable edit.
func (s *DocumentService) Reset(ctx context.Context) {
	s.ReplaceDocument(ctx, domain.Document{})
}

// Select marks the block with id as the active selection. It reports false
// and leaves the selection alone when no such block exists.
func (s *DocumentService) Select(ctx context.Context, id string) bool {
	s.mu.Lock()
	if _, ok := s.doc.Find(id); !ok {
		s.mu.Unlock()
		return false
	}
	changed := s.selectLocked(id)
	ch := s.changeLocked()
	s.mu.Unlock()

	if changed {
		s.emitter.Emit(ctx, EventSelectionChanged, ch.status)
	}
	return true
}

// ClearSelection drops the active selection.
func (s *DocumentService) ClearSelection(ctx context.Context) {
	s.mu.Lock()
	changed := s.selectLocked("")
	ch := s.changeLocked()
	s.mu.Unlock()

	if changed {
		s.emitter.Emit(ctx, EventSelectionChanged, ch.status)
	}
}

// Selection returns the selected block as it currently stands.
func (s *DocumentService) Selection() (domain.Block, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == "" {
		return domain.Block{}, false
	}
	b, ok := s.doc.Find(s.selected)
	if !ok {
		return domain.Block{}, false
	}
	return b.Clone(), true
}

// Document returns a copy of the live document.
func (s *DocumentService) Document() domain.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// History returns the current timeline. Timelines are values, so the
// caller cannot alter the service through it.
func (s *DocumentService) History() history.Timeline {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeline
}

func (s *DocumentService) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeline.CanUndo()
}

func (s *DocumentService) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeline.CanRedo()
}

// Status returns a summary of the session.
func (s *DocumentService) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

// ── internals ──────────────────────────────────────────────

// change is what publish needs, captured while the lock is held.
type change struct {
	seq    uint64
	doc    domain.Document
	tl     history.Timeline
	status Status
}

func (s *DocumentService) commitLocked(next domain.Document) {
	s.doc = next
	s.timeline = s.timeline.Record(next)
	s.seq++
}

func (s *DocumentService) selectLocked(id string) bool {
	if s.selected == id {
		return false
	}
	s.selected = id
	return true
}

func (s *DocumentService) statusLocked() Status {
	return Status{
		Blocks:   len(s.doc),
		CanUndo:  s.timeline.CanUndo(),
		CanRedo:  s.timeline.CanRedo(),
		Cursor:   s.timeline.Cursor(),
		Length:   s.timeline.Len(),
		Selected: s.selected,
	}
}

func (s *DocumentService) changeLocked() change {
	return change{seq: s.seq, doc: s.doc.Clone(), tl: s.timeline, status: s.statusLocked()}
}

// publish runs outside the lock so listeners may call back into the service.
func (s *DocumentService) publish(ctx context.Context, ch change, selChanged bool) {
	s.persist(ctx, ch)
	s.emitter.Emit(ctx, EventDocumentChanged, ch.status)
	if selChanged {
		s.emitter.Emit(ctx, EventSelectionChanged, ch.status)
	}
}

// persist hands ch to the sink one save at a time. A change that lost the
// race to a later commit is dropped, so the sink ends on the newest state.
func (s *DocumentService) persist(ctx context.Context, ch change) {
	if s.sink == nil {
		return
	}
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	if ch.seq <= s.saved {
		return
	}
	s.sink.Save(ctx, ch.doc, ch.tl)
	s.saved = ch.seq
}
