package history

import (
	"encoding/json"
	"fmt"

	"aura/internal/domain"
)

// DefaultCap is the maximum number of snapshots kept by a Timeline.
const DefaultCap = 50

// Timeline is a bounded, linear sequence of document snapshots with a cursor
// pointing at the current one. It is a value: every operation returns a new
// Timeline and leaves the receiver as it was. Stored snapshots are never
// mutated after they are recorded.
//
// A zero Timeline has no seed; the first Record on it becomes the seed.
type Timeline struct {
	entries []domain.Document
	cursor  int
	cap     int
}

// New creates a timeline holding only seed, with the default cap.
func New(seed domain.Document) Timeline {
	return NewWithCap(seed, DefaultCap)
}

// NewWithCap creates a timeline holding only seed. A cap below 1 falls back
// to DefaultCap.
func NewWithCap(seed domain.Document, capacity int) Timeline {
	if capacity < 1 {
		capacity = DefaultCap
	}
	return Timeline{
		entries: []domain.Document{seed.Clone()},
		cursor:  0,
		cap:     capacity,
	}
}

// Record drops every entry after the cursor, appends a copy of snapshot and
// moves the cursor onto it. When the cap is exceeded the oldest entry is
// evicted. The discarded redo branch cannot be recovered.
func (t Timeline) Record(snapshot domain.Document) Timeline {
	if len(t.entries) == 0 {
		return NewWithCap(snapshot, t.cap)
	}
	kept := t.cursor + 1
	entries := make([]domain.Document, kept, kept+1)
	copy(entries, t.entries[:kept])
	entries = append(entries, snapshot.Clone())
	cursor := len(entries) - 1

	if len(entries) > t.cap {
		entries = entries[1:]
		cursor = max(cursor-1, 0)
	}
	return Timeline{entries: entries, cursor: cursor, cap: t.cap}
}

// WithCap returns t bounded by capacity (DefaultCap when below 1). Surplus
// entries are evicted oldest first, except that the entry under the cursor
// is always kept; when it would fall out, redo entries go instead.
func (t Timeline) WithCap(capacity int) Timeline {
	if capacity < 1 {
		capacity = DefaultCap
	}
	if len(t.entries) == 0 {
		t.cap = capacity
		return t
	}
	start := min(max(len(t.entries)-capacity, 0), t.cursor)
	end := min(start+capacity, len(t.entries))
	entries := make([]domain.Document, end-start)
	copy(entries, t.entries[start:end])
	return Timeline{entries: entries, cursor: t.cursor - start, cap: capacity}
}

// Undo steps the cursor back. ok is false when there is nothing to undo, in
// which case t is returned unchanged.
func (t Timeline) Undo() (next Timeline, doc domain.Document, ok bool) {
	if !t.CanUndo() {
		return t, nil, false
	}
	t.cursor--
	return t, t.entries[t.cursor].Clone(), true
}

// Redo steps the cursor forward. ok is false when there is nothing to redo.
func (t Timeline) Redo() (next Timeline, doc domain.Document, ok bool) {
	if !t.CanRedo() {
		return t, nil, false
	}
	t.cursor++
	return t, t.entries[t.cursor].Clone(), true
}

func (t Timeline) CanUndo() bool { return t.cursor > 0 }

func (t Timeline) CanRedo() bool { return t.cursor < len(t.entries)-1 }

// Len is the number of retained snapshots, seed included.
func (t Timeline) Len() int { return len(t.entries) }

// Cursor is the index of the current snapshot.
func (t Timeline) Cursor() int { return t.cursor }

// Cap is the maximum number of snapshots retained.
func (t Timeline) Cap() int { return t.cap }

// Current returns a copy of the snapshot under the cursor.
func (t Timeline) Current() domain.Document {
	if len(t.entries) == 0 {
		return domain.Document{}
	}
	return t.entries[t.cursor].Clone()
}

// At returns a copy of the i-th retained snapshot, oldest first.
func (t Timeline) At(i int) (domain.Document, bool) {
	if i < 0 || i >= len(t.entries) {
		return nil, false
	}
	return t.entries[i].Clone(), true
}

// Stats returns the 1-based position of the cursor and the number of
// snapshots, for status displays.
func (t Timeline) Stats() (current, total int) {
	return t.cursor + 1, len(t.entries)
}

type timelineJSON struct {
	Cursor  int               `json:"cursor"`
	Cap     int               `json:"cap"`
	Entries []domain.Document `json:"entries"`
}

// MarshalJSON encodes the timeline for persistence.
func (t Timeline) MarshalJSON() ([]byte, error) {
	entries := t.entries
	if entries == nil {
		entries = []domain.Document{}
	}
	return json.Marshal(timelineJSON{Cursor: t.cursor, Cap: t.cap, Entries: entries})
}

// UnmarshalJSON decodes a persisted timeline and restores its invariants:
// at least one entry, no more than cap entries, cursor within range.
func (t *Timeline) UnmarshalJSON(data []byte) error {
	var raw timelineJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw.Entries) == 0 {
		return fmt.Errorf("decode timeline: no entries")
	}
	capacity := raw.Cap
	if capacity < 1 {
		capacity = DefaultCap
	}
	entries := raw.Entries
	cursor := raw.Cursor
	if over := len(entries) - capacity; over > 0 {
		entries = entries[over:]
		cursor -= over
	}
	cursor = min(max(cursor, 0), len(entries)-1)
	for i := range entries {
		if entries[i] == nil {
			entries[i] = domain.Document{}
		}
	}
	*t = Timeline{entries: entries, cursor: cursor, cap: capacity}
	return nil
}
