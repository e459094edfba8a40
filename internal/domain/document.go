package domain

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Document is the ordered set of blocks on the canvas, in insertion order.
// Insertion order drives iteration; StackOrder drives painting.
type Document []Block

// Clone returns a deep, independent copy of d. A nil document clones to an
// empty, non-nil one so snapshots always serialise as a JSON array.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for i, b := range d {
		out[i] = b.Clone()
	}
	return out
}

// Find returns the block with the given id.
func (d Document) Find(id string) (Block, bool) {
	if i := d.IndexOf(id); i >= 0 {
		return d[i], true
	}
	return Block{}, false
}

// IndexOf returns the position of the block with id, or -1.
func (d Document) IndexOf(id string) int {
	for i := range d {
		if d[i].ID == id {
			return i
		}
	}
	return -1
}

// ByStackOrder returns a copy of d sorted by StackOrder. Ties keep
// insertion order.
func (d Document) ByStackOrder() Document {
	out := d.Clone()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StackOrder < out[j].StackOrder
	})
	return out
}

// MarshalDocument encodes d in the persisted wire form.
func MarshalDocument(d Document) ([]byte, error) {
	if d == nil {
		d = Document{}
	}
	return json.Marshal(d)
}

// UnmarshalDocument decodes the persisted wire form.
func UnmarshalDocument(data []byte) (Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if d == nil {
		d = Document{}
	}
	return d, nil
}
