package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownKind is returned when a block kind is outside the palette.
var ErrUnknownKind = errors.New("unknown block kind")

type BlockKind string

const (
	BlockKindText     BlockKind = "text"
	BlockKindTextArea BlockKind = "textarea"
	BlockKindImage    BlockKind = "image"
	BlockKindButton   BlockKind = "button"
)

// Kinds lists the palette in display order.
var Kinds = []BlockKind{BlockKindText, BlockKindTextArea, BlockKindImage, BlockKindButton}

// Valid reports whether k is one of the palette kinds.
func (k BlockKind) Valid() bool {
	switch k {
	case BlockKindText, BlockKindTextArea, BlockKindImage, BlockKindButton:
		return true
	}
	return false
}

// ParseBlockKind converts user input to a BlockKind.
func ParseBlockKind(s string) (BlockKind, error) {
	k := BlockKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

// Position is a point in canvas pixel space.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Block is a unit of placed content on the canvas.
type Block struct {
	ID         string     `json:"id"`
	Kind       BlockKind  `json:"type"`
	Position   Position   `json:"position"`
	Properties Properties `json:"properties"`
	StackOrder int        `json:"zIndex"` // paint order; gaps and duplicates are allowed
}

// Clone returns a deep copy of the block.
func (b Block) Clone() Block {
	c := b
	if b.Properties != nil {
		c.Properties = b.Properties.clone()
	}
	return c
}

// Props returns the block's properties, substituting an empty bag of the
// block's kind when none are stored or the stored bag is of another kind.
func (b Block) Props() Properties {
	if b.Properties != nil && b.Properties.Kind() == b.Kind {
		return b.Properties
	}
	p, _ := emptyProps(b.Kind)
	return p
}

type blockJSON struct {
	ID         string          `json:"id"`
	Kind       BlockKind       `json:"type"`
	Position   Position        `json:"position"`
	Properties json.RawMessage `json:"properties"`
	StackOrder int             `json:"zIndex"`
}

// UnmarshalJSON decodes the properties bag according to the block kind.
func (b *Block) UnmarshalJSON(data []byte) error {
	var raw blockJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	props, err := DecodeProperties(raw.Kind, raw.Properties)
	if err != nil {
		return fmt.Errorf("block %s: %w", raw.ID, err)
	}
	*b = Block{
		ID:         raw.ID,
		Kind:       raw.Kind,
		Position:   raw.Position,
		Properties: props,
		StackOrder: raw.StackOrder,
	}
	return nil
}

// BlockPatch is a shallow top-level update. A non-nil field replaces the
// whole field on the target block.
type BlockPatch struct {
	Position   *Position
	Properties Properties
	StackOrder *int
}

// Apply returns b with the patch merged in. Properties of a different kind
// than the block are ignored.
func (p BlockPatch) Apply(b Block) Block {
	out := b.Clone()
	if p.Position != nil {
		out.Position = *p.Position
	}
	if p.Properties != nil && p.Properties.Kind() == b.Kind {
		out.Properties = p.Properties.clone()
	}
	if p.StackOrder != nil {
		out.StackOrder = *p.StackOrder
	}
	return out
}
