package layout

import (
	"math"

	"aura/internal/domain"
)

const (
	GridSize    = 8   // matches the editor's drag snap
	Padding     = 16  // 2 grid cells between blocks
	CanvasWidth = 900 // editor canvas width in pixels
	maxScanY    = 100000
)

// DefaultDrop is where a block lands when nothing else decides.
var DefaultDrop = domain.Position{X: 100, Y: 100}

// Snap rounds v to the nearest grid point, halves rounding up.
func Snap(v int) int {
	return int(math.Floor(float64(v)/GridSize+0.5)) * GridSize
}

// SnapPosition snaps both coordinates of p.
func SnapPosition(p domain.Position) domain.Position {
	return domain.Position{X: Snap(p.X), Y: Snap(p.Y)}
}

// Footprint returns the approximate on-canvas size of b.
func Footprint(b domain.Block) (w, h int) {
	switch b.Kind {
	case domain.BlockKindImage:
		if img, ok := domain.ResolveBlock(b).(*domain.ImageProps); ok {
			return *img.Width, *img.Height
		}
		return domain.DefaultImageWidth, domain.DefaultImageHeight
	case domain.BlockKindTextArea:
		return 150, 60
	case domain.BlockKindButton:
		return 120, 40
	default:
		return 100, 24
	}
}

// rect is a simple axis-aligned bounding box.
type rect struct {
	x, y, w, h int
}

func (a rect) intersects(b rect) bool {
	return a.x < b.x+b.w && a.x+a.w > b.x &&
		a.y < b.y+b.h && a.y+a.h > b.y
}

func (a rect) pad(p int) rect {
	return rect{a.x - p, a.y - p, a.w + 2*p, a.h + 2*p}
}

// NextPosition finds the first grid-aligned slot, scanning rows top to
// bottom and columns left to right, where a new block of kind fits without
// touching existing blocks.
func NextPosition(doc domain.Document, kind domain.BlockKind) domain.Position {
	if len(doc) == 0 {
		return DefaultDrop
	}

	occupied := make([]rect, len(doc))
	for i, b := range doc {
		w, h := Footprint(b)
		occupied[i] = rect{b.Position.X, b.Position.Y, w, h}.pad(Padding)
	}

	w, h := Footprint(domain.Block{Kind: kind, Properties: domain.DefaultsFor(kind)})
	candidate := rect{w: w, h: h}
	for y := 0; y < maxScanY; y += GridSize {
		for x := 0; x+w <= CanvasWidth; x += GridSize {
			candidate.x, candidate.y = x, y
			if !overlapsAny(candidate, occupied) {
				return domain.Position{X: x, Y: y}
			}
		}
	}

	// Fallback: below everything
	maxY := 0
	for _, b := range doc {
		_, bh := Footprint(b)
		maxY = max(maxY, b.Position.Y+bh)
	}
	return domain.Position{X: 0, Y: Snap(maxY + Padding)}
}

func overlapsAny(r rect, occupied []rect) bool {
	for _, occ := range occupied {
		if r.intersects(occ) {
			return true
		}
	}
	return false
}
