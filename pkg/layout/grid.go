// Package layout computes deterministic grid placements for sprite packing.
//
// The grid is filled row by row in input order. Each row holds
// round(sqrt(n)) items; item widths advance the cursor by ceil(width+gap) and
// rows advance by ceil(tallest+gap). Re-running Grid on the same sizes and gap
// always produces the same placements.
package layout

import (
	"math"
	"strconv"
)

// Size is the extent of one item to place.
type Size struct {
	Width, Height float64
}

// Layout is the result of placing a sequence of items.
type Layout struct {
	// Blocks holds one placement per input item, in input order.
	Blocks []Block

	// Width and Height span the packed canvas.
	Width, Height float64

	// PerRow is the number of items per completed row.
	PerRow int
}

// ViewBox formats the canvas as "0 0 width height".
func (l Layout) ViewBox() string {
	return Block{Width: l.Width, Height: l.Height}.ViewBox()
}

// PerRow returns max(1, round(sqrt(n))).
func PerRow(n int) int {
	return max(1, int(math.Round(math.Sqrt(float64(n)))))
}

// Grid places sizes on a grid separated by gap.
//
// The canvas width is the widest completed row. A trailing row that is not
// full does not widen the canvas, even when it is wider than the rows above.
// The canvas height ends at the bottom of the last row.
func Grid(sizes []Size, gap float64) Layout {
	if len(sizes) == 0 {
		return Layout{PerRow: PerRow(0)}
	}

	perRow := PerRow(len(sizes))
	blocks := make([]Block, len(sizes))

	var x, y, width, rowHeight float64
	inRow := 0
	for i, s := range sizes {
		blocks[i] = Block{X: x, Y: y, Width: s.Width, Height: s.Height}
		x += math.Ceil(s.Width + gap)
		rowHeight = max(rowHeight, s.Height)

		inRow++
		if inRow == perRow {
			width = max(width, x-gap)
			x = 0
			y += math.Ceil(rowHeight + gap)
			rowHeight = 0
			inRow = 0
		}
	}

	height := y + rowHeight
	if inRow == 0 {
		height = y - gap
	}

	return Layout{Blocks: blocks, Width: width, Height: height, PerRow: perRow}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
