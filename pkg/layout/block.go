package layout

import "fmt"

// Block is one placed rectangle on the sprite canvas.
// Coordinates are in SVG user units with the origin at the top-left corner.
type Block struct {
	X, Y          float64
	Width, Height float64
}

// Right returns the x coordinate of the block's right edge.
func (b Block) Right() float64 { return b.X + b.Width }

// Bottom returns the y coordinate of the block's bottom edge.
func (b Block) Bottom() float64 { return b.Y + b.Height }

// ViewBox formats the block as an SVG viewBox value: "x y width height".
func (b Block) ViewBox() string {
	return fmt.Sprintf("%s %s %s %s", num(b.X), num(b.Y), num(b.Width), num(b.Height))
}

// Overlaps reports whether two blocks share any interior area.
func (b Block) Overlaps(o Block) bool {
	return b.X < o.Right() && o.X < b.Right() && b.Y < o.Bottom() && o.Y < b.Bottom()
}
