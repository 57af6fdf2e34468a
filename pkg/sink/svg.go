// Package sink serializes packed shapes into the composite sprite document.
//
// The sprite is a single <svg> whose viewBox spans the packed canvas. Each
// shape contributes a <view> anchor carrying the shape's id and its placed
// rectangle, followed by the shape's root element moved to that rectangle.
// A consumer addresses one shape with "sprite.svg#id": the browser applies
// the anchor's viewBox and shows only that region.
package sink

import (
	"bytes"
	"fmt"

	"github.com/beevik/etree"

	"github.com/matzehuels/svgbundle/pkg/errors"
	"github.com/matzehuels/svgbundle/pkg/layout"
	"github.com/matzehuels/svgbundle/pkg/shape"
)

const (
	svgNS   = "http://www.w3.org/2000/svg"
	xlinkNS = "http://www.w3.org/1999/xlink"
)

// Sizes returns the packing extent of each shape, in order.
func Sizes(shapes []*shape.Shape) []layout.Size {
	sizes := make([]layout.Size, len(shapes))
	for i, s := range shapes {
		sizes[i] = layout.Size{Width: s.ViewBox.Width, Height: s.ViewBox.Height}
	}
	return sizes
}

// Pack lays shapes out on a grid separated by gap and renders the sprite.
func Pack(shapes []*shape.Shape, gap float64) ([]byte, layout.Layout, error) {
	l := layout.Grid(Sizes(shapes), gap)
	text, err := RenderSVG(shapes, l)
	if err != nil {
		return nil, layout.Layout{}, err
	}
	return text, l, nil
}

// RenderSVG renders shapes at the positions in l. l.Blocks must hold one
// block per shape, in the same order.
func RenderSVG(shapes []*shape.Shape, l layout.Layout) ([]byte, error) {
	if len(l.Blocks) != len(shapes) {
		return nil, errors.New(errors.ErrCodeInternal, "%d shapes but %d layout blocks", len(shapes), len(l.Blocks))
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="%s" xmlns:xlink="%s" version="1.1" viewBox="%s">`, svgNS, xlinkNS, l.ViewBox())

	ws := &etree.WriteSettings{}
	for i, s := range shapes {
		b := l.Blocks[i]
		anchor(s.ID, b).WriteTo(&buf, ws)
		place(s, b).WriteTo(&buf, ws)
	}

	buf.WriteString("</svg>")
	return buf.Bytes(), nil
}

// anchor builds the zero-rendering <view> that exposes b under id.
func anchor(id string, b layout.Block) *etree.Element {
	v := etree.NewElement("view")
	v.CreateAttr("id", id)
	v.CreateAttr("viewBox", b.ViewBox())
	return v
}

// place returns a copy of the shape's root restated to b's position and size.
func place(s *shape.Shape, b layout.Block) *etree.Element {
	e := s.Element()
	e.CreateAttr("x", shape.FormatNumber(b.X))
	e.CreateAttr("y", shape.FormatNumber(b.Y))
	e.CreateAttr("width", shape.FormatNumber(b.Width))
	e.CreateAttr("height", shape.FormatNumber(b.Height))
	return e
}
