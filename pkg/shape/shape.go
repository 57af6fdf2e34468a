// Package shape turns one SVG document into a normalized shape ready for
// packing.
//
// Extraction keeps the root <svg> element and its children, and replaces the
// root's attributes with a fixed set: x, y, width, height and viewBox, plus
// fill and stroke when the source declares them. Every other root attribute
// (class, style, id, xmlns, ...) is dropped. Child content is kept verbatim
// with tag and attribute case preserved.
//
// A Shape is immutable once extracted. Callers that need a positioned copy of
// the root use [Shape.Element], which returns a fresh deep copy.
package shape

import (
	"math"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/matzehuels/svgbundle/pkg/errors"
)

// rootTag is the tag of the element every image must contain.
const rootTag = "svg"

// passthrough lists source attributes that survive normalization.
var passthrough = []string{"fill", "stroke"}

// ViewBox is the parsed geometry of an image's viewBox attribute.
type ViewBox struct {
	MinX, MinY    float64
	Width, Height float64
	Raw           string // attribute value exactly as written in the source
}

// Shape is one normalized image.
type Shape struct {
	ID      string
	ViewBox ViewBox

	root *etree.Element
}

// Element returns a deep copy of the normalized root element.
func (s *Shape) Element() *etree.Element {
	return s.root.Copy()
}

// Attr returns the value of a normalized root attribute.
func (s *Shape) Attr(key string) (string, bool) {
	a := s.root.SelectAttr(key)
	if a == nil {
		return "", false
	}
	return a.Value, true
}

// Extract parses raw SVG markup and returns the normalized shape for id.
func Extract(id string, raw []byte) (*Shape, error) {
	if id == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "shape id cannot be empty")
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSVG, err, "parse %s", id)
	}

	src := findFirst(&doc.Element, rootTag)
	if src == nil {
		return nil, errors.New(errors.ErrCodeInvalidSVG, "%s: no <svg> element found", id)
	}

	attr := src.SelectAttr("viewBox")
	if attr == nil {
		return nil, errors.New(errors.ErrCodeInvalidSVG, "%s: <svg> has no viewBox attribute", id)
	}
	vb, err := ParseViewBox(attr.Value)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSVG, err, "%s: invalid viewBox", id)
	}

	root := src.Copy()
	root.Attr = nil
	root.CreateAttr("x", "0")
	root.CreateAttr("y", "0")
	root.CreateAttr("width", FormatNumber(vb.Width))
	root.CreateAttr("height", FormatNumber(vb.Height))
	root.CreateAttr("viewBox", vb.Raw)
	for _, key := range passthrough {
		if a := src.SelectAttr(key); a != nil {
			root.CreateAttr(key, a.Value)
		}
	}

	return &Shape{ID: id, ViewBox: vb, root: root}, nil
}

// findFirst returns the first element named tag in document order, skipping
// declarations, comments and processing instructions.
func findFirst(e *etree.Element, tag string) *etree.Element {
	for _, child := range e.ChildElements() {
		if child.Tag == tag {
			return child
		}
		if found := findFirst(child, tag); found != nil {
			return found
		}
	}
	return nil
}

// ParseViewBox parses "min-x min-y width height". Width and height must be
// non-negative integers.
//
// Only the first comma is treated as a separator before splitting on
// whitespace, so "0,0,24,24" is rejected rather than repaired.
func ParseViewBox(raw string) (ViewBox, error) {
	fields := strings.Fields(strings.Replace(raw, ",", " ", 1))
	if strings.Contains(strings.Join(fields, " "), ",") {
		return ViewBox{}, errors.New(errors.ErrCodeInvalidSVG,
			"comma-separated viewBox lists are not supported, use spaces: %q", raw)
	}
	if len(fields) != 4 {
		return ViewBox{}, errors.New(errors.ErrCodeInvalidSVG, "expected 4 numbers, got %q", raw)
	}

	var nums [4]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return ViewBox{}, errors.New(errors.ErrCodeInvalidSVG, "not a number: %q in %q", f, raw)
		}
		nums[i] = v
	}
	if nums[2] < 0 || nums[3] < 0 {
		return ViewBox{}, errors.New(errors.ErrCodeInvalidSVG, "negative size in %q", raw)
	}
	if nums[2] != math.Trunc(nums[2]) || nums[3] != math.Trunc(nums[3]) {
		return ViewBox{}, errors.New(errors.ErrCodeInvalidSVG, "width and height must be integers in %q", raw)
	}

	return ViewBox{MinX: nums[0], MinY: nums[1], Width: nums[2], Height: nums[3], Raw: raw}, nil
}

// FormatNumber renders v in the shortest form that round-trips, e.g. 24 or 2.5.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
