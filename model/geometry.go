package model

// CoordOrigin identifies the corner a bounding box's coordinates are measured from.
type CoordOrigin int

const (
	// BottomLeft is the PDF convention: Y grows upward from the bottom edge.
	BottomLeft CoordOrigin = iota
	// TopLeft is the image convention: Y grows downward from the top edge.
	TopLeft
)

func (o CoordOrigin) String() string {
	switch o {
	case TopLeft:
		return "TOPLEFT"
	default:
		return "BOTTOMLEFT"
	}
}

// Size is a page or image size.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// BBox is a bounding box given by its left, top, right and bottom edges.
// With a BottomLeft origin T is greater than B; with TopLeft it is smaller.
type BBox struct {
	L      float64     `json:"l"`
	T      float64     `json:"t"`
	R      float64     `json:"r"`
	B      float64     `json:"b"`
	Origin CoordOrigin `json:"coord_origin"`
}

// NewBBox creates a bottom-left origin box from its lower-left corner and size.
func NewBBox(x, y, width, height float64) BBox {
	return BBox{L: x, B: y, R: x + width, T: y + height, Origin: BottomLeft}
}

// BBoxFromTuple creates a box from an (l, t, r, b) tuple.
func BBoxFromTuple(t [4]float64, origin CoordOrigin) BBox {
	return BBox{L: t[0], T: t[1], R: t[2], B: t[3], Origin: origin}
}

// ToTopLeftOrigin reprojects the box into a top-left coordinate system for a
// page of the given height. Boxes already in top-left are returned unchanged.
func (b BBox) ToTopLeftOrigin(pageHeight float64) BBox {
	if b.Origin == TopLeft {
		return b
	}
	return BBox{
		L:      b.L,
		T:      pageHeight - b.T,
		R:      b.R,
		B:      pageHeight - b.B,
		Origin: TopLeft,
	}
}

// Normalized scales the box into the unit square of the given page size.
func (b BBox) Normalized(size Size) BBox {
	if size.Width == 0 || size.Height == 0 {
		return b
	}
	return BBox{
		L:      b.L / size.Width,
		T:      b.T / size.Height,
		R:      b.R / size.Width,
		B:      b.B / size.Height,
		Origin: b.Origin,
	}
}

// AsTuple returns (l, t, r, b).
func (b BBox) AsTuple() [4]float64 {
	return [4]float64{b.L, b.T, b.R, b.B}
}
