package geom

import (
	"fmt"
	"math"
)

// DBUPerMicron is the number of database units in one micrometre.
const DBUPerMicron = 1000

// ToDBU converts micrometres to the nearest database unit.
func ToDBU(um float64) int64 {
	return int64(math.Round(um * DBUPerMicron))
}

// CeilDBU converts micrometres to database units rounding up, so a minimum
// rule never shrinks when snapped to the grid.
func CeilDBU(um float64) int64 {
	return int64(math.Ceil(um*DBUPerMicron - 1e-9))
}

// CeilDBU2 converts square micrometres to square database units rounding up.
func CeilDBU2(um2 float64) int64 {
	return int64(math.Ceil(um2*DBUPerMicron*DBUPerMicron - 1e-6))
}

// ToMicrons converts database units to micrometres.
func ToMicrons(dbu int64) float64 {
	return float64(dbu) / DBUPerMicron
}

// Point is a vertex in database units.
type Point struct {
	X int64 `json:"x"`
	Y int64 `json:"y"`
}

// Rect is an axis-aligned rectangle [X0, X1] x [Y0, Y1] in database units.
// A well-formed Rect has X0 <= X1 and Y0 <= Y1.
type Rect struct {
	X0 int64 `json:"x0"`
	Y0 int64 `json:"y0"`
	X1 int64 `json:"x1"`
	Y1 int64 `json:"y1"`
}

// R is shorthand for a Rect literal.
func R(x0, y0, x1, y1 int64) Rect {
	return Rect{X0: x0, Y0: y0, X1: x1, Y1: y1}
}

// PixelRect maps the pixel block covering columns [c0, c1) and rows [r0, r1)
// of a grid with the given height to layout coordinates.
func PixelRect(c0, r0, c1, r1, gridHeight int, pitch int64) Rect {
	return Rect{
		X0: int64(c0) * pitch,
		Y0: int64(gridHeight-r1) * pitch,
		X1: int64(c1) * pitch,
		Y1: int64(gridHeight-r0) * pitch,
	}
}

func (r Rect) Width() int64  { return r.X1 - r.X0 }
func (r Rect) Height() int64 { return r.Y1 - r.Y0 }
func (r Rect) Area() int64   { return r.Width() * r.Height() }

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.X1 <= r.X0 || r.Y1 <= r.Y0 }

// Intersect returns the overlap of r and o. The result is Empty when they do
// not overlap with positive area.
func (r Rect) Intersect(o Rect) Rect {
	out := Rect{
		X0: max(r.X0, o.X0),
		Y0: max(r.Y0, o.Y0),
		X1: min(r.X1, o.X1),
		Y1: min(r.Y1, o.Y1),
	}
	if out.Empty() {
		return Rect{}
	}
	return out
}

// Overlaps reports whether r and o share positive area.
func (r Rect) Overlaps(o Rect) bool {
	return r.X0 < o.X1 && o.X0 < r.X1 && r.Y0 < o.Y1 && o.Y0 < r.Y1
}

// Union returns the bounding box of r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		X0: min(r.X0, o.X0),
		Y0: min(r.Y0, o.Y0),
		X1: max(r.X1, o.X1),
		Y1: max(r.Y1, o.Y1),
	}
}

// Contains reports whether o lies entirely inside r.
func (r Rect) Contains(o Rect) bool {
	return o.X0 >= r.X0 && o.Y0 >= r.Y0 && o.X1 <= r.X1 && o.Y1 <= r.Y1
}

// Translate returns r shifted by (dx, dy).
func (r Rect) Translate(dx, dy int64) Rect {
	return Rect{X0: r.X0 + dx, Y0: r.Y0 + dy, X1: r.X1 + dx, Y1: r.Y1 + dy}
}

// Connected reports whether r and o form one piece of metal: they overlap or
// share a boundary segment of positive length. Corner-only contact is not a
// connection.
func (r Rect) Connected(o Rect) bool {
	dx, dy := r.gaps(o)
	return (dx < 0 && dy <= 0) || (dx <= 0 && dy < 0)
}

// Gap2 returns the squared Euclidean distance between the closest points of r
// and o, or 0 when they touch or overlap.
func (r Rect) Gap2(o Rect) int64 {
	dx, dy := r.gaps(o)
	dx, dy = max(dx, 0), max(dy, 0)
	return dx*dx + dy*dy
}

// gaps returns the signed axis gaps; negative values are overlaps.
func (r Rect) gaps(o Rect) (dx, dy int64) {
	dx = max(o.X0-r.X1, r.X0-o.X1)
	dy = max(o.Y0-r.Y1, r.Y0-o.Y1)
	return dx, dy
}

// Polygon returns the closed outline of r, counter-clockwise from the
// lower-left corner, tagged with the given layer and datatype.
func (r Rect) Polygon(layer, datatype int16) Polygon {
	return Polygon{
		Layer:    layer,
		Datatype: datatype,
		Points: []Point{
			{r.X0, r.Y0},
			{r.X1, r.Y0},
			{r.X1, r.Y1},
			{r.X0, r.Y1},
		},
	}
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", r.X0, r.Y0, r.X1, r.Y1)
}

// Bounds returns the bounding box of rects, or an empty Rect for none.
func Bounds(rects []Rect) Rect {
	if len(rects) == 0 {
		return Rect{}
	}
	b := rects[0]
	for _, r := range rects[1:] {
		b = b.Union(r)
	}
	return b
}

// Polygon is a closed rectilinear shape on one GDS layer/datatype. The closing
// vertex is implicit; writers that need it repeat Points[0].
type Polygon struct {
	Layer    int16   `json:"layer"`
	Datatype int16   `json:"datatype"`
	Points   []Point `json:"points"`
}
