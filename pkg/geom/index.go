package geom

// Index is a uniform bin grid over rectangles identified by integer ids.
// A rectangle is stored in every bin it touches, edges included.
type Index struct {
	size int64
	bins map[[2]int64][]int
}

// NewIndex returns an empty index with square bins of the given size.
func NewIndex(size int64) *Index {
	return &Index{size: max(size, 1), bins: make(map[[2]int64][]int)}
}

func (x *Index) cell(v int64) int64 {
	if v < 0 {
		return (v - x.size + 1) / x.size
	}
	return v / x.size
}

// Insert stores id under every bin r touches.
func (x *Index) Insert(id int, r Rect) {
	for bx := x.cell(r.X0); bx <= x.cell(r.X1); bx++ {
		for by := x.cell(r.Y0); by <= x.cell(r.Y1); by++ {
			k := [2]int64{bx, by}
			x.bins[k] = append(x.bins[k], id)
		}
	}
}

// Query calls fn once per id stored in a bin that r touches. Candidates are
// not filtered by geometry.
func (x *Index) Query(r Rect, fn func(id int)) {
	seen := make(map[int]struct{})
	for bx := x.cell(r.X0); bx <= x.cell(r.X1); bx++ {
		for by := x.cell(r.Y0); by <= x.cell(r.Y1); by++ {
			for _, id := range x.bins[[2]int64{bx, by}] {
				if _, ok := seen[id]; ok {
					continue
				}
				seen[id] = struct{}{}
				fn(id)
			}
		}
	}
}

// Grow returns r expanded by d on every side.
func (r Rect) Grow(d int64) Rect {
	return Rect{X0: r.X0 - d, Y0: r.Y0 - d, X1: r.X1 + d, Y1: r.Y1 + d}
}
