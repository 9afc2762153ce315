package gds

import (
	"bufio"
	"encoding/binary"
	"io"
	"slices"
	"strings"

	"github.com/siliconmark/logocell/pkg/errors"
	"github.com/siliconmark/logocell/pkg/geom"
)

// Library is a decoded GDSII stream.
type Library struct {
	Version    int16
	Name       string
	UserUnit   float64
	DBUnit     float64
	Structures []Structure
}

// Structure is one cell with its boundaries.
type Structure struct {
	Name       string
	Boundaries []geom.Polygon
}

// LayerKey identifies a layer/datatype pair.
type LayerKey struct {
	Layer    int16
	Datatype int16
}

// LayerSummary aggregates the boundaries of one layer/datatype pair.
type LayerSummary struct {
	LayerKey
	Count  int
	Bounds geom.Rect
}

// Summary returns per-layer boundary counts and bounding boxes across all
// structures, ordered by layer then datatype.
func (lib *Library) Summary() []LayerSummary {
	byKey := make(map[LayerKey]*LayerSummary)
	for _, s := range lib.Structures {
		for _, b := range s.Boundaries {
			k := LayerKey{b.Layer, b.Datatype}
			bb := pointsBounds(b.Points)
			if ls, ok := byKey[k]; ok {
				ls.Count++
				ls.Bounds = ls.Bounds.Union(bb)
				continue
			}
			byKey[k] = &LayerSummary{LayerKey: k, Count: 1, Bounds: bb}
		}
	}
	out := make([]LayerSummary, 0, len(byKey))
	for _, ls := range byKey {
		out = append(out, *ls)
	}
	slices.SortFunc(out, func(a, b LayerSummary) int {
		if a.Layer != b.Layer {
			return int(a.Layer) - int(b.Layer)
		}
		return int(a.Datatype) - int(b.Datatype)
	})
	return out
}

// Bounds returns the bounding box of every boundary in the library.
func (lib *Library) Bounds() geom.Rect {
	var rects []geom.Rect
	for _, ls := range lib.Summary() {
		rects = append(rects, ls.Bounds)
	}
	return geom.Bounds(rects)
}

func pointsBounds(pts []geom.Point) geom.Rect {
	if len(pts) == 0 {
		return geom.Rect{}
	}
	r := geom.R(pts[0].X, pts[0].Y, pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		r = r.Union(geom.R(p.X, p.Y, p.X, p.Y))
	}
	return r
}

// Read decodes a GDSII stream. Records outside the supported subset are
// skipped; element types other than BOUNDARY are dropped.
func Read(r io.Reader) (*Library, error) {
	br := bufio.NewReader(r)
	lib := &Library{}
	var (
		cur  *Structure
		elem *geom.Polygon // nil outside BOUNDARY; other element kinds are skipped
	)

	for {
		typ, data, err := readRecord(br)
		if err == io.EOF {
			return nil, errors.New(errors.ErrCodeInvalidInput, "GDS stream ends before ENDLIB")
		}
		if err != nil {
			return nil, err
		}

		switch typ {
		case recHeader:
			if len(data) >= 2 {
				lib.Version = int16(binary.BigEndian.Uint16(data))
			}
		case recLibName:
			lib.Name = decodeString(data)
		case recUnits:
			if len(data) != 16 {
				return nil, errors.New(errors.ErrCodeInvalidInput, "UNITS record has %d bytes, want 16", len(data))
			}
			lib.UserUnit = DecodeReal8(binary.BigEndian.Uint64(data[:8]))
			lib.DBUnit = DecodeReal8(binary.BigEndian.Uint64(data[8:]))
		case recBgnStr:
			if cur != nil {
				return nil, errors.New(errors.ErrCodeInvalidInput, "BGNSTR inside structure %q", cur.Name)
			}
			lib.Structures = append(lib.Structures, Structure{})
			cur = &lib.Structures[len(lib.Structures)-1]
		case recStrName:
			if cur == nil {
				return nil, errors.New(errors.ErrCodeInvalidInput, "STRNAME outside a structure")
			}
			cur.Name = decodeString(data)
		case recEndStr:
			cur = nil
		case recBoundary:
			if cur == nil {
				return nil, errors.New(errors.ErrCodeInvalidInput, "BOUNDARY outside a structure")
			}
			elem = &geom.Polygon{}
		case recLayer:
			if elem != nil && len(data) >= 2 {
				elem.Layer = int16(binary.BigEndian.Uint16(data))
			}
		case recDatatype:
			if elem != nil && len(data) >= 2 {
				elem.Datatype = int16(binary.BigEndian.Uint16(data))
			}
		case recXY:
			if elem == nil {
				continue
			}
			if len(data)%8 != 0 {
				return nil, errors.New(errors.ErrCodeInvalidInput, "XY record has %d bytes", len(data))
			}
			for i := 0; i+8 <= len(data); i += 8 {
				elem.Points = append(elem.Points, geom.Point{
					X: int64(int32(binary.BigEndian.Uint32(data[i:]))),
					Y: int64(int32(binary.BigEndian.Uint32(data[i+4:]))),
				})
			}
			// Drop the repeated closing vertex.
			if n := len(elem.Points); n > 1 && elem.Points[0] == elem.Points[n-1] {
				elem.Points = elem.Points[:n-1]
			}
		case recEndEl:
			if elem != nil && cur != nil {
				cur.Boundaries = append(cur.Boundaries, *elem)
			}
			elem = nil
		case recEndLib:
			return lib, nil
		}
	}
}

func readRecord(r *bufio.Reader) (uint16, []byte, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		if err == io.EOF {
			return 0, nil, io.EOF
		}
		return 0, nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read GDS record header")
	}
	n := int(binary.BigEndian.Uint16(hdr[:2]))
	if n < 4 {
		return 0, nil, errors.New(errors.ErrCodeInvalidInput, "GDS record length %d", n)
	}
	data := make([]byte, n-4)
	if _, err := io.ReadFull(r, data); err != nil {
		return 0, nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read GDS record body")
	}
	return binary.BigEndian.Uint16(hdr[2:]), data, nil
}

func decodeString(b []byte) string {
	return strings.TrimRight(string(b), "\x00")
}
