package layout

import (
	"github.com/siliconmark/logocell/pkg/geom"
	"github.com/siliconmark/logocell/pkg/tech"
)

// ShapeWriter receives shapes from [Emit]. Implementations encode them in a
// concrete format.
type ShapeWriter interface {
	WriteRect(layer, datatype int16, r geom.Rect) error
	WriteVia(layer, datatype int16, r geom.Rect) error
	Finalize() error
}

// Emit walks l in layer order and hands every shape to w, then finalizes it.
// The first writer error stops the walk.
func Emit(l *Layout, w ShapeWriter) error {
	for _, ls := range l.Layers() {
		write := w.WriteRect
		if ls.Layer.Kind == tech.KindVia {
			write = w.WriteVia
		}
		for _, r := range ls.Rects {
			if err := write(ls.Layer.GDSLayer, ls.Layer.Datatype, r); err != nil {
				return err
			}
		}
	}
	return w.Finalize()
}
