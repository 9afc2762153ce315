package synth

import (
	"fmt"

	"github.com/siliconmark/logocell/pkg/errors"
	"github.com/siliconmark/logocell/pkg/geom"
	"github.com/siliconmark/logocell/pkg/raster"
	"github.com/siliconmark/logocell/pkg/tech"
)

// LayerShapes is the synthesized shape set of one metal layer.
type LayerShapes struct {
	Layer tech.Layer
	Rects []geom.Rect
	Stats Stats
}

// Stack synthesizes every metal layer of stack from one decomposition of g.
func Stack(g *raster.PixelGrid, pitch int64, t *tech.Tech, stack []string, opts Options) ([]LayerShapes, error) {
	rects := Decompose(g)
	out := make([]LayerShapes, 0, len(stack))
	for _, name := range stack {
		layer, ok := t.Layer(name)
		if !ok {
			return nil, errors.New(errors.ErrCodeMissingConstraint, "metal layer %q not in constraint document", name)
		}
		shapes, stats, err := Synthesize(rects, g.Height(), pitch, RulesFor(layer.Metal), opts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		out = append(out, LayerShapes{Layer: layer, Rects: shapes, Stats: stats})
	}
	return out, nil
}
