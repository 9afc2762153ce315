package pipeline

import (
	"github.com/siliconmark/logocell/pkg/errors"
	"github.com/siliconmark/logocell/pkg/geom"
	"github.com/siliconmark/logocell/pkg/layout"
	"github.com/siliconmark/logocell/pkg/raster"
	"github.com/siliconmark/logocell/pkg/synth"
	"github.com/siliconmark/logocell/pkg/tech"
	"github.com/siliconmark/logocell/pkg/via"
)

// Geometry holds the shapes of one conversion before layout assembly.
type Geometry struct {
	Stack  []string
	Metals []synth.LayerShapes
	Cuts   []via.LayerCuts
}

// Plan is the layer selection of one conversion, resolved against the
// constraint document before any pixel work starts.
type Plan struct {
	Stack []string
	Vias  []tech.Layer
}

// PlanLayers resolves the metal stack and, unless vias are off, the via
// layer joining each adjacent pair. Every missing layer is reported here.
func PlanLayers(t *tech.Tech, opts Options) (Plan, error) {
	stack, err := t.Stack(opts.Stack)
	if err != nil {
		return Plan{}, err
	}
	plan := Plan{Stack: stack}
	if opts.Vias == ViasOff || len(stack) < 2 {
		return plan, nil
	}
	if opts.Vias == ViasOn && !t.HasVias() {
		return Plan{}, errors.New(errors.ErrCodeMissingConstraint, "vias requested but the constraint document defines no via layers")
	}
	if plan.Vias, err = t.ViasFor(stack); err != nil {
		return Plan{}, err
	}
	return plan, nil
}

// Synthesize builds the metal shapes of every planned stack layer from g.
func Synthesize(g *raster.PixelGrid, t *tech.Tech, plan Plan, opts Options) (*Geometry, error) {
	metals, err := synth.Stack(g, opts.Pitch(), t, plan.Stack, synth.Options{
		MaxShapeSize: geom.ToDBU(opts.MaxShapeSize),
	})
	if err != nil {
		return nil, err
	}
	return &Geometry{Stack: plan.Stack, Metals: metals}, nil
}

// PlaceVias fills in the cuts between adjacent stack layers. A plan
// without via layers leaves the geometry untouched.
func (g *Geometry) PlaceVias(plan Plan) error {
	if len(plan.Vias) == 0 {
		return nil
	}
	cuts, err := via.Stack(g.Metals, plan.Vias)
	if err != nil {
		return err
	}
	g.Cuts = cuts
	return nil
}

// Layout assembles the finished cell.
func (g *Geometry) Layout(grid *raster.PixelGrid, t *tech.Tech, opts Options) *layout.Layout {
	return layout.New(layout.Spec{
		Cell:       opts.Cell,
		GridWidth:  grid.Width(),
		GridHeight: grid.Height(),
		Pitch:      opts.Pitch(),
	}, g.Metals, g.Cuts, t)
}
