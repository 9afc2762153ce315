package pipeline

import (
	"path/filepath"

	"github.com/siliconmark/logocell/pkg/errors"
	"github.com/siliconmark/logocell/pkg/layout"
	"github.com/siliconmark/logocell/pkg/sink"
	"github.com/siliconmark/logocell/pkg/sink/gds"
	"github.com/siliconmark/logocell/pkg/sink/lef"
	"github.com/siliconmark/logocell/pkg/synth"
	"github.com/siliconmark/logocell/pkg/via"
)

// LayerStats reports the synthesis of one metal layer.
type LayerStats struct {
	Name string `json:"name"`
	synth.Stats
}

// ViaStats reports the cut placement of one via layer.
type ViaStats struct {
	Name string `json:"name"`
	via.Stats
}

// Render encodes l in one format. stats, when non-nil, is embedded in the
// JSON export.
func Render(l *layout.Layout, format string, opts Options, stats *Stats) ([]byte, error) {
	switch format {
	case FormatGDS:
		return gds.Encode(l, gds.WithLibrary(opts.Library), gds.WithTime(opts.Timestamp))
	case FormatLEF:
		return lef.Encode(lef.FromLayout(l, opts.Macro))
	case FormatJSON:
		jsonOpts := []sink.JSONOption{sink.WithJSONMacro(opts.Macro)}
		if opts.ImagePath != "" {
			jsonOpts = append(jsonOpts, sink.WithJSONSource(filepath.Base(opts.ImagePath)))
		}
		if stats != nil {
			jsonOpts = append(jsonOpts, sink.WithJSONStats(stats))
		}
		return sink.RenderJSON(l, jsonOpts...)
	case FormatPNG:
		return sink.RenderPNG(l)
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unsupported format: %s", format)
}
