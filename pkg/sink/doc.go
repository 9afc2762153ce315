// Package sink provides auxiliary output formats for a finished layout.
//
// The GDSII stream and LEF macro live in the gds and lef subpackages. This
// package adds:
//
//   - JSON: layer-by-layer rectangle export in micrometres for external tools
//   - PNG: a top-down preview that stacks the metal layers with a blended
//     palette and marks via cuts
//
// Basic usage:
//
//	data, err := sink.RenderJSON(l, sink.WithJSONMacro("LOGO_CELL"))
//	img, err := sink.RenderPNG(l, sink.WithMaxSide(800))
package sink
