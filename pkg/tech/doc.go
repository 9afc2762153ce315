// Package tech loads the layer constraint document that describes the
// target process: which GDS layer/datatype each layer uses and which design
// rules its shapes must satisfy.
//
// # Document Format
//
// The document maps layer names to fields. JSON and TOML are accepted:
//
//	{
//	  "metal1": {"layer": 68, "datatype": 20, "min_width": 0.14, "min_area": 0.083, "min_spacing": 0.14},
//	  "via1":   {"layer": 68, "datatype": 44, "width": 0.17, "height": 0.17, "spacing": 0.17},
//	  "metal2": {"layer": 69, "datatype": 20, "min_width": 0.14, "min_area": 0.0676, "min_spacing": 0.14},
//	  "logo":   {"layer": 100, "datatype": 0},
//	  "DM1EXCL": {"layer": 150, "datatype": 1}
//	}
//
// Names decide the layer kind:
//
//   - metal<N>: routing layer carrying the logo; rules min_width, min_area
//     (square micrometres) and min_spacing
//   - via<N>: cut layer joining metal<N> and metal<N+1> unless "connects"
//     names the pair explicitly; rules width, height, spacing
//   - logo: outline layer covering the macro box (defaults to 100/0)
//   - DM<N>EXCL: dummy-metal exclusion layer covering the macro box; its
//     optional min_width and min_area skip it when the pixel pitch is smaller
//
// Other names are ignored and reported by [Tech.Ignored]. Lengths are
// micrometres. An optional "lef_name" renames the layer in LEF output.
//
// A [Tech] is immutable and belongs to one conversion; nothing in this
// package holds process-wide rule state.
package tech
