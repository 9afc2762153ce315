// Package synth turns a resolved pixel grid into design-rule compliant metal
// rectangles, one shape set per layer of the metal stack.
//
// Synthesis runs in two steps. [Decompose] performs a classic rectangle
// decomposition of the binary raster: maximal horizontal runs per row, then
// runs with identical column extent on consecutive rows are stacked into one
// rectangle. [Synthesize] maps those pixel rectangles to database units and
// repairs them against a layer's rules:
//
//  1. Width: a side shorter than min_width grows symmetrically about its
//     centerline. An odd extra unit goes to the high side.
//  2. Area: a rectangle below min_area grows its longer side (width on ties)
//     symmetrically to ceil(min_area / shorter side).
//  3. Spacing: two shapes closer than min_spacing that are not one piece of
//     metal are replaced by their bounding box. Corner-only contact counts as
//     too close. Merging repeats until no pair violates.
//
// Growth can push shapes below the origin; callers translate the finished
// layout (see package layout).
package synth
