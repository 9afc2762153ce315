// Package geom provides the integer layout geometry shared by the synthesis,
// via placement and emitter stages.
//
// All coordinates are database units (DBU). One DBU is one nanometre, so a
// micrometre is [DBUPerMicron] DBU; this matches the GDSII UNITS record
// written by the gds sink (user unit 1e-3, database unit 1e-9 m).
//
// # Pixel Convention
//
// Raster rows grow downwards while layout y grows upwards. Pixel (c, r) of a
// grid with height H and pitch p covers
//
//	x in [c*p, (c+1)*p]
//	y in [(H-1-r)*p, (H-r)*p]
//
// so the logo's lower-left corner sits at the origin and every coordinate is
// non-negative. [PixelRect] is the only place this mapping is written down;
// every other package goes through it.
package geom
