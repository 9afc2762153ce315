// Package raster turns a logo image into the boolean pixel grid that drives
// layout synthesis.
//
// # Stages
//
//  1. [Luminance] / [FromImage]: reduce any pixel format to 8-bit luma
//  2. [Binarize]: threshold luma into a [PixelGrid] (darker pixels are drawn)
//  3. [Resolve]: remove diagonal-only pixel contacts, which cannot be built as
//     solid metal
//
// # Luminance Formula
//
// Colour samples are reduced with the ITU-R BT.601 luma weights
//
//	L = (299*R + 587*G + 114*B + 500) / 1000
//
// after compositing any alpha channel over white, so transparent areas of a
// logo are background rather than ink.
//
// # Diagonal Tie-Break
//
// A 2x2 window holding exactly one diagonal pair is repaired by filling the
// window's empty cell in the top row. If that fill would itself form a
// diagonal pair in a neighbouring window, the empty cell in the bottom row is
// filled instead; if both would, the top cell is filled and the next pass
// repairs the new pair. Passes repeat until one makes no fill.
//
// All grids are immutable once returned; [Resolve] never touches its input.
package raster
