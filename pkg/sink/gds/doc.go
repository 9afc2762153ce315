// Package gds writes and reads the subset of the GDSII stream format needed
// for flat rectangle layouts.
//
// A stream is a sequence of records. Each record starts with a big-endian
// uint16 byte length (header included) followed by a one-byte record type
// and a one-byte data type. The writer emits:
//
//	HEADER 600
//	BGNLIB <timestamps>
//	LIBNAME <library>
//	UNITS 1e-3 1e-9          (user unit = 1 µm, database unit = 1 nm)
//	BGNSTR <timestamps>
//	STRNAME <cell>
//	BOUNDARY LAYER DATATYPE XY(5 points) ENDEL   (one per shape)
//	ENDSTR
//	ENDLIB
//
// Floating point values use the GDSII 8-byte excess-64 base-16 format, see
// [EncodeReal8]. [Read] decodes the same subset and skips records it does not
// know.
package gds
