package gds

import (
	"math"
)

// Record types, combined with their data type byte.
const (
	recHeader   uint16 = 0x0002
	recBgnLib   uint16 = 0x0102
	recLibName  uint16 = 0x0206
	recUnits    uint16 = 0x0305
	recEndLib   uint16 = 0x0400
	recBgnStr   uint16 = 0x0502
	recStrName  uint16 = 0x0606
	recEndStr   uint16 = 0x0700
	recBoundary uint16 = 0x0800
	recLayer    uint16 = 0x0D02
	recDatatype uint16 = 0x0E02
	recXY       uint16 = 0x1003
	recEndEl    uint16 = 0x1100
)

// streamVersion is the HEADER value written.
const streamVersion = 600

// maxRecordLen is the largest record, header included.
const maxRecordLen = math.MaxUint16 - 1

// EncodeReal8 converts v to the GDSII 8-byte real: sign bit, 7-bit base-16
// exponent biased by 64 and a 56-bit mantissa in [1/16, 1).
func EncodeReal8(v float64) uint64 {
	if v == 0 {
		return 0
	}
	var sign uint64
	if v < 0 {
		sign = 1 << 63
		v = -v
	}
	exp := 0
	for v >= 1 {
		v /= 16
		exp++
	}
	for v < 1.0/16 {
		v *= 16
		exp--
	}
	mant := uint64(math.Round(v * (1 << 56)))
	if mant >= 1<<56 {
		mant >>= 4
		exp++
	}
	return sign | uint64(exp+64)<<56 | mant
}

// DecodeReal8 is the inverse of [EncodeReal8].
func DecodeReal8(b uint64) float64 {
	mant := b & (1<<56 - 1)
	if mant == 0 {
		return 0
	}
	exp := int((b>>56)&0x7f) - 64
	v := float64(mant) / (1 << 56) * math.Pow(16, float64(exp))
	if b&(1<<63) != 0 {
		v = -v
	}
	return v
}
