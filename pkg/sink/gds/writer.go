package gds

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"time"

	"github.com/siliconmark/logocell/pkg/errors"
	"github.com/siliconmark/logocell/pkg/geom"
	"github.com/siliconmark/logocell/pkg/layout"
)

// DefaultLibrary is the LIBNAME written when none is configured.
const DefaultLibrary = "LOGOLIB"

// Units written to every stream: user unit and database unit in metres.
const (
	UserUnit = 1e-3
	DBUnit   = 1e-9
)

// Option configures a [Writer].
type Option func(*Writer)

// WithLibrary sets the LIBNAME record.
func WithLibrary(name string) Option { return func(w *Writer) { w.library = name } }

// WithTime sets the creation and modification timestamps. The zero time
// writes all-zero timestamps so output is reproducible.
func WithTime(t time.Time) Option { return func(w *Writer) { w.stamp = t } }

// Writer streams one flat cell. It implements [layout.ShapeWriter]. Errors
// are sticky: after the first failure every call returns it.
type Writer struct {
	out     *bufio.Writer
	library string
	cell    string
	stamp   time.Time
	started bool
	done    bool
	shapes  int
	err     error
}

var _ layout.ShapeWriter = (*Writer)(nil)

// NewWriter returns a writer producing a library with a single cell.
func NewWriter(w io.Writer, cell string, opts ...Option) *Writer {
	gw := &Writer{out: bufio.NewWriter(w), library: DefaultLibrary, cell: cell}
	for _, opt := range opts {
		opt(gw)
	}
	if gw.cell == "" {
		gw.cell = layout.DefaultCell
	}
	return gw
}

// Shapes returns the number of boundaries written so far.
func (w *Writer) Shapes() int { return w.shapes }

func (w *Writer) WriteRect(layer, datatype int16, r geom.Rect) error {
	return w.boundary(layer, datatype, r)
}

// WriteVia writes a cut. Vias are plain boundaries on the via layer.
func (w *Writer) WriteVia(layer, datatype int16, r geom.Rect) error {
	return w.boundary(layer, datatype, r)
}

// Finalize closes the cell and library and flushes the output.
func (w *Writer) Finalize() error {
	if w.done {
		return w.err
	}
	w.begin()
	w.record(recEndStr, nil)
	w.record(recEndLib, nil)
	w.done = true
	if w.err == nil {
		if err := w.out.Flush(); err != nil {
			w.err = errors.Wrap(errors.ErrCodeEmitFailure, err, "flush GDS stream")
		}
	}
	return w.err
}

func (w *Writer) boundary(layer, datatype int16, r geom.Rect) error {
	if w.done {
		return errors.New(errors.ErrCodeEmitFailure, "write after Finalize")
	}
	if layer < 0 || datatype < 0 {
		w.fail(errors.New(errors.ErrCodeEmitFailure, "negative layer %d/%d", layer, datatype))
		return w.err
	}
	for _, v := range []int64{r.X0, r.Y0, r.X1, r.Y1} {
		if v < math.MinInt32 || v > math.MaxInt32 {
			w.fail(errors.New(errors.ErrCodeEmitFailure, "coordinate %d of %v overflows int32", v, r))
			return w.err
		}
	}
	w.begin()

	w.record(recBoundary, nil)
	w.record(recLayer, int16Data(layer))
	w.record(recDatatype, int16Data(datatype))

	poly := r.Polygon(layer, datatype)
	xy := make([]byte, 0, (len(poly.Points)+1)*8)
	for _, p := range append(poly.Points, poly.Points[0]) {
		xy = binary.BigEndian.AppendUint32(xy, uint32(int32(p.X)))
		xy = binary.BigEndian.AppendUint32(xy, uint32(int32(p.Y)))
	}
	w.record(recXY, xy)
	w.record(recEndEl, nil)

	if w.err == nil {
		w.shapes++
	}
	return w.err
}

// begin writes the library and structure headers once.
func (w *Writer) begin() {
	if w.started {
		return
	}
	w.started = true
	stamp := timestamp(w.stamp)

	w.record(recHeader, int16Data(streamVersion))
	w.record(recBgnLib, stamp)
	w.record(recLibName, stringData(w.library))
	units := binary.BigEndian.AppendUint64(nil, EncodeReal8(UserUnit))
	units = binary.BigEndian.AppendUint64(units, EncodeReal8(DBUnit))
	w.record(recUnits, units)
	w.record(recBgnStr, stamp)
	w.record(recStrName, stringData(w.cell))
}

func (w *Writer) record(typ uint16, data []byte) {
	if w.err != nil {
		return
	}
	n := 4 + len(data)
	if n > maxRecordLen {
		w.fail(errors.New(errors.ErrCodeEmitFailure, "record 0x%04x too long (%d bytes)", typ, n))
		return
	}
	var hdr [4]byte
	binary.BigEndian.PutUint16(hdr[0:], uint16(n))
	binary.BigEndian.PutUint16(hdr[2:], typ)
	if _, err := w.out.Write(hdr[:]); err != nil {
		w.fail(errors.Wrap(errors.ErrCodeEmitFailure, err, "write GDS record"))
		return
	}
	if _, err := w.out.Write(data); err != nil {
		w.fail(errors.Wrap(errors.ErrCodeEmitFailure, err, "write GDS record"))
	}
}

func (w *Writer) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

func int16Data(v int16) []byte {
	return binary.BigEndian.AppendUint16(nil, uint16(v))
}

// stringData pads s with a NUL to an even length.
func stringData(s string) []byte {
	b := []byte(s)
	if len(b)%2 == 1 {
		b = append(b, 0)
	}
	return b
}

// timestamp encodes t twice (modification, access) as six int16 fields each.
func timestamp(t time.Time) []byte {
	var fields [6]int16
	if !t.IsZero() {
		t = t.UTC()
		fields = [6]int16{
			int16(t.Year()), int16(t.Month()), int16(t.Day()),
			int16(t.Hour()), int16(t.Minute()), int16(t.Second()),
		}
	}
	out := make([]byte, 0, 24)
	for range 2 {
		for _, f := range fields {
			out = binary.BigEndian.AppendUint16(out, uint16(f))
		}
	}
	return out
}

// Encode writes l as a complete GDSII stream.
func Encode(l *layout.Layout, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := layout.Emit(l, NewWriter(&buf, l.Cell, opts...)); err != nil {
		return nil, errors.EmitFailure(err, "encode GDS")
	}
	return buf.Bytes(), nil
}
