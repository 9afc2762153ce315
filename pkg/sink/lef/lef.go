// Package lef writes the logo cell as a LEF macro so place-and-route tools
// can instantiate it as a hard block.
package lef

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/siliconmark/logocell/pkg/errors"
	"github.com/siliconmark/logocell/pkg/geom"
	"github.com/siliconmark/logocell/pkg/layout"
)

// DefaultMacro is the macro name used when none is configured.
const DefaultMacro = "LOGO_CELL"

// Version is the LEF syntax version written in the header.
const Version = "5.7"

// Pin is a macro pin with at most one port rectangle.
type Pin struct {
	Name      string
	Direction string
	Use       string
	Layer     string
	Port      geom.Rect
	HasPort   bool
}

// Obstruction lists the blocked rectangles of one routing layer.
type Obstruction struct {
	Layer string
	Rects []geom.Rect
}

// Macro is the LEF view of a layout.
type Macro struct {
	Name         string
	Class        string
	Foreign      string
	Width        int64 // DBU
	Height       int64 // DBU
	Symmetry     []string
	Pins         []Pin
	Obstructions []Obstruction
}

// FromLayout builds the macro for l. VDD sits on the top metal layer and VSS
// on the bottom one, each with a port on the layer's largest shape.
func FromLayout(l *layout.Layout, name string) *Macro {
	if name == "" {
		name = DefaultMacro
	}
	m := &Macro{
		Name:     name,
		Class:    "BLOCK",
		Foreign:  name,
		Width:    l.Bounds.Width(),
		Height:   l.Bounds.Height(),
		Symmetry: []string{"X", "Y", "R90"},
	}
	if len(l.Metals) > 0 {
		top, bottom := l.Metals[len(l.Metals)-1], l.Metals[0]
		m.Pins = []Pin{
			powerPin("VDD", "POWER", top),
			powerPin("VSS", "GROUND", bottom),
		}
	}
	for _, ls := range l.Metals {
		m.Obstructions = append(m.Obstructions, Obstruction{
			Layer: ls.Layer.LEFLayerName(),
			Rects: ls.Rects,
		})
	}
	return m
}

func powerPin(name, use string, ls layout.LayerSet) Pin {
	p := Pin{Name: name, Direction: "INOUT", Use: use, Layer: ls.Layer.LEFLayerName()}
	for _, r := range ls.Rects {
		if !p.HasPort || r.Area() > p.Port.Area() {
			p.Port = r
			p.HasPort = true
		}
	}
	return p
}

// Encode renders m as a complete LEF file.
func Encode(m *Macro) ([]byte, error) {
	var buf bytes.Buffer
	if err := m.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Render writes m as a complete LEF file.
func (m *Macro) Render(w io.Writer) error {
	if err := errors.ValidateMacroName(m.Name); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	p := func(indent int, format string, args ...any) {
		bw.WriteString(strings.Repeat("    ", indent))
		fmt.Fprintf(bw, format, args...)
		bw.WriteByte('\n')
	}

	p(0, "VERSION %s ;", Version)
	p(0, "NAMESCASESENSITIVE ON ;")
	p(0, `BUSBITCHARS "[]" ;`)
	p(0, `DIVIDERCHAR "/" ;`)
	p(0, "")
	p(0, "MACRO %s", m.Name)
	p(1, "CLASS %s ;", m.Class)
	p(1, "FOREIGN %s 0 0 ;", m.Foreign)
	p(1, "ORIGIN 0 0 ;")
	p(1, "SIZE %s BY %s ;", Microns(m.Width), Microns(m.Height))
	p(1, "SYMMETRY %s ;", strings.Join(m.Symmetry, " "))

	for _, pin := range m.Pins {
		p(1, "PIN %s", pin.Name)
		p(2, "DIRECTION %s ;", pin.Direction)
		p(2, "USE %s ;", pin.Use)
		if pin.HasPort {
			p(2, "PORT")
			p(3, "LAYER %s ;", pin.Layer)
			p(4, "RECT %s ;", rect(pin.Port))
			p(2, "END")
		}
		p(1, "END %s", pin.Name)
	}

	if len(m.Obstructions) > 0 {
		p(1, "OBS")
		for _, obs := range m.Obstructions {
			p(2, "LAYER %s ;", obs.Layer)
			for _, r := range obs.Rects {
				p(3, "RECT %s ;", rect(r))
			}
		}
		p(1, "END")
	}

	p(0, "END %s", m.Name)
	p(0, "")
	p(0, "END LIBRARY")

	if err := bw.Flush(); err != nil {
		return errors.Wrap(errors.ErrCodeEmitFailure, err, "write LEF")
	}
	return nil
}

func rect(r geom.Rect) string {
	return Microns(r.X0) + " " + Microns(r.Y0) + " " + Microns(r.X1) + " " + Microns(r.Y1)
}

// Microns formats a DBU length in micrometres with at most three decimals
// and no trailing zeros.
func Microns(dbu int64) string {
	s := strconv.FormatFloat(geom.ToMicrons(dbu), 'f', 3, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
