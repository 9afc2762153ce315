package lef

import (
	"errors"
	"strings"
	"testing"

	lerrors "github.com/siliconmark/logocell/pkg/errors"
	"github.com/siliconmark/logocell/pkg/geom"
	"github.com/siliconmark/logocell/pkg/layout"
	"github.com/siliconmark/logocell/pkg/tech"
)

func testLayout() *layout.Layout {
	m1 := tech.Layer{Name: "metal1", Kind: tech.KindMetal, GDSLayer: 68, Datatype: 20}
	m2 := tech.Layer{Name: "metal2", Kind: tech.KindMetal, GDSLayer: 69, Datatype: 20, LEFName: "met2"}
	return &layout.Layout{
		Cell:   "LOGO",
		Bounds: geom.R(0, 0, 3000, 2500),
		Metals: []layout.LayerSet{
			{Layer: m1, Rects: []geom.Rect{geom.R(0, 0, 1000, 1000), geom.R(0, 1500, 3000, 2500)}},
			{Layer: m2, Rects: []geom.Rect{geom.R(0, 0, 1500, 1140)}},
		},
	}
}

func TestEncode(t *testing.T) {
	data, err := Encode(FromLayout(testLayout(), ""))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := `VERSION 5.7 ;
NAMESCASESENSITIVE ON ;
BUSBITCHARS "[]" ;
DIVIDERCHAR "/" ;

MACRO LOGO_CELL
    CLASS BLOCK ;
    FOREIGN LOGO_CELL 0 0 ;
    ORIGIN 0 0 ;
    SIZE 3 BY 2.5 ;
    SYMMETRY X Y R90 ;
    PIN VDD
        DIRECTION INOUT ;
        USE POWER ;
        PORT
            LAYER met2 ;
                RECT 0 0 1.5 1.14 ;
        END
    END VDD
    PIN VSS
        DIRECTION INOUT ;
        USE GROUND ;
        PORT
            LAYER metal1 ;
                RECT 0 1.5 3 2.5 ;
        END
    END VSS
    OBS
        LAYER metal1 ;
            RECT 0 0 1 1 ;
            RECT 0 1.5 3 2.5 ;
        LAYER met2 ;
            RECT 0 0 1.5 1.14 ;
    END
END LOGO_CELL

END LIBRARY
`
	if got := string(data); got != want {
		t.Errorf("Encode() =\n%s\nwant\n%s", got, want)
	}
}

func TestEmptyLayerHasNoPort(t *testing.T) {
	l := testLayout()
	l.Metals[1].Rects = nil
	m := FromLayout(l, "MARK")

	if m.Pins[0].HasPort {
		t.Error("VDD on empty layer should have no port")
	}
	data, err := Encode(m)
	if err != nil {
		t.Fatal(err)
	}
	vdd := string(data)[strings.Index(string(data), "PIN VDD"):strings.Index(string(data), "END VDD")]
	if strings.Contains(vdd, "PORT") {
		t.Errorf("VDD block has a PORT:\n%s", vdd)
	}
	if !strings.Contains(string(data), "MACRO MARK\n") {
		t.Error("macro name override not applied")
	}
}

func TestEncodeInvalidName(t *testing.T) {
	_, err := Encode(FromLayout(testLayout(), "BAD NAME"))
	if !lerrors.Is(err, lerrors.ErrCodeInvalidInput) {
		t.Errorf("Encode() error = %v, want INVALID_INPUT", err)
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestRenderWriteFailure(t *testing.T) {
	err := FromLayout(testLayout(), "").Render(failWriter{})
	if !lerrors.Is(err, lerrors.ErrCodeEmitFailure) {
		t.Errorf("Render() error = %v, want EMIT_FAILURE", err)
	}
}

func TestMicrons(t *testing.T) {
	tests := []struct {
		dbu  int64
		want string
	}{
		{0, "0"},
		{1000, "1"},
		{1500, "1.5"},
		{140, "0.14"},
		{10000, "10"},
		{1, "0.001"},
	}
	for _, tt := range tests {
		if got := Microns(tt.dbu); got != tt.want {
			t.Errorf("Microns(%d) = %q, want %q", tt.dbu, got, tt.want)
		}
	}
}
