package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/siliconmark/logocell/pkg/pipeline"
)

// stdout receives all command output. Tests swap it for a buffer.
var stdout io.Writer = os.Stdout

// Palette, in 256-colour terminal codes.
var (
	colorTeal  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorAmber = lipgloss.Color("220")
	colorRed   = lipgloss.Color("167")
	colorBlue  = lipgloss.Color("75")
	colorWhite = lipgloss.Color("255")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
)

// Exported styles are shared by every command.
var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorTeal)
	StyleLink    = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	StyleDim     = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	StyleNumber  = lipgloss.NewStyle().Foreground(colorTeal)
	StyleWarning = lipgloss.NewStyle().Foreground(colorAmber)
)

var (
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorTeal)
	styleCached      = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed    = lipgloss.NewStyle().Foreground(colorGray)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleLayer       = lipgloss.NewStyle().Foreground(colorTeal).Width(10)
)

// icon is a status glyph with its colour.
type icon struct {
	glyph string
	style lipgloss.Style
}

var (
	iconSuccess = icon{"✓", lipgloss.NewStyle().Foreground(colorGreen)}
	iconError   = icon{"✗", lipgloss.NewStyle().Foreground(colorRed)}
	iconWarning = icon{"!", lipgloss.NewStyle().Foreground(colorAmber)}
	iconInfo    = icon{"›", lipgloss.NewStyle().Foreground(colorGray)}
)

const separator = " · "

func status(ic icon, msg string) {
	fmt.Fprintln(stdout, ic.style.Render(ic.glyph)+" "+msg)
}

func printSuccess(format string, args ...any) { status(iconSuccess, fmt.Sprintf(format, args...)) }
func printError(format string, args ...any)   { status(iconError, fmt.Sprintf(format, args...)) }
func printInfo(format string, args ...any)    { status(iconInfo, fmt.Sprintf(format, args...)) }

func printWarning(format string, args ...any) {
	status(iconWarning, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printTitle(title string) {
	fmt.Fprintln(stdout, StyleTitle.Render(title))
}

// printFile lists a written output file.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleKey.Render(key)+" "+StyleValue.Render(value))
}

func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Fprintln(stdout)
}

// joinDim renders parts dimmed and separated by a middle dot.
func joinDim(parts []string) string {
	dimmed := make([]string, len(parts))
	for i, p := range parts {
		dimmed[i] = StyleDim.Render(p)
	}
	return strings.Join(dimmed, StyleDim.Render(separator))
}

// statsLine summarizes a conversion on one line, ending with whether the
// artifacts came from the cache.
func statsLine(r *pipeline.Result, cached bool) string {
	s := r.Stats
	parts := []string{fmt.Sprintf("%dx%d px", s.Width, s.Height)}
	if s.Filled > 0 {
		parts = append(parts, fmt.Sprintf("%d filled", s.Filled))
	}
	parts = append(parts, fmt.Sprintf("%d shapes", s.Shapes))
	if s.Cuts > 0 {
		parts = append(parts, fmt.Sprintf("%d vias", s.Cuts))
	}

	state := styleComputed.Render("fresh")
	if cached {
		state = styleCached.Render("cached")
	}
	return "  " + joinDim(parts) + StyleDim.Render(separator) + state
}

func printStats(r *pipeline.Result, cached bool) {
	fmt.Fprintln(stdout, statsLine(r, cached))
}

// printLayers prints one line per metal and via layer of a conversion.
func printLayers(s pipeline.Stats) {
	for _, l := range s.Layers {
		fmt.Fprintln(stdout, "  "+styleLayer.Render(l.Name)+joinDim([]string{
			fmt.Sprintf("%d shapes", l.Shapes),
			fmt.Sprintf("%d grown", l.Grown),
			fmt.Sprintf("%d merged", l.Merged),
		}))
	}
	for _, v := range s.Vias {
		parts := []string{fmt.Sprintf("%d cuts", v.Cuts), fmt.Sprintf("%d regions", v.Regions)}
		if v.Skipped > 0 {
			parts = append(parts, fmt.Sprintf("%d too small", v.Skipped))
		}
		fmt.Fprintln(stdout, "  "+styleLayer.Render(v.Name)+joinDim(parts))
	}
}
