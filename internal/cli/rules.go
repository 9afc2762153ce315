package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/siliconmark/logocell/pkg/geom"
	"github.com/siliconmark/logocell/pkg/tech"
)

// rulesCommand creates the rules command for checking constraint documents.
func (c *CLI) rulesCommand() *cobra.Command {
	var stack string

	cmd := &cobra.Command{
		Use:   "rules <constraints>",
		Short: "Print the parsed constraint set and metal stack",
		Long: `Parse a constraint document (JSON or TOML) and print every layer with its
rules in micrometres and DBU, the metal stack that convert would use and the
via layer joining each adjacent pair.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRules(args[0], splitList(stack))
		},
	}
	cmd.Flags().StringVar(&stack, "stack", "", "metal layers to check, bottom first (default: every metal layer)")
	return cmd
}

func (c *CLI) runRules(path string, names []string) error {
	t, err := tech.Load(path)
	if err != nil {
		return err
	}
	stack, err := t.Stack(names)
	if err != nil {
		return err
	}
	vias, err := t.ViasFor(stack)
	if err != nil {
		return err
	}

	printTitle("Metal stack")
	for _, name := range stack {
		l, _ := t.Layer(name)
		printKeyValue(name, layerLine(l))
		printDetail("min width %s, min area %s um2, min spacing %s",
			ruleValue(l.Metal.MinWidth, geom.CeilDBU(l.Metal.MinWidth)),
			fmt.Sprint(l.Metal.MinArea),
			ruleValue(l.Metal.MinSpacing, geom.CeilDBU(l.Metal.MinSpacing)))
	}

	if len(vias) > 0 {
		printNewline()
		printTitle("Vias")
		for _, v := range vias {
			printKeyValue(v.Name, layerLine(v)+StyleDim.Render(" joins "+strings.Join(v.Connects[:], " / ")))
			printDetail("cut %s x %s, spacing %s",
				ruleValue(v.Via.Width, geom.ToDBU(v.Via.Width)),
				ruleValue(v.Via.Height, geom.ToDBU(v.Via.Height)),
				ruleValue(v.Via.Spacing, geom.ToDBU(v.Via.Spacing)))
		}
	} else if len(stack) > 1 {
		printNewline()
		printInfo("No via layers defined; layers will not be connected")
	}

	printNewline()
	printTitle("Other layers")
	printKeyValue(t.Outline().Name, layerLine(t.Outline()))
	for _, ex := range t.Exclusions() {
		printKeyValue(ex.Name, layerLine(ex))
	}
	for _, name := range t.Ignored() {
		printWarning("Ignoring unknown layer %s", name)
	}
	c.Logger.Debug("parsed constraints", "path", path, "metals", len(t.Metals()), "vias", len(t.Vias()))
	return nil
}

func layerLine(l tech.Layer) string {
	s := StyleNumber.Render(fmt.Sprintf("%d/%d", l.GDSLayer, l.Datatype))
	if lef := l.LEFLayerName(); lef != l.Name {
		s += StyleDim.Render(" lef " + lef)
	}
	return s
}

func ruleValue(um float64, dbu int64) string {
	return fmt.Sprintf("%g um (%d nm)", um, dbu)
}
