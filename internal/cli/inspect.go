package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/siliconmark/logocell/pkg/errors"
	"github.com/siliconmark/logocell/pkg/sink/gds"
	"github.com/siliconmark/logocell/pkg/sink/lef"
)

// inspectCommand creates the inspect command for summarizing GDS files.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.gds>",
		Short: "Summarize the layers of a GDSII file",
		Long: `Decode a GDSII stream and print its cells, the shape count of every
layer/datatype pair and the overall bounding box.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(args[0])
		},
	}
}

func (c *CLI) runInspect(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()

	lib, err := gds.Read(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	c.Logger.Debug("decoded GDS", "path", path, "structures", len(lib.Structures))

	printTitle(path)
	printKeyValue("Library", lib.Name)
	printKeyValue("Version", fmt.Sprint(lib.Version))
	printKeyValue("Units", fmt.Sprintf("%g user, %g m", lib.UserUnit, lib.DBUnit))
	for _, s := range lib.Structures {
		printKeyValue("Cell", fmt.Sprintf("%s (%d shapes)", s.Name, len(s.Boundaries)))
	}
	b := lib.Bounds()
	printKeyValue("Size", fmt.Sprintf("%s x %s um", lef.Microns(b.Width()), lef.Microns(b.Height())))
	printNewline()

	for _, ls := range lib.Summary() {
		printKeyValue(fmt.Sprintf("%d/%d", ls.Layer, ls.Datatype),
			StyleNumber.Render(fmt.Sprint(ls.Count))+StyleDim.Render(" shapes in "+ls.Bounds.String()))
	}
	return nil
}
