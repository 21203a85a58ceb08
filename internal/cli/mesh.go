package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hapticfloor/pkg/errors"
	"github.com/matzehuels/hapticfloor/pkg/floor"
	pkgio "github.com/matzehuels/hapticfloor/pkg/io"
)

// meshOpts holds flags for the mesh command.
type meshOpts struct {
	output    string // output file, stdout if empty
	canonical bool   // write the normalized layout instead of the mesh export
}

// meshCommand creates the mesh command for exporting the derived mesh as JSON.
func (c *CLI) meshCommand() *cobra.Command {
	var opts meshOpts

	cmd := &cobra.Command{
		Use:   "mesh [layout]",
		Short: "Export the mesh of a floor layout as JSON",
		Long: `Load a floor layout and write its mesh: every node with grid and mesh
coordinates, channels, degrees and the neighbor pairs.

With --layout the normalized layout document is written instead. Active
nodes come first and non-integer channels are replaced by their effective
value, so the output reloads to the same floor.`,
		Example: `  hapticfloor mesh floor.json -o mesh.json
  hapticfloor mesh floor.json --layout > normalized.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := c.loadFloor(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.writeMesh(f.Snapshot(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.canonical, "layout", false, "write the normalized layout document")

	return cmd
}

func (c *CLI) writeMesh(snap floor.Snapshot, opts meshOpts) error {
	var w io.Writer = c.stdout
	if opts.output != "" {
		if err := errors.ValidateOutputPath(opts.output); err != nil {
			return err
		}
		file, err := os.Create(opts.output)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", opts.output)
		}
		defer file.Close()
		w = file
	}

	var err error
	if opts.canonical {
		err = pkgio.WriteLayout(w, snap.Nodes)
	} else {
		err = pkgio.WriteMesh(w, snap, snap.Nodes.Edges())
	}
	if err != nil {
		return err
	}
	if opts.output != "" {
		printFile(opts.output)
	}
	return nil
}
