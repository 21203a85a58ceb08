package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hapticfloor/pkg/errors"
	"github.com/matzehuels/hapticfloor/pkg/floor"
)

// routeOutput is the --json form of a routed bank.
type routeOutput struct {
	Revision string             `json:"revision"`
	Values   []float64          `json:"values"`
	Channels map[string]float64 `json:"channels"`
}

// routeCommand creates the route command for mapping a value bank onto a floor.
func (c *CLI) routeCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "route [layout] [values...]",
		Short: "Route a bank of channel values onto a floor's active nodes",
		Long: `Load a floor layout and route a bank of values onto its active nodes.

Value i goes to active node i modulo the active count, so a longer bank wraps
around and later values overwrite earlier ones. Values may be given as
arguments or, when omitted, read from stdin separated by whitespace or commas.`,
		Example: `  hapticfloor route floor.json 0.1 0.2 0.3
  echo "0.5,0.25" | hapticfloor route floor.json --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bank, err := c.readBank(args[0], args[1:])
			if err != nil {
				return err
			}
			f, err := c.loadFloor(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			snap, values := f.TickSnapshot(cmd.Context(), bank)
			if asJSON {
				return c.writeRouteJSON(snap, values)
			}
			c.printRoute(snap, values)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the routed values as JSON")

	return cmd
}

// readBank parses values from args, or from stdin when args is empty.
func (c *CLI) readBank(layoutPath string, args []string) ([]float64, error) {
	text := strings.Join(args, " ")
	if len(args) == 0 {
		if layoutPath == stdinPath {
			return nil, errors.New(errors.ErrCodeInvalidInput, "values must be given as arguments when the layout is read from stdin")
		}
		data, err := io.ReadAll(c.stdin)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read values")
		}
		text = string(data)
	}
	bank, err := parseBank(text)
	if err != nil {
		return nil, err
	}
	return bank, errors.ValidateBank(bank)
}

// parseBank splits text on whitespace and commas and parses each field.
func parseBank(text string) ([]float64, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	bank := make([]float64, 0, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "value %d", i)
		}
		bank = append(bank, v)
	}
	return bank, nil
}

func (c *CLI) printRoute(snap floor.Snapshot, values []float64) {
	for i, n := range snap.Nodes.Active() {
		fmt.Fprintf(c.stdout, "%s %s %s %s\n",
			StyleActive.Render(fmt.Sprintf("a%-3d", i)),
			StyleDim.Render(fmt.Sprintf("grid %d,%d", n.GridX(), n.GridY())),
			StyleDim.Render(fmt.Sprintf("ch %-3d", n.Channel())),
			StyleNumber.Render(strconv.FormatFloat(values[i], 'g', -1, 64)))
	}
}

func (c *CLI) writeRouteJSON(snap floor.Snapshot, values []float64) error {
	byChannel := floor.RouteByChannel(snap.Nodes.Active(), values)
	out := routeOutput{
		Revision: snap.Revision,
		Values:   values,
		Channels: make(map[string]float64, len(byChannel)),
	}
	for ch, v := range byChannel {
		out.Channels[strconv.Itoa(ch)] = v
	}
	enc := json.NewEncoder(c.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
