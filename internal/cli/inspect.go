package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/hapticfloor/pkg/floor"
)

// inspectCommand creates the inspect command for printing a layout's nodes.
func (c *CLI) inspectCommand() *cobra.Command {
	var showEdges bool

	cmd := &cobra.Command{
		Use:   "inspect [layout]",
		Short: "Show the nodes of a floor layout",
		Long: `Load a floor layout and print every node with its grid and mesh
coordinates, output channel and neighbor count. Use "-" to read from stdin.`,
		Example: `  hapticfloor inspect floor.json
  cat floor.json | hapticfloor inspect - --edges`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := c.loadFloor(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			c.printInspect(f.Snapshot(), showEdges)
			return nil
		},
	}

	cmd.Flags().BoolVar(&showEdges, "edges", false, "also list neighbor pairs")

	return cmd
}

// nodeLabel names a node by its partition and index, e.g. "a0" or "p3".
func nodeLabel(n floor.Node, index int) string {
	if n.IsActive() {
		return "a" + strconv.Itoa(index)
	}
	return "p" + strconv.Itoa(index)
}

// printInspect writes the node table and optional edge list to c.stdout.
func (c *CLI) printInspect(snap floor.Snapshot, showEdges bool) {
	nodes := snap.Nodes.All()
	edges := snap.Nodes.Edges()
	degrees := floor.Degrees(nodes, edges)
	activeCount := snap.Nodes.ActiveCount()

	labels := make([]string, len(nodes))
	rows := make([][]string, 0, len(nodes))
	for i, n := range nodes {
		idx, kind, ch := i, "passive", "-"
		if n.IsActive() {
			kind, ch = "active", strconv.Itoa(n.Channel())
		} else {
			idx = i - activeCount
		}
		label := nodeLabel(n, idx)
		labels[i] = label
		rows = append(rows, []string{
			label,
			kind,
			fmt.Sprintf("%d,%d", n.GridX(), n.GridY()),
			fmt.Sprintf("%d,%d", n.MeshX(), n.MeshY()),
			ch,
			strconv.Itoa(degrees[i]),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Node", "Type", "Grid", "Mesh", "Channel", "Degree").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle.Padding(0, 1)
			case row < activeCount && col <= 1:
				return cell.Inherit(StyleActive)
			case col >= 2:
				return cell.Inherit(StyleNumber)
			default:
				return cell.Inherit(StyleDim)
			}
		})

	fmt.Fprintln(c.stdout, StyleTitle.Render(fmt.Sprintf("Floor %s", snap.Revision)))
	fmt.Fprintln(c.stdout, t.String())
	fmt.Fprintf(c.stdout, "%d active · %d passive · %d edges\n",
		activeCount, snap.Nodes.PassiveCount(), len(edges))

	if !showEdges {
		return
	}
	fmt.Fprintln(c.stdout)
	for _, e := range edges {
		fmt.Fprintf(c.stdout, "%s %s %s\n", labels[e.I], StyleDim.Render("--"), labels[e.J])
	}
}
