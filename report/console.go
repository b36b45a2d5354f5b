package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/encodeous/ripsim/state"
)

// Console renders snapshots as fixed-width routing tables, one block per
// node.
type Console struct {
	W io.Writer
}

func NewConsole(w io.Writer) *Console {
	return &Console{W: w}
}

func (c *Console) Report(event string, snap state.NetworkSnapshot) error {
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n", event)
	for _, node := range snap.Nodes {
		writeTable(&b, node)
	}
	_, err := io.WriteString(c.W, b.String())
	return err
}

// writeTable renders one node's table. Unreachable next hops show as N/A.
func writeTable(b *strings.Builder, node state.NodeSnapshot) {
	fmt.Fprintf(b, "Routing Table for Node %s:\n", node.Id)
	fmt.Fprintf(b, "%-12s %-10s %-10s\n", "Destination", "Cost", "Next Hop")
	b.WriteString(strings.Repeat("-", 34) + "\n")
	for _, route := range node.Routes {
		hop := string(route.NextHop)
		if hop == "" {
			hop = "N/A"
		}
		fmt.Fprintf(b, "%-12s %-10s %-10s\n", string(route.Destination), route.Cost.String(), hop)
	}
	b.WriteString(strings.Repeat("-", 40) + "\n")
}
