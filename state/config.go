package state

import (
	"cmp"
	"fmt"
	"net"
	"net/netip"
	"slices"
	"strconv"
	"strings"

	"github.com/cilium/cilium/pkg/ip"
)

// NodeCfg declares a single simulated node.
type NodeCfg struct {
	Id     NodeId
	Prefix netip.Prefix `yaml:",omitempty"` // optional, announced into the forwarding tables
}

// ScenarioCfg is the on-disk description of a simulation run.
type ScenarioCfg struct {
	Name      string
	Nodes     []NodeCfg
	Links     []string // link DSL, see ParseLinks
	Failures  []string `yaml:",omitempty"` // one "a, b" line per failure phase
	MaxRounds int      `yaml:"max_rounds,omitempty"`
	LogPath   string   `yaml:"log_path,omitempty"` // if not empty, routing tables are appended to this file
}

// NodeIds returns the declared node ids in declaration order.
func (c *ScenarioCfg) NodeIds() []NodeId {
	ids := make([]NodeId, 0, len(c.Nodes))
	for _, n := range c.Nodes {
		ids = append(ids, n.Id)
	}
	return ids
}

func (c *ScenarioCfg) nodeNames() []string {
	names := make([]string, 0, len(c.Nodes))
	for _, n := range c.Nodes {
		names = append(names, string(n.Id))
	}
	return names
}

// Prefixes returns the announced prefix of every node that declares one.
func (c *ScenarioCfg) Prefixes() map[NodeId]netip.Prefix {
	prefixes := make(map[NodeId]netip.Prefix)
	for _, n := range c.Nodes {
		if n.Prefix.IsValid() {
			prefixes[n.Id] = n.Prefix
		}
	}
	return prefixes
}

// EffectiveMaxRounds applies DefaultMaxRounds when the scenario leaves
// max_rounds unset.
func (c *ScenarioCfg) EffectiveMaxRounds() int {
	if c.MaxRounds <= 0 {
		return DefaultMaxRounds
	}
	return c.MaxRounds
}

func (c *ScenarioCfg) ParsedLinks() ([]Triple[NodeId, NodeId, Cost], error) {
	return ParseLinks(c.Links, c.nodeNames())
}

func (c *ScenarioCfg) ParsedFailures() ([]Pair[NodeId, NodeId], error) {
	return ParseEdges(c.Failures, c.nodeNames())
}

func parseSymbolList(s string, validSymbols []string) ([]string, error) {
	spl := strings.Split(strings.TrimSpace(s), ",")
	line := make([]string, 0)
	for _, s := range spl {
		x := strings.TrimSpace(s)
		if x == "" {
			continue
		}
		if !slices.Contains(validSymbols, x) {
			return nil, fmt.Errorf(`%s is not a valid node/group: %w`, x, ErrUnknownNode)
		}
		line = append(line, x)
	}
	if len(line) == 0 {
		return nil, fmt.Errorf(`node/group list must not be empty`)
	}
	slices.Sort(line)
	return line, nil
}

// parseCost decides whether the right-hand side of a '=' is a link cost.
// Group definitions fall through with ok = false.
func parseCost(s string) (Cost, bool, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, false, nil
	}
	if v < 0 {
		return 0, true, fmt.Errorf("link cost %d: %w", v, ErrNegativeCost)
	}
	if v > int64(MaxFinite) {
		return 0, true, fmt.Errorf("link cost %d exceeds maximum %d", v, uint64(MaxFinite))
	}
	return Cost(v), true, nil
}

func toIPNets(prefixes []netip.Prefix) []*net.IPNet {
	nets := make([]*net.IPNet, 0, len(prefixes))
	for _, p := range prefixes {
		if p.IsValid() {
			nets = append(nets, &net.IPNet{
				IP:   p.Addr().AsSlice(),
				Mask: net.CIDRMask(p.Bits(), p.Addr().BitLen()),
			})
		}
	}
	return nets
}

func fromIPNets(nets []*net.IPNet) []netip.Prefix {
	output := make([]netip.Prefix, 0, len(nets))
	for _, n := range nets {
		if addr, ok := netip.AddrFromSlice(n.IP); ok {
			ones, _ := n.Mask.Size()
			output = append(output, netip.PrefixFrom(addr.Unmap(), ones))
		}
	}
	return output
}

func CoalescePrefix(prefixes []netip.Prefix) []netip.Prefix {
	ipv4, ipv6 := ip.CoalesceCIDRs(toIPNets(prefixes))
	return fromIPNets(append(ipv4, ipv6...))
}

/*
ParseLinks Link syntax is something like this:

Group1 = node1, node2, node3

Group2 = node4, node5

Group1, Group2, OtherNode = 4 // Group1, Group2, OtherNode will all be interconnected at cost 4, but not within Group1 or Group2

Group1, Group1 = 2 // every node is connected to every other node at cost 2

node8, node9 // node8 and node9 will be connected at DefaultLinkCost

A line whose right-hand side is a bare integer is a weighted link line;
everything else containing a '=' is a group definition. The same pair of nodes
must not appear with two different costs.

graph represents the above lines
nodes represents a set of unique terminal nodes that the graph will evaluate down to
*/
func ParseLinks(graph []string, nodes []string) ([]Triple[NodeId, NodeId, Cost], error) {
	parsedPairings := make([]Pair[string, string], 0)
	pairingCost := make(map[Pair[string, string]]Cost)

	groups := make(map[string][]string)

	symbols := slices.Clone(nodes)

	// pass 0, collect all symbols

	for _, line := range graph {
		line = strings.ToLower(strings.TrimSpace(line))
		if !strings.Contains(line, "=") {
			continue
		}
		spl := strings.Split(line, "=")
		if len(spl) != 2 {
			return nil, fmt.Errorf("invalid link line: %s. definition must contain one '='", line)
		}
		if _, isCost, _ := parseCost(spl[1]); isCost {
			continue
		}
		grp := strings.TrimSpace(spl[0])
		if slices.Contains(nodes, grp) {
			return nil, fmt.Errorf("group name must not be a node name: %s", grp)
		}
		symbols = append(symbols, grp)
	}
	slices.Sort(symbols)
	symbols = slices.Compact(symbols)

	// used for topological sorting
	// map: group -> []<groups that the node depends on>
	topo := make(map[string][]string)
	expansion := make(map[string][]string)

	// pass 1, parse lines
	for _, line := range graph {
		line = strings.ToLower(strings.TrimSpace(line))
		cost := DefaultLinkCost
		isLink := true
		if strings.Contains(line, "=") {
			spl := strings.Split(line, "=")
			c, isCost, err := parseCost(spl[1])
			if err != nil {
				return nil, err
			}
			if isCost {
				cost = c
				line = spl[0]
			} else {
				isLink = false
				grp := strings.TrimSpace(spl[0])
				if _, ok := groups[grp]; ok {
					return nil, fmt.Errorf("duplicate group name: %s", grp)
				}
				lst, err := parseSymbolList(spl[1], symbols)
				if err != nil {
					return nil, err
				}
				// track dependencies
				deps := make([]string, 0)
				for _, l := range lst {
					if !slices.Contains(nodes, l) {
						// depends on a group
						deps = append(deps, l)
					} else {
						expansion[grp] = append(expansion[grp], l)
					}
				}
				slices.Sort(deps)
				deps = slices.Compact(deps)

				topo[grp] = deps
				groups[grp] = lst
			}
		}
		if isLink {
			names, err := parseSymbolList(line, symbols)
			if err != nil {
				return nil, err
			}
			if len(names) < 2 {
				return nil, fmt.Errorf("invalid pairing, %v", names)
			}
			interconnect := make([]string, 0)
			for _, name := range names {
				for _, prev := range interconnect {
					pair := MakeSortedPair(prev, name)
					if prevCost, ok := pairingCost[pair]; ok && prevCost != cost {
						return nil, fmt.Errorf("conflicting cost for %s, %s: %s != %s", pair.V1, pair.V2, prevCost, cost)
					}
					pairingCost[pair] = cost
					parsedPairings = append(parsedPairings, pair)
				}
				interconnect = append(interconnect, name)
			}
			SortPairs(parsedPairings)
			parsedPairings = slices.Compact(parsedPairings)
		}
	}

	// pass 2, expand group names
	// just topological sorting
	for len(topo) > 0 {
		// find free group
		var group string
		for k, v := range topo {
			if len(v) == 0 {
				group = k
				break
			}
		}
		if group == "" {
			cycleNodes := make([]string, 0)
			for node := range topo {
				cycleNodes = append(cycleNodes, node)
			}
			slices.Sort(cycleNodes)
			return nil, fmt.Errorf("cycle detected in graph: %v", cycleNodes)
		}
		delete(topo, group)

		// remove and expand the group for every dependent
		for k, deps := range topo {
			if slices.Contains(deps, group) {
				// remove it from the group and copy the value to the expansion
				expansion[k] = append(expansion[k], expansion[group]...)
				slices.Sort(expansion[k])
				expansion[k] = slices.Compact(expansion[k])

				// remove group from deps
				x := 0
				for _, dep := range deps {
					if dep == group {
						// remove
					} else {
						deps[x] = dep
						x++
					}
				}
				deps = deps[:x]
				topo[k] = deps
			}
		}
	}

	// pass 3, rewrite pairings with their costs
	links := make([]Triple[NodeId, NodeId, Cost], 0)
	linkCost := make(map[Pair[NodeId, NodeId]]Cost)
	for _, pair := range parsedPairings {
		cost := pairingCost[pair]
		x := make([]NodeId, 0)
		if slices.Contains(nodes, pair.V1) {
			x = append(x, NodeId(pair.V1))
		} else {
			for _, exp := range expansion[pair.V1] {
				x = append(x, NodeId(exp))
			}
		}
		y := make([]NodeId, 0)
		if slices.Contains(nodes, pair.V2) {
			y = append(y, NodeId(pair.V2))
		} else {
			for _, exp := range expansion[pair.V2] {
				y = append(y, NodeId(exp))
			}
		}
		for _, x1 := range x {
			for _, y1 := range y {
				if x1 != y1 {
					p := MakeSortedPair(x1, y1)
					if prevCost, ok := linkCost[p]; ok {
						if prevCost != cost {
							return nil, fmt.Errorf("conflicting cost for %s, %s: %s != %s", p.V1, p.V2, prevCost, cost)
						}
						continue
					}
					linkCost[p] = cost
					links = append(links, Triple[NodeId, NodeId, Cost]{p.V1, p.V2, cost})
				}
			}
		}
	}
	slices.SortFunc(links, func(a, b Triple[NodeId, NodeId, Cost]) int {
		if c := cmp.Compare(a.V1, b.V1); c != 0 {
			return c
		}
		return cmp.Compare(a.V2, b.V2)
	})
	return links, nil
}

// ParseEdges parses one "a, b" node pair per line. Unlike ParseLinks, groups
// are not allowed and the result keeps the input order.
func ParseEdges(lines []string, nodes []string) ([]Pair[NodeId, NodeId], error) {
	edges := make([]Pair[NodeId, NodeId], 0, len(lines))
	for _, line := range lines {
		names, err := parseSymbolList(strings.ToLower(line), nodes)
		if err != nil {
			return nil, err
		}
		if len(names) != 2 || names[0] == names[1] {
			return nil, fmt.Errorf("edge must name exactly two distinct nodes: %s", strings.TrimSpace(line))
		}
		edges = append(edges, MakeSortedPair(NodeId(names[0]), NodeId(names[1])))
	}
	return edges, nil
}

func MakeSortedPair[T cmp.Ordered](a, b T) Pair[T, T] {
	if a < b {
		return Pair[T, T]{a, b}
	} else {
		return Pair[T, T]{b, a}
	}
}
