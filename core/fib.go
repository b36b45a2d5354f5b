package core

import (
	"fmt"
	"net/netip"
	"strings"

	"github.com/encodeous/ripsim/state"
	"github.com/gaissmai/bart"
)

// Forwarding is the compiled forwarding state of a network: one prefix table
// per node, mapping destination prefixes to next hop nodes. It is built from
// a fixed set of routing tables and does not follow later changes.
type Forwarding struct {
	tables   map[state.NodeId]*bart.Table[state.NodeId]
	routes   map[state.NodeId]state.RoutingTable
	owners   bart.Table[state.NodeId]
	prefixes map[state.NodeId]netip.Prefix
}

// BuildForwarding compiles per node forwarding tables from the network's
// current routing tables. Only nodes that announce a prefix are addressable.
// Prefixes sharing a next hop are coalesced before insertion to keep the
// tables minimal.
func BuildForwarding(n *Network, prefixes map[state.NodeId]netip.Prefix) *Forwarding {
	fw := &Forwarding{
		tables:   make(map[state.NodeId]*bart.Table[state.NodeId]),
		routes:   make(map[state.NodeId]state.RoutingTable),
		prefixes: prefixes,
	}
	for owner, prefix := range prefixes {
		fw.owners.Insert(prefix, owner)
	}
	for _, id := range n.Ids() {
		node, _ := n.Node(id)
		table := node.Table.Clone()
		fw.routes[id] = table

		// group destination prefixes by next hop so siblings can merge
		byHop := make(map[state.NodeId][]netip.Prefix)
		for dst, entry := range table {
			prefix, ok := prefixes[dst]
			if !ok {
				continue
			}
			if entry.Cost == state.Inf || entry.NextHop == "" {
				continue
			}
			byHop[entry.NextHop] = append(byHop[entry.NextHop], prefix)
		}
		fib := &bart.Table[state.NodeId]{}
		for hop, ps := range byHop {
			for _, p := range state.CoalescePrefix(ps) {
				fib.Insert(p, hop)
			}
		}
		fw.tables[id] = fib
	}
	return fw
}

// NextHop resolves one forwarding decision at node id for the address dst.
func (f *Forwarding) NextHop(id state.NodeId, dst netip.Addr) (state.NodeId, bool) {
	table, ok := f.tables[id]
	if !ok {
		return "", false
	}
	return table.Lookup(dst)
}

// Path is one resolved forwarding walk.
type Path struct {
	Hops []state.NodeId
	Cost state.Cost
}

func (p Path) String() string {
	hops := make([]string, 0, len(p.Hops))
	for _, h := range p.Hops {
		hops = append(hops, string(h))
	}
	return strings.Join(hops, " -> ")
}

// Trace walks next hops from src towards the node whose announced prefix
// covers dst. It reports unreachable destinations, and detects forwarding
// loops, which genuinely occur in tables left stale by a link failure. The
// returned cost is the cost src believes the route has, which for a stale
// route can disagree with the hops actually taken.
func (f *Forwarding) Trace(src state.NodeId, dst netip.Addr) (Path, error) {
	if _, ok := f.routes[src]; !ok {
		return Path{}, fmt.Errorf("trace from %s: %w", src, state.ErrUnknownNode)
	}
	dstNode, ok := f.owners.Lookup(dst)
	if !ok {
		return Path{}, fmt.Errorf("no node announces a prefix covering %s", dst)
	}
	path := Path{Hops: []state.NodeId{src}}
	visited := map[state.NodeId]bool{src: true}
	cur := src
	for cur != dstNode {
		hop, ok := f.NextHop(cur, dst)
		if !ok {
			return path, fmt.Errorf("%s has no route towards %s", cur, dst)
		}
		path.Hops = append(path.Hops, hop)
		if visited[hop] {
			return path, fmt.Errorf("forwarding loop: %s", path)
		}
		visited[hop] = true
		cur = hop
	}
	if route, ok := f.routes[src][dstNode]; ok {
		path.Cost = route.Cost
	}
	return path, nil
}
