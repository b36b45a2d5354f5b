package core

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/encodeous/ripsim/state"
)

// Network owns every node of a simulation and drives the synchronous route
// exchange rounds between them.
type Network struct {
	nodes    map[state.NodeId]*Node
	parallel bool
}

func NewNetwork() *Network {
	return &Network{
		nodes: make(map[state.NodeId]*Node),
	}
}

// BuildNetwork constructs a network from a scenario, adding every declared
// node and link.
func BuildNetwork(cfg *state.ScenarioCfg) (*Network, error) {
	links, err := cfg.ParsedLinks()
	if err != nil {
		return nil, err
	}
	n := NewNetwork()
	for _, id := range cfg.NodeIds() {
		if err := n.AddNode(id); err != nil {
			return nil, err
		}
	}
	for _, link := range links {
		if err := n.ConnectNodes(link.V1, link.V2, int(link.V3)); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// SetParallel toggles concurrent round evaluation. A round's outcome is
// identical either way; every node only reads tables captured before the
// round began.
func (n *Network) SetParallel(parallel bool) {
	n.parallel = parallel
}

func (n *Network) AddNode(id state.NodeId) error {
	if _, ok := n.nodes[id]; ok {
		return fmt.Errorf("add node %s: %w", id, state.ErrDuplicateNode)
	}
	n.nodes[id] = NewNode(id)
	return nil
}

// ConnectNodes creates or replaces the symmetric link between a and b and
// seeds the direct route in both tables.
func (n *Network) ConnectNodes(a, b state.NodeId, cost int) error {
	if a == b {
		return fmt.Errorf("connect %s, %s: a node cannot link to itself", a, b)
	}
	if cost < 0 {
		return fmt.Errorf("connect %s, %s: link cost %d: %w", a, b, cost, state.ErrNegativeCost)
	}
	if uint64(cost) > uint64(state.MaxFinite) {
		return fmt.Errorf("connect %s, %s: link cost %d exceeds maximum %d", a, b, cost, uint64(state.MaxFinite))
	}
	na, ok := n.nodes[a]
	if !ok {
		return fmt.Errorf("connect %s, %s: node %s: %w", a, b, a, state.ErrUnknownNode)
	}
	nb, ok := n.nodes[b]
	if !ok {
		return fmt.Errorf("connect %s, %s: node %s: %w", a, b, b, state.ErrUnknownNode)
	}
	c := state.Cost(cost)
	na.Neighbours[b] = c
	nb.Neighbours[a] = c
	na.Table[b] = state.RouteEntry{Cost: c, NextHop: b}
	nb.Table[a] = state.RouteEntry{Cost: c, NextHop: a}
	return nil
}

// RunIteration executes one synchronous exchange round. All tables are
// captured first, then every node relaxes against the captured tables of its
// neighbours, so the result does not depend on evaluation order. Reports
// whether any table changed.
func (n *Network) RunIteration() bool {
	shared := make(map[state.NodeId]state.RoutingTable, len(n.nodes))
	for id, node := range n.nodes {
		shared[id] = node.ShareTable().Clone()
	}
	ids := n.Ids()
	if !n.parallel {
		changed := false
		for _, id := range ids {
			if n.relaxNode(n.nodes[id], shared) {
				changed = true
			}
		}
		return changed
	}
	results := make([]bool, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = n.relaxNode(n.nodes[id], shared)
		}()
	}
	wg.Wait()
	return slices.Contains(results, true)
}

// relaxNode runs one node's half of a round against the pre-round tables.
// Neighbours are visited in sorted order so next hop tie-breaking is
// deterministic.
func (n *Network) relaxNode(node *Node, shared map[state.NodeId]state.RoutingTable) bool {
	changed := false
	for _, neigh := range slices.Sorted(maps.Keys(node.Neighbours)) {
		adv, ok := shared[neigh]
		if !ok {
			continue
		}
		if node.UpdateRoutingTable(neigh, adv) {
			changed = true
		}
	}
	return changed
}

// Converge runs rounds until one produces no change, or maxRounds is
// reached. The detecting round counts towards rounds. Hitting the cap is not
// an error; converged reports which case occurred.
func (n *Network) Converge(maxRounds int) (rounds int, converged bool) {
	for rounds < maxRounds {
		rounds++
		if !n.RunIteration() {
			return rounds, true
		}
	}
	return rounds, false
}

// SimulateFailure severs the link between a and b in both directions. Routes
// that relied on the link are left to later rounds, which may never repair
// them.
func (n *Network) SimulateFailure(a, b state.NodeId) error {
	na, ok := n.nodes[a]
	if !ok {
		return fmt.Errorf("fail link %s, %s: node %s: %w", a, b, a, state.ErrUnknownNode)
	}
	nb, ok := n.nodes[b]
	if !ok {
		return fmt.Errorf("fail link %s, %s: node %s: %w", a, b, b, state.ErrUnknownNode)
	}
	na.DisconnectNeighbour(b)
	nb.DisconnectNeighbour(a)
	return nil
}

// Ids returns every node id in sorted order.
func (n *Network) Ids() []state.NodeId {
	return slices.Sorted(maps.Keys(n.nodes))
}

func (n *Network) Node(id state.NodeId) (*Node, bool) {
	node, ok := n.nodes[id]
	return node, ok
}

// Snapshot captures every routing table as an ordered, detached value.
func (n *Network) Snapshot() state.NetworkSnapshot {
	snap := state.NetworkSnapshot{
		Nodes: make([]state.NodeSnapshot, 0, len(n.nodes)),
	}
	for _, id := range n.Ids() {
		snap.Nodes = append(snap.Nodes, state.SnapshotTable(id, n.nodes[id].Table))
	}
	return snap
}
