package core

import (
	"github.com/encodeous/ripsim/state"
)

// Node is a single router in the simulated network. It owns its routing
// table and its cost view of the links to its direct neighbours.
type Node struct {
	Id         state.NodeId
	Table      state.RoutingTable
	Neighbours map[state.NodeId]state.Cost
}

func NewNode(id state.NodeId) *Node {
	return &Node{
		Id:         id,
		Table:      state.RoutingTable{id: {Cost: 0, NextHop: id}},
		Neighbours: make(map[state.NodeId]state.Cost),
	}
}

// UpdateRoutingTable relaxes this node's routes against one neighbour's
// advertised table. An entry is replaced only when the candidate cost is
// strictly smaller; ties keep the incumbent, so repeated exchanges cannot
// oscillate. Reports whether any entry changed.
func (n *Node) UpdateRoutingTable(neigh state.NodeId, adv state.RoutingTable) bool {
	linkCost, ok := n.Neighbours[neigh]
	if !ok {
		return false
	}
	changed := false
	for _, dst := range adv.Destinations() {
		if dst == n.Id {
			// the self route is never overwritten
			continue
		}
		candidate := state.AddCost(linkCost, adv[dst].Cost)
		current, ok := n.Table[dst]
		if !ok {
			current = state.RouteEntry{Cost: state.Inf}
		}
		if candidate < current.Cost {
			n.Table[dst] = state.RouteEntry{Cost: candidate, NextHop: neigh}
			changed = true
		}
	}
	return changed
}

// ShareTable exposes the table this node advertises to its neighbours. The
// returned map is live; callers that retain it across rounds must Clone it.
func (n *Node) ShareTable() state.RoutingTable {
	return n.Table
}

// DisconnectNeighbour marks the link to neigh as dead and resets the direct
// route. Indirect routes whose next hop is neigh keep their now stale costs;
// strict-improvement relaxation never raises them again.
func (n *Node) DisconnectNeighbour(neigh state.NodeId) {
	if _, ok := n.Neighbours[neigh]; !ok {
		return
	}
	n.Neighbours[neigh] = state.Inf
	n.Table[neigh] = state.RouteEntry{Cost: state.Inf}
}
