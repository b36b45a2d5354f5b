package state

import (
	"slices"
)

// RouteSnapshot is one captured row of a routing table.
type RouteSnapshot struct {
	Destination NodeId
	Cost        Cost
	NextHop     NodeId
}

// NodeSnapshot is a point-in-time copy of one node's routing table, with
// routes sorted by destination.
type NodeSnapshot struct {
	Id     NodeId
	Routes []RouteSnapshot
}

// NetworkSnapshot is a point-in-time copy of every routing table in the
// network, with nodes sorted by id. It shares no state with the live network
// and is safe to retain.
type NetworkSnapshot struct {
	Nodes []NodeSnapshot
}

// SnapshotTable captures a routing table as a sorted snapshot.
func SnapshotTable(id NodeId, table RoutingTable) NodeSnapshot {
	routes := make([]RouteSnapshot, 0, len(table))
	for _, dst := range table.Destinations() {
		e := table[dst]
		routes = append(routes, RouteSnapshot{
			Destination: dst,
			Cost:        e.Cost,
			NextHop:     e.NextHop,
		})
	}
	return NodeSnapshot{Id: id, Routes: routes}
}

func (s NetworkSnapshot) Node(id NodeId) (NodeSnapshot, bool) {
	idx := slices.IndexFunc(s.Nodes, func(n NodeSnapshot) bool {
		return n.Id == id
	})
	if idx == -1 {
		return NodeSnapshot{}, false
	}
	return s.Nodes[idx], true
}

func (n NodeSnapshot) Route(dst NodeId) (RouteSnapshot, bool) {
	idx := slices.IndexFunc(n.Routes, func(r RouteSnapshot) bool {
		return r.Destination == dst
	})
	if idx == -1 {
		return RouteSnapshot{}, false
	}
	return n.Routes[idx], true
}

// Table rebuilds a RoutingTable from the snapshot. Used by consumers that
// want map-shaped access without touching the live network.
func (n NodeSnapshot) Table() RoutingTable {
	table := make(RoutingTable, len(n.Routes))
	for _, r := range n.Routes {
		table[r.Destination] = RouteEntry{Cost: r.Cost, NextHop: r.NextHop}
	}
	return table
}
