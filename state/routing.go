package state

import (
	"errors"
	"maps"
	"slices"
	"strconv"
)

// NodeId is the unique name of a node in the simulated network.
type NodeId string

// Cost is the metric of a link or route.
type Cost uint32

var (
	ErrUnknownNode   = errors.New("unknown node id")
	ErrDuplicateNode = errors.New("duplicate node id")
	ErrNegativeCost  = errors.New("negative link cost")
)

func (c Cost) String() string {
	if c == Inf {
		return "inf"
	}
	return strconv.FormatUint(uint64(c), 10)
}

// AddCost saturates at MaxFinite, so a sum of finite costs never reaches Inf.
func AddCost(a, b Cost) Cost {
	if a == Inf || b == Inf {
		return Inf
	} else {
		return Cost(min(uint64(MaxFinite), uint64(a)+uint64(b)))
	}
}

// RouteEntry is a single row of a routing table.
type RouteEntry struct {
	Cost    Cost
	NextHop NodeId // empty when the destination is unreachable
}

// RoutingTable maps destinations to the best route currently known for them.
// Entries are never removed; unreachable destinations stay at Inf.
type RoutingTable map[NodeId]RouteEntry

func (t RoutingTable) Clone() RoutingTable {
	return maps.Clone(t)
}

func (t RoutingTable) Equal(o RoutingTable) bool {
	return maps.Equal(t, o)
}

// Destinations returns every destination in the table in sorted order.
func (t RoutingTable) Destinations() []NodeId {
	return slices.Sorted(maps.Keys(t))
}
