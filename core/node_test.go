package core

import (
	"testing"

	"github.com/encodeous/ripsim/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNode_SeedsSelfRoute(t *testing.T) {
	n := NewNode("a")
	assert.Equal(t, state.RoutingTable{
		"a": {Cost: 0, NextHop: "a"},
	}, n.Table)
	assert.Empty(t, n.Neighbours)
}

func TestUpdateRoutingTable_StrictImprovement(t *testing.T) {
	n := NewNode("a")
	n.Neighbours["b"] = 1
	n.Table["c"] = state.RouteEntry{Cost: 5, NextHop: "d"}

	changed := n.UpdateRoutingTable("b", state.RoutingTable{
		"b": {Cost: 0, NextHop: "b"},
		"c": {Cost: 2, NextHop: "c"},
	})
	require.True(t, changed)
	assert.Equal(t, state.RouteEntry{Cost: 3, NextHop: "b"}, n.Table["c"])
	assert.Equal(t, state.RouteEntry{Cost: 1, NextHop: "b"}, n.Table["b"])
}

func TestUpdateRoutingTable_TieKeepsIncumbent(t *testing.T) {
	n := NewNode("a")
	n.Neighbours["b"] = 1
	n.Table["c"] = state.RouteEntry{Cost: 3, NextHop: "d"}

	// candidate cost 1+2 equals the incumbent, so nothing moves
	changed := n.UpdateRoutingTable("b", state.RoutingTable{
		"c": {Cost: 2, NextHop: "c"},
	})
	assert.False(t, changed)
	assert.Equal(t, state.RouteEntry{Cost: 3, NextHop: "d"}, n.Table["c"])
}

func TestUpdateRoutingTable_WorseCandidateIgnored(t *testing.T) {
	n := NewNode("a")
	n.Neighbours["b"] = 4
	n.Table["c"] = state.RouteEntry{Cost: 2, NextHop: "c"}

	changed := n.UpdateRoutingTable("b", state.RoutingTable{
		"c": {Cost: 1, NextHop: "c"},
	})
	assert.False(t, changed)
	assert.Equal(t, state.RouteEntry{Cost: 2, NextHop: "c"}, n.Table["c"])
}

func TestUpdateRoutingTable_UnknownNeighbour(t *testing.T) {
	n := NewNode("a")
	before := n.Table.Clone()

	changed := n.UpdateRoutingTable("b", state.RoutingTable{
		"c": {Cost: 1, NextHop: "c"},
	})
	assert.False(t, changed)
	assert.Equal(t, before, n.Table)
}

func TestUpdateRoutingTable_SelfRouteNeverOverwritten(t *testing.T) {
	n := NewNode("a")
	n.Neighbours["b"] = 1

	// a neighbour claiming a cheap path back to us must not displace the
	// zero cost self route
	changed := n.UpdateRoutingTable("b", state.RoutingTable{
		"a": {Cost: 0, NextHop: "a"},
	})
	assert.False(t, changed)
	assert.Equal(t, state.RouteEntry{Cost: 0, NextHop: "a"}, n.Table["a"])
}

func TestUpdateRoutingTable_InfinityDoesNotImprove(t *testing.T) {
	n := NewNode("a")
	n.Neighbours["b"] = state.Inf
	n.Table["c"] = state.RouteEntry{Cost: state.Inf, NextHop: ""}

	changed := n.UpdateRoutingTable("b", state.RoutingTable{
		"c": {Cost: 1, NextHop: "c"},
	})
	assert.False(t, changed)
	assert.Equal(t, state.Inf, n.Table["c"].Cost)
}

func TestUpdateRoutingTable_FillsMissingDestination(t *testing.T) {
	n := NewNode("a")
	n.Neighbours["b"] = 2

	changed := n.UpdateRoutingTable("b", state.RoutingTable{
		"z": {Cost: 7, NextHop: "y"},
	})
	require.True(t, changed)
	assert.Equal(t, state.RouteEntry{Cost: 9, NextHop: "b"}, n.Table["z"])
}

func TestDisconnectNeighbour(t *testing.T) {
	n := NewNode("a")
	n.Neighbours["b"] = 1
	n.Table["b"] = state.RouteEntry{Cost: 1, NextHop: "b"}
	n.Table["c"] = state.RouteEntry{Cost: 2, NextHop: "b"}

	n.DisconnectNeighbour("b")
	assert.Equal(t, state.Inf, n.Neighbours["b"])
	assert.Equal(t, state.RouteEntry{Cost: state.Inf, NextHop: ""}, n.Table["b"])
	// routes that happened to go via b keep their stale entries
	assert.Equal(t, state.RouteEntry{Cost: 2, NextHop: "b"}, n.Table["c"])
}

func TestDisconnectNeighbour_Unknown(t *testing.T) {
	n := NewNode("a")
	before := n.Table.Clone()

	n.DisconnectNeighbour("b")
	assert.Equal(t, before, n.Table)
	assert.Empty(t, n.Neighbours)
}

func TestShareTable_ReturnsLiveTable(t *testing.T) {
	n := NewNode("a")
	shared := n.ShareTable()
	n.Table["b"] = state.RouteEntry{Cost: 1, NextHop: "b"}
	assert.Contains(t, shared, state.NodeId("b"))
}
