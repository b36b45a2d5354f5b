package core

import (
	"net/netip"
	"testing"

	"github.com/encodeous/ripsim/mock"
	"github.com/encodeous/ripsim/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathString(t *testing.T) {
	p := Path{Hops: []state.NodeId{"a", "b", "c"}, Cost: 2}
	assert.Equal(t, "a -> b -> c", p.String())
}

func TestTrace_ConvergedTriangle(t *testing.T) {
	cfg := mock.Triangle()
	n, err := BuildNetwork(&cfg)
	require.NoError(t, err)
	n.Converge(state.DefaultMaxRounds)

	fw := BuildForwarding(n, cfg.Prefixes())

	// a reaches c's prefix through b, the cheaper two hop path
	path, err := fw.Trace("a", netip.MustParseAddr("10.0.0.3"))
	require.NoError(t, err)
	assert.Equal(t, []state.NodeId{"a", "b", "c"}, path.Hops)
	assert.Equal(t, state.Cost(2), path.Cost)

	// tracing to our own prefix never leaves the node
	path, err = fw.Trace("a", netip.MustParseAddr("10.0.0.1"))
	require.NoError(t, err)
	assert.Equal(t, []state.NodeId{"a"}, path.Hops)
	assert.Equal(t, state.Cost(0), path.Cost)
}

func TestTrace_RoutesAroundFailure(t *testing.T) {
	cfg := mock.Triangle()
	n, err := BuildNetwork(&cfg)
	require.NoError(t, err)
	n.Converge(state.DefaultMaxRounds)
	require.NoError(t, n.SimulateFailure("a", "b"))
	n.Converge(state.DefaultMaxRounds)

	// a's repaired route to b goes the long way round
	fw := BuildForwarding(n, cfg.Prefixes())
	path, err := fw.Trace("a", netip.MustParseAddr("10.0.0.2"))
	require.NoError(t, err)
	assert.Equal(t, []state.NodeId{"a", "c", "b"}, path.Hops)
	assert.Equal(t, state.Cost(5), path.Cost)
}

func TestTrace_DetectsForwardingLoop(t *testing.T) {
	cfg := mock.Triangle()
	n, err := BuildNetwork(&cfg)
	require.NoError(t, err)
	n.Converge(state.DefaultMaxRounds)
	require.NoError(t, n.SimulateFailure("a", "b"))
	n.Converge(state.DefaultMaxRounds)

	// b and c still point at each other for a's prefix, so the walk from c
	// bounces straight back
	fw := BuildForwarding(n, cfg.Prefixes())
	_, err = fw.Trace("c", netip.MustParseAddr("10.0.0.1"))
	require.ErrorContains(t, err, "forwarding loop: c -> b -> c")

	_, err = fw.Trace("b", netip.MustParseAddr("10.0.0.1"))
	require.ErrorContains(t, err, "forwarding loop: b -> c -> b")
}

func TestTrace_UnreachableDestination(t *testing.T) {
	cfg := mock.Triangle()
	n, err := BuildNetwork(&cfg)
	require.NoError(t, err)
	n.Converge(state.DefaultMaxRounds)
	require.NoError(t, n.SimulateFailure("a", "b"))

	// before any repair rounds run, a has no usable route to b at all
	fw := BuildForwarding(n, cfg.Prefixes())
	_, err = fw.Trace("a", netip.MustParseAddr("10.0.0.2"))
	require.ErrorContains(t, err, "a has no route towards 10.0.0.2")
}

func TestTrace_BadArguments(t *testing.T) {
	cfg := mock.Triangle()
	n, err := BuildNetwork(&cfg)
	require.NoError(t, err)
	n.Converge(state.DefaultMaxRounds)
	fw := BuildForwarding(n, cfg.Prefixes())

	_, err = fw.Trace("zz", netip.MustParseAddr("10.0.0.1"))
	assert.ErrorIs(t, err, state.ErrUnknownNode)

	_, err = fw.Trace("a", netip.MustParseAddr("192.168.1.1"))
	assert.ErrorContains(t, err, "no node announces a prefix covering 192.168.1.1")
}

func TestBuildForwarding_SkipsUnannouncedNodes(t *testing.T) {
	cfg := state.ScenarioCfg{
		Name: "partial",
		Nodes: []state.NodeCfg{
			{Id: "a"},
			{Id: "b", Prefix: netip.MustParsePrefix("10.0.0.2/32")},
		},
		Links: []string{"a, b"},
	}
	n, err := BuildNetwork(&cfg)
	require.NoError(t, err)
	n.Converge(state.DefaultMaxRounds)

	// a announces nothing, so it can originate traces but not receive them
	fw := BuildForwarding(n, cfg.Prefixes())
	path, err := fw.Trace("a", netip.MustParseAddr("10.0.0.2"))
	require.NoError(t, err)
	assert.Equal(t, []state.NodeId{"a", "b"}, path.Hops)

	hop, ok := fw.NextHop("b", netip.MustParseAddr("10.0.0.2"))
	assert.True(t, ok)
	assert.Equal(t, state.NodeId("b"), hop)
}
