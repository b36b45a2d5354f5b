//go:build integration

package integration

import (
	"context"
	"log/slog"
	"net/netip"
	"testing"

	"github.com/encodeous/ripsim/core"
	"github.com/encodeous/ripsim/report"
	"github.com/encodeous/ripsim/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Harness runs a scenario end to end and keeps every reported snapshot around
// for inspection.
type Harness struct {
	t   *testing.T
	Cfg state.ScenarioCfg
	Rec *report.Recorder
	Sim *core.Simulation
	Res *core.Result
}

func Run(t *testing.T, cfg state.ScenarioCfg) *Harness {
	return run(t, cfg, false)
}

func RunParallel(t *testing.T, cfg state.ScenarioCfg) *Harness {
	return run(t, cfg, true)
}

func run(t *testing.T, cfg state.ScenarioCfg, parallel bool) *Harness {
	t.Helper()
	rec := &report.Recorder{}
	sim, err := core.NewSimulation(cfg, slog.New(slog.DiscardHandler), rec)
	require.NoError(t, err)
	sim.Net.SetParallel(parallel)
	res, err := sim.Run(context.Background())
	require.NoError(t, err)
	return &Harness{t: t, Cfg: cfg, Rec: rec, Sim: sim, Res: res}
}

func (h *Harness) Forwarding() *core.Forwarding {
	return core.BuildForwarding(h.Sim.Net, h.Cfg.Prefixes())
}

// AssertPath traces dst from src over the final tables and compares the hops.
func (h *Harness) AssertPath(src state.NodeId, dst string, want ...state.NodeId) {
	h.t.Helper()
	path, err := h.Forwarding().Trace(src, netip.MustParseAddr(dst))
	require.NoError(h.t, err)
	assert.Equal(h.t, want, path.Hops)
}

// AssertLoop asserts that packets from src towards dst would cycle forever.
func (h *Harness) AssertLoop(src state.NodeId, dst string) {
	h.t.Helper()
	_, err := h.Forwarding().Trace(src, netip.MustParseAddr(dst))
	require.ErrorContains(h.t, err, "forwarding loop")
}
