package report

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/encodeous/ripsim/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() state.NetworkSnapshot {
	return state.NetworkSnapshot{
		Nodes: []state.NodeSnapshot{
			{
				Id: "a",
				Routes: []state.RouteSnapshot{
					{Destination: "a", Cost: 0, NextHop: "a"},
					{Destination: "b", Cost: state.Inf, NextHop: ""},
					{Destination: "c", Cost: 2, NextHop: "b"},
				},
			},
			{
				Id: "b",
				Routes: []state.RouteSnapshot{
					{Destination: "b", Cost: 0, NextHop: "b"},
				},
			},
		},
	}
}

func TestConsoleRendering(t *testing.T) {
	var buf strings.Builder
	c := NewConsole(&buf)
	require.NoError(t, c.Report("initial state", sampleSnapshot()))

	out := buf.String()
	assert.Contains(t, out, "initial state\n")
	assert.Contains(t, out, "Routing Table for Node a:\n")
	assert.Contains(t, out, "Routing Table for Node b:\n")
	assert.Contains(t, out, fmt.Sprintf("%-12s %-10s %-10s\n", "Destination", "Cost", "Next Hop"))
	// unreachable routes render as inf with no next hop
	assert.Contains(t, out, fmt.Sprintf("%-12s %-10s %-10s\n", "b", "inf", "N/A"))
	assert.Contains(t, out, fmt.Sprintf("%-12s %-10s %-10s\n", "c", "2", "b"))
}

func TestFileReporter_BannerWrittenOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "network.log")

	r, err := NewFile(path)
	require.NoError(t, err)
	require.NoError(t, r.Report("initial state", sampleSnapshot()))
	require.NoError(t, r.Close())

	// reopening must append instead of rewriting the banner
	r, err = NewFile(path)
	require.NoError(t, err)
	require.NoError(t, r.Report("iteration 1 (initial)", sampleSnapshot()))
	require.NoError(t, r.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Equal(t, 1, strings.Count(out, "Distance Vector Routing Simulation Log"))
	assert.Contains(t, out, "] initial state\n")
	assert.Contains(t, out, "] iteration 1 (initial)\n")
	assert.Less(t, strings.Index(out, "initial state"), strings.Index(out, "iteration 1"))
}

type failingReporter struct {
	err error
}

func (f failingReporter) Report(string, state.NetworkSnapshot) error {
	return f.err
}

func TestMulti_StopsAtFirstError(t *testing.T) {
	rec1 := &Recorder{}
	rec2 := &Recorder{}

	m := Multi(rec1, rec2)
	require.NoError(t, m.Report("x", state.NetworkSnapshot{}))
	assert.Equal(t, []string{"x"}, rec1.Events())
	assert.Equal(t, []string{"x"}, rec2.Events())

	boom := errors.New("sink failed")
	m = Multi(rec1, failingReporter{err: boom}, rec2)
	assert.ErrorIs(t, m.Report("y", state.NetworkSnapshot{}), boom)
	assert.Equal(t, []string{"x", "y"}, rec1.Events())
	// the reporter behind the failing one must not see the report
	assert.Equal(t, []string{"x"}, rec2.Events())
}

func TestRecorder(t *testing.T) {
	rec := &Recorder{}
	_, ok := rec.Last()
	assert.False(t, ok)

	require.NoError(t, rec.Report("first", sampleSnapshot()))
	require.NoError(t, rec.Report("second", state.NetworkSnapshot{}))

	assert.Equal(t, []string{"first", "second"}, rec.Events())
	last, ok := rec.Last()
	assert.True(t, ok)
	assert.Equal(t, "second", last.Event)
	assert.Len(t, rec.Reports(), 2)
}

func TestSlogReporter(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s := NewSlog(logger)
	require.NoError(t, s.Report("initial state", sampleSnapshot()))

	out := buf.String()
	assert.Contains(t, out, `event="initial state"`)
	assert.Contains(t, out, "dst=c")
	assert.Contains(t, out, "cost=inf")
}

func TestDiscard(t *testing.T) {
	assert.NoError(t, Discard.Report("anything", sampleSnapshot()))
}
