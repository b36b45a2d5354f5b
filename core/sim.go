package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/encodeous/ripsim/perf"
	"github.com/encodeous/ripsim/report"
	"github.com/encodeous/ripsim/state"
	"github.com/google/uuid"
)

// Simulation drives a scenario end to end: initial convergence, then one
// phase per configured link failure.
type Simulation struct {
	Net      *Network
	Cfg      state.ScenarioCfg
	Log      *slog.Logger
	Reporter report.Reporter
}

// Result summarizes a finished run.
type Result struct {
	RunId    string
	Scenario string
	Phases   []PhaseResult
	Elapsed  time.Duration
}

// PhaseResult records the convergence outcome of one phase of a run.
type PhaseResult struct {
	Label     string
	Rounds    int
	Converged bool
	Elapsed   time.Duration
}

// Converged reports whether every phase reached a fixpoint within its round
// budget.
func (r *Result) Converged() bool {
	for _, p := range r.Phases {
		if !p.Converged {
			return false
		}
	}
	return true
}

// NewSimulation validates the scenario and builds the network from it. A nil
// logger or reporter disables that output.
func NewSimulation(cfg state.ScenarioCfg, log *slog.Logger, reporter report.Reporter) (*Simulation, error) {
	if err := state.ScenarioValidator(&cfg); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	net, err := BuildNetwork(&cfg)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if reporter == nil {
		reporter = report.Discard
	}
	return &Simulation{
		Net:      net,
		Cfg:      cfg,
		Log:      log,
		Reporter: reporter,
	}, nil
}

// Run executes the scenario. The context is only consulted between rounds. A
// phase that exhausts its round budget is recorded as not converged; that is
// an outcome, not an error.
func (s *Simulation) Run(ctx context.Context) (*Result, error) {
	res := &Result{
		RunId:    uuid.NewString(),
		Scenario: s.Cfg.Name,
	}
	start := time.Now()
	log := s.Log.With("run", res.RunId)

	log.Info("starting simulation", "scenario", s.Cfg.Name, "nodes", len(s.Net.Ids()))
	if err := s.report("initial state"); err != nil {
		return nil, err
	}

	phase, err := s.convergePhase(ctx, log, "initial")
	if err != nil {
		return nil, err
	}
	res.Phases = append(res.Phases, phase)

	failures, err := s.Cfg.ParsedFailures()
	if err != nil {
		return nil, err
	}
	for _, failure := range failures {
		if err := s.Net.SimulateFailure(failure.V1, failure.V2); err != nil {
			return nil, err
		}
		log.Info("link failed", "a", failure.V1, "b", failure.V2)
		if err := s.report(fmt.Sprintf("link %s-%s failed", failure.V1, failure.V2)); err != nil {
			return nil, err
		}
		phase, err := s.convergePhase(ctx, log, fmt.Sprintf("after failure %s-%s", failure.V1, failure.V2))
		if err != nil {
			return nil, err
		}
		res.Phases = append(res.Phases, phase)
	}

	res.Elapsed = time.Since(start)
	log.Info("simulation complete",
		"phases", len(res.Phases),
		"converged", res.Converged(),
		"elapsed", res.Elapsed,
	)
	return res, nil
}

// convergePhase mirrors Network.Converge, but reports a snapshot after every
// round and feeds the perf counters.
func (s *Simulation) convergePhase(ctx context.Context, log *slog.Logger, label string) (PhaseResult, error) {
	maxRounds := s.Cfg.EffectiveMaxRounds()
	phase := PhaseResult{Label: label}
	start := time.Now()
	prev := s.Net.Snapshot()
	for phase.Rounds < maxRounds {
		if err := ctx.Err(); err != nil {
			return phase, err
		}
		phase.Rounds++
		roundStart := time.Now()
		changed := s.Net.RunIteration()
		perf.RoundLatency.Add(float64(time.Since(roundStart).Microseconds()))
		perf.RoundsPerSecond.Add(1)

		snap := s.Net.Snapshot()
		perf.RouteChanges.Add(float64(countRouteChanges(prev, snap)))
		prev = snap

		if err := s.Reporter.Report(fmt.Sprintf("iteration %d (%s)", phase.Rounds, label), snap); err != nil {
			return phase, fmt.Errorf("reporter: %w", err)
		}
		if !changed {
			phase.Converged = true
			break
		}
	}
	phase.Elapsed = time.Since(start)
	perf.PhaseRounds.Add(float64(phase.Rounds))
	if phase.Converged {
		log.Info("network converged", "phase", label, "rounds", phase.Rounds, "elapsed", phase.Elapsed)
	} else {
		log.Warn("round budget exhausted before convergence", "phase", label, "rounds", phase.Rounds)
	}
	return phase, nil
}

func (s *Simulation) report(event string) error {
	if err := s.Reporter.Report(event, s.Net.Snapshot()); err != nil {
		return fmt.Errorf("reporter: %w", err)
	}
	return nil
}

// countRouteChanges diffs two consecutive snapshots for the churn counter.
func countRouteChanges(prev, cur state.NetworkSnapshot) int {
	changes := 0
	for _, node := range cur.Nodes {
		before, ok := prev.Node(node.Id)
		if !ok {
			changes += len(node.Routes)
			continue
		}
		for _, route := range node.Routes {
			old, ok := before.Route(route.Destination)
			if !ok || old != route {
				changes++
			}
		}
	}
	return changes
}
