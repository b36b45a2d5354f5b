// Package report renders routing table snapshots emitted by the simulation.
// The simulation core never formats output itself; everything an observer
// sees goes through a Reporter.
package report

import (
	"github.com/encodeous/ripsim/state"
)

// Reporter consumes an event description and the snapshot of every routing
// table taken right after the event. Snapshots are detached values and are
// safe to retain. The simulation invokes reporters sequentially.
type Reporter interface {
	Report(event string, snap state.NetworkSnapshot) error
}

// Multi fans every report out to a list of reporters, stopping at the first
// error.
func Multi(reporters ...Reporter) Reporter {
	return &multiReporter{reporters: reporters}
}

type multiReporter struct {
	reporters []Reporter
}

func (m *multiReporter) Report(event string, snap state.NetworkSnapshot) error {
	for _, r := range m.reporters {
		if err := r.Report(event, snap); err != nil {
			return err
		}
	}
	return nil
}

// Discard ignores every report.
var Discard Reporter = discard{}

type discard struct{}

func (discard) Report(string, state.NetworkSnapshot) error { return nil }
