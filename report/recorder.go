package report

import (
	"github.com/encodeous/ripsim/state"
)

// Recorded is one report retained by a Recorder.
type Recorded struct {
	Event string
	Snap  state.NetworkSnapshot
}

// Recorder retains every report it receives, in order. Tests use it to
// assert on the exact sequence of events and table states a run produced.
type Recorder struct {
	reports []Recorded
}

func (r *Recorder) Report(event string, snap state.NetworkSnapshot) error {
	r.reports = append(r.reports, Recorded{Event: event, Snap: snap})
	return nil
}

// Events returns the reported event descriptions in order.
func (r *Recorder) Events() []string {
	events := make([]string, 0, len(r.reports))
	for _, rec := range r.reports {
		events = append(events, rec.Event)
	}
	return events
}

// Reports returns everything recorded so far.
func (r *Recorder) Reports() []Recorded {
	return r.reports
}

// Last returns the most recent report.
func (r *Recorder) Last() (Recorded, bool) {
	if len(r.reports) == 0 {
		return Recorded{}, false
	}
	return r.reports[len(r.reports)-1], true
}
