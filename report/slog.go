package report

import (
	"log/slog"

	"github.com/encodeous/ripsim/state"
)

// Slog bridges reports into structured logging. The event itself logs at
// Info, individual routes at Debug.
type Slog struct {
	Log *slog.Logger
}

func NewSlog(log *slog.Logger) *Slog {
	return &Slog{Log: log}
}

func (s *Slog) Report(event string, snap state.NetworkSnapshot) error {
	s.Log.Info("report", "event", event, "nodes", len(snap.Nodes))
	for _, node := range snap.Nodes {
		for _, route := range node.Routes {
			s.Log.Debug("route",
				"node", node.Id,
				"dst", route.Destination,
				"cost", route.Cost.String(),
				"via", route.NextHop,
			)
		}
	}
	return nil
}
