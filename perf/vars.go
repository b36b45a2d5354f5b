package perf

import (
	"expvar"
	"net/http"

	"github.com/encodeous/metric"
)

var (
	RoundLatency    = metric.NewHistogram("1m1s")
	PhaseRounds     = metric.NewHistogram("10s1s")
	RoundsPerSecond = metric.NewCounter("10s1s")
	RouteChanges    = metric.NewCounter("10s1s")
)

func init() {
	http.Handle("/debug/metrics", metric.Handler(metric.Exposed))
	expvar.Publish("ripsim:PhaseRounds", PhaseRounds)

	expvar.Publish("ripsim:Rounds/s", RoundsPerSecond)
	expvar.Publish("ripsim:RouteChanges/s", RouteChanges)
	expvar.Publish("ripsim:RoundLatency (µs)", RoundLatency)
}
