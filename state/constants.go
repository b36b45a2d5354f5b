package state

const (
	// Inf marks a link or route as unusable.
	Inf = ^(Cost)(0)
	// MaxFinite is the maximum value for a cost that is not unreachable.
	MaxFinite = Inf - 1
)

var (
	// DefaultMaxRounds bounds convergence when a scenario does not set max_rounds.
	DefaultMaxRounds = 100

	// DefaultLinkCost is assumed for link lines without a cost suffix.
	DefaultLinkCost = (Cost)(1)

	// default scenario file
	DefaultScenarioPath = "scenario.yaml"
)

// debug toggles, bound to CLI flags
var (
	DBG_trace = false
	DBG_debug = false
)
