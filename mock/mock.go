// Package mock builds canned scenarios for tests and demos.
package mock

import (
	"fmt"
	"math/rand/v2"
	"net/netip"

	"github.com/encodeous/ripsim/state"
)

// Triangle is the canonical three node scenario. The a-c link is priced so
// that both ends prefer the two hop path through b, and the scripted a-b
// failure leaves b and c holding stale routes towards a.
func Triangle() state.ScenarioCfg {
	return state.ScenarioCfg{
		Name: "triangle",
		Nodes: []state.NodeCfg{
			{Id: "a", Prefix: netip.MustParsePrefix("10.0.0.1/32")},
			{Id: "b", Prefix: netip.MustParsePrefix("10.0.0.2/32")},
			{Id: "c", Prefix: netip.MustParsePrefix("10.0.0.3/32")},
		},
		Links: []string{
			"a, b = 1",
			"b, c = 1",
			"a, c = 4",
		},
		Failures: []string{"a, b"},
	}
}

// Mesh5 is a five node weighted mesh.
func Mesh5() state.ScenarioCfg {
	names := []state.NodeId{"bob", "jeb", "kat", "eve", "ada"}
	cfg := state.ScenarioCfg{
		Name: "mesh5",
		Links: []string{
			"bob, jeb = 1",
			"bob, kat = 1",
			"bob, eve = 10",
			"jeb, kat = 1",
			"kat, ada = 1",
			"kat, eve = 1",
			"eve, ada = 2",
		},
	}
	addr := netip.MustParseAddr("10.1.0.1")
	for _, name := range names {
		cfg.Nodes = append(cfg.Nodes, state.NodeCfg{
			Id:     name,
			Prefix: netip.PrefixFrom(addr, 32),
		})
		addr = addr.Next()
	}
	return cfg
}

// Line is a chain of n unit cost links, n1 through n<n>. Convergence takes
// exactly n-1 rounds, which makes it the topology of choice for round budget
// tests and benchmarks.
func Line(n int) state.ScenarioCfg {
	cfg := state.ScenarioCfg{Name: fmt.Sprintf("line%d", n)}
	addr := netip.MustParseAddr("10.2.0.1")
	for i := 1; i <= n; i++ {
		cfg.Nodes = append(cfg.Nodes, state.NodeCfg{
			Id:     state.NodeId(fmt.Sprintf("n%d", i)),
			Prefix: netip.PrefixFrom(addr, 32),
		})
		addr = addr.Next()
		if i > 1 {
			cfg.Links = append(cfg.Links, fmt.Sprintf("n%d, n%d", i-1, i))
		}
	}
	return cfg
}

// Random builds a connected scenario of n nodes: a random spanning tree plus
// up to extra additional links, all with costs in [1, maxCost]. The same seed
// always produces the same scenario.
func Random(n, extra, maxCost int, seed uint64) state.ScenarioCfg {
	r := rand.New(rand.NewPCG(seed, 0))
	cfg := state.ScenarioCfg{Name: fmt.Sprintf("random%d", n)}
	for i := 1; i <= n; i++ {
		cfg.Nodes = append(cfg.Nodes, state.NodeCfg{
			Id: state.NodeId(fmt.Sprintf("n%d", i)),
		})
	}
	linked := make(map[state.Pair[int, int]]bool)
	link := func(x, y int) {
		p := state.MakeSortedPair(x, y)
		if linked[p] {
			return
		}
		linked[p] = true
		cost := 1 + r.IntN(maxCost)
		cfg.Links = append(cfg.Links, fmt.Sprintf("n%d, n%d = %d", p.V1, p.V2, cost))
	}
	for i := 2; i <= n; i++ {
		link(i, 1+r.IntN(i-1))
	}
	for k := 0; k < extra; k++ {
		x, y := 1+r.IntN(n), 1+r.IntN(n)
		if x != y {
			link(x, y)
		}
	}
	return cfg
}
