package cmd

import (
	"fmt"
	"slices"
	"time"

	"github.com/encodeous/ripsim/core"
	"github.com/encodeous/ripsim/mock"
	"github.com/encodeous/ripsim/state"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Measure convergence over synthetic topologies",
	Long: `Repeatedly builds a synthetic topology and times how long the network takes to
converge. Lines converge in exactly size-1 rounds; random topologies draw a new
seed per run, so their round counts spread. Ignores --scenario and --mock.`,
	Run: func(cmd *cobra.Command, args []string) {
		size, _ := cmd.Flags().GetInt("size")
		runs, _ := cmd.Flags().GetInt("runs")
		random, _ := cmd.Flags().GetBool("random")
		parallel, _ := cmd.Flags().GetBool("parallel")

		var name string
		elapsed := make([]time.Duration, 0, runs)
		rounds := make([]int, 0, runs)

		bar := progressbar.Default(int64(runs))
		for i := 0; i < runs; i++ {
			var cfg state.ScenarioCfg
			if random {
				cfg = mock.Random(size, size/2, 9, uint64(i+1))
			} else {
				cfg = mock.Line(size)
			}
			name = cfg.Name
			net, err := core.BuildNetwork(&cfg)
			if err != nil {
				panic(err)
			}
			net.SetParallel(parallel)

			start := time.Now()
			r, converged := net.Converge(size)
			elapsed = append(elapsed, time.Since(start))
			rounds = append(rounds, r)
			_ = bar.Add(1)
			if !converged {
				fmt.Printf("run %d did not converge within %d rounds\n", i+1, size)
			}
		}

		var total time.Duration
		for _, d := range elapsed {
			total += d
		}
		fmt.Printf("%s x%d: rounds %d-%d, time min %v / mean %v / max %v\n",
			name, runs,
			slices.Min(rounds), slices.Max(rounds),
			slices.Min(elapsed), total/time.Duration(runs), slices.Max(elapsed))
	},
	GroupID: "sim",
}

func init() {
	rootCmd.AddCommand(benchCmd)
	benchCmd.Flags().IntP("size", "n", 100, "node count")
	benchCmd.Flags().IntP("runs", "r", 10, "number of runs")
	benchCmd.Flags().Bool("random", false, "use random topologies instead of a line")
	benchCmd.Flags().BoolP("parallel", "p", false, "Relax every node concurrently within a round")
}
