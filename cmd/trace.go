package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/netip"
	"os"

	"github.com/encodeous/ripsim/core"
	"github.com/encodeous/ripsim/state"
	"github.com/spf13/cobra"
)

var traceCmd = &cobra.Command{
	Use:   "trace [src] [dst]",
	Short: "Trace the forwarding path between two nodes",
	Long: `Runs the scenario to completion, compiles the converged tables into prefix
forwarding tables, and walks the next hops from src towards dst. dst can be an
address or the id of a node that announces a prefix. On a healthy network this
prints the path packets would take; after a failure it can just as well prove
that they would loop.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 2 {
			_ = cmd.Usage()
			return
		}

		cfg, err := loadScenario()
		if err != nil {
			panic(err)
		}
		if skip, _ := cmd.Flags().GetBool("no-failures"); skip {
			cfg.Failures = nil
		}

		src := state.NodeId(args[0])
		addr, err := netip.ParseAddr(args[1])
		if err != nil {
			prefix, ok := cfg.Prefixes()[state.NodeId(args[1])]
			if !ok {
				fmt.Printf("Invalid destination: %s\n", args[1])
				os.Exit(-1)
			}
			addr = prefix.Addr()
		}

		sim, err := core.NewSimulation(cfg, nil, nil)
		if err != nil {
			panic(err)
		}
		if _, err := sim.Run(context.Background()); err != nil {
			panic(err)
		}

		fw := core.BuildForwarding(sim.Net, cfg.Prefixes())
		path, err := fw.Trace(src, addr)
		if err != nil {
			slog.Error("trace failed", "src", src, "dst", addr, "err", err)
			os.Exit(-1)
		}
		fmt.Printf("%s (cost %s)\n", path, path.Cost)
	},
	GroupID: "sim",
}

func init() {
	rootCmd.AddCommand(traceCmd)
	traceCmd.Flags().Bool("no-failures", false, "Trace the network before any scripted failures")
}
