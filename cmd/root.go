package cmd

import (
	"os"

	"github.com/encodeous/ripsim/state"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ripsim",
	Short: "Distance Vector Routing Simulator",
	Long: `Ripsim simulates RIP-style distance vector routing over a configurable topology.
It runs synchronous exchange rounds until the tables converge, then replays scripted
link failures, which is the honest way to watch stale routes and forwarding loops form.`,
	// Uncomment the following line if your bare application
	// has an action associated with it:
	// Run: func(cmd *cobra.Command, args []string) { },
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Here you will define your flags and configuration settings.
	// Cobra supports persistent flags, which, if defined here,
	// will be global for your application.

	rootCmd.AddGroup(&cobra.Group{
		ID:    "sim",
		Title: "Simulation Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "cfg",
		Title: "Scenario Configuration",
	})
	rootCmd.PersistentFlags().StringVarP(&scenarioPath, "scenario", "s", state.DefaultScenarioPath, "scenario file")
	rootCmd.PersistentFlags().StringVarP(&mockName, "mock", "m", "", "use a built-in scenario (triangle, mesh5, line<n>, random<n>)")
	rootCmd.PersistentFlags().BoolVar(&state.DBG_debug, "debug", false, "serve metrics on 0.0.0.0:6060")
	rootCmd.PersistentFlags().BoolVar(&state.DBG_trace, "trace-runtime", false, "write a runtime trace to trace.out")
}
