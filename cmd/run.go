package cmd

import (
	"github.com/encodeous/ripsim/core"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a scenario",
	Long: `Runs the scenario to its initial convergence, then applies each scripted link
failure and converges again. Routing tables are printed after every round.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadScenario()
		if err != nil {
			panic(err)
		}

		if n, _ := cmd.Flags().GetInt("max-rounds"); n > 0 {
			cfg.MaxRounds = n
		}
		verbose, _ := cmd.Flags().GetBool("verbose")
		parallel, _ := cmd.Flags().GetBool("parallel")
		noConsole, _ := cmd.Flags().GetBool("no-console")
		logPath, _ := cmd.Flags().GetString("log")
		slogPath, _ := cmd.Flags().GetString("slog")

		_, err = core.Bootstrap(cfg, logPath, slogPath, verbose, parallel, noConsole)
		if err != nil {
			panic(err)
		}
	},
	GroupID: "sim",
}

func init() {
	rootCmd.AddCommand(runCmd)

	// Cobra supports local flags which will only run when this command
	// is called directly, e.g.:
	// runCmd.Flags().BoolP("toggle", "t", false, "Help message for toggle")

	runCmd.Flags().BoolP("verbose", "v", false, "Verbose output")
	runCmd.Flags().BoolP("parallel", "p", false, "Relax every node concurrently within a round")
	runCmd.Flags().Bool("no-console", false, "Suppress routing table output")
	runCmd.Flags().StringP("log", "l", "", "Append routing tables to this file, overriding the scenario's log_path")
	runCmd.Flags().String("slog", "", "Append structured logs to this file")
	runCmd.Flags().Int("max-rounds", 0, "Override the scenario's round budget")
}
