package cmd

import (
	"fmt"
	"os"

	"github.com/encodeous/ripsim/mock"
	"github.com/encodeous/ripsim/state"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [name]",
	Short: "Create a starter scenario file",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			_ = cmd.Usage()
			return
		}

		name := args[0]
		err := state.NameValidator(name)
		if err != nil {
			fmt.Printf("Invalid name: %s\n", name)
			os.Exit(-1)
		}

		cfg := mock.Triangle()
		cfg.Name = name
		cfg.MaxRounds = state.DefaultMaxRounds
		cfg.LogPath = "network_log.txt"

		outPath := cmd.Flag("output").Value.String()
		force, _ := cmd.Flags().GetBool("force")
		if !force {
			if _, err := os.Stat(outPath); err == nil {
				fmt.Printf("%s already exists, pass --force to overwrite\n", outPath)
				os.Exit(-1)
			}
		}

		out, err := yaml.Marshal(&cfg)
		if err != nil {
			panic(err)
		}
		err = os.WriteFile(outPath, out, 0644)
		if err != nil {
			panic(err)
		}
		fmt.Printf("Wrote %s scenario to %s\n", cfg.Name, outPath)
	},
	GroupID: "cfg",
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringP("output", "o", state.DefaultScenarioPath, "scenario output file path")
	initCmd.Flags().BoolP("force", "f", false, "overwrite an existing file")
}
