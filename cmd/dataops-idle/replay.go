package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dataops-idle/internal/config"
	"dataops-idle/internal/sim"
)

var (
	replayInput     string
	replaySpeed     float64
	replayPrintOnly bool
	replayConfig    string
	replaySchema    string
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a tick log file",
	Long:  "replay feeds tick rows from a log file back into GreptimeDB or STDOUT.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if replayInput == "" {
			return fmt.Errorf("input file required")
		}
		var content *config.GameContent
		if replayConfig != "" {
			c, err := config.Load(replayConfig, replaySchema)
			if err != nil {
				return err
			}
			content = c
		}
		writer, err := newTickWriter(content, replayPrintOnly)
		if err != nil {
			return err
		}
		return sim.ReplayLogFile(replayInput, writer, replaySpeed)
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to tick log file")
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 1.0, "Playback speed multiplier")
	replayCmd.Flags().BoolVar(&replayPrintOnly, "print-only", false, "Print rows to STDOUT instead of writing to DB")
	replayCmd.Flags().StringVar(&replayConfig, "config", "", "Optional content catalog for colorized output")
	replayCmd.Flags().StringVar(&replaySchema, "schema", "schemas/game.cue", "Path to CUE schema file")
	replayCmd.MarkFlagRequired("input")
}
