package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"dataops-idle/internal/admin"
	"dataops-idle/internal/config"
	"dataops-idle/internal/logging"
	"dataops-idle/internal/save"
	"dataops-idle/internal/sim"
)

var (
	playPrintOnly  bool
	playTUI        bool
	playDebug      bool
	playConfigPath string
	playSchemaPath string
	playTick       time.Duration
	playLogFile    string
	playSaveFile   string
	playAdminAddr  string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Run the real-time idle game loop",
	Long:  "play starts the game loop, emitting one portfolio row per tick plus incident lifecycle events.",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.New(playDebug)
		content, err := config.Load(playConfigPath, playSchemaPath)
		if err != nil {
			return err
		}

		writer, incidentWriter, cleanup, err := newWriters(content, playPrintOnly, playTUI, playLogFile)
		if err != nil {
			return err
		}
		defer cleanup()

		profileID := os.Getenv("PROFILE_ID")
		if profileID == "" {
			profileID = "profile-01"
		}

		tickInterval := playTick
		if envTick := os.Getenv("TICK_INTERVAL"); envTick != "" {
			d, err := time.ParseDuration(envTick)
			if err != nil {
				return err
			}
			tickInterval = d
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		ctx = logging.NewContext(ctx, logger)

		simulator := sim.NewSimulator(profileID, content, writer, incidentWriter, tickInterval, nil, nil)

		if playSaveFile != "" {
			blob, err := save.Load(playSaveFile)
			switch {
			case errors.Is(err, os.ErrNotExist):
				logger.Info("no save file, starting fresh", "path", playSaveFile)
			case err != nil:
				return err
			default:
				simulator.RestoreBlob(blob)
				res := simulator.ResumeOffline()
				logger.Info("offline catch-up applied",
					"earned", res.Earned,
					"ticks", res.TicksSimulated)
			}
		}

		srv := admin.NewServer(simulator)
		go func() {
			logger.Info("admin UI listening", "addr", playAdminAddr)
			if err := srv.Start(playAdminAddr); err != nil && err != http.ErrServerClosed {
				logger.Error("admin server failed", "err", err)
				os.Exit(1)
			}
		}()
		if tw, ok := writer.(*sim.TUIWriter); ok {
			tw.SetAdminStatus(true)
			tw.SetStaffHirer(simulator.HireStaff)
		}

		go simulator.Run(ctx)

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		<-sigs
		cancel()

		if playSaveFile != "" {
			if err := save.Save(playSaveFile, simulator.ExportBlob()); err != nil {
				logger.Error("save failed", "err", err)
				return err
			}
			logger.Info("game saved", "path", playSaveFile)
		}
		logger.Info("game loop stopped")
		return nil
	},
}

func init() {
	playCmd.Flags().BoolVar(&playPrintOnly, "print-only", false, "Print rows to STDOUT instead of writing to DB")
	playCmd.Flags().BoolVar(&playTUI, "tui", false, "Render the interactive terminal UI")
	playCmd.Flags().BoolVar(&playDebug, "debug", false, "Enable debug logging")
	playCmd.Flags().StringVar(&playConfigPath, "config", "config/game.yaml", "Path to content catalog YAML")
	playCmd.Flags().StringVar(&playSchemaPath, "schema", "schemas/game.cue", "Path to CUE schema file")
	playCmd.Flags().DurationVar(&playTick, "tick", time.Second, "Game tick interval (e.g. 500ms, 2s)")
	playCmd.Flags().StringVar(&playLogFile, "log-file", "", "Path to export tick/incident logs (JSONL)")
	playCmd.Flags().StringVar(&playSaveFile, "save-file", "", "Path to the save blob (loaded on start, written on exit)")
	playCmd.Flags().StringVar(&playAdminAddr, "admin-addr", ":8080", "Admin UI listen address")
}
