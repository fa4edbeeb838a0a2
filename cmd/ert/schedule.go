package main

import (
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ThomasAitken/embodied-rationality-theory/internal/metrics"
	"github.com/ThomasAitken/embodied-rationality-theory/internal/scheduler"
)

var flagRunOnStart bool

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run configured experiments on cron schedules until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		rec := openRecorder(cfg)
		defer rec.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		m := metrics.New()
		if cfg.Metrics.Addr != "" {
			go func() {
				if err := m.Serve(ctx, cfg.Metrics.Addr); err != nil {
					log.Printf("[ERROR] metrics server: %v", err)
				}
			}()
		}

		sched := scheduler.NewScheduler(ctx, cfg, rec, m)
		if err := sched.RegisterAll(); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()

		if flagRunOnStart {
			sched.RunAllNow()
		}

		log.Println("[INFO] ert scheduler is running. Press Ctrl+C to stop.")
		<-ctx.Done()
		log.Println("[INFO] shutdown signal received, stopping...")
		return nil
	},
}

func init() {
	scheduleCmd.Flags().BoolVar(&flagRunOnStart, "run-on-start", false, "Run every experiment once immediately")
	rootCmd.AddCommand(scheduleCmd)
}
