package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"example.com/millops/config"
	"example.com/millops/internal/notify"
	"example.com/millops/internal/store"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start the background worker",
	Long:  `Start the background worker that reconciles activated orders against warehouse stock`,
	RunE:  runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return err
	}

	if cfg.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	app, err := bootstrap(cfg)
	if err != nil {
		return err
	}
	defer app.close()

	// React to document changes: one reconciliation pass per burst of
	// writes, debounced so a flurry of saves collapses to one pass
	g.Go(func() error {
		watcher := notify.NewWatcher(app.bus, store.DocumentKey, app.debounce(), func() {
			if _, err := app.service.ReconcileOrders(context.Background()); err != nil {
				log.Error().Err(err).Msg("Failed to reconcile orders after document change")
			}
			if _, err := app.service.Summarize(context.Background()); err != nil {
				log.Error().Err(err).Msg("Failed to refresh summary after document change")
			}
		})
		defer watcher.Close()

		<-ctx.Done()
		return nil
	})

	// Start the reconciliation cron job as a fallback mechanism
	g.Go(func() error {
		log.Info().Dur("interval", cfg.Worker.ReconcileInterval).
			Msg("Starting reconciliation cron job as fallback mechanism")

		scheduler, err := gocron.NewScheduler()
		if err != nil {
			return err
		}

		// Less frequent than the change-driven pass; it only catches
		// orders a missed event left behind
		_, err = scheduler.NewJob(
			gocron.DurationJob(cfg.Worker.ReconcileInterval),
			gocron.NewTask(func() {
				log.Info().Msg("Running fallback reconciliation job to catch any missed changes")
				if _, err := app.service.ReconcileOrders(ctx); err != nil {
					log.Error().Err(err).Msg("Failed to reconcile orders in fallback job")
				}
			}),
		)
		if err != nil {
			return err
		}

		scheduler.Start()

		<-ctx.Done()

		return scheduler.Shutdown()
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Worker error")
		return err
	}

	log.Info().Msg("Worker shutting down gracefully")
	return nil
}
