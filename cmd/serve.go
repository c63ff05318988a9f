package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"example.com/millops/config"
	"example.com/millops/internal/api"
	"example.com/millops/internal/metrics"
	"example.com/millops/internal/notify"
	"example.com/millops/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long:  `Start the HTTP API server backing the role dashboards`,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
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

	app, err := bootstrap(cfg)
	if err != nil {
		return err
	}
	defer app.close()

	// Refresh the dashboard gauges once per burst of document writes,
	// including writes made by other instances when Redis is enabled
	watcher := notify.NewWatcher(app.bus, store.DocumentKey, app.debounce(), func() {
		app.metrics.IncrementCounter(metrics.CounterChangeEvents)
		if _, err := app.service.Summarize(context.Background()); err != nil {
			log.Error().Err(err).Msg("Failed to refresh summary after document change")
		}
	})
	defer watcher.Close()

	server := api.NewServer(cfg, app.service, app.metrics, app.tracer)

	go func() {
		if err := server.Start(); err != nil {
			log.Error().Err(err).Msg("Server error")
		}
	}()

	<-ctx.Done()

	if err := server.Shutdown(context.Background()); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}

	log.Info().Msg("Shutting down API server")
	return nil
}
