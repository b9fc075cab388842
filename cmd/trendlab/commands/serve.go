package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/trendlab/backend/internal/api"
	"github.com/wonny/trendlab/backend/internal/backtest"
	"github.com/wonny/trendlab/backend/internal/marketdata"
	"github.com/wonny/trendlab/backend/internal/scheduler"
	"github.com/wonny/trendlab/backend/internal/scheduler/jobs"
	"github.com/wonny/trendlab/backend/pkg/database"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server and scheduler",
	Long: `Starts the HTTP API serving stored backtest reports plus the cron
scheduler that collects prices after the session close.

Example:
  go run ./cmd/trendlab serve
  go run ./cmd/trendlab serve --no-scheduler`,
	RunE: runServe,
}

var serveNoScheduler bool

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&serveNoScheduler, "no-scheduler", false, "disable the cron scheduler")
}

func runServe(cmd *cobra.Command, args []string) error {
	s, err := initStack()
	if err != nil {
		return err
	}

	db, err := database.New(s.cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	reports := backtest.NewReportRepository(db.Pool)
	prices := marketdata.NewPriceRepository(db.Pool)

	router := api.NewRouter(db, reports, prices, s.log)
	server := api.NewServer(s.cfg.Port, router, s.log)

	if !serveNoScheduler {
		client := marketdata.NewBrapiClient(s.cfg.Brapi, s.log)
		fetcher := marketdata.NewFetcher(client, prices, nil, s.log)

		sched := scheduler.New(s.log)
		collect := jobs.NewCollectPrices(fetcher, nil, "", s.log)
		if err := sched.AddJob(collect); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		s.log.Infof("Received signal %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
