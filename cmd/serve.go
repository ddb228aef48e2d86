package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-wrapped/internal/gateway"
	"github.com/naka-gawa/github-wrapped/internal/handler"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the statistics over HTTP",
	Long: `Serves the statistics as JSON:

  GET /health
  GET /api/stats/:user/:year
  GET /api/stats/:user/:year/:month
  GET /api/calendar/:user/:year

Requests may carry an "Authorization: Bearer <token>" header, which is used
for the GitHub API calls made on their behalf. --requests-per-second and the
secondary rate limit waiter apply to the whole server, across requests.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		// Request logs are part of a server's output.
		if !logger.IsLevelEnabled(logrus.InfoLevel) {
			logger.SetLevel(logrus.InfoLevel)
		}

		// Every request gets its own gateway for its token, all paced together.
		pacer, err := gateway.NewPacer(cfg.RequestsPerSecond, logger)
		if err != nil {
			return err
		}
		factory := func(token string) (handler.StatsService, error) {
			return newAggregator(token, pacer)
		}
		e := handler.NewRouter(handler.NewStatsHandler(factory, logger), logger)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			logger.WithField("addr", cfg.Server.Addr).Info("Server listening")
			errCh <- e.Start(cfg.Server.Addr)
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
}
