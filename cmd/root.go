// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-wrapped/internal/calc"
	"github.com/naka-gawa/github-wrapped/internal/config"
	"github.com/naka-gawa/github-wrapped/internal/gateway"
	"github.com/naka-gawa/github-wrapped/internal/usecase"
)

var (
	cfg    *config.Config
	logger = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "github-wrapped",
	Short: "A year in review of a GitHub user's activity.",
	Long: `github-wrapped fetches a GitHub user's repositories, commits, pull requests
and issues and summarizes a year or a month of activity: totals, languages,
time patterns, commit sizes, contribution provenance, commit message trivia
and a contribution heatmap. Results are printed as text or JSON, or served
over HTTP.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		loaded, err := config.Load(configPath, cmd.Flags())
		if err != nil {
			return err
		}
		cfg = loaded

		verbose, _ := cmd.Flags().GetBool("verbose")
		setupLogger(verbose, cfg.LogFormat)
		return nil
	},
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
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().String("config", "", "Config file (default: ./github-wrapped.yaml or ~/.config/github-wrapped/github-wrapped.yaml)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format: text or json")
	rootCmd.PersistentFlags().String("token", "", "GitHub access token (default: $GITHUB_TOKEN)")
	rootCmd.PersistentFlags().String("timezone", "Local", "IANA time zone the statistics are computed in")
	rootCmd.PersistentFlags().Int("max-repos", 50, "Maximum number of repositories whose commits are fetched")
	rootCmd.PersistentFlags().Int("commit-concurrency", 5, "Repositories fetched concurrently")
	rootCmd.PersistentFlags().Int("detail-concurrency", 10, "Commit details fetched concurrently per repository")
	rootCmd.PersistentFlags().Float64("requests-per-second", 10, "Maximum GitHub API requests per second")
}

// setupLogger configures the shared logger. Logs go to stderr so stdout only carries results.
func setupLogger(verbose bool, format string) {
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	if format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

// newAggregator wires the gateway, the calculator and the use case for token.
// A nil pacer gives the gateway its own request pacing.
func newAggregator(token string, pacer *gateway.Pacer) (*usecase.Aggregator, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	githubGateway, err := gateway.NewGitHubGateway(token, logger, gateway.Options{
		RequestsPerSecond: cfg.RequestsPerSecond,
		DetailConcurrency: cfg.DetailConcurrency,
		Pacer:             pacer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub gateway: %w", err)
	}
	return usecase.NewAggregator(githubGateway, calc.New(loc), usecase.Settings{
		MaxRepos:          cfg.MaxRepos,
		CommitConcurrency: cfg.CommitConcurrency,
	}, logger), nil
}

// currentYear is the year now in the configured time zone.
func currentYear() int {
	loc, err := cfg.Location()
	if err != nil {
		loc = time.Local
	}
	return time.Now().In(loc).Year()
}

// progressLogger reports progress at info level.
func progressLogger(current, total int, message string) {
	entry := logger.WithField("progress", message)
	if total > 0 {
		entry = entry.WithFields(logrus.Fields{"current": current, "total": total})
	}
	entry.Info("Fetching activity")
}
