package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-wrapped/internal/domain"
	"github.com/naka-gawa/github-wrapped/internal/render"
	"github.com/naka-gawa/github-wrapped/internal/usecase"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Aggregates GitHub user activity of a year or a month",
}

var yearCmd = &cobra.Command{
	Use:   "year",
	Short: "Aggregates a year of activity",
	Long: `Aggregates a year of activity for a GitHub user: totals, monthly breakdown,
languages, time patterns, code and contribution statistics, commit message
trivia and a contribution heatmap. Without --user, the authenticated user is used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}
		cmd.SilenceUsage = true
		ctx := context.Background()

		year, _ := cmd.Flags().GetInt("year")
		if year == 0 {
			year = currentYear()
		}

		aggregator, err := newAggregator(cfg.Token, nil)
		if err != nil {
			return err
		}
		var partial domain.PartialYearlyStats
		stats, err := aggregator.Yearly(ctx, usecase.YearlyRequest{
			User:     cfg.User,
			Year:     year,
			Progress: progressLogger,
			Partial: func(p domain.PartialYearlyStats) {
				partial = domain.MergePartial(partial, p)
				if !partial.Complete() && partial.TotalCommits != nil {
					logger.WithFields(logrus.Fields{
						"commits":     *partial.TotalCommits,
						"active_days": *partial.ActiveDays,
					}).Info("Commits counted, fetching pull requests and issues")
				}
			},
		})
		if err != nil {
			return fmt.Errorf("failed to aggregate stats: %w", err)
		}

		if format == "json" {
			return render.JSON(os.Stdout, stats)
		}
		return render.YearlyText(os.Stdout, stats)
	},
}

var monthCmd = &cobra.Command{
	Use:   "month",
	Short: "Aggregates a month of activity",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}
		month, _ := cmd.Flags().GetInt("month")
		if month < 1 || month > 12 {
			return fmt.Errorf("%w: --month must be between 1 and 12, got %d", domain.ErrInvalidArgument, month)
		}
		cmd.SilenceUsage = true
		ctx := context.Background()

		year, _ := cmd.Flags().GetInt("year")
		if year == 0 {
			year = currentYear()
		}

		aggregator, err := newAggregator(cfg.Token, nil)
		if err != nil {
			return err
		}
		stats, err := aggregator.Monthly(ctx, usecase.MonthlyRequest{
			User:     cfg.User,
			Year:     year,
			Month:    month,
			Progress: progressLogger,
		})
		if err != nil {
			return fmt.Errorf("failed to aggregate stats: %w", err)
		}

		if format == "json" {
			return render.JSON(os.Stdout, stats)
		}
		return render.MonthlyText(os.Stdout, stats)
	},
}

// outputFormat returns the validated --format flag.
func outputFormat(cmd *cobra.Command) (string, error) {
	format, _ := cmd.Flags().GetString("format")
	if format != "json" && format != "text" {
		return "", fmt.Errorf("%w: --format must be json or text, got %q", domain.ErrInvalidArgument, format)
	}
	return format, nil
}

// addTargetFlags adds the flags selecting the user, the year and the output format.
func addTargetFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("user", "u", "", "Target GitHub user name (default: the authenticated user)")
	cmd.Flags().IntP("year", "y", 0, "Target year (default: the current year)")
	cmd.Flags().StringP("format", "f", "text", "Output format: text or json")
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.AddCommand(yearCmd, monthCmd)
	addTargetFlags(yearCmd)
	addTargetFlags(monthCmd)
	monthCmd.Flags().IntP("month", "m", 0, "Target month, 1 to 12 (required)")
	monthCmd.MarkFlagRequired("month")
}
