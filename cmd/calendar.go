package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-wrapped/internal/render"
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Shows GitHub's contribution calendar of a year",
	Long: `Shows the contribution calendar GitHub computes for a user, which counts
contributions to every repository including private ones. Requires a token.`,
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
		days, err := aggregator.Calendar(ctx, cfg.User, year)
		if err != nil {
			return fmt.Errorf("failed to fetch contribution calendar: %w", err)
		}

		if format == "json" {
			return render.JSON(os.Stdout, days)
		}
		return render.HeatmapText(os.Stdout, days)
	},
}

func init() {
	rootCmd.AddCommand(calendarCmd)
	addTargetFlags(calendarCmd)
}
