package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pulsecoach/pulse/internal/analytics"
	"github.com/pulsecoach/pulse/internal/paths"
	"github.com/pulsecoach/pulse/internal/store"
)

const statusWindowDays = 90

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print current training load",
		Long:  "Scores the locally synced history and prints acute/chronic load, balance, and a recommendation.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			dbPath, err := paths.DB()
			if err != nil {
				return err
			}

			st, err := store.Open(ctx, dbPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = st.Close() }()

			all, err := st.Activities.List(ctx, nil)
			if err != nil {
				return err
			}
			if len(all) == 0 {
				fmt.Println("No activities stored yet. Run `pulse sync` first.")
				return nil
			}

			// thresholds come from the full history, scoring from the
			// status window
			calc := analytics.NewCalculator(analytics.EstimateThresholds(all))

			since := time.Now().AddDate(0, 0, -statusWindowDays)
			recent, err := st.Activities.List(ctx, &since)
			if err != nil {
				return err
			}

			points := calc.LoadPoints(recent)
			metrics := calc.LoadMetrics(points)

			fmt.Printf("Status:       %s\n", strings.ToUpper(string(metrics.Status)))
			fmt.Printf("Acute load:   %.0f\n", metrics.AcuteLoad)
			fmt.Printf("Chronic load: %.0f\n", metrics.ChronicLoad)
			fmt.Printf("Balance:      %.2f\n", metrics.Balance)
			fmt.Printf("Ramp rate:    %+.0f/wk\n", metrics.RampRate)
			fmt.Printf("\n%s\n", metrics.Recommendation)

			return nil
		},
	}
}
