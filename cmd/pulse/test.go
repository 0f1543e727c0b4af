//go:build !release

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pulsecoach/pulse/internal/client/strava"
	"github.com/pulsecoach/pulse/internal/config"
	"github.com/pulsecoach/pulse/internal/oauth"
	"github.com/pulsecoach/pulse/internal/paths"
	"github.com/pulsecoach/pulse/internal/store"
)

func testCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Test the Strava API client",
		Long:  "Fetches your profile and recent activities to verify the client works.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Read()
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}

			dbPath, err := paths.DB()
			if err != nil {
				return err
			}

			st, err := store.Open(ctx, dbPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = st.Close() }()

			tokenSource := oauth.NewStoreTokenSource(oauth.NewConfig(cfg.Strava, ""), st.Tokens)
			client := strava.New(tokenSource, strava.WithBaseURL(cfg.APIBaseURL))

			var failures int

			fmt.Println("\n[Athlete.GetAuthenticated]")
			athlete, err := client.Athlete.GetAuthenticated(ctx)
			if err != nil {
				fmt.Printf("  ERROR: %v\n", err)
				failures++
			} else {
				fmt.Printf("  OK: %s %s (id=%d, ftp=%d)\n", athlete.Firstname, athlete.Lastname, athlete.ID, athlete.FTP)
			}

			fmt.Println("\n[Athlete.GetZones]")
			zones, err := client.Athlete.GetZones(ctx)
			if err != nil {
				fmt.Printf("  ERROR: %v\n", err)
				failures++
			} else {
				hrZones := 0
				if zones.HeartRate != nil {
					hrZones = len(zones.HeartRate.Zones)
				}
				fmt.Printf("  OK: %d heart rate zones\n", hrZones)
			}

			fmt.Println("\n[Activities.List]")
			activities, err := client.Activities.List(ctx, &strava.ListParams{PerPage: 3})
			if err != nil {
				fmt.Printf("  ERROR: %v\n", err)
				failures++
			} else {
				fmt.Printf("  OK: %d activities\n", len(activities))
				for _, a := range activities {
					fmt.Printf("    - id=%d, sport=%s, start=%s\n", a.ID, a.SportType, a.StartDateLocal.Format("2006-01-02"))
				}
			}

			if len(activities) > 0 {
				id := activities[0].ID
				fmt.Printf("\n[Activities.Get] id=%d\n", id)
				activity, err := client.Activities.Get(ctx, id)
				if err != nil {
					fmt.Printf("  ERROR: %v\n", err)
					failures++
				} else {
					fmt.Printf("  OK: %s, moving=%ds, hr=%v\n", activity.Name, activity.MovingTime, activity.HasHeartrate)
				}
			}

			fmt.Println("\n" + "==========")
			if failures == 0 {
				fmt.Println("All endpoints passed!")
			} else {
				fmt.Printf("%d endpoint(s) failed\n", failures)
			}

			return nil
		},
	}
}
