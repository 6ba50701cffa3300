package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aladinbajra/youtube-trending-ai/internal/collector"
	"github.com/aladinbajra/youtube-trending-ai/internal/config"
	"github.com/aladinbajra/youtube-trending-ai/internal/middleware"
	"github.com/aladinbajra/youtube-trending-ai/internal/store"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "collector",
		Short: "Collect YouTube trending-video snapshots into the flat-file datasets",
	}

	root.AddCommand(collectCmd())
	return root
}

func collectCmd() *cobra.Command {
	var (
		countries []string
		dumpDir   string
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Fetch the mostPopular chart for each country and append to the trending CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			middleware.InitLogger(cfg.LogLevel, "collector")
			logger := middleware.Logger

			if len(countries) == 0 {
				countries = cfg.TrendingCountries
			}
			if dumpDir == "" {
				dumpDir = filepath.Join(cfg.DataDir, "trending_metadata")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			st := store.NewCSVStore(cfg.TrendingCSV, cfg.StatsCSV)
			col := collector.New(cfg.YouTubeAPIKey, countries, dumpDir, logger)

			sum, err := col.Run(ctx, st)
			if err != nil {
				return err
			}

			fmt.Printf("collected %d videos (%d/%d countries ok)\n",
				sum.Videos, len(sum.Succeeded), len(sum.Succeeded)+len(sum.Failed))
			if len(sum.Failed) > 0 {
				fmt.Printf("failed countries: %s\n", strings.Join(sum.Failed, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&countries, "country", nil, "country codes to fetch (default: from config)")
	cmd.Flags().StringVar(&dumpDir, "dump-dir", "", "directory for raw JSON pages (default: <data-dir>/trending_metadata)")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "overall run timeout")
	return cmd
}
