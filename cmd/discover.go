package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	discoverURL     string
	discoverName    string
	discoverLeaders int
	discoverNoEmail bool
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Discover leadership for a single company website",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		maxLeaders := discoverLeaders
		if maxLeaders <= 0 {
			maxLeaders = cfg.Discovery.MaxLeaders
		}

		result := e.engine.DiscoverLeadership(ctx, discoverURL, discoverName, maxLeaders)
		if !discoverNoEmail {
			result.Email = e.engine.DiscoverContactEmail(ctx, discoverURL, discoverName)
		}

		zap.L().Info("discovery complete",
			zap.String("website", discoverURL),
			zap.Bool("leadership_found", result.LeadershipFound),
			zap.Int("leaders", len(result.Leaders)),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	discoverCmd.Flags().StringVar(&discoverURL, "url", "", "company website URL (required)")
	discoverCmd.Flags().StringVar(&discoverName, "name", "", "company name")
	discoverCmd.Flags().IntVar(&discoverLeaders, "max-leaders", 0, "max leaders to report (default from config)")
	discoverCmd.Flags().BoolVar(&discoverNoEmail, "no-email", false, "skip contact email discovery")
	_ = discoverCmd.MarkFlagRequired("url")
	rootCmd.AddCommand(discoverCmd)
}
