package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/leadscout/internal/export"
	"github.com/sells-group/leadscout/internal/model"
	"github.com/sells-group/leadscout/pkg/places"
)

var (
	batchQuery   string
	batchInput   string
	batchOutput  string
	batchMax     int
	batchWorkers int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Enrich a batch of companies and write an XLSX report",
	Long:  "Collects business listings from a Places text search or an input spreadsheet, runs leadership and contact email discovery for each, and writes the enriched report.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if batchQuery == "" && batchInput == "" {
			return eris.New("one of --query or --input is required")
		}

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		listings, err := collectListings(cmd, e)
		if err != nil {
			return err
		}
		if len(listings) == 0 {
			zap.L().Warn("no listings to process")
			return nil
		}
		zap.L().Info("processing listings", zap.Int("count", len(listings)))

		workers := batchWorkers
		if workers <= 0 {
			workers = cfg.Batch.MaxConcurrent
		}
		if workers <= 0 {
			workers = 4
		}

		enriched := make([]export.EnrichedListing, len(listings))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)

		for i, l := range listings {
			g.Go(func() error {
				result := e.discover(gctx, l.Website, l.Name, cfg.Discovery.MaxLeaders)
				enriched[i] = export.EnrichedListing{Listing: l, Result: result}
				zap.L().Info("listing processed",
					zap.String("company", l.Name),
					zap.Bool("leadership_found", result.LeadershipFound),
				)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return eris.Wrap(err, "batch run")
		}

		if err := export.WriteXLSX(batchOutput, enriched); err != nil {
			return err
		}
		zap.L().Info("report written", zap.String("path", batchOutput), zap.Int("rows", len(enriched)))
		return nil
	},
}

// collectListings loads the batch's input set from the Places API or a
// spreadsheet. Listings without a website still get a report row; discovery
// simply yields an empty result for them.
func collectListings(cmd *cobra.Command, e *env) ([]model.Listing, error) {
	if batchInput != "" {
		listings, err := export.ReadListings(batchInput)
		if err != nil {
			return nil, err
		}
		return listings, nil
	}

	if cfg.Places.Key == "" {
		return nil, eris.New("places.key is required for --query")
	}
	client := places.NewClient(cfg.Places.Key, places.WithBaseURL(cfg.Places.BaseURL))
	found, err := client.SearchAll(cmd.Context(), batchQuery, batchMax)
	if err != nil {
		return nil, eris.Wrap(err, "places search")
	}

	listings := make([]model.Listing, 0, len(found))
	for _, p := range found {
		listings = append(listings, model.Listing{
			Name:    p.DisplayName.Text,
			Address: p.FormattedAddress,
			Website: p.WebsiteURI,
			Phone:   p.Phone(),
		})
	}
	return listings, nil
}

func init() {
	batchCmd.Flags().StringVar(&batchQuery, "query", "", "Places text search query, e.g. \"dental clinics in Austin\"")
	batchCmd.Flags().StringVar(&batchInput, "input", "", "input XLSX with Company/Website columns")
	batchCmd.Flags().StringVar(&batchOutput, "output", "leads.xlsx", "output XLSX path")
	batchCmd.Flags().IntVar(&batchMax, "max", 60, "max listings from --query")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "concurrent discoveries (default from config)")
	rootCmd.AddCommand(batchCmd)
}
