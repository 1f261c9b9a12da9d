package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newScrapeCmd creates the 'scrape' subcommand: a one-shot ingestion run that
// refreshes the item catalog and exits.
func newScrapeCmd() *cobra.Command {
	var (
		keyword  string
		maxItems int
	)
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Runs one ingestion cycle and stores the items",
		Long: `Fetches pins for the given keyword, normalizes them into catalog items,
and replaces the stored catalog. Falls back to synthetic demo items when the
upstream is unavailable, so the command always leaves a usable catalog behind.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			logger := appInstance.Logger()

			items, source := appInstance.Pipeline().Process(cmd.Context(), keyword, maxItems)
			if err := appInstance.Store().ReplaceItems(cmd.Context(), items); err != nil {
				return fmt.Errorf("persist items: %w", err)
			}

			logger.Info("scrape finished",
				zap.String("keyword", keyword),
				zap.String("source", string(source)),
				zap.Int("count", len(items)),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "stored %d items for %q (source: %s)\n", len(items), keyword, source)
			return nil
		},
	}
	cmd.Flags().StringVar(&keyword, "keyword", "vintage streetwear", "search keyword")
	cmd.Flags().IntVar(&maxItems, "max", 0, "maximum items to keep (0 uses the configured default)")
	return cmd
}
