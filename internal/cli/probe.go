package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ogulcanaydogan/price-guardian/pkg/alerts"
)

var probeCmd = &cobra.Command{
	Use:   "probe <url>",
	Short: "Fetch one product page and print the price it publishes",
	Args:  cobra.ExactArgs(1),
	RunE:  runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	price, found, err := initScraper(cfg).FetchPrice(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("probe %s: %w", args[0], err)
	}

	out := cmd.OutOrStdout()
	if !found {
		fmt.Fprintf(out, "No price marker matching %s found.\n", cfg.Scraper.Selector)
		return nil
	}
	fmt.Fprintf(out, "Price: %s\n", alerts.FormatPrice(cfg.Alerts.Currency, price))
	return nil
}
