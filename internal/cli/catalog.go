package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ogulcanaydogan/price-guardian/pkg/alerts"
	"github.com/ogulcanaydogan/price-guardian/pkg/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the product catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the products being monitored",
	RunE:  runCatalogList,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogListCmd)
}

func runCatalogList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Unlike check, listing surfaces the load error instead of skipping.
	products, err := catalog.Read(cfg.Catalog.Path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(products) == 0 {
		fmt.Fprintf(out, "No products in %s.\n", cfg.Catalog.Path)
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "NAME\tDESIRED PRICE\tURL\n")
	for _, p := range products {
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.Name, alerts.FormatPrice(cfg.Alerts.Currency, p.DesiredPrice), p.URL)
	}
	w.Flush()
	return nil
}
