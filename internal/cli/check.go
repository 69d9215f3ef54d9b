package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ogulcanaydogan/price-guardian/pkg/alerts"
	"github.com/ogulcanaydogan/price-guardian/pkg/catalog"
	"github.com/ogulcanaydogan/price-guardian/pkg/model"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check every product in the catalog once",
	Long: `Load the catalog, fetch each product page in order, and alert on every
product whose current price is at or below its desired price.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().Duration("delay", 0, "Pause between products (overrides monitor.delay)")
	checkCmd.Flags().Bool("dry-run", false, "Log alerts instead of sending them")
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	if cmd.Flags().Changed("delay") {
		cfg.Monitor.Delay, _ = cmd.Flags().GetDuration("delay")
	}

	if dryRun {
		err = cfg.ValidateDryRun()
	} else {
		err = cfg.Validate()
	}
	if err != nil {
		return err
	}

	logger := newLogger(cfg)
	products := catalog.Load(cfg.Catalog.Path, logger)
	m := initMonitor(cfg, logger, dryRun)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, runErr := m.Run(ctx, products)
	if summary != nil {
		printSummary(cmd.OutOrStdout(), summary, cfg.Alerts.Currency)
	}
	if runErr != nil {
		return fmt.Errorf("price check interrupted: %w", runErr)
	}
	return nil
}

// printSummary renders one row per checked product followed by totals.
func printSummary(out io.Writer, summary *model.RunSummary, currency string) {
	if len(summary.Results) == 0 {
		fmt.Fprintln(out, "No products checked.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "PRODUCT\tPRICE\tTARGET\tSTATUS\n")
	for _, r := range summary.Results {
		price := "-"
		if r.Found {
			price = alerts.FormatPrice(currency, r.Price)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			r.Product.Name,
			price,
			alerts.FormatPrice(currency, r.Product.DesiredPrice),
			r.Status,
		)
	}
	w.Flush()

	fmt.Fprintf(out, "\nRun %s: %d checked, %d alerted in %s\n",
		summary.RunID,
		len(summary.Results),
		summary.Count(model.StatusAlerted),
		summary.Duration().Round(time.Millisecond),
	)
}
