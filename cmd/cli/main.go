package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dvloznov/customer-spending/internal/config"
	"github.com/dvloznov/customer-spending/internal/dashboard"
	"github.com/dvloznov/customer-spending/internal/export"
	infraBQ "github.com/dvloznov/customer-spending/internal/infra/bigquery"
	"github.com/dvloznov/customer-spending/internal/inmemory"
	"github.com/dvloznov/customer-spending/internal/logger"
	"github.com/rs/zerolog"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "summary":
		runSummary(log)
	case "customers":
		runCustomers(log)
	case "export":
		runExport(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Customer Spending CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  summary    Print tier counts, total spent, notices and promotion")
	fmt.Println("  customers  List customer IDs in the purchase table")
	fmt.Println("  export     Upload a dashboard snapshot to GCS")
	fmt.Println("  help       Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

// commonFlags are shared by every command that reads the purchase table.
type commonFlags struct {
	configPath *string
	fixture    *string
	input      dashboard.CriteriaInput
}

func registerCommon(fs *flag.FlagSet) *commonFlags {
	c := &commonFlags{
		configPath: fs.String("config", os.Getenv("CONFIG_FILE"), "Path to YAML config file"),
		fixture:    fs.String("fixture", "", "Read from a JSON fixture instead of BigQuery"),
	}
	fs.StringVar(&c.input.SpendStatus, "spend-status", "All", "All, Low Spenders, Medium Spenders or High Spenders")
	fs.StringVar(&c.input.StartDate, "start-date", "", "Start date (YYYY-MM-DD), defaults to the earliest transaction")
	fs.StringVar(&c.input.EndDate, "end-date", "", "End date (YYYY-MM-DD), defaults to today")
	fs.StringVar(&c.input.CustomerID, "customer-id", "All", "Customer ID or All")
	fs.StringVar(&c.input.TransactionCategory, "category", "All", "All, Purchase or Refund")
	return c
}

// setup loads configuration and builds the dashboard service. The returned
// function releases the data source.
func setup(ctx context.Context, log zerolog.Logger, c *commonFlags) (config.Config, *dashboard.Service, func()) {
	cfg, err := config.Load(*c.configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log = log.Level(logger.ParseLevel(cfg.Logging.Level))

	if *c.fixture != "" {
		src, err := inmemory.LoadFile(*c.fixture)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load fixture")
		}
		return cfg, dashboard.NewService(src, log), func() {}
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	repo, err := infraBQ.NewBigQueryPurchaseRepository(ctx, cfg.BigQuery.ProjectID, cfg.BigQuery.Table, cfg.BigQuery.Location)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create purchase repository")
	}
	return cfg, dashboard.NewService(repo, log), func() { repo.Close() }
}

func evaluate(ctx context.Context, log zerolog.Logger, svc *dashboard.Service, c *commonFlags) *dashboard.ViewModel {
	criteria, err := c.input.Criteria()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid filter")
	}

	vm, err := svc.Evaluate(ctx, criteria)
	if err != nil {
		log.Fatal().Err(err).Msg("Dashboard evaluation failed")
	}
	return vm
}

func runSummary(log zerolog.Logger) {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	common := registerCommon(fs)
	fs.Parse(os.Args[2:])

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	_, svc, closeFn := setup(ctx, log, common)
	defer closeFn()

	printSummary(os.Stdout, evaluate(ctx, log, svc, common))
}

func runCustomers(log zerolog.Logger) {
	fs := flag.NewFlagSet("customers", flag.ExitOnError)
	common := registerCommon(fs)
	fs.Parse(os.Args[2:])

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	_, svc, closeFn := setup(ctx, log, common)
	defer closeFn()

	ids, err := svc.CustomerIDs(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list customers")
	}
	for _, id := range ids {
		fmt.Println(id)
	}
}

func runExport(log zerolog.Logger) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	common := registerCommon(fs)
	bucket := fs.String("bucket", "", "GCS bucket (defaults to export.bucket / EXPORT_BUCKET)")
	fs.Parse(os.Args[2:])

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	cfg, svc, closeFn := setup(ctx, log, common)
	defer closeFn()

	if *bucket == "" {
		*bucket = cfg.Export.Bucket
	}
	if *bucket == "" {
		log.Fatal().Msg("Error: --bucket or EXPORT_BUCKET is required")
	}

	vm := evaluate(ctx, log, svc, common)

	exporter := export.NewExporter(export.NewGCSWriter(), *bucket, cfg.Export.Prefix)
	uri, err := exporter.Export(ctx, vm)
	if err != nil {
		log.Fatal().Err(err).Msg("Export failed")
	}

	log.Info().Str("uri", uri).Int("rows", len(vm.Transactions)).Msg("Snapshot exported")
	fmt.Printf("Exported snapshot to %s\n", uri)
}

func printSummary(w io.Writer, vm *dashboard.ViewModel) {
	fmt.Fprintln(w, "\n=== Customer Purchase Summary ===")
	fmt.Fprintf(w, "Range:        %s to %s\n", vm.Criteria.StartDate, vm.Criteria.EndDate)
	fmt.Fprintf(w, "Spend status: %s\n", vm.SpendStatus)

	fmt.Fprintln(w, "\n=== Spend Tiers ===")
	for _, tc := range vm.TierCounts {
		fmt.Fprintf(w, "%-16s %d\n", tc.SpendStatus, tc.Count)
	}

	fmt.Fprintf(w, "\nTotal Spent:  $%s\n", vm.TotalSpent.StringFixedBank(2))

	if len(vm.Notices) > 0 {
		fmt.Fprintln(w, "\n=== Notices ===")
		for _, n := range vm.Notices {
			fmt.Fprintf(w, "[%s] %s\n", n.Level, n.Message)
		}
	}

	if vm.Promotion != nil && vm.Promotion.Found {
		fmt.Fprintln(w, "\n=== Promotions ===")
		fmt.Fprintln(w, vm.Promotion.Message)
	}

	if vm.Empty {
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintf(w, "\n=== Purchases (%d) ===\n", len(vm.Transactions))
	for i, tx := range vm.Transactions {
		fmt.Fprintf(w, "%d. %s %s  %s  %s  %s x%d  $%s\n",
			i+1, tx.TransactionDate, tx.TransactionID, tx.CustomerID, tx.TransactionCategory,
			tx.MerchantName, tx.Quantity, tx.TotalPrice.StringFixed(2))
	}

	fmt.Fprintln(w, "\n=== Transactions by Merchant ===")
	for _, m := range vm.Charts.Merchants {
		fmt.Fprintf(w, "%-24s %4d  $%s\n", m.MerchantName, m.TransactionCount, m.TotalPrice.StringFixed(2))
	}
	fmt.Fprintln(w)
}
