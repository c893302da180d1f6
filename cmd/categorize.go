package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"shoplist/core/config"
	"shoplist/core/logger"
	"shoplist/core/storage"
	"shoplist/feature/catalog"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// categorizeCmd runs item names through the category matcher.
var categorizeCmd = &cobra.Command{
	Use:   "categorize [name...]",
	Short: "Detect the category of item names",
	Long: `Runs each argument through the category matcher and prints the matched
product, its category and the similarity score. Names that match nothing are
reported as Other.

Examples:
  shoplist categorize tomatoe süt "olive oil"
  shoplist categorize --json yogurt`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCategorize,
}

func init() {
	categorizeCmd.Flags().Bool("json", false, "Output JSON")
	categorizeCmd.Flags().Bool("embedded", false, "Ignore the storage override and use the embedded catalog")
	RootCmd.AddCommand(categorizeCmd)
}

func runCategorize(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logg.Sync()

	var client storage.Client
	if embedded, _ := cmd.Flags().GetBool("embedded"); !embedded {
		if c, err := storage.NewClient(cfg.Storage); err != nil {
			logg.Warn("Storage unavailable, using embedded catalog", zap.Error(err))
		} else {
			client = c
		}
	}

	svc, err := catalog.NewService(context.Background(), cfg.Catalog, client, cfg.Storage.Bucket, logg)
	if err != nil {
		return err
	}

	results := make([]catalog.DetectResponse, 0, len(args))
	for _, arg := range args {
		results = append(results, svc.Detect(arg))
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	fmt.Printf("\n--- Categories (%s catalog, threshold %.2f) ---\n", svc.Origin(), svc.Matcher().Threshold())
	for i, r := range results {
		fmt.Printf("%-20q -> %-22s %-20s %.3f\n", args[i], r.Category, r.Text, r.Score)
	}
	fmt.Println("-----------------------------")
	return nil
}
