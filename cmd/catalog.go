package cmd

import (
	"context"
	"fmt"
	"os"

	"shoplist/feature/catalog"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// catalogCmd is the parent command for catalog operations.
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the product catalog used for categorization",
}

// catalogExportCmd writes the active catalog as YAML.
var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the active catalog as YAML",
	Long: `Writes the catalog the server would use (the storage override when present,
otherwise the embedded one) to stdout or to --out. Use --embedded to export the
built-in catalog as a starting point for an override.`,
	RunE: runCatalogExport,
}

// catalogPublishCmd uploads an override catalog.
var catalogPublishCmd = &cobra.Command{
	Use:   "publish [file]",
	Short: "Validate and upload a catalog override",
	Long: `Validates a YAML catalog and uploads it to the configured bucket and object.
Running servers pick it up on their next start.`,
	Args: cobra.ExactArgs(1),
	RunE: runCatalogPublish,
}

func init() {
	catalogExportCmd.Flags().String("out", "", "Output file (default stdout)")
	catalogExportCmd.Flags().Bool("embedded", false, "Export the embedded catalog")
	catalogPublishCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm the upload (non-interactive)")

	catalogCmd.AddCommand(catalogExportCmd, catalogPublishCmd)
	RootCmd.AddCommand(catalogCmd)
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	var data []byte
	if embedded, _ := cmd.Flags().GetBool("embedded"); embedded {
		data = catalog.DefaultTableData()
	} else {
		table, origin, err := catalog.LoadTable(context.Background(), rt.storage, rt.cfg.Storage.Bucket, rt.cfg.Catalog.Object, rt.logger)
		if err != nil {
			return err
		}
		rt.logger.Info("Exporting catalog", zap.String("origin", string(origin)), zap.Int("products", len(table.Products)))
		if data, err = table.Marshal(); err != nil {
			return fmt.Errorf("failed to encode catalog: %w", err)
		}
	}

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	return nil
}

func runCatalogPublish(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	if rt.storage == nil {
		return fmt.Errorf("storage is not available")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	// Validate before asking
	table, err := catalog.ParseTable(data)
	if err != nil {
		return err
	}
	if _, err := catalog.NewMatcher(table, rt.cfg.Catalog); err != nil {
		return err
	}

	target := rt.cfg.Storage.Bucket + "/" + rt.cfg.Catalog.Object
	if !confirmDestructiveAction("replace " + target) {
		rt.logger.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	table, err = catalog.PublishTable(context.Background(), rt.storage, rt.cfg.Storage.Bucket, rt.cfg.Catalog.Object, data)
	if err != nil {
		return err
	}

	rt.logger.Info("Catalog published",
		zap.String("target", target),
		zap.Int("categories", len(table.Categories)),
		zap.Int("products", len(table.Products)),
	)
	return nil
}
