package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"shoplist/feature/health"
	"shoplist/feature/items"
	"shoplist/feature/lists"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// healthCmd runs the health checks from the command line.
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check storage, catalog and database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime()
		if err != nil {
			return err
		}
		defer rt.close()

		svc := health.NewService(rt.storage, rt.cfg.Storage.Bucket, rt.cfg.Catalog.Object, rt.db, rt.logger,
			lists.List{}, lists.HiddenList{}, items.Item{})
		report := svc.Run(context.Background())

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
		} else {
			rt.logger.Info("Storage", zap.String("status", report.Storage.Status), zap.String("error", report.Storage.Error))
			rt.logger.Info("Catalog object", zap.String("status", report.Catalog.Status), zap.String("error", report.Catalog.Error))
			rt.logger.Info("Schema", zap.String("status", report.SchemaStatus.Status), zap.String("error", report.SchemaStatus.Error))
			if report.Schema != nil {
				for table, tbl := range report.Schema.Tables {
					if len(tbl.MissingColumns) > 0 {
						rt.logger.Warn("Missing Columns", zap.String("table", table), zap.Strings("columns", tbl.MissingColumns))
					}
					if len(tbl.TypeMismatches) > 0 {
						rt.logger.Warn("Type Mismatches", zap.String("table", table), zap.Strings("details", tbl.TypeMismatches))
					}
				}
			}
		}

		if !report.Healthy {
			return fmt.Errorf("health check failed")
		}
		return nil
	},
}

func init() {
	healthCmd.Flags().Bool("json", false, "Output JSON")
	RootCmd.AddCommand(healthCmd)
}
