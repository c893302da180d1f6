package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"shoplist/core/logger"
	"shoplist/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the cleanup command
	cleanupUserID string
	cleanupDryRun bool
	yesConfirm    bool
)

// cleanupCmd deletes every list a user owns.
var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete every list a user owns",
	Long: `Deletes all lists owned by a user, together with their items, in batches.

This is the way out when a user owns more lists than a view can show: the
owned lists are then ignored by the reconciler and can only be removed in bulk.

Examples:
  # Report only
  shoplist cleanup --user u1 --dry-run

  # Delete with interactive confirmation
  shoplist cleanup --user u1

  # Delete with auto-confirm (non-interactive)
  shoplist cleanup --user u1 --yes`,
	RunE: runCleanup,
}

func init() {
	cleanupCmd.Flags().StringVar(&cleanupUserID, "user", "", "Owner whose lists are deleted")
	cleanupCmd.Flags().BoolVar(&cleanupDryRun, "dry-run", false, "Only report what would be deleted")
	cleanupCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm destructive actions (non-interactive)")
	_ = cleanupCmd.MarkFlagRequired("user")
	RootCmd.AddCommand(cleanupCmd)
}

func runCleanup(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	svc, dispatcher, err := rt.listService()
	if err != nil {
		return err
	}
	defer dispatcher.Close()

	user := reconcile.User{ID: cleanupUserID}
	l := logger.WithUser(rt.logger, user.ID)

	// Plan only
	planned, err := svc.Cleanup(ctx, user, reconcile.CleanupOptions{DryRun: true})
	if err != nil {
		return err
	}
	l.Info("Cleanup plan", zap.Int("lists", planned.Planned))

	if planned.Planned == 0 {
		l.Info("No lists to delete.")
		return nil
	}
	if cleanupDryRun {
		l.Info("Dry-run mode: No changes were made.")
		return nil
	}

	if !confirmDestructiveAction(fmt.Sprintf("delete %d lists", planned.Planned)) {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	res, err := svc.Cleanup(ctx, user, reconcile.CleanupOptions{
		Confirmed: true,
		Progress: func(done, total int) {
			fmt.Printf("\rDeleted %d/%d", done, total)
		},
	})
	fmt.Println()
	if err != nil {
		return err
	}

	l.Info("Successfully deleted lists", zap.Int("count", res.Deleted))
	return nil
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction(what string) bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Printf("\n⚠️  Type 'yes' to %s: ", what)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}
