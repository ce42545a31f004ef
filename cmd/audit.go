package cmd

import (
	"fmt"

	"storage-gateway/core/config"
	"storage-gateway/core/database"
	"storage-gateway/feature/ledger"

	"github.com/spf13/cobra"
)

// auditCmd represents the audit command
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show recent gateway calls from the audit ledger",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		operation, _ := cmd.Flags().GetString("operation")

		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if !cfg.Database.Enabled {
			return fmt.Errorf("audit ledger is disabled, set DATABASE_ENABLED=true")
		}
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return err
		}

		store := ledger.NewStore(db)
		if err := store.Migrate(cmd.Context()); err != nil {
			return err
		}
		entries, err := store.Recent(cmd.Context(), limit, operation)
		if err != nil {
			return err
		}
		return printJSON(entries)
	},
}

func init() {
	auditCmd.Flags().Int("limit", ledger.DefaultRecentLimit, "Number of entries to show")
	auditCmd.Flags().String("operation", "", "Only show this operation (upload, list, getUrl, delete, stat, health)")
	RootCmd.AddCommand(auditCmd)
}
