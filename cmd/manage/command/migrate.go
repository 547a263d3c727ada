package command

import (
	"context"

	"yamdb/database"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(ctx context.Context, db *gorm.DB) error {
			if err := database.Migrate(ctx, db); err != nil {
				return err
			}
			color.Green("✓ Schema is up to date")
			return nil
		})
	},
}
