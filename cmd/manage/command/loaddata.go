package command

import (
	"context"
	"fmt"
	"os"

	"yamdb/database"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var loadDataCmd = &cobra.Command{
	Use:   "loaddata [file.json]",
	Short: "Seed categories, genres and titles from a JSON fixture",
	Long: `Load a fixture of the form
  {"categories": [{"name", "slug"}], "genres": [{"name", "slug"}],
   "titles": [{"name", "year", "description", "category", "genre": [slugs]}]}

Categories and genres are upserted by slug. Titles already present with the
same name and year are skipped. Everything runs in one transaction.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open fixture: %w", err)
		}
		defer file.Close()

		fixture, err := database.ReadFixture(file)
		if err != nil {
			return err
		}

		return withDB(func(ctx context.Context, db *gorm.DB) error {
			sum, err := database.LoadFixture(ctx, db, fixture)
			if err != nil {
				return err
			}
			color.Green("✓ Categories: %d", sum.Categories)
			color.Green("✓ Genres: %d", sum.Genres)
			color.Green("✓ Titles: %d (%d genre links)", sum.Titles, sum.Links)
			return nil
		})
	},
}
