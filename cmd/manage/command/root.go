package command

// root.go wires the operator commands: schema migration and account administration.

import (
	"context"
	"os"
	"time"

	"yamdb/database"
	"yamdb/internal/config"
	"yamdb/internal/logging"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:   "manage",
	Short: "manage - yamdb operator commands",
	Long: `manage runs maintenance tasks against the yamdb database:
- migrate           create or update the schema
- createsuperuser   create an administrator account
- loaddata          seed categories, genres and titles from JSON
- setrole           change the role of an existing user

Connection settings come from the same environment (.env) as the API server.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(migrateCmd, loadDataCmd, createSuperuserCmd, setRoleCmd)
}

// withDB loads config, opens the database and runs fn with a bounded context.
func withDB(fn func(ctx context.Context, db *gorm.DB) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	logging.Init(logging.Config{Level: "warn", Format: "console"})

	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	return fn(ctx, db)
}
