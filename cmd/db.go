package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mwpearce/scriptorium/internal/config"
)

// dbCmd represents the db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database administration",
	Long:  `Administrative operations on the scriptorium database.`,
}

// dbMigrateCmd applies pending schema migrations
var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	Long:  `Apply all pending schema migrations to the configured database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.NewConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		source, _ := cmd.Flags().GetString("source")
		if source == "" {
			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to determine working directory: %w", err)
			}
			source = fmt.Sprintf("file://%s/migrations", wd)
		}

		if err := config.RunMigrations(cfg.DatabaseURL, source); err != nil {
			return err
		}

		fmt.Println("Migrations applied.")
		return nil
	},
}

func init() {
	dbMigrateCmd.Flags().String("source", "", "Migration source URL (default file://./migrations)")

	dbCmd.AddCommand(dbMigrateCmd)
	rootCmd.AddCommand(dbCmd)
}
