package cli

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/axellelanca/linkpool/cmd"
	"github.com/axellelanca/linkpool/internal/database"
)

// MigrateCmd represents the 'migrate' command
var MigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Executes database migrations to create or update tables.",
	Long: `This command connects to the configured database (SQLite or Postgres)
and runs GORM automatic migrations for the 'links' and 'targets' tables.`,
	Run: func(command *cobra.Command, args []string) {
		// Connect migrates as part of opening the database.
		db, err := database.Connect(cmd.Cfg)
		if err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
		defer database.Close(db)

		fmt.Println("Database migrations executed successfully.")
	},
}

func init() {
	cmd.RootCmd.AddCommand(MigrateCmd)
}
