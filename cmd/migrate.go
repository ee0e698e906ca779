package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyquiz/internal/deck/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the Postgres deck tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		applied, err := postgres.Migrate(cmd.Context(), cfg.Postgres.URL)
		if err != nil {
			return err
		}
		if len(applied) == 0 {
			fmt.Println("Nothing to migrate.")
			return nil
		}
		for _, name := range applied {
			fmt.Println("applied", name)
		}
		return nil
	},
}
