package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bizbooks/internal/logger"
	"bizbooks/pkg/database"
)

var seed bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := setup()
		if err != nil {
			return err
		}

		log := logger.WithComponent("migrate")
		log.Info().Msg("Running migrations...")
		if err := database.Migrate(db); err != nil {
			return err
		}
		log.Info().Msg("Migrations completed successfully")

		if seed {
			return database.SeedDemoData(db)
		}
		return nil
	},
}

var nextInvoiceNoCmd = &cobra.Command{
	Use:   "next-invoice-no",
	Short: "Print the invoice number the next sale would receive",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := setup()
		if err != nil {
			return err
		}
		next, err := newInvoiceService(cfg, db).NextNumber(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), next)
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&seed, "seed", false, "add demo products and a walk-in customer")
}
