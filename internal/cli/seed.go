package cli

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"quiz-reply-service/internal/config"
	"quiz-reply-service/internal/infra/file"
	pgstore "quiz-reply-service/internal/infra/postgres"
)

// NewSeedCmd loads a YAML question bank into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	var bankID string
	cmd := &cobra.Command{
		Use:   "seed <bank.yaml>",
		Short: "Upsert a YAML question bank into Postgres",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres url not configured")
			}

			bank, err := file.ReadBank(args[0])
			if err != nil {
				return err
			}
			if bankID != "" {
				bank.ID = bankID
			}
			if bank.ID == "" {
				return fmt.Errorf("bank id missing: set id in the file or pass --id")
			}

			if err := runMigrationsWithConfig(cmd.Context(), cfg); err != nil {
				return err
			}
			db := openBun(cfg.Postgres.URL)
			defer db.Close()
			if err := pgstore.NewBankWriter(db).SaveBank(cmd.Context(), bank); err != nil {
				return err
			}
			log.Printf("seeded bank %s with %d questions", bank.ID, bank.Len())
			return nil
		},
	}
	cmd.Flags().StringVar(&bankID, "id", "", "bank id (defaults to the id in the file)")
	return cmd
}
