package cli

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"quiz-reply-service/internal/config"
	"quiz-reply-service/internal/transport/telegram"
)

// NewTelegramCmd serves the quiz over a Telegram bot using long polling.
func NewTelegramCmd(configPath *string) *cobra.Command {
	var debug bool
	cmd := &cobra.Command{
		Use:   "telegram",
		Short: "Run the quiz as a Telegram bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Telegram.Token == "" {
				return fmt.Errorf("telegram token not configured (telegram.token or TELEGRAM_BOT_TOKEN)")
			}

			d, err := buildService(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer d.Close()

			api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
			if err != nil {
				return fmt.Errorf("connect telegram: %w", err)
			}
			api.Debug = debug
			log.Printf("authorised on account %s", api.Self.UserName)

			u := tgbotapi.NewUpdate(0)
			u.Timeout = 60
			updates := api.GetUpdatesChan(u)
			defer api.StopReceivingUpdates()

			telegram.NewBot(api, d.service).Run(cmd.Context(), updates)
			return nil
		},
	}
	cmd.Flags().BoolVar(&debug, "debug", false, "log raw Telegram API traffic")
	return cmd
}
