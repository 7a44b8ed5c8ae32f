package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"quiz-reply-service/internal/app"
	"quiz-reply-service/internal/config"
)

// NewPlayCmd runs a quiz conversation on the terminal against the configured stores.
func NewPlayCmd(configPath *string) *cobra.Command {
	var sessionID string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Chat with the quiz bot from the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			d, err := buildService(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer d.Close()

			return playLoop(cmd.Context(), d.service, sessionID, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "terminal", "session id to play under")
	return cmd
}

func playLoop(ctx context.Context, service *app.ChatService, sessionID string, in io.Reader, out io.Writer) error {
	bot := color.New(color.FgCyan)
	warn := color.New(color.FgYellow)
	prompt := color.New(color.FgGreen)

	fmt.Fprintln(out, "Type your answers; /reset starts over, /quit exits.")
	scanner := bufio.NewScanner(in)
	for {
		prompt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "/quit":
			return nil
		case "/reset":
			if err := service.Reset(ctx, sessionID); err != nil {
				return err
			}
			warn.Fprintln(out, "progress cleared")
			continue
		}

		reply, err := service.Reply(ctx, sessionID, line)
		if err != nil {
			return err
		}
		printer := bot
		if reply.Err != nil {
			printer = warn
		}
		for _, text := range reply.Responses {
			printer.Fprintln(out, text)
		}
	}
}
