package telegram

import (
	"context"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"quiz-reply-service/internal/app"
)

// Sender is the part of tgbotapi.BotAPI the bot needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot feeds Telegram chat messages into the chat service. Each chat is one session.
type Bot struct {
	api     Sender
	service *app.ChatService
}

func NewBot(api Sender, service *app.ChatService) *Bot {
	return &Bot{api: api, service: service}
}

// Run handles updates until the channel closes or ctx is done.
func (b *Bot) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate runs one turn for a text message; other update kinds are ignored.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil {
		return
	}
	chatID := msg.Chat.ID
	sessionID := SessionID(chatID)

	switch msg.Command() {
	case "reset":
		if err := b.service.Reset(ctx, sessionID); err != nil {
			log.Printf("telegram reset %s: %v", sessionID, err)
			b.sendMessage(chatID, "Something went wrong, please try again later.")
			return
		}
		b.sendMessage(chatID, "Progress cleared. Send any message to start again.")
		return
	}

	reply, err := b.service.Reply(ctx, sessionID, strings.TrimSpace(msg.Text))
	if err != nil {
		log.Printf("telegram reply %s: %v", sessionID, err)
		b.sendMessage(chatID, "Something went wrong, please try again later.")
		return
	}
	for _, text := range reply.Responses {
		b.sendMessage(chatID, text)
	}
}

// SessionID namespaces Telegram chats in the shared session store.
func SessionID(chatID int64) string {
	return "tg:" + strconv.FormatInt(chatID, 10)
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("telegram send to %d: %v", chatID, err)
	}
}
