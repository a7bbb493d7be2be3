// Package notify relays community messages to the association's Telegram
// chat when a bot token is configured.
package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"association-treasury/internal/models"
)

// TelegramAnnouncer posts new board messages to one chat.
type TelegramAnnouncer struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramAnnouncer creates the announcer. Returns an error when the
// token is rejected by the Telegram API.
func NewTelegramAnnouncer(token string, chatID int64) (*TelegramAnnouncer, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	bot.Debug = false
	return &TelegramAnnouncer{bot: bot, chatID: chatID}, nil
}

// MessagePosted forwards one board message to the chat.
func (a *TelegramAnnouncer) MessagePosted(m models.CommunityMessage) error {
	text := fmt.Sprintf("📢 %s (%s)\n\n%s", m.AuthorName, m.AuthorRole, m.Content)
	msg := tgbotapi.NewMessage(a.chatID, text)
	if _, err := a.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send announcement: %w", err)
	}
	return nil
}
