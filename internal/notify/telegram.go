// Package notify owns outbound Telegram delivery: the bot client and
// the message texts pushed to the shop owner's chat.
package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/config"
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/domain"
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/models"
)

// Client sends HTML-formatted messages to the configured admin chat.
type Client struct {
	sender domain.TelegramSender
	chatID int64
	logger *zerolog.Logger
}

// NewBot connects the underlying bot API. Returns nil without error
// when no token is configured; callers treat a nil client as
// notifications disabled.
func NewBot(cfg config.TelegramConfig, logger *zerolog.Logger) (*Client, error) {
	if cfg.BotToken == "" {
		logger.Warn().Msg("telegram bot token missing, notifications disabled")
		return nil, nil
	}

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	bot.Debug = cfg.Debug

	logger.Info().Str("bot", bot.Self.UserName).Msg("telegram bot connected")
	return &Client{sender: bot, chatID: cfg.ChatID, logger: logger}, nil
}

// NewClient wires an existing sender; test seam.
func NewClient(sender domain.TelegramSender, chatID int64, logger *zerolog.Logger) *Client {
	return &Client{sender: sender, chatID: chatID, logger: logger}
}

// SendHTML pushes one message to the admin chat.
func (c *Client) SendHTML(ctx context.Context, text string) error {
	if c == nil || c.sender == nil {
		return fmt.Errorf("telegram client is not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(c.chatID, text)
	msg.ParseMode = models.ParseModeHTML
	if _, err := c.sender.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}
