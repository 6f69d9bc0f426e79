// Package telegram delivers rendered PDFs to a Telegram channel.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ajambaliya/gktodaypostpdf/internal/domain"
	"github.com/ajambaliya/gktodaypostpdf/internal/logger"
)

// Sender posts documents to one channel through the Bot API.
type Sender struct {
	bot     *tgbotapi.BotAPI
	channel string
	log     logger.Logger
}

// NewSender authenticates the bot token against endpoint. An empty endpoint
// means the public Bot API.
func NewSender(client *http.Client, token, endpoint, channel string, log logger.Logger) (*Sender, error) {
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	if log == nil {
		log = logger.NewNop()
	}

	bot, err := tgbotapi.NewBotAPIWithClient(token, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	log.Debug("authorized telegram bot", logger.String("bot", bot.Self.UserName))

	return &Sender{bot: bot, channel: channel, log: log}, nil
}

// SendDocument uploads data as a file named name. Transport timeouts are
// reported as domain.ErrTimeout so callers can retry them.
func (s *Sender) SendDocument(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := documentConfig(s.channel, tgbotapi.FileBytes{Name: name, Bytes: data})
	sent, err := s.bot.Send(msg)
	if err != nil {
		if isTimeout(err) {
			return fmt.Errorf("%w: send %s: %w", domain.ErrTimeout, name, err)
		}
		return fmt.Errorf("send %s: %w", name, err)
	}

	s.log.Info("sent document to telegram",
		logger.String("file", name),
		logger.Int("message_id", sent.MessageID),
	)
	return nil
}

// documentConfig addresses numeric chat IDs directly and anything else as a
// public channel username.
func documentConfig(channel string, file tgbotapi.RequestFileData) tgbotapi.DocumentConfig {
	if id, err := strconv.ParseInt(channel, 10, 64); err == nil {
		return tgbotapi.NewDocument(id, file)
	}

	if !strings.HasPrefix(channel, "@") {
		channel = "@" + channel
	}
	return tgbotapi.DocumentConfig{
		BaseFile: tgbotapi.BaseFile{
			BaseChat: tgbotapi.BaseChat{ChannelUsername: channel},
			File:     file,
		},
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
