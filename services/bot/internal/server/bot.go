package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
	tele "gopkg.in/telebot.v3"

	"adsbot/services/bot/internal/chat"
)

// BotConfig configures the telegram client.
type BotConfig struct {
	Token       string
	PollTimeout time.Duration
	// SendPerSecond caps outbound sends across all chats.
	SendPerSecond int
	// Offline skips the getMe call, for tests.
	Offline bool
}

// Bot wraps the telebot client. It implements chat.Messenger and the
// conversation's file fetcher.
type Bot struct {
	tb       *tele.Bot
	throttle *rate.Limiter
}

// NewBot connects to the bot API.
func NewBot(cfg BotConfig) (*Bot, error) {
	if cfg.Token == "" {
		return nil, errors.New("bot token is required")
	}
	timeout := cfg.PollTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	perSecond := cfg.SendPerSecond
	if perSecond <= 0 {
		perSecond = 25
	}
	tb, err := tele.NewBot(tele.Settings{
		Token:   cfg.Token,
		Poller:  &tele.LongPoller{Timeout: timeout},
		Offline: cfg.Offline,
		OnError: func(err error, c tele.Context) {
			var userID int64
			if c != nil && c.Sender() != nil {
				userID = c.Sender().ID
			}
			slog.Error("telegram handler error", "user_id", userID, "err", err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}
	return &Bot{
		tb:       tb,
		throttle: rate.NewLimiter(rate.Limit(perSecond), perSecond),
	}, nil
}

// Send waits for the outbound throttle and delivers msg to a chat. It
// returns the id of the last message sent.
func (b *Bot) Send(ctx context.Context, to chat.Target, msg chat.Reply) (int, error) {
	var id int
	for _, part := range chat.SplitCaption(msg) {
		if err := b.throttle.Wait(ctx); err != nil {
			return 0, err
		}
		what, opts := outbound(part)
		m, err := b.tb.Send(recipient(to), what, opts)
		if err != nil {
			return 0, fmt.Errorf("send to %s: %w", to, err)
		}
		id = m.ID
	}
	return id, nil
}

// Fetch downloads an uploaded file by its file id.
func (b *Bot) Fetch(ctx context.Context, fileID string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rc, err := b.tb.File(&tele.File{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	return rc, nil
}

// recipient addresses a numeric chat id or an @username.
type recipient string

func (r recipient) Recipient() string { return string(r) }

var _ chat.Messenger = (*Bot)(nil)
