// Package server connects the conversation and admin handlers to telegram
// over long polling.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	tele "gopkg.in/telebot.v3"

	"adsbot/internal/i18n"
	"adsbot/internal/ratelimit"
	"adsbot/internal/util"
	"adsbot/pkg/domain"
	"adsbot/services/bot/internal/chat"
)

const serviceName = "bot"

// Conversation handles user events.
type Conversation interface {
	Handle(ctx context.Context, ev chat.Event) ([]chat.Reply, error)
}

// Admin handles admin events and reports whether it took the event.
type Admin interface {
	Handle(ctx context.Context, ev chat.Event) ([]chat.Reply, bool, error)
}

type Config struct {
	Bot           *Bot
	Conversation  Conversation
	Admin         Admin
	Limiter       ratelimit.Limiter
	HandleTimeout time.Duration
}

type Server struct {
	bot     *Bot
	conv    Conversation
	admin   Admin
	limiter ratelimit.Limiter
	timeout time.Duration
}

// New registers the update handlers on the bot.
func New(cfg Config) (*Server, error) {
	if cfg.Bot == nil || cfg.Conversation == nil || cfg.Admin == nil {
		return nil, errors.New("server: bot, conversation and admin are required")
	}
	s := &Server{
		bot:     cfg.Bot,
		conv:    cfg.Conversation,
		admin:   cfg.Admin,
		limiter: cfg.Limiter,
		timeout: cfg.HandleTimeout,
	}
	if s.timeout <= 0 {
		s.timeout = 30 * time.Second
	}
	tb := s.bot.tb
	tb.Use(recoverMiddleware(), logMiddleware(), s.limitMiddleware())
	for _, endpoint := range []string{tele.OnText, tele.OnCallback, tele.OnDocument, tele.OnContact} {
		tb.Handle(endpoint, s.handle)
	}
	return s, nil
}

// Run polls for updates until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.bot.tb.Stop()
	}()
	slog.Info("telegram bot polling", "username", s.bot.tb.Me.Username)
	s.bot.tb.Start()
	return nil
}

func (s *Server) handle(c tele.Context) error {
	ev := eventFrom(c)
	if ev.UserID == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	replies, err := s.route(ctx, ev)
	if derr := deliver(c, ev, replies); derr != nil {
		return errors.Join(err, derr)
	}
	return err
}

// route gives the admin handler the first look at every event. Group
// traffic it does not claim is dropped.
func (s *Server) route(ctx context.Context, ev chat.Event) ([]chat.Reply, error) {
	replies, handled, err := s.admin.Handle(ctx, ev)
	if handled || err != nil {
		return replies, err
	}
	if !ev.IsPrivate() {
		return nil, nil
	}
	return s.conv.Handle(ctx, ev)
}

func deliver(c tele.Context, ev chat.Event, replies []chat.Reply) error {
	answered := false
	for _, r := range replies {
		var err error
		switch {
		case r.Notice && ev.IsCallback():
			if !answered {
				err = c.Respond(&tele.CallbackResponse{Text: r.Text})
				answered = true
			}
		case r.Edit && ev.IsCallback():
			err = edit(c, r)
		default:
			what, opts := outbound(r)
			err = c.Send(what, opts)
		}
		if err != nil {
			return fmt.Errorf("deliver reply: %w", err)
		}
	}
	if ev.IsCallback() && !answered {
		return c.Respond()
	}
	return nil
}

// edit replaces the pressed message. Documents only carry a caption.
func edit(c tele.Context, r chat.Reply) error {
	opts := sendOptions(r)
	var err error
	if m := c.Message(); m != nil && (m.Document != nil || m.Photo != nil) {
		err = c.EditCaption(r.Text, opts)
	} else {
		err = c.Edit(r.Text, opts)
	}
	if err == nil || isNotModified(err) {
		return nil
	}
	slog.Warn("edit message failed, sending a new one", "err", err)
	return c.Send(r.Text, opts)
}

func recoverMiddleware() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					slog.Error("panic in update handler", "panic", r, "stack", string(debug.Stack()))
					err = fmt.Errorf("panic: %v", r)
				}
			}()
			return next(c)
		}
	}
}

func logMiddleware() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			start := time.Now()
			err := next(c)
			ev := eventFrom(c)
			util.LogUpdate(serviceName, ev.Kind(), ev.UserID, start, err)
			return nil
		}
	}
}

func (s *Server) limitMiddleware() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if s.limiter == nil || sender == nil {
				return next(c)
			}
			if s.limiter.Allow(context.Background(), sender.ID) {
				return next(c)
			}
			text := i18n.Text(domain.ParseLanguage(sender.LanguageCode), "too_many_requests")
			if c.Callback() != nil {
				return c.Respond(&tele.CallbackResponse{Text: text})
			}
			if c.Chat() != nil && c.Chat().ID != sender.ID {
				return nil
			}
			return c.Send(text)
		}
	}
}
