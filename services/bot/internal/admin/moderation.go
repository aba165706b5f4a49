package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"adsbot/internal/i18n"
	"adsbot/pkg/domain"
	"adsbot/services/bot/internal/chat"
	"adsbot/services/bot/internal/lifecycle"
	"adsbot/services/bot/internal/render"
)

// Forward posts a pending ad to its moderation group with the approve and
// reject buttons.
func (s *Service) Forward(ctx context.Context, adID int64) error {
	ad, err := s.ads.Get(adID)
	if err != nil {
		return err
	}
	if ad.Status != domain.StatusPending {
		slog.Info("skip forwarding ad", "ad_id", adID, "status", ad.Status)
		return nil
	}
	to := s.vacancyGroup
	if ad.Type == domain.AdGraduate {
		to = s.resumeGroup
	}
	if to == "" {
		return fmt.Errorf("forward ad %d: no moderation group for %s", adID, ad.Type)
	}
	if _, err := s.messenger.Send(ctx, to, moderationMessage(ad)); err != nil {
		return fmt.Errorf("forward ad %d: %w", adID, err)
	}
	return nil
}

// Publish posts an approved ad to the public channel and tells the owner.
func (s *Service) Publish(ctx context.Context, adID int64) error {
	ad, err := s.ads.Get(adID)
	if err != nil {
		return &PublishError{AdID: adID, Err: err}
	}
	if ad.Status != domain.StatusApproved {
		return &PublishError{AdID: adID, Err: lifecycle.ErrStaleState}
	}
	if s.mainChannel == "" {
		return &PublishError{AdID: adID, Err: errors.New("main channel is not configured")}
	}
	post := chat.Reply{
		Text:   render.AdText(lang, ad.Type, ad.Data),
		FileID: ad.File.FileID,
		HTML:   true,
	}
	if _, err := s.messenger.Send(ctx, s.mainChannel, post); err != nil {
		return &PublishError{AdID: adID, Err: err}
	}
	s.notifyOwner(ctx, ad, "ad_approved")
	return nil
}

func moderationMessage(ad domain.Ad) chat.Reply {
	header := "admin_new_employer"
	if ad.Type == domain.AdGraduate {
		header = "admin_new_graduate"
	}
	text := i18n.Format(lang, header, ad.ID) + "\n\n" + render.AdText(lang, ad.Type, ad.Data)
	return chat.Reply{
		Text:     text,
		Keyboard: render.ModerationKeyboard(ad.ID),
		FileID:   ad.File.FileID,
		HTML:     true,
	}
}

func (s *Service) approve(ctx context.Context, id, admin int64) ([]chat.Reply, error) {
	if _, err := s.ads.Approve(id, admin); err != nil {
		return adError(err)
	}
	slog.Info("ad approved", "ad_id", id, "admin_id", admin)
	if err := s.Publish(ctx, id); err != nil {
		slog.Error("publish approved ad", "ad_id", id, "err", err)
		return []chat.Reply{publishFailed(id, err)}, nil
	}
	return []chat.Reply{moderated("admin_approved", id)}, nil
}

func (s *Service) reject(ctx context.Context, id, admin int64) ([]chat.Reply, error) {
	ad, err := s.ads.Reject(id, admin)
	if err != nil {
		return adError(err)
	}
	slog.Info("ad rejected", "ad_id", id, "admin_id", admin)
	s.notifyOwner(ctx, ad, "ad_rejected")
	return []chat.Reply{moderated("admin_rejected", id)}, nil
}

func (s *Service) republish(ctx context.Context, id int64) ([]chat.Reply, error) {
	ad, err := s.ads.Get(id)
	if err != nil {
		return adError(err)
	}
	if ad.Status != domain.StatusApproved {
		return []chat.Reply{chat.Notice(i18n.Text(lang, "admin_not_approved"))}, nil
	}
	queued, err := s.republisher.Republish(ctx, id)
	if err != nil {
		slog.Error("republish ad", "ad_id", id, "err", err)
		return []chat.Reply{publishFailed(id, err)}, nil
	}
	if queued {
		return []chat.Reply{moderated("admin_republish_queued", id)}, nil
	}
	return []chat.Reply{moderated("admin_approved", id)}, nil
}

func moderated(key string, id int64) chat.Reply {
	return chat.Reply{
		Text:     i18n.Format(lang, key, id),
		Keyboard: chat.Inline(chat.Row(chat.Data(i18n.Text(lang, "admin_home_btn"), "back_admin"))),
		Edit:     true,
	}
}

func publishFailed(id int64, err error) chat.Reply {
	var pe *PublishError
	if errors.As(err, &pe) {
		err = pe.Err
	}
	sid := strconv.FormatInt(id, 10)
	return chat.Reply{
		Text: i18n.Format(lang, "admin_publish_failed", id, err.Error()),
		Keyboard: chat.Inline(
			chat.Row(chat.Data(i18n.Text(lang, "republish_btn"), "republish_"+sid)),
			chat.Row(chat.Data(i18n.Text(lang, "admin_home_btn"), "back_admin")),
		),
		Edit: true,
	}
}

// notifyOwner tells the ad owner about a moderation decision. Delivery
// failures are logged; the decision stays committed.
func (s *Service) notifyOwner(ctx context.Context, ad domain.Ad, key string) {
	owner := domain.LangUz
	role := domain.RoleGraduate
	if ad.Type == domain.AdEmployer {
		role = domain.RoleEmployer
	}
	if u, ok, err := s.users.GetUser(ad.UserID); err == nil && ok {
		owner = u.Language
		if u.Role != "" {
			role = u.Role
		}
	}
	msg := chat.Text(i18n.Text(owner, key), render.MainMenu(owner, role))
	if _, err := s.messenger.Send(ctx, chat.ChatID(ad.UserID), msg); err != nil {
		slog.Warn("notify ad owner", "ad_id", ad.ID, "user_id", ad.UserID, "err", err)
	}
}

// relayStudentReply sends an admin's reply in the question group back to
// the student who asked.
func (s *Service) relayStudentReply(ctx context.Context, ev chat.Event) ([]chat.Reply, error) {
	text := strings.TrimSpace(ev.Text)
	if text == "" {
		return nil, nil
	}
	msg, ok, err := s.students.GetStudentMessageByGroupMessageID(ev.ReplyToMessageID)
	if err != nil {
		return failed(err)
	}
	if !ok {
		return []chat.Reply{chat.Text(i18n.Text(lang, "admin_student_not_found"), nil)}, nil
	}
	studentLang := domain.LangUz
	if u, ok, err := s.users.GetUser(msg.UserID); err == nil && ok {
		studentLang = u.Language
	}
	answer := chat.Text(i18n.Format(studentLang, "student_reply", text), nil)
	if _, err := s.messenger.Send(ctx, chat.ChatID(msg.UserID), answer); err != nil {
		slog.Warn("relay student reply", "user_id", msg.UserID, "err", err)
		return []chat.Reply{chat.Text(i18n.Text(lang, "admin_reply_failed"), nil)}, nil
	}
	slog.Info("student reply relayed", "user_id", msg.UserID, "admin_id", ev.UserID)
	return []chat.Reply{chat.Text(i18n.Text(lang, "admin_reply_sent"), nil)}, nil
}
