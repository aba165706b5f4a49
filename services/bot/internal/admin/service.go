// Package admin implements the admin-facing workflows: moderation of
// submitted ads, publishing to the public channel, the admin panel with
// statistics and category management, and replies to student inquiries.
package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"adsbot/internal/i18n"
	"adsbot/pkg/domain"
	"adsbot/pkg/store"
	"adsbot/services/bot/internal/category"
	"adsbot/services/bot/internal/chat"
	"adsbot/services/bot/internal/lifecycle"
	"adsbot/services/bot/internal/moderation"
	"adsbot/services/bot/internal/render"
)

// Admin-facing texts are Uzbek only.
const lang = domain.LangUz

const pendingListLimit = 20

type Config struct {
	Store         store.Store
	Ads           *lifecycle.Engine
	Categories    *category.Registry
	Queries       *moderation.Queries
	Messenger     chat.Messenger
	AdminIDs      []int64
	ResumeGroup   chat.Target
	VacancyGroup  chat.Target
	QuestionGroup chat.Target
	MainChannel   chat.Target
}

// Service handles admin events and the outbound moderation messages.
type Service struct {
	users         store.UserStore
	students      store.StudentMessageStore
	ads           *lifecycle.Engine
	categories    *category.Registry
	queries       *moderation.Queries
	messenger     chat.Messenger
	admins        map[int64]struct{}
	resumeGroup   chat.Target
	vacancyGroup  chat.Target
	questionGroup chat.Target
	mainChannel   chat.Target
	republisher   republisher

	mu      sync.Mutex
	dialogs map[int64]dialog
}

type republisher interface {
	Republish(ctx context.Context, adID int64) (queued bool, err error)
}

type dialogKind int

const (
	dialogAddCategory dialogKind = iota + 1
	dialogRenameCategory
)

// dialog is an admin's pending text prompt.
type dialog struct {
	kind       dialogKind
	categoryID int64
}

func NewService(cfg Config) (*Service, error) {
	if cfg.Store == nil || cfg.Ads == nil || cfg.Categories == nil || cfg.Queries == nil {
		return nil, errors.New("admin: store, ads, categories and queries are required")
	}
	if cfg.Messenger == nil {
		return nil, errors.New("admin: messenger is required")
	}
	admins := make(map[int64]struct{}, len(cfg.AdminIDs))
	for _, id := range cfg.AdminIDs {
		admins[id] = struct{}{}
	}
	s := &Service{
		users:         cfg.Store,
		students:      cfg.Store,
		ads:           cfg.Ads,
		categories:    cfg.Categories,
		queries:       cfg.Queries,
		messenger:     cfg.Messenger,
		admins:        admins,
		resumeGroup:   cfg.ResumeGroup,
		vacancyGroup:  cfg.VacancyGroup,
		questionGroup: cfg.QuestionGroup,
		mainChannel:   cfg.MainChannel,
		dialogs:       map[int64]dialog{},
	}
	s.republisher = inlinePublisher{s}
	return s, nil
}

// IsAdmin reports whether userID is on the admin allow-list.
func (s *Service) IsAdmin(userID int64) bool {
	_, ok := s.admins[userID]
	return ok
}

func (s *Service) authorize(userID int64) error {
	if !s.IsAdmin(userID) {
		return ErrPermissionDenied
	}
	return nil
}

// Handle processes ev when it belongs to an admin workflow. The bool is
// false when the event should go to the user conversation instead.
func (s *Service) Handle(ctx context.Context, ev chat.Event) ([]chat.Reply, bool, error) {
	if ev.IsCallback() {
		return s.callback(ctx, ev)
	}
	if ev.ReplyToMessageID != 0 && s.questionGroup != "" && chat.ChatID(ev.ChatID) == s.questionGroup {
		if !s.IsAdmin(ev.UserID) {
			// group members chatting among themselves are not answers
			return nil, true, nil
		}
		replies, err := s.relayStudentReply(ctx, ev)
		return replies, true, err
	}
	if !ev.IsPrivate() {
		return nil, false, nil
	}
	if strings.HasPrefix(strings.TrimSpace(ev.Text), "/admin") {
		if err := s.authorize(ev.UserID); err != nil {
			return []chat.Reply{chat.Text(i18n.Text(lang, "forbidden"), nil)}, true, nil
		}
		s.clearDialog(ev.UserID)
		return []chat.Reply{s.panel(false)}, true, nil
	}
	if d, ok := s.dialog(ev.UserID); ok && s.IsAdmin(ev.UserID) {
		if strings.HasPrefix(ev.Text, "/") || ev.Text == "" {
			s.clearDialog(ev.UserID)
			return nil, false, nil
		}
		replies, err := s.answerDialog(ev, d)
		return replies, true, err
	}
	return nil, false, nil
}

var adminPrefixes = []string{
	"approve_", "reject_", "republish_", "view_pending_",
	"edit_category_", "edit_cat_name_", "delete_cat_", "confirm_delete_cat_",
}

var adminCallbacks = map[string]struct{}{
	"stats": {}, "pending_ads": {}, "manage_categories": {}, "list_categories": {},
	"add_category": {}, "back_admin": {}, "exit_admin": {},
}

func isAdminCallback(data string) bool {
	if _, ok := adminCallbacks[data]; ok {
		return true
	}
	for _, p := range adminPrefixes {
		if strings.HasPrefix(data, p) {
			return true
		}
	}
	return false
}

func (s *Service) callback(ctx context.Context, ev chat.Event) ([]chat.Reply, bool, error) {
	data := ev.Callback
	if !isAdminCallback(data) {
		return nil, false, nil
	}
	if err := s.authorize(ev.UserID); err != nil {
		return []chat.Reply{chat.Notice(i18n.Text(lang, "forbidden"))}, true, nil
	}

	var (
		replies []chat.Reply
		err     error
	)
	switch {
	case data == "stats":
		replies, err = s.stats()
	case data == "pending_ads":
		replies, err = s.pendingList()
	case data == "back_admin":
		s.clearDialog(ev.UserID)
		replies = []chat.Reply{s.panel(true)}
	case data == "exit_admin":
		s.clearDialog(ev.UserID)
		replies = []chat.Reply{{Text: i18n.Text(lang, "welcome"), Keyboard: render.LanguageKeyboard(), Edit: true}}
	case data == "manage_categories":
		replies = []chat.Reply{s.categoryMenu()}
	case data == "list_categories":
		replies, err = s.categoryList(true)
	case data == "add_category":
		s.setDialog(ev.UserID, dialog{kind: dialogAddCategory})
		replies = []chat.Reply{{Text: i18n.Text(lang, "admin_enter_category"), Edit: true}}
	default:
		replies, err = s.idCallback(ctx, ev, data)
	}
	return replies, true, err
}

func (s *Service) idCallback(ctx context.Context, ev chat.Event, data string) ([]chat.Reply, error) {
	if id, ok := idSuffix(data, "confirm_delete_cat_"); ok {
		return s.deleteCategory(id)
	}
	if id, ok := idSuffix(data, "delete_cat_"); ok {
		return s.askDeleteCategory(id)
	}
	if id, ok := idSuffix(data, "edit_cat_name_"); ok {
		return s.askRenameCategory(ev.UserID, id)
	}
	if id, ok := idSuffix(data, "edit_category_"); ok {
		return s.categoryActions(id)
	}
	if id, ok := idSuffix(data, "view_pending_"); ok {
		return s.viewPending(id)
	}
	if id, ok := idSuffix(data, "approve_"); ok {
		return s.approve(ctx, id, ev.UserID)
	}
	if id, ok := idSuffix(data, "reject_"); ok {
		return s.reject(ctx, id, ev.UserID)
	}
	if id, ok := idSuffix(data, "republish_"); ok {
		return s.republish(ctx, id)
	}
	return []chat.Reply{chat.Notice(i18n.Text(lang, "admin_error"))}, nil
}

func (s *Service) panel(edit bool) chat.Reply {
	kb := chat.Inline(
		chat.Row(chat.Data(i18n.Text(lang, "admin_stats_btn"), "stats")),
		chat.Row(chat.Data(i18n.Text(lang, "admin_pending_btn"), "pending_ads")),
		chat.Row(chat.Data(i18n.Text(lang, "admin_categories_btn"), "manage_categories")),
		chat.Row(chat.Data(i18n.Text(lang, "admin_exit_btn"), "exit_admin")),
	)
	return chat.Reply{Text: i18n.Text(lang, "admin_panel"), Keyboard: kb, Edit: edit}
}

func backToPanel() []chat.Button {
	return chat.Row(chat.Data(i18n.Text(lang, "back"), "back_admin"))
}

func (s *Service) stats() ([]chat.Reply, error) {
	st, err := s.queries.Stats()
	if err != nil {
		return failed(err)
	}
	u, a := st.Users, st.Ads
	text := i18n.Format(lang, "admin_stats",
		u.Total,
		u.Graduates, moderation.Percent(u.Graduates, u.Total),
		u.Employers, moderation.Percent(u.Employers, u.Total),
		u.Students,
		a.Total,
		a.Approved, moderation.Percent(a.Approved, a.Total),
		a.Pending, moderation.Percent(a.Pending, a.Total),
		a.Rejected,
		a.Cancelled,
	)
	return []chat.Reply{{Text: text, Keyboard: chat.Inline(backToPanel()), Edit: true, HTML: true}}, nil
}

func (s *Service) pendingList() ([]chat.Reply, error) {
	rows, err := s.queries.PendingSummaries(pendingListLimit)
	if err != nil {
		return failed(err)
	}
	if len(rows) == 0 {
		return []chat.Reply{{Text: i18n.Text(lang, "admin_no_pending"), Keyboard: chat.Inline(backToPanel()), Edit: true}}, nil
	}
	buttons := make([][]chat.Button, 0, len(rows)+1)
	for _, r := range rows {
		icon := "📝"
		if r.HasFile {
			icon = "📄"
		}
		label := fmt.Sprintf("%s #%d %s", icon, r.AdID, r.Title)
		buttons = append(buttons, chat.Row(chat.Data(label, fmt.Sprintf("view_pending_%d", r.AdID))))
	}
	buttons = append(buttons, backToPanel())
	return []chat.Reply{{
		Text:     i18n.Format(lang, "admin_pending_title", len(rows)),
		Keyboard: chat.Inline(buttons...),
		Edit:     true,
		HTML:     true,
	}}, nil
}

func (s *Service) viewPending(id int64) ([]chat.Reply, error) {
	ad, err := s.ads.Get(id)
	if err != nil {
		return adError(err)
	}
	if ad.Status != domain.StatusPending {
		return []chat.Reply{chat.Notice(i18n.Text(lang, "admin_not_pending"))}, nil
	}
	return []chat.Reply{moderationMessage(ad)}, nil
}

func (s *Service) dialog(userID int64) (dialog, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.dialogs[userID]
	return d, ok
}

func (s *Service) setDialog(userID int64, d dialog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dialogs[userID] = d
}

func (s *Service) clearDialog(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.dialogs, userID)
}

func adError(err error) ([]chat.Reply, error) {
	switch {
	case errors.Is(err, lifecycle.ErrNotFound):
		return []chat.Reply{chat.Notice(i18n.Text(lang, "not_found"))}, nil
	case errors.Is(err, lifecycle.ErrStaleState):
		return []chat.Reply{chat.Notice(i18n.Text(lang, "already_processed"))}, nil
	}
	return failed(err)
}

func failed(err error) ([]chat.Reply, error) {
	slog.Error("admin operation failed", "err", err)
	return []chat.Reply{chat.Text(i18n.Text(lang, "admin_error"), nil)}, err
}

func idSuffix(data, prefix string) (int64, bool) {
	if !strings.HasPrefix(data, prefix) {
		return 0, false
	}
	var id int64
	if _, err := fmt.Sscanf(strings.TrimPrefix(data, prefix), "%d", &id); err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
