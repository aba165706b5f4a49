// Package conversation drives each user through the role-specific forms:
// onboarding, the graduate and employer ad flows, the student inquiry flow,
// the edit sub-flow and the "my ads" management view.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"adsbot/internal/i18n"
	"adsbot/pkg/domain"
	"adsbot/pkg/storage"
	"adsbot/pkg/store"
	"adsbot/services/bot/internal/category"
	"adsbot/services/bot/internal/chat"
	"adsbot/services/bot/internal/lifecycle"
	"adsbot/services/bot/internal/moderation"
	"adsbot/services/bot/internal/render"
)

// Forwarder hands a freshly submitted ad to moderation.
type Forwarder interface {
	Forward(ctx context.Context, adID int64) error
}

// FileFetcher downloads an uploaded document by its transport handle.
type FileFetcher interface {
	Fetch(ctx context.Context, fileID string) (io.ReadCloser, error)
}

// Config wires the engine's collaborators and limits.
type Config struct {
	Store          store.Store
	Sessions       SessionStore
	Ads            *lifecycle.Engine
	Categories     *category.Registry
	Queries        *moderation.Queries
	Files          *storage.FileStore
	Archive        storage.Archive
	Fetcher        FileFetcher
	Forwarder      Forwarder
	Messenger      chat.Messenger
	QuestionGroup  chat.Target
	AdminIDs       []int64
	MaxAdsPerUser  int
	MaxFileSize    int64
	AllowedFormats []string
	BrowseLimit    int
}

// Engine is the conversation state machine. Events of one user are handled
// one at a time; different users proceed in parallel.
type Engine struct {
	users          store.UserStore
	students       store.StudentMessageStore
	sessions       SessionStore
	ads            *lifecycle.Engine
	categories     *category.Registry
	queries        *moderation.Queries
	files          *storage.FileStore
	archive        storage.Archive
	fetcher        FileFetcher
	forwarder      Forwarder
	messenger      chat.Messenger
	questionGroup  chat.Target
	adminIDs       []int64
	maxAds         int
	maxFileSize    int64
	allowedFormats []string
	browseLimit    int
	locks          *keyedMutex
	now            func() time.Time
}

// NewEngine validates cfg and builds the engine.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Store == nil {
		return nil, errors.New("conversation: store is required")
	}
	if cfg.Sessions == nil {
		return nil, errors.New("conversation: session store is required")
	}
	if cfg.Ads == nil || cfg.Categories == nil || cfg.Queries == nil {
		return nil, errors.New("conversation: ad engine, categories and queries are required")
	}
	if cfg.Files == nil || cfg.Fetcher == nil {
		return nil, errors.New("conversation: file store and fetcher are required")
	}
	if cfg.Forwarder == nil || cfg.Messenger == nil {
		return nil, errors.New("conversation: forwarder and messenger are required")
	}
	maxAds := cfg.MaxAdsPerUser
	if maxAds <= 0 {
		maxAds = 10
	}
	return &Engine{
		users:          cfg.Store,
		students:       cfg.Store,
		sessions:       cfg.Sessions,
		ads:            cfg.Ads,
		categories:     cfg.Categories,
		queries:        cfg.Queries,
		files:          cfg.Files,
		archive:        cfg.Archive,
		fetcher:        cfg.Fetcher,
		forwarder:      cfg.Forwarder,
		messenger:      cfg.Messenger,
		questionGroup:  cfg.QuestionGroup,
		adminIDs:       cfg.AdminIDs,
		maxAds:         maxAds,
		maxFileSize:    cfg.MaxFileSize,
		allowedFormats: cfg.AllowedFormats,
		browseLimit:    cfg.BrowseLimit,
		locks:          newKeyedMutex(64),
		now:            time.Now,
	}, nil
}

// turn is the state one event is handled with.
type turn struct {
	ctx  context.Context
	ev   chat.Event
	user domain.User
	lang domain.Language
	sess Session
}

// notice replies with a plain message, or a toast for button presses.
func (t *turn) notice(key string) []chat.Reply {
	msg := i18n.Text(t.lang, key)
	if t.ev.IsCallback() {
		return []chat.Reply{chat.Notice(msg)}
	}
	return []chat.Reply{chat.Text(msg, nil)}
}

// Handle processes one inbound event and returns the replies to its chat.
// A non-nil error is a persistence failure; the replies then carry the
// generic retry message.
func (e *Engine) Handle(ctx context.Context, ev chat.Event) ([]chat.Reply, error) {
	unlock := e.locks.lock(ev.UserID)
	defer unlock()

	if isCommand(ev.Text, "start") {
		return e.start(ev)
	}
	user, ok, err := e.users.GetUser(ev.UserID)
	if err != nil {
		return e.failed(domain.DefaultLanguage, fmt.Errorf("get user: %w", err))
	}
	if !ok {
		return []chat.Reply{chat.Text(i18n.Text(domain.DefaultLanguage, "press_start"), nil)}, nil
	}
	t := &turn{ctx: ctx, ev: ev, user: user, lang: domain.ParseLanguage(string(user.Language))}
	sess, ok, err := e.sessions.Get(ev.UserID)
	if err != nil {
		return e.failed(t.lang, fmt.Errorf("get session: %w", err))
	}
	if !ok {
		sess = Session{UserID: ev.UserID}
	}
	t.sess = sess

	if ev.IsCallback() {
		return e.callback(t)
	}
	if sess.Active() {
		return e.input(t)
	}
	return e.menu(t)
}

func (e *Engine) callback(t *turn) ([]chat.Reply, error) {
	data := t.ev.Callback
	switch {
	case strings.HasPrefix(data, "lang_"):
		return e.chooseLanguage(t, strings.TrimPrefix(data, "lang_"))
	case strings.HasPrefix(data, "role_"):
		return e.chooseRole(t, domain.Role(strings.TrimPrefix(data, "role_")))
	case data == "student_send":
		return e.startFlow(t, FlowStudent)
	case data == "main_menu":
		return []chat.Reply{render.MainMenuReply(t.lang, t.user.Role)}, nil
	case data == "confirm_ad":
		return e.confirm(t)
	case data == "cancel_ad":
		return e.cancel(t)
	case data == "edit_ad":
		return e.editSelect(t)
	case data == "back_to_confirm":
		return e.backToConfirm(t)
	case strings.HasPrefix(data, "edit_field_"):
		return e.editField(t, strings.TrimPrefix(data, "edit_field_"))
	case data == "my_ads":
		return e.myAds(t)
	}
	if id, ok := idSuffix(data, "ad_delete_yes_"); ok {
		return e.deleteAd(t, id)
	}
	if id, ok := idSuffix(data, "ad_delete_"); ok {
		return e.askDelete(t, id)
	}
	if id, ok := idSuffix(data, "ad_view_"); ok {
		return e.adDetail(t, id, true)
	}
	if id, ok := idSuffix(data, "ad_submit_"); ok {
		return e.submitAd(t, id)
	}
	if id, ok := idSuffix(data, "ad_cancel_"); ok {
		return e.cancelAd(t, id)
	}
	if id, ok := idSuffix(data, "ad_edit_"); ok {
		return e.editAd(t, id)
	}
	if id, ok := idSuffix(data, "browse_cat_"); ok {
		return e.browseCategory(t, id)
	}
	for _, prefix := range []string{"region_", "category_", "student_dir_", "student_type_"} {
		if strings.HasPrefix(data, prefix) && t.sess.Active() {
			return e.input(t)
		}
	}
	return t.notice("choose_from_menu"), nil
}

// menu handles text outside any flow: the role main-menu buttons.
func (e *Engine) menu(t *turn) ([]chat.Reply, error) {
	text := strings.TrimSpace(t.ev.Text)
	switch {
	case matchesKey(text, "create_ad"):
		return e.startFlow(t, flowForRole(t.user.Role))
	case matchesKey(text, "my_ads"):
		return e.myAds(t)
	case matchesKey(text, "browse_by_category"):
		return e.browse(t)
	case matchesKey(text, "contact_admin"):
		return e.contactAdmin(t), nil
	case matchesKey(text, "student_send"):
		return e.startFlow(t, FlowStudent)
	case matchesKey(text, "main_menu"):
		return []chat.Reply{render.MainMenuReply(t.lang, t.user.Role)}, nil
	}
	if !t.user.Role.Valid() {
		return []chat.Reply{chat.Text(i18n.Text(t.lang, "select_role"), render.RoleKeyboard(t.lang))}, nil
	}
	return []chat.Reply{chat.Text(i18n.Text(t.lang, "choose_from_menu"), render.MainMenu(t.lang, t.user.Role))}, nil
}

func (e *Engine) contactAdmin(t *turn) []chat.Reply {
	if len(e.adminIDs) == 0 {
		return t.notice("error_retry")
	}
	link := fmt.Sprintf("tg://user?id=%d", e.adminIDs[0])
	kb := chat.Inline(chat.Row(chat.Button{Text: i18n.Text(t.lang, "contact_admin_btn"), URL: link}))
	return []chat.Reply{chat.Text(i18n.Text(t.lang, "contact_admin_text"), kb)}
}

// adError turns a lifecycle error into replies. Only unexpected errors are
// returned to the caller.
func (e *Engine) adError(t *turn, err error) ([]chat.Reply, error) {
	switch {
	case errors.Is(err, lifecycle.ErrNotFound):
		return t.notice("not_found"), nil
	case errors.Is(err, lifecycle.ErrForbidden):
		return t.notice("forbidden"), nil
	case errors.Is(err, lifecycle.ErrStaleState):
		return t.notice("already_processed"), nil
	}
	return e.failed(t.lang, err)
}

func (e *Engine) failed(lang domain.Language, err error) ([]chat.Reply, error) {
	return []chat.Reply{chat.Text(i18n.Text(lang, "error_retry"), nil)}, err
}

func (e *Engine) saveSession(s Session) error {
	if err := e.sessions.Save(s); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (e *Engine) clearSession(userID int64) {
	if err := e.sessions.Delete(userID); err != nil {
		slog.Warn("session delete failed", "user_id", userID, "err", err)
	}
}

func isCommand(text, name string) bool {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return false
	}
	cmd := strings.Fields(text[1:])
	if len(cmd) == 0 {
		return false
	}
	return strings.SplitN(cmd[0], "@", 2)[0] == name
}

// matchesKey reports whether text is the label of key in any language.
func matchesKey(text, key string) bool {
	for _, lang := range []domain.Language{domain.LangUz, domain.LangRu} {
		if text == i18n.Text(lang, key) {
			return true
		}
	}
	return false
}

func idSuffix(data, prefix string) (int64, bool) {
	if !strings.HasPrefix(data, prefix) {
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(data, prefix), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// keyedMutex serializes work per user over a fixed set of stripes.
type keyedMutex struct {
	stripes []sync.Mutex
}

func newKeyedMutex(n int) *keyedMutex {
	return &keyedMutex{stripes: make([]sync.Mutex, n)}
}

func (k *keyedMutex) lock(id int64) func() {
	m := &k.stripes[uint64(id)%uint64(len(k.stripes))]
	m.Lock()
	return m.Unlock
}
