package conversation

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"adsbot/internal/i18n"
	"adsbot/pkg/domain"
	"adsbot/pkg/storage"
	"adsbot/pkg/store"
	"adsbot/services/bot/internal/category"
	"adsbot/services/bot/internal/chat"
	"adsbot/services/bot/internal/lifecycle"
	"adsbot/services/bot/internal/moderation"
)

type sentMessage struct {
	to  chat.Target
	msg chat.Reply
}

type recordingMessenger struct {
	mu     sync.Mutex
	sent   []sentMessage
	nextID int
	err    error
}

func (m *recordingMessenger) Send(_ context.Context, to chat.Target, msg chat.Reply) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	m.nextID++
	m.sent = append(m.sent, sentMessage{to: to, msg: msg})
	return 1000 + m.nextID, nil
}

type recordingForwarder struct {
	ids []int64
}

func (f *recordingForwarder) Forward(_ context.Context, adID int64) error {
	f.ids = append(f.ids, adID)
	return nil
}

type stubFetcher struct {
	content string
}

func (f stubFetcher) Fetch(context.Context, string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(f.content)), nil
}

type harness struct {
	t         *testing.T
	engine    *Engine
	store     *store.MemoryStore
	fwd       *recordingForwarder
	messenger *recordingMessenger
	dir       string
}

func newHarness(t *testing.T, maxAds int) *harness {
	t.Helper()
	s := store.NewMemoryStore()
	registry := category.NewRegistry(s)
	if _, err := registry.EnsureDefaults(); err != nil {
		t.Fatalf("seed categories: %v", err)
	}
	dir := t.TempDir()
	files, err := storage.NewFileStore(dir)
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	h := &harness{t: t, store: s, fwd: &recordingForwarder{}, messenger: &recordingMessenger{}, dir: dir}
	h.engine, err = NewEngine(Config{
		Store:          s,
		Sessions:       NewMemorySessionStore(0),
		Ads:            lifecycle.NewEngine(s),
		Categories:     registry,
		Queries:        moderation.NewQueries(s),
		Files:          files,
		Fetcher:        stubFetcher{content: "resume body"},
		Forwarder:      h.fwd,
		Messenger:      h.messenger,
		QuestionGroup:  chat.Target("-100"),
		AdminIDs:       []int64{42},
		MaxAdsPerUser:  maxAds,
		MaxFileSize:    1024,
		AllowedFormats: []string{".pdf", ".doc", ".docx", ".txt"},
		BrowseLimit:    20,
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return h
}

func (h *harness) handle(ev chat.Event) []chat.Reply {
	h.t.Helper()
	replies, err := h.engine.Handle(context.Background(), ev)
	if err != nil {
		h.t.Fatalf("handle %+v: %v", ev, err)
	}
	return replies
}

func (h *harness) send(userID int64, text string) []chat.Reply {
	h.t.Helper()
	return h.handle(chat.Event{UserID: userID, ChatID: userID, Username: "u" + strconv.FormatInt(userID, 10), Text: text})
}

func (h *harness) press(userID int64, data string) []chat.Reply {
	h.t.Helper()
	return h.handle(chat.Event{UserID: userID, ChatID: userID, Username: "u" + strconv.FormatInt(userID, 10), Callback: data})
}

func (h *harness) upload(userID int64, name string, size int64) []chat.Reply {
	h.t.Helper()
	return h.handle(chat.Event{UserID: userID, ChatID: userID, Document: &chat.Document{FileID: "file-" + name, FileName: name, Size: size}})
}

func (h *harness) register(userID int64, role domain.Role, lang domain.Language) {
	h.t.Helper()
	h.send(userID, "/start")
	h.press(userID, "lang_"+string(lang))
	h.press(userID, "role_"+string(role))
}

func (h *harness) categoryData(prefix, name string) string {
	h.t.Helper()
	c, ok, err := h.store.GetCategoryByName(name)
	if err != nil || !ok {
		h.t.Fatalf("category %q: ok=%v err=%v", name, ok, err)
	}
	return prefix + strconv.FormatInt(c.ID, 10)
}

func (h *harness) onlyAd(userID int64) domain.Ad {
	h.t.Helper()
	ads, err := h.store.ListAdsByOwner(userID)
	if err != nil {
		h.t.Fatalf("list ads: %v", err)
	}
	if len(ads) != 1 {
		h.t.Fatalf("expected one ad, got %d", len(ads))
	}
	return ads[0]
}

func contains(replies []chat.Reply, want string) bool {
	for _, r := range replies {
		if strings.Contains(r.Text, want) {
			return true
		}
	}
	return false
}

func (h *harness) fillEmployer(userID int64) {
	h.t.Helper()
	h.send(userID, i18n.Text(domain.LangUz, "create_ad"))
	for _, answer := range []string{"Acme", "Ali Valiyev", "25"} {
		h.send(userID, answer)
	}
	h.press(userID, h.categoryData("category_", "Backend Developer"))
	for _, answer := range []string{"erkak", "1 yil", "5/2", "09:00-18:00", "Toshkent, Chilonzor", "1000$"} {
		h.send(userID, answer)
	}
	replies := h.send(userID, "-")
	if !contains(replies, i18n.Text(domain.LangUz, "confirm_ad")) {
		h.t.Fatalf("expected confirm summary, got %+v", replies)
	}
}

func TestOnboardingShowsRoleMenu(t *testing.T) {
	h := newHarness(t, 10)

	replies := h.send(1, "/start")
	if len(replies) != 1 || replies[0].Keyboard == nil || len(replies[0].Keyboard.Inline) != 1 {
		t.Fatalf("expected language keyboard, got %+v", replies)
	}
	replies = h.press(1, "lang_ru")
	if !replies[0].Edit || replies[0].Text != i18n.Text(domain.LangRu, "select_role") {
		t.Fatalf("expected role prompt in russian, got %+v", replies)
	}
	replies = h.press(1, "role_employer")
	if len(replies) != 2 || replies[1].Keyboard == nil || len(replies[1].Keyboard.Reply) != 4 {
		t.Fatalf("expected employer reply menu, got %+v", replies)
	}
	u, _, _ := h.store.GetUser(1)
	if u.Role != domain.RoleEmployer || u.Language != domain.LangRu || u.Username != "u1" {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestUnknownUserIsAskedToStart(t *testing.T) {
	h := newHarness(t, 10)
	replies := h.send(9, "hello")
	if !contains(replies, i18n.Text(domain.LangUz, "press_start")) {
		t.Fatalf("expected press_start, got %+v", replies)
	}
}

func TestEmployerFlowCreatesDraftAndSubmits(t *testing.T) {
	h := newHarness(t, 10)
	h.register(1, domain.RoleEmployer, domain.LangUz)

	h.send(1, i18n.Text(domain.LangUz, "create_ad"))
	h.send(1, "Acme")
	h.send(1, "Ali Valiyev")
	replies := h.send(1, "17")
	if !contains(replies, i18n.Format(domain.LangUz, "err_age_range", 18, 65)) {
		t.Fatalf("expected age range error, got %+v", replies)
	}
	if ads, _ := h.store.ListAdsByOwner(1); len(ads) != 0 {
		t.Fatalf("no ad may exist before the last field")
	}
	h.send(1, "25")
	h.press(1, h.categoryData("category_", "Backend Developer"))
	replies = h.send(1, "robot")
	if !contains(replies, i18n.Text(domain.LangUz, "err_gender")) {
		t.Fatalf("expected gender error, got %+v", replies)
	}
	for _, answer := range []string{"erkak", "1 yil", "5/2", "09:00-18:00", "Toshkent, Chilonzor", "1000$", "-"} {
		h.send(1, answer)
	}

	ad := h.onlyAd(1)
	if ad.Status != domain.StatusDraft || ad.Data["category"] != "Backend Developer" || ad.Data["requirements"] != "Yo'q" {
		t.Fatalf("unexpected draft: %+v", ad)
	}

	replies = h.press(1, "confirm_ad")
	if !contains(replies, i18n.Text(domain.LangUz, "ad_created")) {
		t.Fatalf("expected ad_created, got %+v", replies)
	}
	got, _, _ := h.store.GetAd(ad.ID)
	if got.Status != domain.StatusPending {
		t.Fatalf("expected pending, got %s", got.Status)
	}
	if len(h.fwd.ids) != 1 || h.fwd.ids[0] != ad.ID {
		t.Fatalf("expected ad to be forwarded once, got %v", h.fwd.ids)
	}

	replies = h.press(1, "confirm_ad")
	if len(replies) != 1 || !replies[0].Notice || replies[0].Text != i18n.Text(domain.LangUz, "already_processed") {
		t.Fatalf("expected already processed notice, got %+v", replies)
	}
	if len(h.fwd.ids) != 1 {
		t.Fatalf("second confirm must not forward again")
	}
}

func TestGraduateFlowWithResumeAndEdit(t *testing.T) {
	h := newHarness(t, 10)
	h.register(2, domain.RoleGraduate, domain.LangRu)

	h.send(2, i18n.Text(domain.LangRu, "create_ad"))
	h.send(2, "Иван Петров")
	h.send(2, "22")
	h.send(2, "Go, SQL")
	h.handle(chat.Event{UserID: 2, ChatID: 2, Contact: "998901234567"})
	h.press(2, "region_0")
	h.send(2, "500$")
	h.press(2, h.categoryData("category_", "Data Scientist"))
	h.send(2, "10:00-18:00")
	h.send(2, "Стажировка")

	replies := h.send(2, "no file")
	if !contains(replies, i18n.Text(domain.LangRu, "err_file_required")) {
		t.Fatalf("expected file required error, got %+v", replies)
	}
	replies = h.upload(2, "cv.exe", 10)
	if !contains(replies, i18n.Format(domain.LangRu, "err_file_format", ".pdf, .doc, .docx, .txt")) {
		t.Fatalf("expected format error, got %+v", replies)
	}
	replies = h.upload(2, "cv.txt", 4096)
	if !contains(replies, i18n.Format(domain.LangRu, "err_file_size", 0)) {
		t.Fatalf("expected size error, got %+v", replies)
	}
	h.upload(2, "cv.txt", 11)

	ad := h.onlyAd(2)
	if ad.Data["contact"] != "+998901234567" || ad.Data["region"] != "г. Ташкент" || ad.Data["profession"] != "Data Scientist" {
		t.Fatalf("unexpected payload: %+v", ad.Data)
	}
	if ad.File.FileID != "file-cv.txt" || filepath.Dir(ad.File.Path) != h.dir {
		t.Fatalf("unexpected file ref: %+v", ad.File)
	}
	if raw, err := os.ReadFile(ad.File.Path); err != nil || string(raw) != "resume body" {
		t.Fatalf("resume not stored: %q %v", raw, err)
	}

	replies = h.press(2, "edit_ad")
	if !replies[0].Edit || replies[0].Keyboard == nil {
		t.Fatalf("expected edit keyboard, got %+v", replies)
	}
	replies = h.press(2, "edit_field_price")
	if !contains(replies, i18n.Text(domain.LangRu, "enter_new_value")) {
		t.Fatalf("expected new value prompt, got %+v", replies)
	}
	replies = h.send(2, "700$")
	if !contains(replies, i18n.Text(domain.LangRu, "field_updated")) {
		t.Fatalf("expected field_updated, got %+v", replies)
	}
	got, _, _ := h.store.GetAd(ad.ID)
	if got.Data["price"] != "700$" || got.Data["name"] != "Иван Петров" {
		t.Fatalf("unexpected edited payload: %+v", got.Data)
	}
	history, _ := h.store.ListAdHistory(ad.ID)
	if history[0].Action != domain.ActionFieldUpdated || history[0].OldValue != "500$" {
		t.Fatalf("expected field history, got %+v", history[0])
	}

	replies = h.press(2, "cancel_ad")
	if !contains(replies, i18n.Text(domain.LangRu, "ad_cancelled")) {
		t.Fatalf("expected cancellation, got %+v", replies)
	}
	got, _, _ = h.store.GetAd(ad.ID)
	if got.Status != domain.StatusCancelled {
		t.Fatalf("expected cancelled, got %s", got.Status)
	}
}

func TestMyAdsEnforcesOwnershipAndDeletes(t *testing.T) {
	h := newHarness(t, 10)
	h.register(1, domain.RoleEmployer, domain.LangUz)
	h.register(3, domain.RoleEmployer, domain.LangUz)
	h.fillEmployer(1)
	ad := h.onlyAd(1)
	view := "ad_view_" + strconv.FormatInt(ad.ID, 10)

	replies := h.press(3, view)
	if len(replies) != 1 || replies[0].Text != i18n.Text(domain.LangUz, "forbidden") {
		t.Fatalf("expected forbidden, got %+v", replies)
	}

	replies = h.send(1, i18n.Text(domain.LangUz, "my_ads"))
	if replies[0].Keyboard == nil || len(replies[0].Keyboard.Inline) != 1 || replies[0].Keyboard.Inline[0][0].Data != view {
		t.Fatalf("expected one ad button, got %+v", replies)
	}
	replies = h.press(1, view)
	if !replies[0].HTML || !strings.Contains(replies[0].Text, "Acme") {
		t.Fatalf("expected detail view, got %+v", replies)
	}
	h.press(1, "ad_delete_"+strconv.FormatInt(ad.ID, 10))
	replies = h.press(1, "ad_delete_yes_"+strconv.FormatInt(ad.ID, 10))
	if !contains(replies, i18n.Format(domain.LangUz, "ad_deleted_id", ad.ID)) {
		t.Fatalf("expected deletion, got %+v", replies)
	}
	if ads, _ := h.store.ListAdsByOwner(1); len(ads) != 0 {
		t.Fatalf("deleted ad must leave the owner list")
	}
	if got, ok, _ := h.store.GetAd(ad.ID); !ok || got.Status != domain.StatusDeleted {
		t.Fatalf("deleted ad must stay retrievable, got %+v", got)
	}
	replies = h.press(1, view)
	if replies[0].Text != i18n.Text(domain.LangUz, "not_found") {
		t.Fatalf("expected not found after delete, got %+v", replies)
	}
}

func TestSubmitFromListIsIdempotent(t *testing.T) {
	h := newHarness(t, 10)
	h.register(1, domain.RoleEmployer, domain.LangUz)
	h.fillEmployer(1)
	ad := h.onlyAd(1)
	submit := "ad_submit_" + strconv.FormatInt(ad.ID, 10)

	if replies := h.press(1, submit); !contains(replies, i18n.Text(domain.LangUz, "ad_created")) {
		t.Fatalf("expected submission, got %+v", replies)
	}
	replies := h.press(1, submit)
	if replies[0].Text != i18n.Text(domain.LangUz, "already_processed") {
		t.Fatalf("expected already processed, got %+v", replies)
	}
}

func TestAdQuotaBlocksNewFlow(t *testing.T) {
	h := newHarness(t, 1)
	h.register(1, domain.RoleEmployer, domain.LangUz)
	h.fillEmployer(1)
	h.press(1, "confirm_ad")

	replies := h.send(1, i18n.Text(domain.LangUz, "create_ad"))
	if !contains(replies, i18n.Format(domain.LangUz, "max_ads_limit", 1)) {
		t.Fatalf("expected quota message, got %+v", replies)
	}
}

func TestStudentFlowDeliversToQuestionGroup(t *testing.T) {
	h := newHarness(t, 10)
	h.register(4, domain.RoleStudent, domain.LangUz)

	h.press(4, "student_send")
	h.send(4, "Madina")
	h.press(4, h.categoryData("student_dir_", "IT Kids"))
	h.send(4, "U12")
	h.send(4, "shikoyat")
	replies := h.send(4, "qisqa")
	if !contains(replies, i18n.Format(domain.LangUz, "err_too_short", 10)) {
		t.Fatalf("expected length error, got %+v", replies)
	}
	replies = h.send(4, "Dars jadvali juda noqulay")
	if !replies[0].HTML || !strings.Contains(replies[0].Text, "Madina") {
		t.Fatalf("expected review, got %+v", replies)
	}

	h.press(4, "confirm_ad")
	if len(h.messenger.sent) != 1 || h.messenger.sent[0].to != "-100" {
		t.Fatalf("expected one delivery to the question group, got %+v", h.messenger.sent)
	}
	if !strings.Contains(h.messenger.sent[0].msg.Text, "Shikoyat") || !strings.Contains(h.messenger.sent[0].msg.Text, "@u4") {
		t.Fatalf("unexpected group message: %q", h.messenger.sent[0].msg.Text)
	}
	msg, ok, err := h.store.GetStudentMessageByGroupMessageID(1001)
	if err != nil || !ok {
		t.Fatalf("student message not stored: ok=%v err=%v", ok, err)
	}
	if msg.UserID != 4 || msg.Direction != "IT Kids" || msg.Type != domain.MessageComplaint {
		t.Fatalf("unexpected student message: %+v", msg)
	}
}

func TestStudentDeliveryFailureKeepsConfirm(t *testing.T) {
	h := newHarness(t, 10)
	h.register(4, domain.RoleStudent, domain.LangUz)
	h.press(4, "student_send")
	h.send(4, "Madina")
	h.press(4, h.categoryData("student_dir_", "SMM"))
	h.send(4, "U12")
	h.press(4, "student_type_suggest")
	h.send(4, "Yangi kurslar qo'shilsin")

	h.messenger.err = errors.New("network")
	replies := h.press(4, "confirm_ad")
	if !contains(replies, i18n.Text(domain.LangUz, "student_message_failed")) {
		t.Fatalf("expected failure message, got %+v", replies)
	}
	h.messenger.err = nil
	replies = h.press(4, "confirm_ad")
	if !contains(replies, i18n.Text(domain.LangUz, "student_message_sent")) {
		t.Fatalf("expected retry to succeed, got %+v", replies)
	}
}

type brokenStudentLog struct {
	*store.MemoryStore
}

func (brokenStudentLog) CreateStudentMessage(domain.StudentMessage) (domain.StudentMessage, error) {
	return domain.StudentMessage{}, errors.New("disk full")
}

func TestStudentDeliveryNotRepostedWhenRecordFails(t *testing.T) {
	h := newHarness(t, 10)
	h.engine.students = brokenStudentLog{h.store}
	h.register(4, domain.RoleStudent, domain.LangUz)
	h.press(4, "student_send")
	h.send(4, "Madina")
	h.press(4, h.categoryData("student_dir_", "SMM"))
	h.send(4, "U12")
	h.press(4, "student_type_suggest")
	h.send(4, "Yangi kurslar qo'shilsin")

	replies := h.press(4, "confirm_ad")
	if !contains(replies, i18n.Text(domain.LangUz, "student_message_sent")) {
		t.Fatalf("posted message should be reported as sent, got %+v", replies)
	}
	h.press(4, "confirm_ad")
	if len(h.messenger.sent) != 1 {
		t.Fatalf("expected a single post to the question group, got %d", len(h.messenger.sent))
	}
}

func TestBrowseCategoryListsApproved(t *testing.T) {
	h := newHarness(t, 10)
	h.register(1, domain.RoleEmployer, domain.LangUz)
	h.fillEmployer(1)
	ad := h.onlyAd(1)
	if _, err := h.engine.ads.Submit(ad.ID, 1); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := h.engine.ads.Approve(ad.ID, 42); err != nil {
		t.Fatalf("approve: %v", err)
	}

	replies := h.press(1, h.categoryData("browse_cat_", "Backend Developer"))
	if len(replies) != 2 || !strings.Contains(replies[1].Text, "Acme") {
		t.Fatalf("expected header plus one ad, got %+v", replies)
	}
	replies = h.press(1, h.categoryData("browse_cat_", "SMM"))
	if !contains(replies, i18n.Format(domain.LangUz, "no_ads_in_category", "SMM")) {
		t.Fatalf("expected empty category message, got %+v", replies)
	}
}
