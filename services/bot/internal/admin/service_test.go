package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"adsbot/internal/i18n"
	"adsbot/pkg/domain"
	"adsbot/pkg/queue"
	"adsbot/pkg/store"
	"adsbot/services/bot/internal/category"
	"adsbot/services/bot/internal/chat"
	"adsbot/services/bot/internal/lifecycle"
	"adsbot/services/bot/internal/moderation"
)

const (
	adminID      = int64(42)
	ownerID      = int64(7)
	vacancyGroup = chat.Target("-200")
	resumeGroup  = chat.Target("-300")
	questions    = chat.Target("-100")
	mainChannel  = chat.Target("@jobs")
)

type sentMessage struct {
	to  chat.Target
	msg chat.Reply
}

type fakeMessenger struct {
	mu     sync.Mutex
	sent   []sentMessage
	failTo map[chat.Target]error
}

func (m *fakeMessenger) Send(_ context.Context, to chat.Target, msg chat.Reply) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failTo[to]; err != nil {
		return 0, err
	}
	m.sent = append(m.sent, sentMessage{to: to, msg: msg})
	return len(m.sent), nil
}

func (m *fakeMessenger) to(target chat.Target) []chat.Reply {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []chat.Reply
	for _, s := range m.sent {
		if s.to == target {
			out = append(out, s.msg)
		}
	}
	return out
}

type fakeQueue struct {
	jobs []queue.Job
	err  error
}

func (q *fakeQueue) Enqueue(_ context.Context, kind string, adID int64) (queue.Job, error) {
	if q.err != nil {
		return queue.Job{}, q.err
	}
	job := queue.Job{ID: fmt.Sprintf("job-%d", len(q.jobs)+1), Kind: kind, AdID: adID, Status: queue.StatusQueued}
	q.jobs = append(q.jobs, job)
	return job, nil
}

type fixture struct {
	t         *testing.T
	svc       *Service
	store     *store.MemoryStore
	ads       *lifecycle.Engine
	messenger *fakeMessenger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := store.NewMemoryStore()
	registry := category.NewRegistry(s)
	if _, err := registry.EnsureDefaults(); err != nil {
		t.Fatalf("seed categories: %v", err)
	}
	if _, err := s.UpsertUser(domain.User{ID: ownerID, Username: "owner", Role: domain.RoleEmployer, Language: domain.LangRu}); err != nil {
		t.Fatalf("seed owner: %v", err)
	}
	f := &fixture{t: t, store: s, ads: lifecycle.NewEngine(s), messenger: &fakeMessenger{}}
	svc, err := NewService(Config{
		Store:         s,
		Ads:           f.ads,
		Categories:    registry,
		Queries:       moderation.NewQueries(s),
		Messenger:     f.messenger,
		AdminIDs:      []int64{adminID},
		ResumeGroup:   resumeGroup,
		VacancyGroup:  vacancyGroup,
		QuestionGroup: questions,
		MainChannel:   mainChannel,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	f.svc = svc
	return f
}

func (f *fixture) pendingEmployerAd() domain.Ad {
	f.t.Helper()
	ad, err := f.ads.Create(ownerID, domain.AdEmployer, domain.Payload{
		"company":  "Acme",
		"name":     "Aziz",
		"age":      "30",
		"category": "SMM",
		"location": "Toshkent, Chilonzor",
		"salary":   "1000",
	}, domain.FileRef{})
	if err != nil {
		f.t.Fatalf("create ad: %v", err)
	}
	if ad, err = f.ads.Submit(ad.ID, ownerID); err != nil {
		f.t.Fatalf("submit ad: %v", err)
	}
	return ad
}

func (f *fixture) handle(ev chat.Event) ([]chat.Reply, bool) {
	f.t.Helper()
	replies, handled, err := f.svc.Handle(context.Background(), ev)
	if err != nil {
		f.t.Fatalf("handle %+v: %v", ev, err)
	}
	return replies, handled
}

func (f *fixture) press(userID int64, data string) chat.Reply {
	f.t.Helper()
	replies, handled := f.handle(chat.Event{UserID: userID, ChatID: userID, Callback: data})
	if !handled || len(replies) != 1 {
		f.t.Fatalf("press %q: handled=%v replies=%+v", data, handled, replies)
	}
	return replies[0]
}

func (f *fixture) say(userID int64, text string) chat.Reply {
	f.t.Helper()
	replies, handled := f.handle(chat.Event{UserID: userID, ChatID: userID, Text: text})
	if !handled || len(replies) != 1 {
		f.t.Fatalf("say %q: handled=%v replies=%+v", text, handled, replies)
	}
	return replies[0]
}

func hasButton(kb *chat.Keyboard, data string) bool {
	if kb == nil {
		return false
	}
	for _, row := range kb.Inline {
		for _, b := range row {
			if b.Data == data {
				return true
			}
		}
	}
	return false
}

func TestForwardRoutesByAdType(t *testing.T) {
	f := newFixture(t)
	employer := f.pendingEmployerAd()
	if err := f.svc.Forward(context.Background(), employer.ID); err != nil {
		t.Fatalf("forward employer ad: %v", err)
	}
	got := f.messenger.to(vacancyGroup)
	if len(got) != 1 {
		t.Fatalf("expected one vacancy group post, got %d", len(got))
	}
	if !hasButton(got[0].Keyboard, fmt.Sprintf("approve_%d", employer.ID)) || !hasButton(got[0].Keyboard, fmt.Sprintf("reject_%d", employer.ID)) {
		t.Fatalf("expected moderation buttons, got %+v", got[0].Keyboard)
	}
	if !strings.Contains(got[0].Text, "Acme") {
		t.Fatalf("expected ad text in post, got %q", got[0].Text)
	}

	graduate, err := f.ads.Create(ownerID, domain.AdGraduate, domain.Payload{
		"name": "Ali", "age": "22", "technologies": "Go", "contact": "+998901234567",
		"region": "Toshkent", "price": "500", "profession": "SMM",
	}, domain.FileRef{FileID: "doc-1", Path: "resumes/a.pdf"})
	if err != nil {
		t.Fatalf("create graduate ad: %v", err)
	}
	if _, err := f.ads.Submit(graduate.ID, ownerID); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := f.svc.Forward(context.Background(), graduate.ID); err != nil {
		t.Fatalf("forward graduate ad: %v", err)
	}
	resumes := f.messenger.to(resumeGroup)
	if len(resumes) != 1 || resumes[0].FileID != "doc-1" {
		t.Fatalf("expected resume document in resume group, got %+v", resumes)
	}
}

func TestApprovePublishesAndNotifiesOwner(t *testing.T) {
	f := newFixture(t)
	ad := f.pendingEmployerAd()

	reply := f.press(adminID, fmt.Sprintf("approve_%d", ad.ID))
	if !reply.Edit || reply.Text != i18n.Format(domain.LangUz, "admin_approved", ad.ID) {
		t.Fatalf("unexpected approve reply: %+v", reply)
	}
	got, _ := f.ads.Get(ad.ID)
	if got.Status != domain.StatusApproved || got.ApprovedBy == nil || *got.ApprovedBy != adminID {
		t.Fatalf("expected approved ad, got %+v", got)
	}
	if posts := f.messenger.to(mainChannel); len(posts) != 1 {
		t.Fatalf("expected one channel post, got %d", len(posts))
	}
	owner := f.messenger.to(chat.ChatID(ownerID))
	if len(owner) != 1 || owner[0].Text != i18n.Text(domain.LangRu, "ad_approved") {
		t.Fatalf("expected owner notification in russian, got %+v", owner)
	}

	again := f.press(adminID, fmt.Sprintf("approve_%d", ad.ID))
	if !again.Notice || again.Text != i18n.Text(domain.LangUz, "already_processed") {
		t.Fatalf("expected already processed notice, got %+v", again)
	}
	if posts := f.messenger.to(mainChannel); len(posts) != 1 {
		t.Fatalf("second approval must not publish again, got %d posts", len(posts))
	}
}

func TestPublishFailureOffersRepublish(t *testing.T) {
	f := newFixture(t)
	ad := f.pendingEmployerAd()
	f.messenger.failTo = map[chat.Target]error{mainChannel: errors.New("chat not found")}

	reply := f.press(adminID, fmt.Sprintf("approve_%d", ad.ID))
	if !strings.Contains(reply.Text, "chat not found") || !hasButton(reply.Keyboard, fmt.Sprintf("republish_%d", ad.ID)) {
		t.Fatalf("expected publish failure with republish button, got %+v", reply)
	}
	if got, _ := f.ads.Get(ad.ID); got.Status != domain.StatusApproved {
		t.Fatalf("approval must stay committed, got %s", got.Status)
	}
	if owner := f.messenger.to(chat.ChatID(ownerID)); len(owner) != 0 {
		t.Fatalf("owner must not be told before publishing, got %+v", owner)
	}

	f.messenger.failTo = nil
	retry := f.press(adminID, fmt.Sprintf("republish_%d", ad.ID))
	if retry.Text != i18n.Format(domain.LangUz, "admin_approved", ad.ID) {
		t.Fatalf("expected inline republish success, got %+v", retry)
	}
	if posts := f.messenger.to(mainChannel); len(posts) != 1 {
		t.Fatalf("expected channel post after republish, got %d", len(posts))
	}
}

func TestRepublishRequiresApproval(t *testing.T) {
	f := newFixture(t)
	ad := f.pendingEmployerAd()
	reply := f.press(adminID, fmt.Sprintf("republish_%d", ad.ID))
	if !reply.Notice || reply.Text != i18n.Text(domain.LangUz, "admin_not_approved") {
		t.Fatalf("expected not approved notice, got %+v", reply)
	}
}

func TestRejectNotifiesOwner(t *testing.T) {
	f := newFixture(t)
	ad := f.pendingEmployerAd()
	reply := f.press(adminID, fmt.Sprintf("reject_%d", ad.ID))
	if reply.Text != i18n.Format(domain.LangUz, "admin_rejected", ad.ID) {
		t.Fatalf("unexpected reject reply: %+v", reply)
	}
	if got, _ := f.ads.Get(ad.ID); got.Status != domain.StatusRejected {
		t.Fatalf("expected rejected ad, got %s", got.Status)
	}
	owner := f.messenger.to(chat.ChatID(ownerID))
	if len(owner) != 1 || owner[0].Text != i18n.Text(domain.LangRu, "ad_rejected") {
		t.Fatalf("expected rejection notice, got %+v", owner)
	}
	if posts := f.messenger.to(mainChannel); len(posts) != 0 {
		t.Fatalf("rejected ad must not be published")
	}
}

func TestNonAdminIsRefused(t *testing.T) {
	f := newFixture(t)
	ad := f.pendingEmployerAd()

	reply := f.press(ownerID, fmt.Sprintf("approve_%d", ad.ID))
	if !reply.Notice || reply.Text != i18n.Text(domain.LangUz, "forbidden") {
		t.Fatalf("expected forbidden notice, got %+v", reply)
	}
	if got, _ := f.ads.Get(ad.ID); got.Status != domain.StatusPending {
		t.Fatalf("non-admin must not change status, got %s", got.Status)
	}
	if reply := f.say(ownerID, "/admin"); reply.Text != i18n.Text(domain.LangUz, "forbidden") {
		t.Fatalf("expected forbidden for /admin, got %+v", reply)
	}

	if _, handled := f.handle(chat.Event{UserID: ownerID, ChatID: ownerID, Callback: "my_ads"}); handled {
		t.Fatalf("user callbacks must fall through to the conversation")
	}
	if _, handled := f.handle(chat.Event{UserID: ownerID, ChatID: ownerID, Text: "hello"}); handled {
		t.Fatalf("plain text must fall through to the conversation")
	}
}

func TestPanelStatsAndPending(t *testing.T) {
	f := newFixture(t)
	panel := f.say(adminID, "/admin")
	if !hasButton(panel.Keyboard, "stats") || !hasButton(panel.Keyboard, "pending_ads") {
		t.Fatalf("unexpected panel: %+v", panel)
	}

	empty := f.press(adminID, "pending_ads")
	if empty.Text != i18n.Text(domain.LangUz, "admin_no_pending") {
		t.Fatalf("expected empty pending list, got %q", empty.Text)
	}

	ad := f.pendingEmployerAd()
	list := f.press(adminID, "pending_ads")
	if !hasButton(list.Keyboard, fmt.Sprintf("view_pending_%d", ad.ID)) {
		t.Fatalf("expected pending ad button, got %+v", list.Keyboard)
	}
	view := f.press(adminID, fmt.Sprintf("view_pending_%d", ad.ID))
	if !hasButton(view.Keyboard, fmt.Sprintf("approve_%d", ad.ID)) {
		t.Fatalf("expected moderation keyboard, got %+v", view.Keyboard)
	}

	stats := f.press(adminID, "stats")
	if !stats.HTML || !strings.Contains(stats.Text, "Jami: 1") {
		t.Fatalf("unexpected stats: %q", stats.Text)
	}

	exit := f.press(adminID, "exit_admin")
	if exit.Text != i18n.Text(domain.LangUz, "welcome") || !hasButton(exit.Keyboard, "lang_uz") {
		t.Fatalf("expected welcome screen on exit, got %+v", exit)
	}
}

func TestCategoryManagement(t *testing.T) {
	f := newFixture(t)

	f.press(adminID, "add_category")
	if reply := f.say(adminID, "Frontend Developer"); reply.Text != i18n.Text(domain.LangUz, "admin_category_duplicate") {
		t.Fatalf("expected duplicate, got %q", reply.Text)
	}
	if reply := f.say(adminID, "X"); reply.Text != i18n.Format(domain.LangUz, "admin_category_length", 2, 50) {
		t.Fatalf("expected length error, got %q", reply.Text)
	}
	if reply := f.say(adminID, "Mobile"); reply.Text != i18n.Format(domain.LangUz, "admin_category_added", "Mobile") {
		t.Fatalf("expected added, got %q", reply.Text)
	}
	if _, handled := f.handle(chat.Event{UserID: adminID, ChatID: adminID, Text: "Stray"}); handled {
		t.Fatalf("dialog must close after a successful add")
	}

	mobile, ok, err := f.store.GetCategoryByName("Mobile")
	if err != nil || !ok {
		t.Fatalf("expected Mobile category: ok=%v err=%v", ok, err)
	}
	list := f.press(adminID, "list_categories")
	if !hasButton(list.Keyboard, fmt.Sprintf("edit_category_%d", mobile.ID)) {
		t.Fatalf("expected category button, got %+v", list.Keyboard)
	}

	f.press(adminID, fmt.Sprintf("edit_cat_name_%d", mobile.ID))
	if reply := f.say(adminID, "Mobile Developer"); reply.Text != i18n.Format(domain.LangUz, "admin_category_renamed", "Mobile Developer") {
		t.Fatalf("expected renamed, got %q", reply.Text)
	}

	confirm := f.press(adminID, fmt.Sprintf("delete_cat_%d", mobile.ID))
	if !hasButton(confirm.Keyboard, fmt.Sprintf("confirm_delete_cat_%d", mobile.ID)) {
		t.Fatalf("expected delete confirmation, got %+v", confirm.Keyboard)
	}
	f.press(adminID, fmt.Sprintf("confirm_delete_cat_%d", mobile.ID))
	if _, ok, _ := f.store.GetCategory(mobile.ID); ok {
		t.Fatalf("expected category to be deleted")
	}
	gone := f.press(adminID, fmt.Sprintf("edit_category_%d", mobile.ID))
	if !gone.Notice || gone.Text != i18n.Text(domain.LangUz, "admin_category_not_found") {
		t.Fatalf("expected not found notice, got %+v", gone)
	}
}

func TestStudentReplyRelay(t *testing.T) {
	f := newFixture(t)
	if _, err := f.store.UpsertUser(domain.User{ID: 4, Role: domain.RoleStudent, Language: domain.LangUz}); err != nil {
		t.Fatalf("seed student: %v", err)
	}
	if _, err := f.store.CreateStudentMessage(domain.StudentMessage{UserID: 4, MessageID: 10, GroupMessageID: 500, Name: "Ali", Type: domain.MessageSuggest, Text: "Dars qachon?"}); err != nil {
		t.Fatalf("seed message: %v", err)
	}

	replies, handled := f.handle(chat.Event{UserID: adminID, ChatID: -100, Text: "Ertaga soat 10da", ReplyToMessageID: 500})
	if !handled || len(replies) != 1 || replies[0].Text != i18n.Text(domain.LangUz, "admin_reply_sent") {
		t.Fatalf("unexpected relay result: handled=%v %+v", handled, replies)
	}
	student := f.messenger.to(chat.ChatID(4))
	if len(student) != 1 || !strings.Contains(student[0].Text, "Ertaga soat 10da") {
		t.Fatalf("expected reply delivered to student, got %+v", student)
	}

	replies, _ = f.handle(chat.Event{UserID: adminID, ChatID: -100, Text: "?", ReplyToMessageID: 501})
	if len(replies) != 1 || replies[0].Text != i18n.Text(domain.LangUz, "admin_student_not_found") {
		t.Fatalf("expected not found notice, got %+v", replies)
	}

	f.messenger.failTo = map[chat.Target]error{chat.ChatID(4): errors.New("blocked")}
	replies, _ = f.handle(chat.Event{UserID: adminID, ChatID: -100, Text: "Yana", ReplyToMessageID: 500})
	if len(replies) != 1 || replies[0].Text != i18n.Text(domain.LangUz, "admin_reply_failed") {
		t.Fatalf("expected failure notice, got %+v", replies)
	}
}

func TestStudentReplyIgnoresNonAdmins(t *testing.T) {
	f := newFixture(t)
	if _, err := f.store.CreateStudentMessage(domain.StudentMessage{UserID: 4, MessageID: 10, GroupMessageID: 500, Name: "Ali", Type: domain.MessageSuggest, Text: "Dars qachon?"}); err != nil {
		t.Fatalf("seed message: %v", err)
	}

	replies, handled := f.handle(chat.Event{UserID: 555, ChatID: -100, Text: "Men ham bilmayman", ReplyToMessageID: 500})
	if !handled || len(replies) != 0 {
		t.Fatalf("expected silent drop, got handled=%v %+v", handled, replies)
	}
	if got := f.messenger.to(chat.ChatID(4)); len(got) != 0 {
		t.Fatalf("non-admin reply must not reach the student, got %+v", got)
	}
	msgs, err := f.store.ListStudentMessagesByUser(4)
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("expected store untouched, got %d messages", len(msgs))
	}
}

func TestDispatcherQueuesAndHandlesJobs(t *testing.T) {
	f := newFixture(t)
	q := &fakeQueue{}
	d := NewDispatcher(f.svc, q)
	ad := f.pendingEmployerAd()

	if err := d.Forward(context.Background(), ad.ID); err != nil {
		t.Fatalf("forward: %v", err)
	}
	if len(q.jobs) != 1 || q.jobs[0].Kind != queue.KindModerate {
		t.Fatalf("expected queued moderation job, got %+v", q.jobs)
	}
	if len(f.messenger.to(vacancyGroup)) != 0 {
		t.Fatalf("queued forward must not post inline")
	}
	if err := d.HandleJob(context.Background(), q.jobs[0]); err != nil {
		t.Fatalf("handle job: %v", err)
	}
	if len(f.messenger.to(vacancyGroup)) != 1 {
		t.Fatalf("expected job to post to the vacancy group")
	}

	if _, err := f.ads.Approve(ad.ID, adminID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	reply := f.press(adminID, fmt.Sprintf("republish_%d", ad.ID))
	if reply.Text != i18n.Format(domain.LangUz, "admin_republish_queued", ad.ID) {
		t.Fatalf("expected queued republish, got %q", reply.Text)
	}
	if err := d.HandleJob(context.Background(), q.jobs[1]); err != nil {
		t.Fatalf("publish job: %v", err)
	}
	if len(f.messenger.to(mainChannel)) != 1 {
		t.Fatalf("expected publish job to post to the channel")
	}
	if err := d.HandleJob(context.Background(), queue.Job{Kind: "unknown"}); err == nil {
		t.Fatalf("expected error for unknown job kind")
	}
}

func TestDispatcherDropsJobsForUnavailableAds(t *testing.T) {
	f := newFixture(t)
	d := NewDispatcher(f.svc, &fakeQueue{})
	ad := f.pendingEmployerAd()
	if _, err := f.ads.Approve(ad.ID, adminID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := f.ads.Delete(ad.ID, ownerID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if err := d.HandleJob(context.Background(), queue.Job{ID: "j1", Kind: queue.KindPublish, AdID: ad.ID}); err != nil {
		t.Fatalf("publish job for deleted ad should finish, got %v", err)
	}
	if err := d.HandleJob(context.Background(), queue.Job{ID: "j2", Kind: queue.KindPublish, AdID: 9999}); err != nil {
		t.Fatalf("publish job for missing ad should finish, got %v", err)
	}
	if err := d.HandleJob(context.Background(), queue.Job{ID: "j3", Kind: queue.KindModerate, AdID: 9999}); err != nil {
		t.Fatalf("moderation job for missing ad should finish, got %v", err)
	}
	if len(f.messenger.to(mainChannel)) != 0 {
		t.Fatalf("nothing should be published")
	}

	f.messenger.failTo = map[chat.Target]error{mainChannel: errors.New("telegram down")}
	live := f.pendingEmployerAd()
	if _, err := f.ads.Approve(live.ID, adminID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := d.HandleJob(context.Background(), queue.Job{ID: "j4", Kind: queue.KindPublish, AdID: live.ID}); err == nil {
		t.Fatalf("transport failures must stay retryable")
	}
}

func TestDispatcherFallsBackInline(t *testing.T) {
	f := newFixture(t)
	d := NewDispatcher(f.svc, &fakeQueue{err: errors.New("redis down")})
	ad := f.pendingEmployerAd()
	if err := d.Forward(context.Background(), ad.ID); err != nil {
		t.Fatalf("forward: %v", err)
	}
	if len(f.messenger.to(vacancyGroup)) != 1 {
		t.Fatalf("expected inline forward when the queue is unavailable")
	}
}
