package moderation

import (
	"testing"
	"time"

	"adsbot/pkg/domain"
	"adsbot/pkg/store"
)

type fixture struct {
	t     *testing.T
	store *store.MemoryStore
	clock time.Time
}

func newFixture(t *testing.T) *fixture {
	return &fixture{t: t, store: store.NewMemoryStore(), clock: time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)}
}

func (f *fixture) ad(adType domain.AdType, data domain.Payload, file string) domain.Ad {
	f.t.Helper()
	ad, err := f.store.CreateAd(domain.Ad{UserID: 1, Type: adType, Status: domain.StatusDraft, Data: data, File: domain.FileRef{FileID: file}})
	if err != nil {
		f.t.Fatalf("create: %v", err)
	}
	return ad
}

func (f *fixture) move(id int64, from, to domain.AdStatus) {
	f.t.Helper()
	f.clock = f.clock.Add(time.Minute)
	if _, err := f.store.TransitionAd(store.Transition{AdID: id, From: []domain.AdStatus{from}, To: to, Actor: 1, At: f.clock}); err != nil {
		f.t.Fatalf("transition %d: %v", id, err)
	}
}

func TestPendingIsFIFO(t *testing.T) {
	f := newFixture(t)
	a := f.ad(domain.AdEmployer, domain.Payload{"company": "A"}, "")
	b := f.ad(domain.AdGraduate, domain.Payload{"name": "B"}, "")
	c := f.ad(domain.AdEmployer, domain.Payload{"company": "C"}, "")
	for _, ad := range []domain.Ad{a, b, c} {
		f.move(ad.ID, domain.StatusDraft, domain.StatusPending)
	}

	q := NewQueries(f.store)
	pending, err := q.Pending("")
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 3 || pending[0].ID != a.ID || pending[1].ID != b.ID || pending[2].ID != c.ID {
		t.Fatalf("expected A, B, C order, got %+v", pending)
	}
}

func TestBrowseCategoryMatchesLabel(t *testing.T) {
	f := newFixture(t)
	first := f.ad(domain.AdEmployer, domain.Payload{"category": "Backend Developer"}, "")
	second := f.ad(domain.AdEmployer, domain.Payload{"category": "Backend Developer"}, "")
	smm := f.ad(domain.AdEmployer, domain.Payload{"category": "SMM"}, "")
	for _, ad := range []domain.Ad{first, second, smm} {
		f.move(ad.ID, domain.StatusDraft, domain.StatusPending)
		f.move(ad.ID, domain.StatusPending, domain.StatusApproved)
	}

	q := NewQueries(f.store)
	ads, err := q.BrowseCategory("Backend Developer", 0)
	if err != nil {
		t.Fatalf("browse: %v", err)
	}
	if len(ads) != 2 || ads[0].ID != second.ID || ads[1].ID != first.ID {
		t.Fatalf("expected newest approval first, got %+v", ads)
	}
}

func TestPendingSummaries(t *testing.T) {
	f := newFixture(t)
	long := f.ad(domain.AdGraduate, domain.Payload{"name": "Abdurahmonov Abdulaziz Abdullayevich"}, "file-1")
	f.move(long.ID, domain.StatusDraft, domain.StatusPending)
	other := f.ad(domain.AdEmployer, domain.Payload{"company": "Acme", "name": "Ali"}, "")
	f.move(other.ID, domain.StatusDraft, domain.StatusPending)

	q := NewQueries(f.store)
	rows, err := q.PendingSummaries(1)
	if err != nil {
		t.Fatalf("summaries: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected limit to apply, got %d", len(rows))
	}
	if !rows[0].HasFile || len([]rune(rows[0].Title)) != 30 {
		t.Fatalf("unexpected summary %+v", rows[0])
	}
	rows, _ = q.PendingSummaries(0)
	if rows[1].Title != "Acme" {
		t.Fatalf("employer title uses company, got %q", rows[1].Title)
	}
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	_, _ = f.store.UpsertUser(domain.User{ID: 1, Role: domain.RoleGraduate})
	_, _ = f.store.UpsertUser(domain.User{ID: 2, Role: domain.RoleEmployer})
	ad := f.ad(domain.AdEmployer, domain.Payload{"company": "A"}, "")
	f.move(ad.ID, domain.StatusDraft, domain.StatusPending)

	stats, err := NewQueries(f.store).Stats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Users.Total != 2 || stats.Users.Graduates != 1 || stats.Ads.Pending != 1 || stats.Ads.Total != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if Percent(1, 4) != 25 || Percent(1, 0) != 0 {
		t.Fatalf("unexpected percent")
	}
}
