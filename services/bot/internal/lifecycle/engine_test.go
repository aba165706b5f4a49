package lifecycle

import (
	"errors"
	"testing"
	"time"

	"adsbot/pkg/domain"
	"adsbot/pkg/store"
)

func employerPayload(category string) domain.Payload {
	return domain.Payload{
		"company":  "Acme",
		"name":     "Aziz",
		"age":      "25",
		"category": category,
		"location": "Toshkent, Chilonzor",
		"salary":   "1000",
	}
}

func newTestEngine(t *testing.T) (*Engine, *store.MemoryStore) {
	t.Helper()
	s := store.NewMemoryStore()
	e := NewEngine(s)
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	e.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return e, s
}

func countStatusChanges(t *testing.T, e *Engine, id int64) int {
	t.Helper()
	history, err := e.History(id)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	n := 0
	for _, h := range history {
		if h.Action == domain.ActionStatusChanged {
			n++
		}
	}
	return n
}

func TestCreateRejectsInvalidPayload(t *testing.T) {
	e, _ := newTestEngine(t)
	_, err := e.Create(1, domain.AdEmployer, domain.Payload{"company": "Acme"}, domain.FileRef{})
	var perr *domain.PayloadError
	if !errors.As(err, &perr) {
		t.Fatalf("expected payload error, got %v", err)
	}
	if _, err := e.Create(1, "unknown", employerPayload("SMM"), domain.FileRef{}); err == nil {
		t.Fatalf("expected unknown type to fail")
	}
}

func TestLifecycleHistoryCountsTransitions(t *testing.T) {
	e, _ := newTestEngine(t)
	ad, err := e.Create(1, domain.AdEmployer, employerPayload("SMM"), domain.FileRef{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := countStatusChanges(t, e, ad.ID); got != 0 {
		t.Fatalf("creation must not write a status entry, got %d", got)
	}
	if _, err := e.Submit(ad.ID, 1); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := e.Approve(ad.ID, 99); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := e.Delete(ad.ID, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	// draft, pending, approved, deleted
	if got := countStatusChanges(t, e, ad.ID); got != 3 {
		t.Fatalf("expected 3 status entries, got %d", got)
	}
}

func TestApproveTwiceIsStale(t *testing.T) {
	e, _ := newTestEngine(t)
	ad, _ := e.Create(1, domain.AdEmployer, employerPayload("SMM"), domain.FileRef{})
	if _, err := e.Submit(ad.ID, 1); err != nil {
		t.Fatalf("submit: %v", err)
	}
	approved, err := e.Approve(ad.ID, 99)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.ApprovedBy == nil || *approved.ApprovedBy != 99 {
		t.Fatalf("expected approver stamp, got %+v", approved.ApprovedBy)
	}
	if _, err := e.Approve(ad.ID, 98); !errors.Is(err, ErrStaleState) {
		t.Fatalf("expected stale state, got %v", err)
	}
	if _, err := e.Reject(ad.ID, 98); !errors.Is(err, ErrStaleState) {
		t.Fatalf("expected stale state on reject, got %v", err)
	}
	got, _ := e.Get(ad.ID)
	if got.Status != domain.StatusApproved {
		t.Fatalf("expected approved, got %s", got.Status)
	}
	history, _ := e.History(ad.ID)
	approvals := 0
	for _, h := range history {
		if h.NewValue == string(domain.StatusApproved) {
			approvals++
		}
	}
	if approvals != 1 {
		t.Fatalf("expected one approval entry, got %d", approvals)
	}
}

func TestSubmitTwiceIsStale(t *testing.T) {
	e, _ := newTestEngine(t)
	ad, _ := e.Create(1, domain.AdEmployer, employerPayload("SMM"), domain.FileRef{})
	if _, err := e.Submit(ad.ID, 1); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := e.Submit(ad.ID, 1); !errors.Is(err, ErrStaleState) {
		t.Fatalf("expected stale state, got %v", err)
	}
}

func TestCancelOnlyFromDraftOrPending(t *testing.T) {
	e, _ := newTestEngine(t)
	ad, _ := e.Create(1, domain.AdEmployer, employerPayload("SMM"), domain.FileRef{})
	if _, err := e.Cancel(ad.ID, 1); err != nil {
		t.Fatalf("cancel draft: %v", err)
	}
	if _, err := e.Cancel(ad.ID, 1); !errors.Is(err, ErrStaleState) {
		t.Fatalf("expected stale state, got %v", err)
	}
	if _, err := e.Delete(ad.ID, 1); err != nil {
		t.Fatalf("delete cancelled: %v", err)
	}
	if _, err := e.Delete(ad.ID, 1); !errors.Is(err, ErrStaleState) {
		t.Fatalf("deleted ads cannot be deleted again, got %v", err)
	}
}

func TestTransitionErrors(t *testing.T) {
	e, _ := newTestEngine(t)
	if _, err := e.Approve(404, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := e.Transition(1, domain.StatusDraft, 1); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestUpdateFieldRoundTrip(t *testing.T) {
	e, _ := newTestEngine(t)
	ad, _ := e.Create(1, domain.AdEmployer, employerPayload("SMM"), domain.FileRef{})
	before, _ := e.History(ad.ID)

	if _, err := e.UpdateField(ad.ID, "name", "Bekzod", 1); err != nil {
		t.Fatalf("update field: %v", err)
	}
	got, err := e.Get(ad.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Data["name"] != "Bekzod" {
		t.Fatalf("expected new name, got %q", got.Data["name"])
	}
	for key, want := range employerPayload("SMM") {
		if key == "name" {
			continue
		}
		if got.Data[key] != want {
			t.Fatalf("field %s changed: %q != %q", key, got.Data[key], want)
		}
	}
	after, _ := e.History(ad.ID)
	if len(after) != len(before)+1 {
		t.Fatalf("expected exactly one new history row, got %d -> %d", len(before), len(after))
	}
	if after[0].Action != domain.ActionFieldUpdated || after[0].OldValue != "Aziz" {
		t.Fatalf("unexpected entry %+v", after[0])
	}
}

func TestUpdateFieldGuards(t *testing.T) {
	e, _ := newTestEngine(t)
	ad, _ := e.Create(1, domain.AdEmployer, employerPayload("SMM"), domain.FileRef{})
	if _, err := e.UpdateField(ad.ID, "profession", "x", 1); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected unknown field, got %v", err)
	}
	if _, err := e.Delete(ad.ID, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := e.UpdateField(ad.ID, "name", "x", 1); !errors.Is(err, ErrStaleState) {
		t.Fatalf("expected stale state for deleted ad, got %v", err)
	}
}

func TestUpdateDataReplacesFile(t *testing.T) {
	e, _ := newTestEngine(t)
	ad, _ := e.Create(1, domain.AdEmployer, employerPayload("SMM"), domain.FileRef{FileID: "old"})
	data := employerPayload("IT Kids")
	updated, err := e.UpdateData(ad.ID, data, &domain.FileRef{FileID: "new", Path: "files/new.pdf"}, 1)
	if err != nil {
		t.Fatalf("update data: %v", err)
	}
	if updated.File.FileID != "new" || updated.Data["category"] != "IT Kids" {
		t.Fatalf("unexpected ad %+v", updated)
	}
	history, _ := e.History(ad.ID)
	if history[0].Action != domain.ActionUpdated || history[0].OldData["category"] != "SMM" || history[0].NewData["category"] != "IT Kids" {
		t.Fatalf("unexpected history %+v", history[0])
	}
}

func TestGetOwned(t *testing.T) {
	e, _ := newTestEngine(t)
	ad, _ := e.Create(1, domain.AdEmployer, employerPayload("SMM"), domain.FileRef{})
	if _, err := e.GetOwned(ad.ID, 2); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := e.GetOwned(ad.ID, 1); err != nil {
		t.Fatalf("owner lookup: %v", err)
	}
	_, _ = e.Delete(ad.ID, 1)
	if _, err := e.GetOwned(ad.ID, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted ads are hidden from owners, got %v", err)
	}
	if _, err := e.Get(ad.ID); err != nil {
		t.Fatalf("direct lookup must still work: %v", err)
	}
}
