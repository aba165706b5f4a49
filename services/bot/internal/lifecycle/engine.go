package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"adsbot/pkg/domain"
	"adsbot/pkg/store"
)

// Engine owns every status change and edit of an ad. Each call maps to one
// store transaction that also appends the history entry.
type Engine struct {
	store store.AdStore
	now   func() time.Time
}

// NewEngine builds a lifecycle engine over the ad store.
func NewEngine(s store.AdStore) *Engine {
	return &Engine{store: s, now: time.Now}
}

// Create stores a new draft after checking the payload schema.
func (e *Engine) Create(ownerID int64, adType domain.AdType, data domain.Payload, file domain.FileRef) (domain.Ad, error) {
	if !adType.Valid() {
		return domain.Ad{}, fmt.Errorf("create ad: unknown type %q", adType)
	}
	if err := domain.ValidatePayload(adType, data); err != nil {
		return domain.Ad{}, fmt.Errorf("create ad: %w", err)
	}
	now := e.now().UTC()
	ad, err := e.store.CreateAd(domain.Ad{
		UserID:    ownerID,
		Type:      adType,
		Status:    domain.StatusDraft,
		Data:      data,
		File:      file,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return domain.Ad{}, fmt.Errorf("create ad: %w", err)
	}
	return ad, nil
}

// Get returns an ad in any status, including deleted.
func (e *Engine) Get(id int64) (domain.Ad, error) {
	ad, ok, err := e.store.GetAd(id)
	if err != nil {
		return domain.Ad{}, fmt.Errorf("get ad: %w", err)
	}
	if !ok {
		return domain.Ad{}, ErrNotFound
	}
	return ad, nil
}

// GetOwned returns the ad only when ownerID owns it. Deleted ads are
// reported as not found.
func (e *Engine) GetOwned(id, ownerID int64) (domain.Ad, error) {
	ad, err := e.Get(id)
	if err != nil {
		return domain.Ad{}, err
	}
	if ad.Status == domain.StatusDeleted {
		return domain.Ad{}, ErrNotFound
	}
	if ad.UserID != ownerID {
		return domain.Ad{}, ErrForbidden
	}
	return ad, nil
}

// Submit sends a draft to moderation.
func (e *Engine) Submit(id, actor int64) (domain.Ad, error) {
	return e.Transition(id, domain.StatusPending, actor)
}

// Approve accepts a pending ad.
func (e *Engine) Approve(id, admin int64) (domain.Ad, error) {
	return e.Transition(id, domain.StatusApproved, admin)
}

// Reject declines a pending ad.
func (e *Engine) Reject(id, admin int64) (domain.Ad, error) {
	return e.Transition(id, domain.StatusRejected, admin)
}

// Cancel withdraws a draft or pending ad.
func (e *Engine) Cancel(id, actor int64) (domain.Ad, error) {
	return e.Transition(id, domain.StatusCancelled, actor)
}

// Delete soft-deletes an ad from any non-deleted status.
func (e *Engine) Delete(id, actor int64) (domain.Ad, error) {
	return e.Transition(id, domain.StatusDeleted, actor)
}

// Transition moves the ad to status to. It fails with ErrStaleState when the
// stored status does not allow the move.
func (e *Engine) Transition(id int64, to domain.AdStatus, actor int64) (domain.Ad, error) {
	from, err := allowedFrom(to)
	if err != nil {
		return domain.Ad{}, err
	}
	ad, err := e.store.TransitionAd(store.Transition{
		AdID:  id,
		From:  from,
		To:    to,
		Actor: actor,
		At:    e.now(),
	})
	if err != nil {
		return domain.Ad{}, mapStoreErr("transition ad", err)
	}
	return ad, nil
}

// UpdateField replaces one payload key and records old and new value.
func (e *Engine) UpdateField(id int64, field, value string, actor int64) (domain.Ad, error) {
	ad, err := e.Get(id)
	if err != nil {
		return domain.Ad{}, err
	}
	if ad.Status == domain.StatusDeleted {
		return domain.Ad{}, ErrStaleState
	}
	if !knownField(ad.Type, field) {
		return domain.Ad{}, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	updated, err := e.store.UpdateAdField(id, field, value, actor, e.now())
	if err != nil {
		return domain.Ad{}, mapStoreErr("update ad field", err)
	}
	return updated, nil
}

// UpdateData replaces the whole payload and, when file is non-nil, the
// attached file.
func (e *Engine) UpdateData(id int64, data domain.Payload, file *domain.FileRef, actor int64) (domain.Ad, error) {
	ad, err := e.Get(id)
	if err != nil {
		return domain.Ad{}, err
	}
	if ad.Status == domain.StatusDeleted {
		return domain.Ad{}, ErrStaleState
	}
	if err := domain.ValidatePayload(ad.Type, data); err != nil {
		return domain.Ad{}, fmt.Errorf("update ad data: %w", err)
	}
	updated, err := e.store.UpdateAdData(id, data, file, actor, e.now())
	if err != nil {
		return domain.Ad{}, mapStoreErr("update ad data", err)
	}
	return updated, nil
}

// History returns the audit trail of an ad, newest first.
func (e *Engine) History(id int64) ([]domain.AdHistoryEntry, error) {
	return e.store.ListAdHistory(id)
}

// ListByOwner returns the owner's non-deleted ads, newest first.
func (e *Engine) ListByOwner(ownerID int64) ([]domain.Ad, error) {
	return e.store.ListAdsByOwner(ownerID)
}

// CountByOwner counts the owner's non-deleted ads.
func (e *Engine) CountByOwner(ownerID int64) (int, error) {
	return e.store.CountActiveAdsByOwner(ownerID)
}

func allowedFrom(to domain.AdStatus) ([]domain.AdStatus, error) {
	switch to {
	case domain.StatusPending:
		return []domain.AdStatus{domain.StatusDraft}, nil
	case domain.StatusApproved, domain.StatusRejected:
		return []domain.AdStatus{domain.StatusPending}, nil
	case domain.StatusCancelled:
		return []domain.AdStatus{domain.StatusDraft, domain.StatusPending}, nil
	case domain.StatusDeleted:
		return []domain.AdStatus{
			domain.StatusDraft,
			domain.StatusPending,
			domain.StatusApproved,
			domain.StatusRejected,
			domain.StatusCancelled,
		}, nil
	case domain.StatusDraft:
		return nil, fmt.Errorf("%w: to %s", ErrInvalidTransition, to)
	}
	return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
}

func knownField(t domain.AdType, field string) bool {
	for _, f := range domain.FieldsFor(t) {
		if f == field {
			return true
		}
	}
	return false
}

func mapStoreErr(op string, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, store.ErrStatusConflict):
		return ErrStaleState
	}
	return fmt.Errorf("%s: %w", op, err)
}
