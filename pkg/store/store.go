package store

import (
	"time"

	"adsbot/pkg/domain"
)

// Transition describes a conditional status change. The change applies only
// when the stored status is one of From.
type Transition struct {
	AdID  int64
	From  []domain.AdStatus
	To    domain.AdStatus
	Actor int64
	At    time.Time
}

// UserStore persists bot users.
type UserStore interface {
	// UpsertUser creates the user or refreshes it. Username is always
	// overwritten; empty Role or Language keep the stored value.
	UpsertUser(domain.User) (domain.User, error)
	GetUser(id int64) (domain.User, bool, error)
	UserStats() (domain.UserStats, error)
}

// AdStore persists ads. Every mutation appends its history entry in the
// same transaction.
type AdStore interface {
	CreateAd(domain.Ad) (domain.Ad, error)
	GetAd(id int64) (domain.Ad, bool, error)
	TransitionAd(Transition) (domain.Ad, error)
	UpdateAdField(id int64, field, value string, actor int64, at time.Time) (domain.Ad, error)
	UpdateAdData(id int64, data domain.Payload, file *domain.FileRef, actor int64, at time.Time) (domain.Ad, error)
	ListAdsByOwner(userID int64) ([]domain.Ad, error)
	CountActiveAdsByOwner(userID int64) (int, error)
	// ListPendingAds returns pending ads oldest submission first. An empty
	// adType matches every type.
	ListPendingAds(adType domain.AdType) ([]domain.Ad, error)
	ListApprovedByCategory(category string, limit int) ([]domain.Ad, error)
	AdStats() (domain.AdStats, error)
	ListAdHistory(adID int64) ([]domain.AdHistoryEntry, error)
	ListActiveFilePaths() ([]string, error)
}

// CategoryStore persists the shared taxonomy.
type CategoryStore interface {
	CreateCategory(name string) (domain.Category, error)
	RenameCategory(id int64, name string) error
	DeleteCategory(id int64) error
	GetCategory(id int64) (domain.Category, bool, error)
	GetCategoryByName(name string) (domain.Category, bool, error)
	ListCategories() ([]domain.Category, error)
	CategoryCount() (int, error)
}

// StudentMessageStore persists forwarded student inquiries.
type StudentMessageStore interface {
	CreateStudentMessage(domain.StudentMessage) (domain.StudentMessage, error)
	GetStudentMessageByGroupMessageID(groupMessageID int) (domain.StudentMessage, bool, error)
	ListStudentMessagesByUser(userID int64) ([]domain.StudentMessage, error)
}

// Store defines persistence operations for users, ads, categories and
// student messages.
type Store interface {
	UserStore
	AdStore
	CategoryStore
	StudentMessageStore
}

func statusAllowed(status domain.AdStatus, from []domain.AdStatus) bool {
	for _, s := range from {
		if s == status {
			return true
		}
	}
	return false
}

func applyTransition(ad *domain.Ad, t Transition) {
	at := t.At.UTC()
	ad.Status = t.To
	ad.UpdatedAt = at
	switch t.To {
	case domain.StatusPending:
		ad.SubmittedAt = &at
	case domain.StatusApproved:
		actor := t.Actor
		ad.ApprovedAt = &at
		ad.ApprovedBy = &actor
	}
}

func statusHistory(adID int64, old domain.AdStatus, t Transition) domain.AdHistoryEntry {
	return domain.AdHistoryEntry{
		AdID:      adID,
		Action:    domain.ActionStatusChanged,
		FieldName: "status",
		OldValue:  string(old),
		NewValue:  string(t.To),
		ChangedBy: t.Actor,
		CreatedAt: t.At.UTC(),
	}
}
