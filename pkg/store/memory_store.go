package store

import (
	"sort"
	"sync"
	"time"

	"adsbot/pkg/domain"
)

// MemoryStore keeps every entity in-process. It honors the same contract as
// GormStore and backs tests and the "memory" store driver.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[int64]domain.User
	ads      map[int64]domain.Ad
	history  []domain.AdHistoryEntry
	cats     map[int64]domain.Category
	students []domain.StudentMessage

	nextAd      int64
	nextHistory int64
	nextCat     int64
	nextStudent int64
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[int64]domain.User),
		ads:   make(map[int64]domain.Ad),
		cats:  make(map[int64]domain.Category),
	}
}

// UpsertUser registers a user or refreshes username, role and language.
func (m *MemoryStore) UpsertUser(u domain.User) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.users[u.ID]
	if !ok {
		if u.CreatedAt.IsZero() {
			u.CreatedAt = time.Now().UTC()
		}
		if u.Language == "" {
			u.Language = domain.DefaultLanguage
		}
		m.users[u.ID] = u
		return u, nil
	}
	existing.Username = u.Username
	if u.Role != domain.RoleUnset {
		existing.Role = u.Role
	}
	if u.Language != "" {
		existing.Language = u.Language
	}
	m.users[u.ID] = existing
	return existing, nil
}

// GetUser returns a user by ID.
func (m *MemoryStore) GetUser(id int64) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	return u, ok, nil
}

// UserStats counts users per role.
func (m *MemoryStore) UserStats() (domain.UserStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats := domain.UserStats{Total: len(m.users)}
	for _, u := range m.users {
		switch u.Role {
		case domain.RoleGraduate:
			stats.Graduates++
		case domain.RoleEmployer:
			stats.Employers++
		case domain.RoleStudent:
			stats.Students++
		case domain.RoleUnset:
		}
	}
	return stats, nil
}

// CreateAd stores the ad and its "created" history entry.
func (m *MemoryStore) CreateAd(ad domain.Ad) (domain.Ad, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextAd++
	ad.ID = m.nextAd
	ad.Data = ad.Data.Clone()
	if ad.CreatedAt.IsZero() {
		ad.CreatedAt = time.Now().UTC()
	}
	if ad.UpdatedAt.IsZero() {
		ad.UpdatedAt = ad.CreatedAt
	}
	m.ads[ad.ID] = ad
	m.appendHistory(domain.AdHistoryEntry{
		AdID:      ad.ID,
		Action:    domain.ActionCreated,
		NewData:   ad.Data.Clone(),
		ChangedBy: ad.UserID,
		CreatedAt: ad.CreatedAt,
	})
	return copyAd(ad), nil
}

// GetAd returns an ad by ID regardless of status.
func (m *MemoryStore) GetAd(id int64) (domain.Ad, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ad, ok := m.ads[id]
	if !ok {
		return domain.Ad{}, false, nil
	}
	return copyAd(ad), true, nil
}

// TransitionAd moves an ad to t.To when its current status is in t.From.
func (m *MemoryStore) TransitionAd(t Transition) (domain.Ad, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ad, ok := m.ads[t.AdID]
	if !ok {
		return domain.Ad{}, ErrNotFound
	}
	current := ad.Status
	if !statusAllowed(current, t.From) {
		return domain.Ad{}, ErrStatusConflict
	}
	applyTransition(&ad, t)
	m.ads[ad.ID] = ad
	m.appendHistory(statusHistory(ad.ID, current, t))
	return copyAd(ad), nil
}

// UpdateAdField merges one payload key and records the old and new value.
func (m *MemoryStore) UpdateAdField(id int64, field, value string, actor int64, at time.Time) (domain.Ad, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ad, ok := m.ads[id]
	if !ok {
		return domain.Ad{}, ErrNotFound
	}
	old := ad.Data[field]
	ad.Data = ad.Data.Clone()
	ad.Data[field] = value
	ad.UpdatedAt = at.UTC()
	m.ads[id] = ad
	m.appendHistory(domain.AdHistoryEntry{
		AdID:      id,
		Action:    domain.ActionFieldUpdated,
		FieldName: field,
		OldValue:  old,
		NewValue:  value,
		ChangedBy: actor,
		CreatedAt: ad.UpdatedAt,
	})
	return copyAd(ad), nil
}

// UpdateAdData replaces the payload and, when file is non-nil, the file
// reference.
func (m *MemoryStore) UpdateAdData(id int64, data domain.Payload, file *domain.FileRef, actor int64, at time.Time) (domain.Ad, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ad, ok := m.ads[id]
	if !ok {
		return domain.Ad{}, ErrNotFound
	}
	oldData := ad.Data
	ad.Data = data.Clone()
	if file != nil {
		ad.File = *file
	}
	ad.UpdatedAt = at.UTC()
	m.ads[id] = ad
	m.appendHistory(domain.AdHistoryEntry{
		AdID:      id,
		Action:    domain.ActionUpdated,
		OldData:   oldData.Clone(),
		NewData:   ad.Data.Clone(),
		ChangedBy: actor,
		CreatedAt: ad.UpdatedAt,
	})
	return copyAd(ad), nil
}

// ListAdsByOwner returns the owner's non-deleted ads, newest first.
func (m *MemoryStore) ListAdsByOwner(userID int64) ([]domain.Ad, error) {
	res := m.filterAds(func(ad domain.Ad) bool {
		return ad.UserID == userID && ad.Status != domain.StatusDeleted
	})
	sort.Slice(res, func(i, j int) bool {
		if !res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].CreatedAt.After(res[j].CreatedAt)
		}
		return res[i].ID > res[j].ID
	})
	return res, nil
}

// CountActiveAdsByOwner counts the owner's non-deleted ads.
func (m *MemoryStore) CountActiveAdsByOwner(userID int64) (int, error) {
	ads, err := m.ListAdsByOwner(userID)
	return len(ads), err
}

// ListPendingAds returns pending ads in submission order.
func (m *MemoryStore) ListPendingAds(adType domain.AdType) ([]domain.Ad, error) {
	res := m.filterAds(func(ad domain.Ad) bool {
		return ad.Status == domain.StatusPending && (adType == "" || ad.Type == adType)
	})
	sort.Slice(res, func(i, j int) bool {
		a, b := res[i].SubmittedAt, res[j].SubmittedAt
		switch {
		case a == nil && b != nil:
			return true
		case a != nil && b == nil:
			return false
		case a != nil && b != nil && !a.Equal(*b):
			return a.Before(*b)
		}
		return res[i].ID < res[j].ID
	})
	return res, nil
}

// ListApprovedByCategory matches employer "category" and graduate
// "profession" against name, newest approval first.
func (m *MemoryStore) ListApprovedByCategory(category string, limit int) ([]domain.Ad, error) {
	if limit <= 0 {
		limit = 20
	}
	res := m.filterAds(func(ad domain.Ad) bool {
		field := ad.Type.CategoryField()
		return ad.Status == domain.StatusApproved && field != "" && ad.Data[field] == category
	})
	sort.Slice(res, func(i, j int) bool {
		a, b := res[i].ApprovedAt, res[j].ApprovedAt
		switch {
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		case a != nil && b != nil && !a.Equal(*b):
			return a.After(*b)
		}
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})
	if len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

// AdStats counts ads per status.
func (m *MemoryStore) AdStats() (domain.AdStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats := domain.AdStats{Total: len(m.ads)}
	for _, ad := range m.ads {
		switch ad.Status {
		case domain.StatusApproved:
			stats.Approved++
		case domain.StatusPending:
			stats.Pending++
		case domain.StatusRejected:
			stats.Rejected++
		case domain.StatusCancelled:
			stats.Cancelled++
		case domain.StatusDraft, domain.StatusDeleted:
		}
	}
	return stats, nil
}

// ListAdHistory returns the audit trail of an ad, newest first.
func (m *MemoryStore) ListAdHistory(adID int64) ([]domain.AdHistoryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.AdHistoryEntry, 0)
	for i := len(m.history) - 1; i >= 0; i-- {
		if m.history[i].AdID == adID {
			res = append(res, m.history[i])
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})
	return res, nil
}

// ListActiveFilePaths returns file paths referenced by non-deleted ads.
func (m *MemoryStore) ListActiveFilePaths() ([]string, error) {
	ads := m.filterAds(func(ad domain.Ad) bool {
		return ad.Status != domain.StatusDeleted && ad.File.Path != ""
	})
	paths := make([]string, 0, len(ads))
	for _, ad := range ads {
		paths = append(paths, ad.File.Path)
	}
	return paths, nil
}

// CreateCategory inserts a category with a unique name.
func (m *MemoryStore) CreateCategory(name string) (domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.cats {
		if c.Name == name {
			return domain.Category{}, ErrDuplicate
		}
	}
	m.nextCat++
	c := domain.Category{ID: m.nextCat, Name: name, CreatedAt: time.Now().UTC()}
	m.cats[c.ID] = c
	return c, nil
}

// RenameCategory changes a category name.
func (m *MemoryStore) RenameCategory(id int64, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cats[id]
	if !ok {
		return ErrNotFound
	}
	for _, other := range m.cats {
		if other.ID != id && other.Name == name {
			return ErrDuplicate
		}
	}
	c.Name = name
	m.cats[id] = c
	return nil
}

// DeleteCategory removes a category permanently.
func (m *MemoryStore) DeleteCategory(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cats[id]; !ok {
		return ErrNotFound
	}
	delete(m.cats, id)
	return nil
}

// GetCategory returns a category by ID.
func (m *MemoryStore) GetCategory(id int64) (domain.Category, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.cats[id]
	return c, ok, nil
}

// GetCategoryByName returns a category by exact name.
func (m *MemoryStore) GetCategoryByName(name string) (domain.Category, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.cats {
		if c.Name == name {
			return c, true, nil
		}
	}
	return domain.Category{}, false, nil
}

// ListCategories returns all categories ordered by name.
func (m *MemoryStore) ListCategories() ([]domain.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Category, 0, len(m.cats))
	for _, c := range m.cats {
		res = append(res, c)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res, nil
}

// CategoryCount returns the number of categories.
func (m *MemoryStore) CategoryCount() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.cats), nil
}

// CreateStudentMessage records a forwarded student inquiry.
func (m *MemoryStore) CreateStudentMessage(msg domain.StudentMessage) (domain.StudentMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextStudent++
	msg.ID = m.nextStudent
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	m.students = append(m.students, msg)
	return msg, nil
}

// GetStudentMessageByGroupMessageID finds the inquiry forwarded as the given
// admin-group message.
func (m *MemoryStore) GetStudentMessageByGroupMessageID(groupMessageID int) (domain.StudentMessage, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := len(m.students) - 1; i >= 0; i-- {
		if m.students[i].GroupMessageID == groupMessageID {
			return m.students[i], true, nil
		}
	}
	return domain.StudentMessage{}, false, nil
}

// ListStudentMessagesByUser returns a student's messages, newest first.
func (m *MemoryStore) ListStudentMessagesByUser(userID int64) ([]domain.StudentMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.StudentMessage, 0)
	for i := len(m.students) - 1; i >= 0; i-- {
		if m.students[i].UserID == userID {
			res = append(res, m.students[i])
		}
	}
	return res, nil
}

func (m *MemoryStore) filterAds(keep func(domain.Ad) bool) []domain.Ad {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Ad, 0)
	for _, ad := range m.ads {
		if keep(ad) {
			res = append(res, copyAd(ad))
		}
	}
	return res
}

// appendHistory expects m.mu to be held.
func (m *MemoryStore) appendHistory(entry domain.AdHistoryEntry) {
	m.nextHistory++
	entry.ID = m.nextHistory
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	m.history = append(m.history, entry)
}

func copyAd(ad domain.Ad) domain.Ad {
	ad.Data = ad.Data.Clone()
	return ad
}
