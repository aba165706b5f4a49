// Package moderation answers the read-side questions of the admin workflow:
// the pending queue, category browsing and statistics.
package moderation

import (
	"fmt"

	"adsbot/pkg/domain"
	"adsbot/pkg/store"
)

// DefaultBrowseLimit caps category browsing when the caller passes no limit.
const DefaultBrowseLimit = 20

const titleRunes = 30

// Summary is one row of the admin pending list.
type Summary struct {
	AdID    int64
	Type    domain.AdType
	Title   string
	HasFile bool
}

// Stats aggregates user and ad counts for the admin panel.
type Stats struct {
	Users domain.UserStats
	Ads   domain.AdStats
}

type Queries struct {
	store store.Store
}

func NewQueries(s store.Store) *Queries {
	return &Queries{store: s}
}

// Pending returns pending ads oldest submission first. An empty adType
// returns every type.
func (q *Queries) Pending(adType domain.AdType) ([]domain.Ad, error) {
	ads, err := q.store.ListPendingAds(adType)
	if err != nil {
		return nil, fmt.Errorf("list pending ads: %w", err)
	}
	return ads, nil
}

// PendingSummaries returns at most limit pending rows for the admin list.
func (q *Queries) PendingSummaries(limit int) ([]Summary, error) {
	ads, err := q.Pending("")
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(ads) > limit {
		ads = ads[:limit]
	}
	out := make([]Summary, 0, len(ads))
	for _, ad := range ads {
		out = append(out, Summary{
			AdID:    ad.ID,
			Type:    ad.Type,
			Title:   truncate(ad.Title(), titleRunes),
			HasFile: ad.File.FileID != "",
		})
	}
	return out, nil
}

// BrowseCategory returns approved ads whose category label equals name,
// newest approval first.
func (q *Queries) BrowseCategory(name string, limit int) ([]domain.Ad, error) {
	if limit <= 0 {
		limit = DefaultBrowseLimit
	}
	ads, err := q.store.ListApprovedByCategory(name, limit)
	if err != nil {
		return nil, fmt.Errorf("browse category: %w", err)
	}
	return ads, nil
}

// Stats returns user and ad counts.
func (q *Queries) Stats() (Stats, error) {
	users, err := q.store.UserStats()
	if err != nil {
		return Stats{}, fmt.Errorf("user stats: %w", err)
	}
	ads, err := q.store.AdStats()
	if err != nil {
		return Stats{}, fmt.Errorf("ad stats: %w", err)
	}
	return Stats{Users: users, Ads: ads}, nil
}

// Percent returns part as a percentage of total, or zero for an empty total.
func Percent(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
