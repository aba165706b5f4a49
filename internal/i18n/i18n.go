// Package i18n is the localized string table. Lookups fall back to Uzbek and
// then to the key itself.
package i18n

import (
	"fmt"

	"adsbot/pkg/domain"
)

// Text returns the string for key in lang.
func Text(lang domain.Language, key string) string {
	if s, ok := table[lang][key]; ok {
		return s
	}
	if s, ok := table[domain.DefaultLanguage][key]; ok {
		return s
	}
	return key
}

// Format looks up key and applies fmt.Sprintf with args.
func Format(lang domain.Language, key string, args ...any) string {
	return fmt.Sprintf(Text(lang, key), args...)
}

// Regions returns the selectable regions in display order.
func Regions(lang domain.Language) []string {
	if r, ok := regions[lang]; ok {
		return r
	}
	return regions[domain.DefaultLanguage]
}

// Region returns the region at index i, or false when i is out of range.
func Region(lang domain.Language, i int) (string, bool) {
	r := Regions(lang)
	if i < 0 || i >= len(r) {
		return "", false
	}
	return r[i], true
}

// StatusText is the localized label of an ad status.
func StatusText(lang domain.Language, s domain.AdStatus) string {
	switch s {
	case domain.StatusDraft:
		return Text(lang, "ad_status_draft")
	case domain.StatusPending:
		return Text(lang, "ad_status_pending")
	case domain.StatusApproved:
		return Text(lang, "ad_status_approved")
	case domain.StatusRejected:
		return Text(lang, "ad_status_rejected")
	case domain.StatusCancelled:
		return Text(lang, "ad_status_cancelled")
	case domain.StatusDeleted:
		return Text(lang, "ad_status_deleted")
	}
	return string(s)
}

// StatusEmoji is the list marker of an ad status.
func StatusEmoji(s domain.AdStatus) string {
	switch s {
	case domain.StatusDraft:
		return "📝"
	case domain.StatusPending:
		return "⏳"
	case domain.StatusApproved:
		return "✅"
	case domain.StatusRejected:
		return "❌"
	case domain.StatusCancelled:
		return "🚫"
	case domain.StatusDeleted:
		return "🗑"
	}
	return "•"
}

// LanguageName is the label shown on the language keyboard.
func LanguageName(lang domain.Language) string {
	switch lang {
	case domain.LangRu:
		return "🇷🇺 Русский"
	case domain.LangUz:
		return "🇺🇿 O'zbek"
	}
	return string(lang)
}
