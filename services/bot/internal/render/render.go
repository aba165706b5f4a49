// Package render turns ads, student messages and menus into chat replies
// shared by the user-facing and admin-facing handlers.
package render

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"adsbot/internal/i18n"
	"adsbot/pkg/domain"
	"adsbot/services/bot/internal/chat"
)

// DateLayout is the created-at format of the ad detail view.
const DateLayout = "02.01.2006 15:04"

// AdText is the HTML summary of an ad payload, one labelled line per field.
func AdText(lang domain.Language, t domain.AdType, data domain.Payload) string {
	var b strings.Builder
	b.WriteString(i18n.Text(lang, "ad_header_"+string(t)))
	b.WriteString("\n")
	for _, key := range domain.FieldsFor(t) {
		fmt.Fprintf(&b, "\n%s %s", i18n.Text(lang, "field_"+key), value(lang, data[key]))
	}
	return b.String()
}

// AdDetail extends AdText with the status and creation date.
func AdDetail(lang domain.Language, ad domain.Ad) string {
	var b strings.Builder
	b.WriteString(AdText(lang, ad.Type, ad.Data))
	if ad.File.FileID != "" {
		b.WriteString("\n" + i18n.Text(lang, "ad_detail_resume"))
	}
	b.WriteString("\n\n" + i18n.Format(lang, "ad_detail_status", i18n.StatusText(lang, ad.Status)))
	b.WriteString("\n" + i18n.Format(lang, "ad_detail_created", ad.CreatedAt.Format(DateLayout)))
	return b.String()
}

// StudentFields are the student inquiry keys with their label keys, in
// prompt order.
var StudentFields = []struct{ Key, Label string }{
	{"name", "label_name"},
	{"direction", "label_direction"},
	{"group_number", "label_group"},
	{"type", "label_type"},
	{"message", "label_message"},
}

// StudentText is the HTML review of a student inquiry.
func StudentText(lang domain.Language, data domain.Payload) string {
	var b strings.Builder
	b.WriteString(i18n.Text(lang, "student_review"))
	b.WriteString("\n")
	for _, f := range StudentFields {
		v := data[f.Key]
		if f.Key == "type" {
			v = StudentType(lang, domain.MessageType(v))
		}
		fmt.Fprintf(&b, "\n<b>%s:</b> %s", i18n.Text(lang, f.Label), value(lang, v))
	}
	return b.String()
}

// StudentType is the localized label of a student message type.
func StudentType(lang domain.Language, t domain.MessageType) string {
	switch t {
	case domain.MessageSuggest:
		return i18n.Text(lang, "student_type_suggest")
	case domain.MessageComplaint:
		return i18n.Text(lang, "student_type_complaint")
	}
	return string(t)
}

// RoleName is the localized label of a role.
func RoleName(lang domain.Language, r domain.Role) string {
	if !r.Valid() {
		return ""
	}
	return i18n.Text(lang, string(r))
}

// MainMenu is the home keyboard of a role. Graduates and employers get a
// reply keyboard; students get a single inline button.
func MainMenu(lang domain.Language, r domain.Role) *chat.Keyboard {
	t := func(key string) string { return i18n.Text(lang, key) }
	switch r {
	case domain.RoleGraduate:
		return &chat.Keyboard{Reply: [][]string{{t("create_ad")}, {t("my_ads")}, {t("contact_admin")}}}
	case domain.RoleEmployer:
		return &chat.Keyboard{Reply: [][]string{{t("create_ad")}, {t("my_ads")}, {t("browse_by_category")}, {t("contact_admin")}}}
	case domain.RoleStudent:
		return chat.Inline(chat.Row(chat.Data(t("student_send"), "student_send")))
	}
	return nil
}

// MainMenuReply is the "main menu" message of a role.
func MainMenuReply(lang domain.Language, r domain.Role) chat.Reply {
	return chat.Text(i18n.Format(lang, "main_menu_of", RoleName(lang, r)), MainMenu(lang, r))
}

func LanguageKeyboard() *chat.Keyboard {
	return chat.Inline(chat.Row(
		chat.Data(i18n.LanguageName(domain.LangUz), "lang_uz"),
		chat.Data(i18n.LanguageName(domain.LangRu), "lang_ru"),
	))
}

func RoleKeyboard(lang domain.Language) *chat.Keyboard {
	return chat.Inline(
		chat.Row(chat.Data(i18n.Text(lang, "graduate"), "role_graduate")),
		chat.Row(chat.Data(i18n.Text(lang, "employer"), "role_employer")),
		chat.Row(chat.Data(i18n.Text(lang, "student"), "role_student")),
	)
}

// ConfirmKeyboard offers the three outcomes of a finished form.
func ConfirmKeyboard(lang domain.Language) *chat.Keyboard {
	return chat.Inline(
		chat.Row(chat.Data(i18n.Text(lang, "confirm_btn"), "confirm_ad")),
		chat.Row(chat.Data(i18n.Text(lang, "edit_btn"), "edit_ad")),
		chat.Row(chat.Data(i18n.Text(lang, "cancel_btn"), "cancel_ad")),
	)
}

func RegionKeyboard(lang domain.Language) *chat.Keyboard {
	regions := i18n.Regions(lang)
	buttons := make([]chat.Button, 0, len(regions))
	for i, r := range regions {
		buttons = append(buttons, chat.Data(r, "region_"+strconv.Itoa(i)))
	}
	return chat.Inline(chat.Pairs(buttons)...)
}

// CategoryKeyboard lists categories two per row with callback data
// prefix followed by the category ID.
func CategoryKeyboard(cats []domain.Category, prefix string) *chat.Keyboard {
	buttons := make([]chat.Button, 0, len(cats))
	for _, c := range cats {
		buttons = append(buttons, chat.Data(c.Name, prefix+strconv.FormatInt(c.ID, 10)))
	}
	return chat.Inline(chat.Pairs(buttons)...)
}

func ContactKeyboard(lang domain.Language) *chat.Keyboard {
	return &chat.Keyboard{Contact: i18n.Text(lang, "share_contact")}
}

func StudentTypeKeyboard(lang domain.Language) *chat.Keyboard {
	return chat.Inline(chat.Row(
		chat.Data(i18n.Text(lang, "student_type_suggest"), "student_type_suggest"),
		chat.Data(i18n.Text(lang, "student_type_complaint"), "student_type_complaint"),
	))
}

// RemoveKeyboard hides a reply keyboard.
func RemoveKeyboard() *chat.Keyboard {
	return &chat.Keyboard{Remove: true}
}

// ModerationKeyboard carries the approve and reject buttons of ad id.
func ModerationKeyboard(id int64) *chat.Keyboard {
	sid := strconv.FormatInt(id, 10)
	return chat.Inline(chat.Row(
		chat.Data(i18n.Text(domain.LangUz, "approve_btn"), "approve_"+sid),
		chat.Data(i18n.Text(domain.LangUz, "reject_btn"), "reject_"+sid),
	))
}

func value(lang domain.Language, v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return i18n.Text(lang, "not_entered")
	}
	return html.EscapeString(v)
}
