package admin

import (
	"errors"
	"fmt"
	"strings"

	"adsbot/internal/i18n"
	"adsbot/pkg/domain"
	"adsbot/services/bot/internal/category"
	"adsbot/services/bot/internal/chat"
)

func (s *Service) categoryMenu() chat.Reply {
	kb := chat.Inline(
		chat.Row(chat.Data(i18n.Text(lang, "admin_list_categories_btn"), "list_categories")),
		chat.Row(chat.Data(i18n.Text(lang, "admin_add_category_btn"), "add_category")),
		backToPanel(),
	)
	return chat.Reply{Text: i18n.Text(lang, "admin_categories_title"), Keyboard: kb, Edit: true}
}

func backToCategories() []chat.Button {
	return chat.Row(chat.Data(i18n.Text(lang, "admin_back_to_categories"), "manage_categories"))
}

func (s *Service) categoryList(edit bool) ([]chat.Reply, error) {
	cats, err := s.categories.List()
	if err != nil {
		return failed(err)
	}
	buttons := make([]chat.Button, 0, len(cats))
	for _, c := range cats {
		buttons = append(buttons, chat.Data(c.Name, fmt.Sprintf("edit_category_%d", c.ID)))
	}
	rows := chat.Pairs(buttons)
	rows = append(rows,
		chat.Row(chat.Data(i18n.Text(lang, "admin_new_category_btn"), "add_category")),
		backToCategories(),
	)
	text := i18n.Text(lang, "admin_categories_list") + "\n\n" + i18n.Format(lang, "admin_categories_total", len(cats))
	return []chat.Reply{{Text: text, Keyboard: chat.Inline(rows...), Edit: edit}}, nil
}

func (s *Service) categoryActions(id int64) ([]chat.Reply, error) {
	c, err := s.categories.Get(id)
	if err != nil {
		return categoryError(err)
	}
	kb := chat.Inline(
		chat.Row(
			chat.Data(i18n.Text(lang, "edit_btn"), fmt.Sprintf("edit_cat_name_%d", id)),
			chat.Data(i18n.Text(lang, "delete_btn"), fmt.Sprintf("delete_cat_%d", id)),
		),
		chat.Row(chat.Data(i18n.Text(lang, "back"), "list_categories")),
	)
	return []chat.Reply{{Text: i18n.Format(lang, "admin_category_actions", c.Name), Keyboard: kb, Edit: true}}, nil
}

func (s *Service) askRenameCategory(adminID, id int64) ([]chat.Reply, error) {
	c, err := s.categories.Get(id)
	if err != nil {
		return categoryError(err)
	}
	s.setDialog(adminID, dialog{kind: dialogRenameCategory, categoryID: id})
	return []chat.Reply{{Text: i18n.Format(lang, "admin_category_current", c.Name), Edit: true}}, nil
}

func (s *Service) askDeleteCategory(id int64) ([]chat.Reply, error) {
	c, err := s.categories.Get(id)
	if err != nil {
		return categoryError(err)
	}
	kb := chat.Inline(chat.Row(
		chat.Data(i18n.Text(lang, "yes_delete"), fmt.Sprintf("confirm_delete_cat_%d", id)),
		chat.Data(i18n.Text(lang, "no"), fmt.Sprintf("edit_category_%d", id)),
	))
	return []chat.Reply{{Text: i18n.Format(lang, "admin_category_delete_confirm", c.Name), Keyboard: kb, Edit: true}}, nil
}

func (s *Service) deleteCategory(id int64) ([]chat.Reply, error) {
	if err := s.categories.Delete(id); err != nil {
		return categoryError(err)
	}
	kb := chat.Inline(backToCategories())
	return []chat.Reply{{Text: i18n.Text(lang, "admin_category_deleted"), Keyboard: kb, Edit: true}}, nil
}

// answerDialog consumes the text an admin typed after an add or rename
// prompt. Invalid names keep the prompt open.
func (s *Service) answerDialog(ev chat.Event, d dialog) ([]chat.Reply, error) {
	name := strings.TrimSpace(ev.Text)
	var (
		key string
		c   domain.Category
		err error
	)
	switch d.kind {
	case dialogAddCategory:
		key = "admin_category_added"
		c, err = s.categories.Create(name)
	case dialogRenameCategory:
		key = "admin_category_renamed"
		c, err = s.categories.Rename(d.categoryID, name)
	default:
		s.clearDialog(ev.UserID)
		return nil, nil
	}
	switch {
	case errors.Is(err, category.ErrDuplicateName):
		return []chat.Reply{chat.Text(i18n.Text(lang, "admin_category_duplicate"), nil)}, nil
	case errors.Is(err, category.ErrInvalidName):
		return []chat.Reply{chat.Text(i18n.Format(lang, "admin_category_length", category.MinNameLength, category.MaxNameLength), nil)}, nil
	case errors.Is(err, category.ErrNotFound):
		s.clearDialog(ev.UserID)
		return []chat.Reply{chat.Text(i18n.Text(lang, "admin_category_not_found"), chat.Inline(backToCategories()))}, nil
	case err != nil:
		s.clearDialog(ev.UserID)
		return failed(err)
	}
	s.clearDialog(ev.UserID)
	kb := chat.Inline(
		chat.Row(chat.Data(i18n.Text(lang, "admin_list_categories_btn"), "list_categories")),
		backToPanel(),
	)
	return []chat.Reply{chat.Text(i18n.Format(lang, key, c.Name), kb)}, nil
}

func categoryError(err error) ([]chat.Reply, error) {
	if errors.Is(err, category.ErrNotFound) {
		return []chat.Reply{chat.Notice(i18n.Text(lang, "admin_category_not_found"))}, nil
	}
	return failed(err)
}
