package conversation

import (
	"fmt"

	"adsbot/internal/i18n"
	"adsbot/pkg/domain"
	"adsbot/services/bot/internal/chat"
	"adsbot/services/bot/internal/render"
)

// start registers the user, drops any unfinished form and asks for the
// language.
func (e *Engine) start(ev chat.Event) ([]chat.Reply, error) {
	user, err := e.users.UpsertUser(domain.User{ID: ev.UserID, Username: ev.Username})
	if err != nil {
		return e.failed(domain.DefaultLanguage, fmt.Errorf("upsert user: %w", err))
	}
	e.clearSession(ev.UserID)
	lang := domain.ParseLanguage(string(user.Language))
	return []chat.Reply{chat.Text(i18n.Text(lang, "welcome"), render.LanguageKeyboard())}, nil
}

func (e *Engine) chooseLanguage(t *turn, code string) ([]chat.Reply, error) {
	lang := domain.ParseLanguage(code)
	if _, err := e.users.UpsertUser(domain.User{ID: t.user.ID, Username: t.ev.Username, Language: lang}); err != nil {
		return e.failed(t.lang, fmt.Errorf("set language: %w", err))
	}
	return []chat.Reply{{
		Text:     i18n.Text(lang, "select_role"),
		Keyboard: render.RoleKeyboard(lang),
		Edit:     true,
	}}, nil
}

func (e *Engine) chooseRole(t *turn, role domain.Role) ([]chat.Reply, error) {
	if !role.Valid() {
		return t.notice("choose_from_menu"), nil
	}
	user, err := e.users.UpsertUser(domain.User{ID: t.user.ID, Username: t.ev.Username, Role: role})
	if err != nil {
		return e.failed(t.lang, fmt.Errorf("set role: %w", err))
	}
	e.clearSession(t.user.ID)
	return []chat.Reply{
		{Text: i18n.Format(t.lang, "welcome_as", render.RoleName(t.lang, user.Role)), Edit: true},
		render.MainMenuReply(t.lang, user.Role),
	}, nil
}

// startFlow opens the form of flow after checking the role and the ad quota.
func (e *Engine) startFlow(t *turn, flow Flow) ([]chat.Reply, error) {
	if flow == FlowNone {
		return []chat.Reply{chat.Text(i18n.Text(t.lang, "select_role"), render.RoleKeyboard(t.lang))}, nil
	}
	if flow != flowForRole(t.user.Role) {
		return t.notice("forbidden"), nil
	}
	if flow != FlowStudent {
		n, err := e.ads.CountByOwner(t.user.ID)
		if err != nil {
			return e.failed(t.lang, fmt.Errorf("count ads: %w", err))
		}
		if n >= e.maxAds {
			return []chat.Reply{chat.Text(i18n.Format(t.lang, "max_ads_limit", e.maxAds), nil)}, nil
		}
	}
	first := fieldsOf(flow)[0]
	t.sess = Session{UserID: t.user.ID, Flow: flow, Step: first.key, Data: domain.Payload{}}
	if err := e.saveSession(t.sess); err != nil {
		return e.failed(t.lang, err)
	}
	prompt, err := e.prompt(t, first)
	if err != nil {
		return e.failed(t.lang, err)
	}
	return []chat.Reply{prompt}, nil
}
