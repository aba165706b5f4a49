package conversation

import (
	"errors"
	"fmt"
	"strconv"

	"adsbot/internal/i18n"
	"adsbot/pkg/domain"
	"adsbot/services/bot/internal/category"
	"adsbot/services/bot/internal/chat"
	"adsbot/services/bot/internal/render"
)

func (e *Engine) myAds(t *turn) ([]chat.Reply, error) {
	ads, err := e.ads.ListByOwner(t.user.ID)
	if err != nil {
		return e.failed(t.lang, err)
	}
	edit := t.ev.IsCallback()
	if len(ads) == 0 {
		return []chat.Reply{{Text: i18n.Text(t.lang, "no_ads"), Edit: edit}}, nil
	}
	rows := make([][]chat.Button, 0, len(ads))
	for _, ad := range ads {
		label := fmt.Sprintf("%s #%d %s", i18n.StatusEmoji(ad.Status), ad.ID, i18n.Text(t.lang, string(ad.Type)))
		rows = append(rows, chat.Row(chat.Data(label, "ad_view_"+strconv.FormatInt(ad.ID, 10))))
	}
	return []chat.Reply{{Text: i18n.Text(t.lang, "ads_list"), Keyboard: chat.Inline(rows...), Edit: edit}}, nil
}

func (e *Engine) adDetail(t *turn, id int64, edit bool) ([]chat.Reply, error) {
	ad, err := e.ads.GetOwned(id, t.user.ID)
	if err != nil {
		return e.adError(t, err)
	}
	return []chat.Reply{e.detailReply(t, ad, edit)}, nil
}

// detailReply shows an ad with the actions its status allows.
func (e *Engine) detailReply(t *turn, ad domain.Ad, edit bool) chat.Reply {
	sid := strconv.FormatInt(ad.ID, 10)
	btn := func(key, data string) []chat.Button {
		return chat.Row(chat.Data(i18n.Text(t.lang, key), data+sid))
	}
	var rows [][]chat.Button
	switch ad.Status {
	case domain.StatusDraft:
		rows = append(rows, btn("confirm_btn", "ad_submit_"), btn("edit_btn", "ad_edit_"), btn("delete_btn", "ad_delete_"))
	case domain.StatusPending:
		rows = append(rows, btn("edit_btn", "ad_edit_"), btn("cancel_btn", "ad_cancel_"), btn("delete_btn", "ad_delete_"))
	case domain.StatusApproved, domain.StatusRejected, domain.StatusCancelled:
		rows = append(rows, btn("delete_btn", "ad_delete_"))
	case domain.StatusDeleted:
	}
	rows = append(rows, chat.Row(chat.Data(i18n.Text(t.lang, "back"), "my_ads")))
	return chat.Reply{
		Text:     render.AdDetail(t.lang, ad),
		Keyboard: chat.Inline(rows...),
		Edit:     edit,
		HTML:     true,
	}
}

func (e *Engine) submitAd(t *turn, id int64) ([]chat.Reply, error) {
	if _, err := e.ads.GetOwned(id, t.user.ID); err != nil {
		return e.adError(t, err)
	}
	ad, err := e.ads.Submit(id, t.user.ID)
	if err != nil {
		return e.adError(t, err)
	}
	e.forward(t, ad.ID)
	return []chat.Reply{{Text: i18n.Text(t.lang, "ad_created"), Edit: true}}, nil
}

func (e *Engine) cancelAd(t *turn, id int64) ([]chat.Reply, error) {
	if _, err := e.ads.GetOwned(id, t.user.ID); err != nil {
		return e.adError(t, err)
	}
	if _, err := e.ads.Cancel(id, t.user.ID); err != nil {
		return e.adError(t, err)
	}
	return []chat.Reply{{Text: i18n.Format(t.lang, "ad_cancelled_id", id), Edit: true}}, nil
}

func (e *Engine) askDelete(t *turn, id int64) ([]chat.Reply, error) {
	if _, err := e.ads.GetOwned(id, t.user.ID); err != nil {
		return e.adError(t, err)
	}
	sid := strconv.FormatInt(id, 10)
	kb := chat.Inline(chat.Row(
		chat.Data(i18n.Text(t.lang, "yes_delete"), "ad_delete_yes_"+sid),
		chat.Data(i18n.Text(t.lang, "no"), "ad_view_"+sid),
	))
	return []chat.Reply{{Text: i18n.Text(t.lang, "ad_delete_confirm"), Keyboard: kb, Edit: true}}, nil
}

func (e *Engine) deleteAd(t *turn, id int64) ([]chat.Reply, error) {
	if _, err := e.ads.GetOwned(id, t.user.ID); err != nil {
		return e.adError(t, err)
	}
	if _, err := e.ads.Delete(id, t.user.ID); err != nil {
		return e.adError(t, err)
	}
	if t.sess.AdID == id {
		e.clearSession(t.user.ID)
	}
	return []chat.Reply{{Text: i18n.Format(t.lang, "ad_deleted_id", id), Edit: true}}, nil
}

// editAd enters the edit sub-flow for a stored ad.
func (e *Engine) editAd(t *turn, id int64) ([]chat.Reply, error) {
	ad, err := e.ads.GetOwned(id, t.user.ID)
	if err != nil {
		return e.adError(t, err)
	}
	if !editable(ad.Status) {
		return t.notice("already_processed"), nil
	}
	t.sess = Session{
		UserID: t.user.ID,
		Flow:   flowForAdType(ad.Type),
		Step:   StepEditSelect,
		AdID:   ad.ID,
		Origin: OriginDetail,
	}
	if err := e.saveSession(t.sess); err != nil {
		return e.failed(t.lang, err)
	}
	return []chat.Reply{{Text: i18n.Text(t.lang, "select_edit_field"), Keyboard: e.editKeyboard(t), Edit: true}}, nil
}

func (e *Engine) browse(t *turn) ([]chat.Reply, error) {
	cats, err := e.categories.List()
	if err != nil {
		return e.failed(t.lang, err)
	}
	if len(cats) == 0 {
		return []chat.Reply{chat.Text(i18n.Text(t.lang, "no_categories"), nil)}, nil
	}
	return []chat.Reply{chat.Text(i18n.Text(t.lang, "select_category"), render.CategoryKeyboard(cats, "browse_cat_"))}, nil
}

// browseCategory lists the newest approved ads of one category. Graduate
// ads with a resume go out as documents.
func (e *Engine) browseCategory(t *turn, id int64) ([]chat.Reply, error) {
	c, err := e.categories.Get(id)
	if errors.Is(err, category.ErrNotFound) {
		return t.notice("err_category"), nil
	}
	if err != nil {
		return e.failed(t.lang, err)
	}
	ads, err := e.queries.BrowseCategory(c.Name, e.browseLimit)
	if err != nil {
		return e.failed(t.lang, err)
	}
	if len(ads) == 0 {
		return []chat.Reply{{Text: i18n.Format(t.lang, "no_ads_in_category", c.Name), Edit: true}}, nil
	}
	replies := make([]chat.Reply, 0, len(ads)+1)
	replies = append(replies, chat.Reply{Text: i18n.Format(t.lang, "category_results", c.Name), Edit: true})
	for _, ad := range ads {
		r := chat.HTML(render.AdText(t.lang, ad.Type, ad.Data), nil)
		if ad.Type == domain.AdGraduate && ad.File.FileID != "" {
			r.FileID = ad.File.FileID
		}
		replies = append(replies, r)
	}
	return replies, nil
}
