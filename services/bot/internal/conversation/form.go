package conversation

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"adsbot/internal/i18n"
	"adsbot/pkg/domain"
	"adsbot/pkg/storage"
	"adsbot/pkg/validation"
	"adsbot/services/bot/internal/category"
	"adsbot/services/bot/internal/chat"
	"adsbot/services/bot/internal/lifecycle"
	"adsbot/services/bot/internal/render"
)

// outcome is the result of reading one answer. A non-nil retry means the
// answer was rejected and the step stays where it is.
type outcome struct {
	value string
	file  *domain.FileRef
	retry []chat.Reply
}

func (e *Engine) input(t *turn) ([]chat.Reply, error) {
	switch t.sess.Step {
	case StepConfirm, StepEditSelect:
		// buttons are expected here; text falls through to the main menu
		return e.menu(t)
	case StepEditValue:
		fd, _, ok := lookupField(t.sess.Flow, t.sess.EditField)
		if !ok {
			return e.reset(t)
		}
		out, err := e.accept(t, fd)
		if err != nil {
			return e.failed(t.lang, err)
		}
		if out.retry != nil {
			return out.retry, nil
		}
		return e.applyEdit(t, fd, out)
	}

	fields := fieldsOf(t.sess.Flow)
	fd, idx, ok := lookupField(t.sess.Flow, t.sess.Step)
	if !ok {
		return e.reset(t)
	}
	out, err := e.accept(t, fd)
	if err != nil {
		return e.failed(t.lang, err)
	}
	if out.retry != nil {
		return out.retry, nil
	}
	if fd.key != resumeField {
		if t.sess.Data == nil {
			t.sess.Data = domain.Payload{}
		}
		t.sess.Data[fd.key] = out.value
	}
	if idx+1 < len(fields) {
		next := fields[idx+1]
		t.sess.Step = next.key
		if err := e.saveSession(t.sess); err != nil {
			return e.failed(t.lang, err)
		}
		prompt, err := e.prompt(t, next)
		if err != nil {
			return e.failed(t.lang, err)
		}
		return []chat.Reply{prompt}, nil
	}
	return e.finish(t, out.file)
}

// reset drops a session whose step no longer exists.
func (e *Engine) reset(t *turn) ([]chat.Reply, error) {
	slog.Warn("session step unknown, resetting", "user_id", t.user.ID, "flow", t.sess.Flow, "step", t.sess.Step)
	e.clearSession(t.user.ID)
	return []chat.Reply{render.MainMenuReply(t.lang, t.user.Role)}, nil
}

// finish materializes the collected answers after the last field: a draft
// ad for the ad flows, a review for the student flow.
func (e *Engine) finish(t *turn, file *domain.FileRef) ([]chat.Reply, error) {
	if t.sess.Flow == FlowStudent {
		t.sess.Step = StepConfirm
		if err := e.saveSession(t.sess); err != nil {
			return e.failed(t.lang, err)
		}
		return []chat.Reply{chat.HTML(render.StudentText(t.lang, t.sess.Data), render.ConfirmKeyboard(t.lang))}, nil
	}

	ref := domain.FileRef{}
	if file != nil {
		ref = *file
	}
	ad, err := e.ads.Create(t.user.ID, t.sess.Flow.adType(), t.sess.Data, ref)
	if err != nil {
		e.discardFile(ref.Path)
		return e.failed(t.lang, err)
	}
	slog.Info("ad draft created", "user_id", t.user.ID, "ad_id", ad.ID, "type", ad.Type)
	t.sess.AdID = ad.ID
	t.sess.Step = StepConfirm
	if err := e.saveSession(t.sess); err != nil {
		return e.failed(t.lang, err)
	}
	return []chat.Reply{
		chat.Text(i18n.Text(t.lang, "confirm_ad"), render.RemoveKeyboard()),
		chat.HTML(render.AdText(t.lang, ad.Type, ad.Data), render.ConfirmKeyboard(t.lang)),
	}, nil
}

func (e *Engine) confirm(t *turn) ([]chat.Reply, error) {
	if t.sess.Step != StepConfirm {
		return t.notice("already_processed"), nil
	}
	if t.sess.Flow == FlowStudent {
		return e.deliverStudent(t)
	}
	ad, err := e.ads.Submit(t.sess.AdID, t.user.ID)
	if err != nil {
		if errors.Is(err, lifecycle.ErrStaleState) || errors.Is(err, lifecycle.ErrNotFound) {
			e.clearSession(t.user.ID)
		}
		return e.adError(t, err)
	}
	e.clearSession(t.user.ID)
	e.forward(t, ad.ID)
	return []chat.Reply{
		{Text: i18n.Text(t.lang, "ad_created"), Edit: true},
		render.MainMenuReply(t.lang, t.user.Role),
	}, nil
}

func (e *Engine) cancel(t *turn) ([]chat.Reply, error) {
	if !t.sess.Active() || t.sess.Origin == OriginDetail {
		return t.notice("already_processed"), nil
	}
	if t.sess.AdID > 0 {
		if _, err := e.ads.Cancel(t.sess.AdID, t.user.ID); err != nil {
			if errors.Is(err, lifecycle.ErrStaleState) || errors.Is(err, lifecycle.ErrNotFound) {
				e.clearSession(t.user.ID)
			}
			return e.adError(t, err)
		}
	}
	e.clearSession(t.user.ID)
	return []chat.Reply{
		{Text: i18n.Text(t.lang, "ad_cancelled"), Edit: true},
		render.MainMenuReply(t.lang, t.user.Role),
	}, nil
}

func (e *Engine) editSelect(t *turn) ([]chat.Reply, error) {
	if t.sess.Step != StepConfirm {
		return t.notice("already_processed"), nil
	}
	t.sess.Step = StepEditSelect
	if err := e.saveSession(t.sess); err != nil {
		return e.failed(t.lang, err)
	}
	return []chat.Reply{{Text: i18n.Text(t.lang, "select_edit_field"), Keyboard: e.editKeyboard(t), Edit: true}}, nil
}

func (e *Engine) editField(t *turn, key string) ([]chat.Reply, error) {
	if t.sess.Step != StepEditSelect && t.sess.Step != StepEditValue {
		return t.notice("already_processed"), nil
	}
	fd, _, ok := lookupField(t.sess.Flow, key)
	if !ok {
		return t.notice("choose_from_menu"), nil
	}
	t.sess.Step = StepEditValue
	t.sess.EditField = fd.key
	if err := e.saveSession(t.sess); err != nil {
		return e.failed(t.lang, err)
	}
	prompt, err := e.prompt(t, fd)
	if err != nil {
		return e.failed(t.lang, err)
	}
	if fd.input == inputText || fd.input == inputOptional {
		prompt.Text = i18n.Text(t.lang, "enter_new_value")
	}
	return []chat.Reply{prompt}, nil
}

// applyEdit writes one edited answer and returns to where the edit started.
func (e *Engine) applyEdit(t *turn, fd field, out outcome) ([]chat.Reply, error) {
	t.sess.EditField = ""
	if t.sess.AdID == 0 {
		t.sess.Data[fd.key] = out.value
		t.sess.Step = StepConfirm
		if err := e.saveSession(t.sess); err != nil {
			return e.failed(t.lang, err)
		}
		return []chat.Reply{
			chat.Text(i18n.Text(t.lang, "field_updated"), nil),
			chat.HTML(render.StudentText(t.lang, t.sess.Data), render.ConfirmKeyboard(t.lang)),
		}, nil
	}

	current, err := e.ads.GetOwned(t.sess.AdID, t.user.ID)
	if err == nil && !editable(current.Status) {
		err = lifecycle.ErrStaleState
	}
	if err != nil {
		if out.file != nil {
			e.discardFile(out.file.Path)
		}
		e.clearSession(t.user.ID)
		return e.adError(t, err)
	}
	var ad domain.Ad
	if fd.key == resumeField {
		ad, err = e.ads.UpdateData(current.ID, current.Data, out.file, t.user.ID)
	} else {
		ad, err = e.ads.UpdateField(current.ID, fd.key, out.value, t.user.ID)
	}
	if err != nil {
		e.clearSession(t.user.ID)
		return e.adError(t, err)
	}
	slog.Info("ad field edited", "user_id", t.user.ID, "ad_id", ad.ID, "field", fd.key)

	updated := chat.Text(i18n.Text(t.lang, "field_updated"), nil)
	if t.sess.Origin == OriginDetail {
		e.clearSession(t.user.ID)
		return []chat.Reply{updated, e.detailReply(t, ad, false)}, nil
	}
	t.sess.Step = StepConfirm
	if err := e.saveSession(t.sess); err != nil {
		return e.failed(t.lang, err)
	}
	return []chat.Reply{updated, chat.HTML(render.AdText(t.lang, ad.Type, ad.Data), render.ConfirmKeyboard(t.lang))}, nil
}

func (e *Engine) backToConfirm(t *turn) ([]chat.Reply, error) {
	if t.sess.Step != StepEditSelect && t.sess.Step != StepEditValue {
		return t.notice("already_processed"), nil
	}
	if t.sess.Origin == OriginDetail {
		e.clearSession(t.user.ID)
		return e.adDetail(t, t.sess.AdID, true)
	}
	t.sess.Step = StepConfirm
	t.sess.EditField = ""
	if err := e.saveSession(t.sess); err != nil {
		return e.failed(t.lang, err)
	}
	text := render.StudentText(t.lang, t.sess.Data)
	if t.sess.AdID > 0 {
		ad, err := e.ads.Get(t.sess.AdID)
		if err != nil {
			return e.adError(t, err)
		}
		text = render.AdText(t.lang, ad.Type, ad.Data)
	}
	return []chat.Reply{{Text: text, Keyboard: render.ConfirmKeyboard(t.lang), Edit: true, HTML: true}}, nil
}

func (e *Engine) editKeyboard(t *turn) *chat.Keyboard {
	fields := fieldsOf(t.sess.Flow)
	buttons := make([]chat.Button, 0, len(fields))
	for _, fd := range fields {
		if fd.key == resumeField && t.sess.AdID == 0 {
			continue
		}
		buttons = append(buttons, chat.Data(fd.editLabel(t.lang), "edit_field_"+fd.key))
	}
	rows := chat.Pairs(buttons)
	rows = append(rows, chat.Row(chat.Data(i18n.Text(t.lang, "back"), "back_to_confirm")))
	return chat.Inline(rows...)
}

// prompt asks for fd with the keyboard its input kind needs.
func (e *Engine) prompt(t *turn, fd field) (chat.Reply, error) {
	text := i18n.Text(t.lang, fd.prompt)
	switch fd.input {
	case inputPhone:
		return chat.Text(text, render.ContactKeyboard(t.lang)), nil
	case inputRegion:
		return chat.Text(text, render.RegionKeyboard(t.lang)), nil
	case inputCategory, inputDirection:
		cats, err := e.categories.List()
		if err != nil {
			return chat.Reply{}, fmt.Errorf("list categories: %w", err)
		}
		if len(cats) == 0 {
			return chat.Text(i18n.Text(t.lang, "no_categories"), nil), nil
		}
		prefix := "category_"
		if fd.input == inputDirection {
			prefix = "student_dir_"
		}
		return chat.Text(text, render.CategoryKeyboard(cats, prefix)), nil
	case inputStudentType:
		return chat.Text(text, render.StudentTypeKeyboard(t.lang)), nil
	case inputText, inputOptional, inputDocument:
		return chat.Text(text, render.RemoveKeyboard()), nil
	}
	return chat.Text(text, nil), nil
}

// accept reads and validates the answer to fd from the current event.
func (e *Engine) accept(t *turn, fd field) (outcome, error) {
	ev := t.ev
	retry := func(text string) (outcome, error) {
		p, err := e.prompt(t, fd)
		if err != nil {
			return outcome{}, err
		}
		p.Text = text + "\n\n" + p.Text
		return outcome{retry: []chat.Reply{p}}, nil
	}
	again := func() (outcome, error) {
		p, err := e.prompt(t, fd)
		if err != nil {
			return outcome{}, err
		}
		return outcome{retry: []chat.Reply{p}}, nil
	}

	switch fd.input {
	case inputText:
		if ev.IsCallback() || ev.Document != nil {
			return again()
		}
		v := strings.TrimSpace(ev.Text)
		if fd.check != nil {
			if err := fd.check(v); err != nil {
				return retry(failureText(t.lang, err))
			}
		}
		return outcome{value: v}, nil

	case inputOptional:
		if ev.IsCallback() || ev.Document != nil {
			return again()
		}
		v := strings.TrimSpace(ev.Text)
		if v == "" || v == "-" {
			v = i18n.Text(t.lang, "requirements_none")
		}
		return outcome{value: v}, nil

	case inputPhone:
		raw := ev.Contact
		if raw == "" {
			raw = ev.Text
		}
		phone := validation.CleanPhone(strings.TrimSpace(raw))
		if err := validation.ValidatePhone(phone); err != nil {
			return retry(failureText(t.lang, err))
		}
		return outcome{value: phone}, nil

	case inputRegion:
		if i, ok := idSuffixInt(ev.Callback, "region_"); ok {
			if r, ok := i18n.Region(t.lang, i); ok {
				return outcome{value: r}, nil
			}
		}
		text := strings.TrimSpace(ev.Text)
		for _, lang := range []domain.Language{t.lang, domain.LangUz, domain.LangRu} {
			for _, r := range i18n.Regions(lang) {
				if text != "" && strings.EqualFold(text, r) {
					return outcome{value: r}, nil
				}
			}
		}
		return again()

	case inputCategory, inputDirection:
		prefix := "category_"
		if fd.input == inputDirection {
			prefix = "student_dir_"
		}
		if id, ok := idSuffix(ev.Callback, prefix); ok {
			c, err := e.categories.Get(id)
			if errors.Is(err, category.ErrNotFound) {
				return retry(i18n.Text(t.lang, "err_category"))
			}
			if err != nil {
				return outcome{}, err
			}
			return outcome{value: c.Name}, nil
		}
		if text := strings.TrimSpace(ev.Text); text != "" && !ev.IsCallback() {
			cats, err := e.categories.List()
			if err != nil {
				return outcome{}, fmt.Errorf("list categories: %w", err)
			}
			for _, c := range cats {
				if strings.EqualFold(c.Name, text) {
					return outcome{value: c.Name}, nil
				}
			}
			return retry(i18n.Text(t.lang, "err_category"))
		}
		return again()

	case inputStudentType:
		switch ev.Callback {
		case "student_type_suggest":
			return outcome{value: string(domain.MessageSuggest)}, nil
		case "student_type_complaint":
			return outcome{value: string(domain.MessageComplaint)}, nil
		}
		if mt, ok := parseStudentType(ev.Text); ok {
			return outcome{value: string(mt)}, nil
		}
		return retry(i18n.Text(t.lang, "err_student_type"))

	case inputDocument:
		return e.acceptResume(t, retry)
	}
	return again()
}

func (e *Engine) acceptResume(t *turn, retry func(string) (outcome, error)) (outcome, error) {
	doc := t.ev.Document
	if doc == nil {
		return retry(i18n.Text(t.lang, "err_file_required"))
	}
	if err := storage.CheckUpload(doc.FileName, doc.Size, e.maxFileSize, e.allowedFormats); err != nil {
		switch {
		case errors.Is(err, storage.ErrFileTooLarge):
			return retry(i18n.Format(t.lang, "err_file_size", e.maxFileSize/(1024*1024)))
		case errors.Is(err, storage.ErrFileFormat):
			return retry(i18n.Format(t.lang, "err_file_format", strings.Join(e.allowedFormats, ", ")))
		}
		return outcome{}, err
	}
	ref, err := e.saveResume(t.ctx, doc)
	if errors.Is(err, storage.ErrUnreadableDoc) {
		return retry(i18n.Text(t.lang, "err_file_invalid"))
	}
	if err != nil {
		return outcome{}, err
	}
	return outcome{file: &ref}, nil
}

func (e *Engine) forward(t *turn, adID int64) {
	if err := e.forwarder.Forward(t.ctx, adID); err != nil {
		slog.Error("forward ad to moderation failed", "user_id", t.user.ID, "ad_id", adID, "err", err)
	}
}

func editable(s domain.AdStatus) bool {
	return s == domain.StatusDraft || s == domain.StatusPending
}

func idSuffixInt(data, prefix string) (int, bool) {
	if !strings.HasPrefix(data, prefix) {
		return 0, false
	}
	i, err := strconv.Atoi(strings.TrimPrefix(data, prefix))
	if err != nil {
		return 0, false
	}
	return i, true
}
