package server

import (
	"strings"

	tele "gopkg.in/telebot.v3"

	"adsbot/services/bot/internal/chat"
)

func eventFrom(c tele.Context) chat.Event {
	var ev chat.Event
	if u := c.Sender(); u != nil {
		ev.UserID = u.ID
		ev.Username = u.Username
	}
	if ch := c.Chat(); ch != nil {
		ev.ChatID = ch.ID
	}
	if cb := c.Callback(); cb != nil {
		ev.Callback = strings.TrimSpace(cb.Data)
		if cb.Message != nil {
			ev.MessageID = cb.Message.ID
		}
		return ev
	}
	m := c.Message()
	if m == nil {
		return ev
	}
	ev.MessageID = m.ID
	ev.Text = m.Text
	if m.ReplyTo != nil {
		ev.ReplyToMessageID = m.ReplyTo.ID
	}
	if m.Contact != nil {
		ev.Contact = m.Contact.PhoneNumber
	}
	if d := m.Document; d != nil {
		ev.Document = &chat.Document{
			FileID:   d.FileID,
			FileName: d.FileName,
			Size:     int64(d.FileSize),
		}
	}
	return ev
}

func markup(kb *chat.Keyboard) *tele.ReplyMarkup {
	if kb == nil {
		return nil
	}
	if kb.Remove {
		return &tele.ReplyMarkup{RemoveKeyboard: true}
	}
	if len(kb.Inline) > 0 {
		rows := make([][]tele.InlineButton, 0, len(kb.Inline))
		for _, row := range kb.Inline {
			buttons := make([]tele.InlineButton, 0, len(row))
			for _, b := range row {
				buttons = append(buttons, tele.InlineButton{Text: b.Text, Data: b.Data, URL: b.URL})
			}
			rows = append(rows, buttons)
		}
		return &tele.ReplyMarkup{InlineKeyboard: rows}
	}
	rm := &tele.ReplyMarkup{ResizeKeyboard: true}
	if kb.Contact != "" {
		rm.ReplyKeyboard = append(rm.ReplyKeyboard, []tele.ReplyButton{{Text: kb.Contact, Contact: true}})
		rm.OneTimeKeyboard = true
	}
	for _, row := range kb.Reply {
		buttons := make([]tele.ReplyButton, 0, len(row))
		for _, text := range row {
			buttons = append(buttons, tele.ReplyButton{Text: text})
		}
		rm.ReplyKeyboard = append(rm.ReplyKeyboard, buttons)
	}
	return rm
}

func sendOptions(r chat.Reply) *tele.SendOptions {
	opts := &tele.SendOptions{ReplyMarkup: markup(r.Keyboard)}
	if r.HTML {
		opts.ParseMode = tele.ModeHTML
	}
	return opts
}

// outbound returns the payload and options for sending r as a new message.
func outbound(r chat.Reply) (interface{}, *tele.SendOptions) {
	opts := sendOptions(r)
	if r.FileID != "" {
		return &tele.Document{File: tele.File{FileID: r.FileID}, Caption: r.Text}, opts
	}
	return r.Text, opts
}

func isNotModified(err error) bool {
	return err != nil && strings.Contains(err.Error(), "message is not modified")
}
