// Package chat holds the transport-neutral types exchanged between the
// telegram server and the conversation and admin handlers.
package chat

import (
	"context"
	"strconv"
	"unicode/utf8"
)

// Event is one inbound update: a text message, a button press, a shared
// contact or an uploaded document.
type Event struct {
	UserID           int64
	Username         string
	ChatID           int64
	MessageID        int
	Text             string
	Callback         string
	Contact          string
	Document         *Document
	ReplyToMessageID int
}

// IsCallback reports whether the event is a button press.
func (e Event) IsCallback() bool { return e.Callback != "" }

// IsPrivate reports whether the event came from the user's own chat.
func (e Event) IsPrivate() bool { return e.ChatID == 0 || e.ChatID == e.UserID }

// Kind is a short label used in logs.
func (e Event) Kind() string {
	switch {
	case e.Callback != "":
		return "callback"
	case e.Document != nil:
		return "document"
	case e.Contact != "":
		return "contact"
	}
	return "text"
}

// Document describes an uploaded file.
type Document struct {
	FileID   string
	FileName string
	Size     int64
}

// Reply is one outbound answer to the event's chat.
type Reply struct {
	Text     string
	Keyboard *Keyboard
	// Edit replaces the message the pressed button belongs to.
	Edit bool
	// FileID sends a document with Text as caption.
	FileID string
	HTML   bool
	// Notice answers a button press with a short toast instead of a message.
	Notice bool
}

// CaptionLimit is the longest document caption telegram accepts.
const CaptionLimit = 1024

// SplitCaption sends an overlong caption as its own message ahead of the
// bare document. The keyboard stays with the document.
func SplitCaption(r Reply) []Reply {
	if r.FileID == "" || utf8.RuneCountInString(r.Text) <= CaptionLimit {
		return []Reply{r}
	}
	text := Reply{Text: r.Text, HTML: r.HTML}
	doc := r
	doc.Text = ""
	return []Reply{text, doc}
}

// Keyboard describes either an inline keyboard or a reply keyboard.
type Keyboard struct {
	Inline  [][]Button
	Reply   [][]string
	Contact string
	Remove  bool
}

// Button is an inline button carrying callback data or a URL.
type Button struct {
	Text string
	Data string
	URL  string
}

// Inline builds an inline keyboard from rows.
func Inline(rows ...[]Button) *Keyboard {
	return &Keyboard{Inline: rows}
}

// Row groups buttons into one keyboard row.
func Row(buttons ...Button) []Button { return buttons }

// Data builds a callback button.
func Data(text, data string) Button { return Button{Text: text, Data: data} }

// Pairs lays out buttons two per row.
func Pairs(buttons []Button) [][]Button {
	rows := make([][]Button, 0, (len(buttons)+1)/2)
	for i := 0; i < len(buttons); i += 2 {
		if i+1 < len(buttons) {
			rows = append(rows, []Button{buttons[i], buttons[i+1]})
			continue
		}
		rows = append(rows, []Button{buttons[i]})
	}
	return rows
}

// Text is a plain message reply.
func Text(text string, kb *Keyboard) Reply {
	return Reply{Text: text, Keyboard: kb}
}

// HTML is an HTML-formatted message reply.
func HTML(text string, kb *Keyboard) Reply {
	return Reply{Text: text, Keyboard: kb, HTML: true}
}

// Notice is a short callback answer.
func Notice(text string) Reply {
	return Reply{Text: text, Notice: true}
}

// Target addresses an outbound message: a numeric chat id or an
// "@channel" username.
type Target string

// ChatID builds a target from a numeric chat id.
func ChatID(id int64) Target {
	return Target(strconv.FormatInt(id, 10))
}

// Messenger sends messages outside the reply to the current event, for
// example to admin groups, the public channel or another user.
type Messenger interface {
	// Send delivers msg and returns the transport message id.
	Send(ctx context.Context, to Target, msg Reply) (int, error)
}
