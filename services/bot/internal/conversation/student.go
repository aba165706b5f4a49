package conversation

import (
	"log/slog"

	"adsbot/internal/i18n"
	"adsbot/pkg/domain"
	"adsbot/services/bot/internal/chat"
	"adsbot/services/bot/internal/render"
)

// deliverStudent posts the reviewed inquiry to the question group and keeps
// the forwarded message id for reply correlation. On a send failure the
// session stays at confirm so the student can retry. Once posted the
// session is cleared even if recording the message fails.
func (e *Engine) deliverStudent(t *turn) ([]chat.Reply, error) {
	data := t.sess.Data
	username := "-"
	if t.ev.Username != "" {
		username = "@" + t.ev.Username
	}
	msgType := domain.MessageType(data["type"])
	text := i18n.Format(domain.LangUz, "admin_student_message",
		username, t.user.ID, data["name"], data["direction"], data["group_number"],
		render.StudentType(domain.LangUz, msgType), data["message"])

	groupMsgID, err := e.messenger.Send(t.ctx, e.questionGroup, chat.Text(text, nil))
	if err != nil {
		slog.Error("student message delivery failed", "user_id", t.user.ID, "err", err)
		return []chat.Reply{chat.Text(i18n.Text(t.lang, "student_message_failed"), nil)}, nil
	}
	if _, err := e.students.CreateStudentMessage(domain.StudentMessage{
		UserID:         t.user.ID,
		MessageID:      t.ev.MessageID,
		GroupMessageID: groupMsgID,
		Name:           data["name"],
		Direction:      data["direction"],
		GroupNumber:    data["group_number"],
		Type:           msgType,
		Text:           data["message"],
		CreatedAt:      e.now().UTC(),
	}); err != nil {
		// already posted; a retry would post it twice
		slog.Error("store student message", "user_id", t.user.ID, "group_message_id", groupMsgID, "err", err)
	}
	e.clearSession(t.user.ID)
	slog.Info("student message delivered", "user_id", t.user.ID, "group_message_id", groupMsgID)
	return []chat.Reply{
		{Text: i18n.Text(t.lang, "student_message_sent"), Edit: true},
		render.MainMenuReply(t.lang, t.user.Role),
	}, nil
}
