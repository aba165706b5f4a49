package domain

import "time"

type Role string

const (
	RoleUnset    Role = ""
	RoleGraduate Role = "graduate"
	RoleEmployer Role = "employer"
	RoleStudent  Role = "student"
)

// Valid reports whether r is a selectable role.
func (r Role) Valid() bool {
	switch r {
	case RoleGraduate, RoleEmployer, RoleStudent:
		return true
	case RoleUnset:
		return false
	}
	return false
}

type Language string

const (
	LangUz Language = "uz"
	LangRu Language = "ru"

	DefaultLanguage = LangUz
)

// ParseLanguage maps a stored or user-supplied code to a known language,
// falling back to DefaultLanguage.
func ParseLanguage(code string) Language {
	switch Language(code) {
	case LangRu:
		return LangRu
	case LangUz:
		return LangUz
	}
	return DefaultLanguage
}

type AdType string

const (
	AdGraduate AdType = "graduate"
	AdEmployer AdType = "employer"
)

// Valid reports whether t is a known ad type.
func (t AdType) Valid() bool {
	switch t {
	case AdGraduate, AdEmployer:
		return true
	}
	return false
}

// CategoryField is the payload key that carries the category label for t.
func (t AdType) CategoryField() string {
	switch t {
	case AdGraduate:
		return "profession"
	case AdEmployer:
		return "category"
	}
	return ""
}

type AdStatus string

const (
	StatusDraft     AdStatus = "draft"
	StatusPending   AdStatus = "pending"
	StatusApproved  AdStatus = "approved"
	StatusRejected  AdStatus = "rejected"
	StatusCancelled AdStatus = "cancelled"
	StatusDeleted   AdStatus = "deleted"
)

// Valid reports whether s is a known status.
func (s AdStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusApproved, StatusRejected, StatusCancelled, StatusDeleted:
		return true
	}
	return false
}

type HistoryAction string

const (
	ActionCreated       HistoryAction = "created"
	ActionUpdated       HistoryAction = "updated"
	ActionStatusChanged HistoryAction = "status_changed"
	ActionFieldUpdated  HistoryAction = "field_updated"
)

type MessageType string

const (
	MessageSuggest   MessageType = "suggest"
	MessageComplaint MessageType = "complaint"
)

// Valid reports whether m is a known student message type.
func (m MessageType) Valid() bool {
	return m == MessageSuggest || m == MessageComplaint
}

// Payload is the free-form ad body: field key to display value.
type Payload map[string]string

// Clone returns an independent copy of p.
func (p Payload) Clone() Payload {
	out := make(Payload, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username,omitempty"`
	Role      Role      `json:"role"`
	Language  Language  `json:"language"`
	CreatedAt time.Time `json:"createdAt"`
}

// FileRef points at an uploaded document: the transport handle plus the
// local copy, either of which may be empty.
type FileRef struct {
	FileID string `json:"fileId,omitempty"`
	Path   string `json:"path,omitempty"`
}

type Ad struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"userId"`
	Type        AdType     `json:"type"`
	Status      AdStatus   `json:"status"`
	Data        Payload    `json:"data"`
	File        FileRef    `json:"file"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	SubmittedAt *time.Time `json:"submittedAt,omitempty"`
	ApprovedAt  *time.Time `json:"approvedAt,omitempty"`
	ApprovedBy  *int64     `json:"approvedBy,omitempty"`
}

// Title is the short label used in admin listings.
func (a Ad) Title() string {
	if a.Type == AdEmployer {
		if v := a.Data["company"]; v != "" {
			return v
		}
	}
	return a.Data["name"]
}

type AdHistoryEntry struct {
	ID        int64         `json:"id"`
	AdID      int64         `json:"adId"`
	Action    HistoryAction `json:"action"`
	OldData   Payload       `json:"oldData,omitempty"`
	NewData   Payload       `json:"newData,omitempty"`
	FieldName string        `json:"fieldName,omitempty"`
	OldValue  string        `json:"oldValue,omitempty"`
	NewValue  string        `json:"newValue,omitempty"`
	ChangedBy int64         `json:"changedBy"`
	CreatedAt time.Time     `json:"createdAt"`
}

type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type StudentMessage struct {
	ID             int64       `json:"id"`
	UserID         int64       `json:"userId"`
	MessageID      int         `json:"messageId"`
	GroupMessageID int         `json:"groupMessageId"`
	Name           string      `json:"name"`
	Direction      string      `json:"direction"`
	GroupNumber    string      `json:"groupNumber"`
	Type           MessageType `json:"type"`
	Text           string      `json:"text"`
	CreatedAt      time.Time   `json:"createdAt"`
}

type AdStats struct {
	Total     int `json:"total"`
	Approved  int `json:"approved"`
	Pending   int `json:"pending"`
	Rejected  int `json:"rejected"`
	Cancelled int `json:"cancelled"`
}

type UserStats struct {
	Total     int `json:"total"`
	Graduates int `json:"graduates"`
	Employers int `json:"employers"`
	Students  int `json:"students"`
}
