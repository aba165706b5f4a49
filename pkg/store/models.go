package store

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"adsbot/pkg/domain"
)

// GORM models used for persistence.
type UserModel struct {
	ID        int64 `gorm:"primaryKey;autoIncrement:false"`
	Username  string
	Role      string    `gorm:"not null;default:'';index"`
	Language  string    `gorm:"not null;default:''"`
	CreatedAt time.Time `gorm:"not null"`
}

func (UserModel) TableName() string { return "users" }

type AdModel struct {
	ID          int64          `gorm:"primaryKey;autoIncrement"`
	UserID      int64          `gorm:"not null;index"`
	AdType      string         `gorm:"not null;index"`
	Status      string         `gorm:"not null;index"`
	Data        datatypes.JSON `gorm:"type:jsonb;not null"`
	FileID      string
	FilePath    string
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
	SubmittedAt *time.Time
	ApprovedAt  *time.Time
	ApprovedBy  *int64
}

func (AdModel) TableName() string { return "ads" }

type AdHistoryModel struct {
	ID        int64          `gorm:"primaryKey;autoIncrement"`
	AdID      int64          `gorm:"not null;index"`
	Action    string         `gorm:"not null"`
	OldData   datatypes.JSON `gorm:"type:jsonb"`
	NewData   datatypes.JSON `gorm:"type:jsonb"`
	FieldName string
	OldValue  string
	NewValue  string
	ChangedBy int64     `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null;index"`
}

func (AdHistoryModel) TableName() string { return "ad_history" }

type CategoryModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (CategoryModel) TableName() string { return "categories" }

type StudentMessageModel struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	UserID         int64  `gorm:"not null;index"`
	MessageID      int    `gorm:"not null"`
	GroupMessageID int    `gorm:"not null;index"`
	Name           string `gorm:"not null"`
	Direction      string
	GroupNumber    string
	MessageType    string    `gorm:"not null"`
	MessageText    string    `gorm:"type:text;not null"`
	CreatedAt      time.Time `gorm:"not null"`
}

func (StudentMessageModel) TableName() string { return "student_messages" }

func userToModel(u domain.User) UserModel {
	return UserModel{
		ID:        u.ID,
		Username:  u.Username,
		Role:      string(u.Role),
		Language:  string(u.Language),
		CreatedAt: u.CreatedAt,
	}
}

func userFromModel(m UserModel) domain.User {
	return domain.User{
		ID:        m.ID,
		Username:  m.Username,
		Role:      domain.Role(m.Role),
		Language:  domain.ParseLanguage(m.Language),
		CreatedAt: m.CreatedAt,
	}
}

func adToModel(a domain.Ad) (AdModel, error) {
	data, err := encodePayload(a.Data)
	if err != nil {
		return AdModel{}, err
	}
	return AdModel{
		ID:          a.ID,
		UserID:      a.UserID,
		AdType:      string(a.Type),
		Status:      string(a.Status),
		Data:        data,
		FileID:      a.File.FileID,
		FilePath:    a.File.Path,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
		SubmittedAt: a.SubmittedAt,
		ApprovedAt:  a.ApprovedAt,
		ApprovedBy:  a.ApprovedBy,
	}, nil
}

func adFromModel(m AdModel) (domain.Ad, error) {
	data, err := decodePayload(m.Data)
	if err != nil {
		return domain.Ad{}, err
	}
	if data == nil {
		data = domain.Payload{}
	}
	return domain.Ad{
		ID:          m.ID,
		UserID:      m.UserID,
		Type:        domain.AdType(m.AdType),
		Status:      domain.AdStatus(m.Status),
		Data:        data,
		File:        domain.FileRef{FileID: m.FileID, Path: m.FilePath},
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		SubmittedAt: m.SubmittedAt,
		ApprovedAt:  m.ApprovedAt,
		ApprovedBy:  m.ApprovedBy,
	}, nil
}

func historyToModel(h domain.AdHistoryEntry) (AdHistoryModel, error) {
	oldData, err := encodePayload(h.OldData)
	if err != nil {
		return AdHistoryModel{}, err
	}
	newData, err := encodePayload(h.NewData)
	if err != nil {
		return AdHistoryModel{}, err
	}
	return AdHistoryModel{
		ID:        h.ID,
		AdID:      h.AdID,
		Action:    string(h.Action),
		OldData:   oldData,
		NewData:   newData,
		FieldName: h.FieldName,
		OldValue:  h.OldValue,
		NewValue:  h.NewValue,
		ChangedBy: h.ChangedBy,
		CreatedAt: h.CreatedAt,
	}, nil
}

func historyFromModel(m AdHistoryModel) (domain.AdHistoryEntry, error) {
	oldData, err := decodePayload(m.OldData)
	if err != nil {
		return domain.AdHistoryEntry{}, err
	}
	newData, err := decodePayload(m.NewData)
	if err != nil {
		return domain.AdHistoryEntry{}, err
	}
	return domain.AdHistoryEntry{
		ID:        m.ID,
		AdID:      m.AdID,
		Action:    domain.HistoryAction(m.Action),
		OldData:   oldData,
		NewData:   newData,
		FieldName: m.FieldName,
		OldValue:  m.OldValue,
		NewValue:  m.NewValue,
		ChangedBy: m.ChangedBy,
		CreatedAt: m.CreatedAt,
	}, nil
}

func categoryFromModel(m CategoryModel) domain.Category {
	return domain.Category{ID: m.ID, Name: m.Name, CreatedAt: m.CreatedAt}
}

func studentMessageToModel(s domain.StudentMessage) StudentMessageModel {
	return StudentMessageModel{
		ID:             s.ID,
		UserID:         s.UserID,
		MessageID:      s.MessageID,
		GroupMessageID: s.GroupMessageID,
		Name:           s.Name,
		Direction:      s.Direction,
		GroupNumber:    s.GroupNumber,
		MessageType:    string(s.Type),
		MessageText:    s.Text,
		CreatedAt:      s.CreatedAt,
	}
}

func studentMessageFromModel(m StudentMessageModel) domain.StudentMessage {
	return domain.StudentMessage{
		ID:             m.ID,
		UserID:         m.UserID,
		MessageID:      m.MessageID,
		GroupMessageID: m.GroupMessageID,
		Name:           m.Name,
		Direction:      m.Direction,
		GroupNumber:    m.GroupNumber,
		Type:           domain.MessageType(m.MessageType),
		Text:           m.MessageText,
		CreatedAt:      m.CreatedAt,
	}
}

func encodePayload(p domain.Payload) (datatypes.JSON, error) {
	if p == nil {
		return nil, nil
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func decodePayload(raw datatypes.JSON) (domain.Payload, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var p domain.Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return p, nil
}
