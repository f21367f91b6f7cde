package models

import (
	"time"

	"gorm.io/datatypes"
)

type BalanceEntry struct {
	ID           string           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ProfileID    string           `gorm:"type:uuid;not null;index" json:"profile_id"`
	JobID        *string          `gorm:"type:uuid" json:"job_id,omitempty"`
	SubmissionID *string          `gorm:"type:uuid" json:"submission_id,omitempty"`
	EntryType    BalanceEntryType `gorm:"type:varchar(32);not null" json:"entry_type"`
	Amount       int64            `gorm:"not null" json:"amount"`
	BalanceAfter int64            `gorm:"not null" json:"balance_after"`
	CreatedBy    *string          `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt    time.Time        `gorm:"default:now()" json:"created_at"`
}

func (BalanceEntry) TableName() string { return "balance_entries" }

type Notification struct {
	ID        string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID    string         `gorm:"type:uuid;not null;index" json:"user_id"`
	Type      string         `gorm:"type:varchar(64);not null" json:"type"`
	Title     string         `gorm:"not null" json:"title"`
	Message   string         `gorm:"not null" json:"message"`
	JobID     *string        `gorm:"type:uuid" json:"job_id,omitempty"`
	Data      datatypes.JSON `gorm:"type:jsonb" json:"data,omitempty"`
	IsRead    bool           `gorm:"not null;default:false" json:"is_read"`
	ReadAt    *time.Time     `json:"read_at,omitempty"`
	CreatedAt time.Time      `gorm:"default:now()" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
