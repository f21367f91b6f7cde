package models

import (
	"time"

	"gorm.io/datatypes"
)

// PricingData is the price breakdown frozen on a job when it is created.
type PricingData struct {
	WordCount            int64      `json:"word_count"`
	VideoDurationSeconds int64      `json:"video_duration_seconds"`
	RatePerWord          int64      `json:"rate_per_word"`
	RatePerMinute        int64      `json:"rate_per_minute"`
	Complexity           Complexity `json:"complexity"`
	MultiplierPercent    int64      `json:"multiplier_percent"`
	ReRecordRequired     bool       `json:"is_re_record_required"`
	ReRecordBonusPercent int64      `json:"re_record_bonus_percent"`
	WordPrice            int64      `json:"word_price"`
	VideoPrice           int64      `json:"video_price"`
	BasePrice            int64      `json:"base_price"`
	ComplexityBonus      int64      `json:"complexity_bonus"`
	ReRecordBonus        int64      `json:"re_record_bonus"`
	FinalPrice           int64      `json:"final_price"`
	BaseDeadlineHours    int64      `json:"base_deadline_hours"`
	DeadlineHours        int64      `json:"deadline_hours"`
}

type Job struct {
	BaseModel
	Title                string                          `gorm:"not null" json:"title"`
	Description          *string                         `json:"description,omitempty"`
	SourceURL            *string                         `json:"source_url,omitempty"`
	WordCount            int64                           `gorm:"not null;default:0" json:"word_count"`
	VideoDurationSeconds int64                           `gorm:"not null;default:0" json:"video_duration_seconds"`
	IsReRecordRequired   bool                            `gorm:"not null;default:true" json:"is_re_record_required"`
	Complexity           Complexity                      `gorm:"type:varchar(16);not null" json:"complexity"`
	PricingData          datatypes.JSONType[PricingData] `gorm:"type:jsonb;not null" json:"pricing_data"`
	AIMetadata           datatypes.JSON                  `gorm:"type:jsonb" json:"ai_metadata,omitempty"`
	Status               JobStatus                       `gorm:"type:varchar(16);not null;index" json:"status"`
	CreatedBy            string                          `gorm:"type:uuid;not null;index" json:"created_by"`
	LockedBy             *string                         `gorm:"type:uuid;index" json:"locked_by,omitempty"`
	LockedAt             *time.Time                      `json:"locked_at,omitempty"`
	Deadline             *time.Time                      `json:"deadline,omitempty"`
	IsPoliticalSafe      *bool                           `json:"is_political_safe,omitempty"`
	IsMapSafe            *bool                           `json:"is_map_safe,omitempty"`
	SafetyReviewedBy     *string                         `gorm:"type:uuid" json:"safety_reviewed_by,omitempty"`
	SafetyReviewedAt     *time.Time                      `json:"safety_reviewed_at,omitempty"`
	OverdueNotifiedAt    *time.Time                      `json:"-"`
	CompletedAt          *time.Time                      `json:"completed_at,omitempty"`
}

func (Job) TableName() string { return "jobs" }

// Pricing returns the frozen breakdown.
func (j *Job) Pricing() PricingData {
	return j.PricingData.Data()
}

// IsHeldBy reports whether userID currently holds the job.
func (j *Job) IsHeldBy(userID string) bool {
	return j.LockedBy != nil && *j.LockedBy == userID
}

func (j *Job) IsOverdue(now time.Time) bool {
	return j.Status == JobStatusLocked && j.Deadline != nil && now.After(*j.Deadline)
}
