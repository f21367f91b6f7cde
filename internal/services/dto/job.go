package dto

import (
	"encoding/json"
	"time"

	"github.com/tungtase04539/sangtaophaisinh/internal/models"
)

// CreateJobRequest is posted by managers. The price is always computed
// server side from the current pricing config.
type CreateJobRequest struct {
	Title                string            `json:"title" validate:"required,max=300"`
	Description          *string           `json:"description,omitempty" validate:"omitempty,max=10000"`
	SourceURL            *string           `json:"source_url,omitempty" validate:"omitempty,url"`
	WordCount            int64             `json:"word_count" validate:"min=0,max=1000000"`
	VideoDurationSeconds int64             `json:"video_duration_seconds" validate:"min=0,max=86400"`
	IsReRecordRequired   *bool             `json:"is_re_record_required,omitempty"`
	Complexity           models.Complexity `json:"complexity" validate:"required,is-complexity"`
	AIMetadata           json.RawMessage   `json:"ai_metadata,omitempty" swaggertype:"object"`
}

// ReRecordRequired defaults to true when omitted.
func (r *CreateJobRequest) ReRecordRequired() bool {
	return r.IsReRecordRequired == nil || *r.IsReRecordRequired
}

type QuoteRequest struct {
	WordCount            int64             `json:"word_count" validate:"min=0,max=1000000"`
	VideoDurationSeconds int64             `json:"video_duration_seconds" validate:"min=0,max=86400"`
	Complexity           models.Complexity `json:"complexity" validate:"required,is-complexity"`
	IsReRecordRequired   bool              `json:"is_re_record_required"`
}

// JobListQuery filters job listings.
type JobListQuery struct {
	PageQuery
	Complexity models.Complexity `form:"complexity" validate:"omitempty,is-complexity"`
	Status     models.JobStatus  `form:"status" validate:"omitempty,is-job-status"`
	Search     string            `form:"q" validate:"omitempty,max=200"`
}

type JobListResponse struct {
	Jobs []models.Job `json:"jobs"`
	PageInfo
}

// LockJobResult is the outcome of a claim. Failures carry the error code
// and, for the ceiling, the current and allowed counts.
type LockJobResult struct {
	Success       bool       `json:"success"`
	Message       string     `json:"message"`
	Error         string     `json:"error,omitempty"`
	JobID         *string    `json:"job_id,omitempty"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	DeadlineHours *int64     `json:"deadline_hours,omitempty"`
	CurrentLocked *int64     `json:"current_locked,omitempty"`
	MaxAllowed    *int64     `json:"max_allowed,omitempty"`
}

type ReleaseJobResult struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	Error       string `json:"error,omitempty"`
	CreditScore *int   `json:"credit_score,omitempty"`
}

// SubmitWorkRequest is posted by the holder of a locked or rejected job.
type SubmitWorkRequest struct {
	VideoURL             string   `json:"video_url" validate:"required,url"`
	SourceFilesURL       *string  `json:"source_files_url,omitempty" validate:"omitempty,url"`
	TranslatedText       *string  `json:"translated_text,omitempty"`
	ThumbnailURL         *string  `json:"thumbnail_url,omitempty" validate:"omitempty,url"`
	AdditionalFiles      []string `json:"additional_files,omitempty" validate:"omitempty,max=20,dive,url"`
	Notes                *string  `json:"notes,omitempty" validate:"omitempty,max=2000"`
	ConfirmedDerivative  bool     `json:"confirmed_derivative"`
	ConfirmedNoCopyright bool     `json:"confirmed_no_copyright"`
}

// MissingConfirmations lists the json names of unchecked confirmations.
func (r *SubmitWorkRequest) MissingConfirmations() []string {
	var missing []string
	if !r.ConfirmedDerivative {
		missing = append(missing, "confirmed_derivative")
	}
	if !r.ConfirmedNoCopyright {
		missing = append(missing, "confirmed_no_copyright")
	}
	return missing
}

// UserStats backs the collaborator dashboard.
type UserStats struct {
	CurrentLocked int64           `json:"current_locked"`
	Submitted     int64           `json:"submitted"`
	Completed     int64           `json:"completed"`
	MaxConcurrent int64           `json:"max_concurrent"`
	CanTakeMore   bool            `json:"can_take_more"`
	Rank          models.UserRank `json:"rank"`
	CreditScore   int             `json:"credit_score"`
	Balance       int64           `json:"balance"`
	TotalEarned   int64           `json:"total_earned"`
	IsVerified    bool            `json:"is_verified"`
	OverdueCount  int64           `json:"overdue_count"`
}
