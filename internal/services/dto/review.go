package dto

import (
	"github.com/tungtase04539/sangtaophaisinh/internal/models"
)

// ReviewRequest is posted by a manager against a submitted job.
type ReviewRequest struct {
	SubmissionID    string                `json:"submission_id" validate:"required,uuid"`
	Decision        models.ReviewAction   `json:"decision" validate:"required,is-review-decision"`
	SafetyChecks    models.SafetyChecks   `json:"safety_checks"`
	QualityScores   *models.QualityScores `json:"quality_scores,omitempty"`
	Rating          *int                  `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Notes           *string               `json:"notes,omitempty" validate:"omitempty,max=2000"`
	PayoutBonus     int64                 `json:"payout_bonus" validate:"min=0"`
	PayoutDeduction int64                 `json:"payout_deduction" validate:"min=0"`
}

type ReviewResult struct {
	Job        *models.Job        `json:"job"`
	Submission *models.Submission `json:"submission"`
	Payout     int64              `json:"payout"`
	NewBalance *int64             `json:"new_balance,omitempty"`
}

// AdminStatusRequest moves a job to cancelled or disputed.
type AdminStatusRequest struct {
	Status models.JobStatus `json:"status" validate:"required,is-admin-job-status"`
	Reason *string          `json:"reason,omitempty" validate:"omitempty,max=1000"`
}

type PendingReviewItem struct {
	Submission models.Submission `json:"submission"`
	Job        *models.Job       `json:"job,omitempty"`
}

type PendingReviewListResponse struct {
	Items []PendingReviewItem `json:"items"`
	PageInfo
}
