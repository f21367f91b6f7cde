package models

import (
	"time"

	"gorm.io/datatypes"
)

// QualityScores are the reviewer's 1-5 marks per aspect.
type QualityScores struct {
	Translation int `json:"translation"`
	Audio       int `json:"audio"`
	Video       int `json:"video"`
	Timing      int `json:"timing"`
}

// SafetyChecks are recorded by the reviewer. Approval needs all four flags.
type SafetyChecks struct {
	IsPoliticalSafe      bool    `json:"is_political_safe"`
	IsMapSafe            bool    `json:"is_map_safe"`
	IsDerivativeWork     bool    `json:"is_derivative_work"`
	NoCopyrightViolation bool    `json:"no_copyright_violation"`
	SafetyNotes          *string `json:"safety_notes,omitempty" validate:"omitempty,max=2000"`
}

// Missing returns the names of the checks that did not pass.
func (s SafetyChecks) Missing() []string {
	var missing []string
	if !s.IsPoliticalSafe {
		missing = append(missing, "is_political_safe")
	}
	if !s.IsMapSafe {
		missing = append(missing, "is_map_safe")
	}
	if !s.IsDerivativeWork {
		missing = append(missing, "is_derivative_work")
	}
	if !s.NoCopyrightViolation {
		missing = append(missing, "no_copyright_violation")
	}
	return missing
}

type Submission struct {
	BaseModel
	JobID                string                      `gorm:"type:uuid;not null;index" json:"job_id"`
	SubmittedBy          string                      `gorm:"type:uuid;not null;index" json:"submitted_by"`
	VideoURL             string                      `gorm:"not null" json:"video_url"`
	SourceFilesURL       *string                     `json:"source_files_url,omitempty"`
	TranslatedText       *string                     `json:"translated_text,omitempty"`
	ThumbnailURL         *string                     `json:"thumbnail_url,omitempty"`
	AdditionalFiles      datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"additional_files"`
	Notes                *string                     `json:"notes,omitempty"`
	ConfirmedDerivative  bool                        `gorm:"not null;default:false" json:"confirmed_derivative"`
	ConfirmedNoCopyright bool                        `gorm:"not null;default:false" json:"confirmed_no_copyright"`
	RevisionNumber       int                         `gorm:"not null;default:1" json:"revision_number"`
	ParentSubmissionID   *string                     `gorm:"type:uuid" json:"parent_submission_id,omitempty"`

	// Review fields, written once.
	ReviewDecision  *ReviewDecision                   `gorm:"type:varchar(32)" json:"review_decision,omitempty"`
	ReviewedBy      *string                           `gorm:"type:uuid" json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time                        `json:"reviewed_at,omitempty"`
	ReviewNotes     *string                           `json:"review_notes,omitempty"`
	ReviewRating    *int                              `json:"review_rating,omitempty"`
	QualityScores   datatypes.JSONType[QualityScores] `gorm:"type:jsonb" json:"quality_scores"`
	SafetyChecks    datatypes.JSONType[SafetyChecks]  `gorm:"type:jsonb" json:"safety_checks"`
	PayoutBonus     int64                             `gorm:"not null;default:0" json:"payout_bonus"`
	PayoutDeduction int64                             `gorm:"not null;default:0" json:"payout_deduction"`
}

func (Submission) TableName() string { return "submissions" }

func (s *Submission) IsReviewed() bool {
	return s.ReviewDecision != nil
}
