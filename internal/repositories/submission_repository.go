package repositories

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tungtase04539/sangtaophaisinh/internal/models"
)

type SubmissionRepository interface {
	Create(db *gorm.DB, submission *models.Submission) error
	FindByID(db *gorm.DB, id string) (*models.Submission, error)
	FindByIDForUpdate(db *gorm.DB, id string) (*models.Submission, error)
	ListByJob(db *gorm.DB, jobID string) ([]models.Submission, error)
	// Latest returns nil, nil when the job has no submissions yet.
	Latest(db *gorm.DB, jobID string) (*models.Submission, error)
	CountByJob(db *gorm.DB, jobID string) (int64, error)
	// SaveReview writes the review fields once; false if already reviewed.
	SaveReview(db *gorm.DB, submission *models.Submission) (bool, error)
	ListPendingReview(db *gorm.DB, page Pagination) ([]models.Submission, int64, error)
}

type SubmissionRepositoryImpl struct{}

func NewSubmissionRepository() SubmissionRepository {
	return &SubmissionRepositoryImpl{}
}

func (r *SubmissionRepositoryImpl) Create(db *gorm.DB, submission *models.Submission) error {
	return db.Create(submission).Error
}

func (r *SubmissionRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Submission, error) {
	var submission models.Submission
	if err := db.Where("id = ?", id).First(&submission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	return &submission, nil
}

func (r *SubmissionRepositoryImpl) FindByIDForUpdate(db *gorm.DB, id string) (*models.Submission, error) {
	return r.FindByID(db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *SubmissionRepositoryImpl) ListByJob(db *gorm.DB, jobID string) ([]models.Submission, error) {
	var submissions []models.Submission
	err := db.Where("job_id = ?", jobID).
		Order("revision_number ASC").
		Find(&submissions).Error
	return submissions, err
}

func (r *SubmissionRepositoryImpl) Latest(db *gorm.DB, jobID string) (*models.Submission, error) {
	var submission models.Submission
	err := db.Where("job_id = ?", jobID).
		Order("revision_number DESC").
		First(&submission).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *SubmissionRepositoryImpl) CountByJob(db *gorm.DB, jobID string) (int64, error) {
	var count int64
	err := db.Model(&models.Submission{}).Where("job_id = ?", jobID).Count(&count).Error
	return count, err
}

func (r *SubmissionRepositoryImpl) SaveReview(db *gorm.DB, s *models.Submission) (bool, error) {
	result := db.Model(&models.Submission{}).
		Where("id = ? AND review_decision IS NULL", s.ID).
		Updates(map[string]interface{}{
			"review_decision":  s.ReviewDecision,
			"reviewed_by":      s.ReviewedBy,
			"reviewed_at":      s.ReviewedAt,
			"review_notes":     s.ReviewNotes,
			"review_rating":    s.ReviewRating,
			"quality_scores":   s.QualityScores,
			"safety_checks":    s.SafetyChecks,
			"payout_bonus":     s.PayoutBonus,
			"payout_deduction": s.PayoutDeduction,
		})
	return result.RowsAffected == 1, result.Error
}

// ListPendingReview returns unreviewed submissions of jobs waiting for review, oldest first.
func (r *SubmissionRepositoryImpl) ListPendingReview(db *gorm.DB, page Pagination) ([]models.Submission, int64, error) {
	var submissions []models.Submission
	var total int64

	query := db.Model(&models.Submission{}).
		Joins("JOIN jobs ON jobs.id = submissions.job_id").
		Where("submissions.review_decision IS NULL AND jobs.status = ?", models.JobStatusSubmitted)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Select("submissions.*").
		Order("submissions.created_at ASC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&submissions).Error
	return submissions, total, err
}
