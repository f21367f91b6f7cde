package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tungtase04539/sangtaophaisinh/internal/models"
)

type JobFilter struct {
	Statuses   []models.JobStatus
	Complexity models.Complexity
	LockedBy   string
	CreatedBy  string
	Search     string
	Pagination
}

// JobReviewUpdate is written together with the status change a review causes.
type JobReviewUpdate struct {
	Status           models.JobStatus
	IsPoliticalSafe  *bool
	IsMapSafe        *bool
	SafetyReviewedBy *string
	SafetyReviewedAt *time.Time
}

// Conditional writes return false when no row matched, meaning the job was
// not in the expected state any more.
type JobRepository interface {
	Create(db *gorm.DB, job *models.Job) error
	FindByID(db *gorm.DB, id string) (*models.Job, error)
	FindByIDForUpdate(db *gorm.DB, id string) (*models.Job, error)
	List(db *gorm.DB, filter JobFilter) ([]models.Job, int64, error)
	CountLockedBy(db *gorm.DB, userID string) (int64, error)
	CountByStatus(db *gorm.DB, filter JobFilter) (map[models.JobStatus]int64, error)

	MarkLocked(db *gorm.DB, id, holderID string, lockedAt, deadline time.Time) (bool, error)
	MarkReleased(db *gorm.DB, id, holderID string) (bool, error)
	TransitionStatus(db *gorm.DB, id string, from []models.JobStatus, to models.JobStatus) (bool, error)
	ApplyReview(db *gorm.DB, id string, update JobReviewUpdate) (bool, error)

	FindOverdue(db *gorm.DB, now time.Time, limit int) ([]models.Job, error)
	MarkOverdueNotified(db *gorm.DB, id string, at time.Time) error
}

type JobRepositoryImpl struct{}

func NewJobRepository() JobRepository {
	return &JobRepositoryImpl{}
}

func (r *JobRepositoryImpl) Create(db *gorm.DB, job *models.Job) error {
	return db.Create(job).Error
}

func (r *JobRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Job, error) {
	var job models.Job
	if err := db.Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *JobRepositoryImpl) FindByIDForUpdate(db *gorm.DB, id string) (*models.Job, error) {
	return r.FindByID(db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *JobRepositoryImpl) List(db *gorm.DB, filter JobFilter) ([]models.Job, int64, error) {
	var jobs []models.Job
	var total int64

	query := r.applyFilter(db.Model(&models.Job{}), filter)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&jobs).Error
	return jobs, total, err
}

func (r *JobRepositoryImpl) CountLockedBy(db *gorm.DB, userID string) (int64, error) {
	var count int64
	err := db.Model(&models.Job{}).
		Where("locked_by = ? AND status = ?", userID, models.JobStatusLocked).
		Count(&count).Error
	return count, err
}

func (r *JobRepositoryImpl) CountByStatus(db *gorm.DB, filter JobFilter) (map[models.JobStatus]int64, error) {
	var rows []struct {
		Status models.JobStatus
		Count  int64
	}
	err := r.applyFilter(db.Model(&models.Job{}), filter).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.JobStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *JobRepositoryImpl) MarkLocked(db *gorm.DB, id, holderID string, lockedAt, deadline time.Time) (bool, error) {
	result := db.Model(&models.Job{}).
		Where("id = ? AND status = ?", id, models.JobStatusAvailable).
		Updates(map[string]interface{}{
			"status":    models.JobStatusLocked,
			"locked_by": holderID,
			"locked_at": lockedAt,
			"deadline":  deadline,
		})
	return result.RowsAffected == 1, result.Error
}

func (r *JobRepositoryImpl) MarkReleased(db *gorm.DB, id, holderID string) (bool, error) {
	result := db.Model(&models.Job{}).
		Where("id = ? AND status = ? AND locked_by = ?", id, models.JobStatusLocked, holderID).
		Updates(map[string]interface{}{
			"status":              models.JobStatusAvailable,
			"locked_by":           nil,
			"locked_at":           nil,
			"deadline":            nil,
			"overdue_notified_at": nil,
		})
	return result.RowsAffected == 1, result.Error
}

func (r *JobRepositoryImpl) TransitionStatus(db *gorm.DB, id string, from []models.JobStatus, to models.JobStatus) (bool, error) {
	updates := map[string]interface{}{"status": to}
	if to == models.JobStatusCompleted {
		updates["completed_at"] = time.Now()
	}
	result := db.Model(&models.Job{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	return result.RowsAffected == 1, result.Error
}

func (r *JobRepositoryImpl) ApplyReview(db *gorm.DB, id string, update JobReviewUpdate) (bool, error) {
	updates := map[string]interface{}{"status": update.Status}
	if update.SafetyReviewedBy != nil {
		updates["is_political_safe"] = update.IsPoliticalSafe
		updates["is_map_safe"] = update.IsMapSafe
		updates["safety_reviewed_by"] = update.SafetyReviewedBy
		updates["safety_reviewed_at"] = update.SafetyReviewedAt
	}
	result := db.Model(&models.Job{}).
		Where("id = ? AND status = ?", id, models.JobStatusSubmitted).
		Updates(updates)
	return result.RowsAffected == 1, result.Error
}

func (r *JobRepositoryImpl) FindOverdue(db *gorm.DB, now time.Time, limit int) ([]models.Job, error) {
	var jobs []models.Job
	err := db.Where("status = ? AND deadline < ? AND overdue_notified_at IS NULL", models.JobStatusLocked, now).
		Order("deadline ASC").
		Limit(limit).
		Find(&jobs).Error
	return jobs, err
}

func (r *JobRepositoryImpl) MarkOverdueNotified(db *gorm.DB, id string, at time.Time) error {
	return db.Model(&models.Job{}).
		Where("id = ?", id).
		Update("overdue_notified_at", at).Error
}

func (r *JobRepositoryImpl) applyFilter(query *gorm.DB, filter JobFilter) *gorm.DB {
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.Complexity != "" {
		query = query.Where("complexity = ?", filter.Complexity)
	}
	if filter.LockedBy != "" {
		query = query.Where("locked_by = ?", filter.LockedBy)
	}
	if filter.CreatedBy != "" {
		query = query.Where("created_by = ?", filter.CreatedBy)
	}
	if filter.Search != "" {
		query = query.Where("title ILIKE ?", "%"+filter.Search+"%")
	}
	return query
}
