package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/tungtase04539/sangtaophaisinh/internal/events"
	"github.com/tungtase04539/sangtaophaisinh/internal/logger"
	"github.com/tungtase04539/sangtaophaisinh/internal/models"
	"github.com/tungtase04539/sangtaophaisinh/internal/pricing"
	"github.com/tungtase04539/sangtaophaisinh/internal/repositories"
	"github.com/tungtase04539/sangtaophaisinh/internal/services/dto"
	"github.com/tungtase04539/sangtaophaisinh/pkg/apperrors"
)

type JobService interface {
	// Manager side
	CreateJob(ctx context.Context, creatorID string, req *dto.CreateJobRequest) (*models.Job, error)
	ListJobs(ctx context.Context, query dto.JobListQuery) (*dto.JobListResponse, error)

	// Collaborator side
	ListAvailable(ctx context.Context, query dto.JobListQuery) (*dto.JobListResponse, error)
	ListMine(ctx context.Context, userID string, query dto.JobListQuery) (*dto.JobListResponse, error)
	ClaimJob(ctx context.Context, userID, jobID string) (*dto.LockJobResult, error)
	ReleaseJob(ctx context.Context, userID, jobID string) (*dto.ReleaseJobResult, error)
	SubmitWork(ctx context.Context, userID, jobID string, req *dto.SubmitWorkRequest) (*models.Submission, error)
	GetUserStats(ctx context.Context, userID string) (*dto.UserStats, error)

	// Shared
	GetJob(ctx context.Context, userID string, role models.UserRole, jobID string) (*models.Job, error)
	ListSubmissions(ctx context.Context, userID string, role models.UserRole, jobID string) ([]models.Submission, error)
}

type JobServiceImpl struct {
	tx             repositories.Transactor
	jobRepo        repositories.JobRepository
	submissionRepo repositories.SubmissionRepository
	profileRepo    repositories.ProfileRepository
	configRepo     repositories.ConfigRepository
	publisher      events.Publisher
	credit         CreditPolicy
	now            func() time.Time
}

func NewJobService(
	tx repositories.Transactor,
	jobRepo repositories.JobRepository,
	submissionRepo repositories.SubmissionRepository,
	profileRepo repositories.ProfileRepository,
	configRepo repositories.ConfigRepository,
	publisher events.Publisher,
	credit CreditPolicy,
) *JobServiceImpl {
	return &JobServiceImpl{
		tx:             tx,
		jobRepo:        jobRepo,
		submissionRepo: submissionRepo,
		profileRepo:    profileRepo,
		configRepo:     configRepo,
		publisher:      publisher,
		credit:         credit,
		now:            time.Now,
	}
}

// ==========================
// Manager side
// ==========================

func (s *JobServiceImpl) CreateJob(ctx context.Context, creatorID string, req *dto.CreateJobRequest) (*models.Job, error) {
	if err := ValidateAIMetadata(req.AIMetadata); err != nil {
		return nil, err
	}

	db := s.tx.DB(ctx)
	cfg, err := s.configRepo.GetPricing(db)
	if err != nil {
		return nil, handleRepoError(err)
	}

	breakdown, err := pricing.Calculate(*cfg, pricing.Input{
		WordCount:            req.WordCount,
		VideoDurationSeconds: req.VideoDurationSeconds,
		Complexity:           req.Complexity,
		ReRecordRequired:     req.ReRecordRequired(),
	})
	if err != nil {
		return nil, handlePricingError(err)
	}

	job := &models.Job{
		Title:                req.Title,
		Description:          req.Description,
		SourceURL:            req.SourceURL,
		WordCount:            breakdown.WordCount,
		VideoDurationSeconds: breakdown.VideoDurationSeconds,
		IsReRecordRequired:   req.ReRecordRequired(),
		Complexity:           req.Complexity,
		PricingData:          datatypes.NewJSONType(breakdown),
		Status:               models.JobStatusAvailable,
		CreatedBy:            creatorID,
	}
	if len(req.AIMetadata) > 0 {
		job.AIMetadata = datatypes.JSON(req.AIMetadata)
	}

	if err := s.jobRepo.Create(db, job); err != nil {
		return nil, handleRepoError(err)
	}

	logger.CtxInfo(ctx, "Job created", "job_id", job.ID, "final_price", breakdown.FinalPrice, "complexity", job.Complexity)

	s.publisher.Publish(ctx, events.Event{
		Type:     events.JobCreated,
		JobID:    job.ID,
		ActorID:  creatorID,
		Audience: []models.UserRole{models.UserRoleCTV},
		Title:    "New job available",
		Message:  job.Title,
		Payload: map[string]any{
			"job_title":   job.Title,
			"complexity":  job.Complexity,
			"final_price": breakdown.FinalPrice,
		},
	})
	return job, nil
}

func (s *JobServiceImpl) ListJobs(ctx context.Context, query dto.JobListQuery) (*dto.JobListResponse, error) {
	filter := repositories.JobFilter{
		Complexity: query.Complexity,
		Search:     query.Search,
		Pagination: toPagination(query.PageQuery),
	}
	if query.Status != "" {
		filter.Statuses = []models.JobStatus{query.Status}
	}
	return s.list(ctx, filter, query.PageQuery)
}

// ==========================
// Collaborator side
// ==========================

func (s *JobServiceImpl) ListAvailable(ctx context.Context, query dto.JobListQuery) (*dto.JobListResponse, error) {
	return s.list(ctx, repositories.JobFilter{
		Statuses:   []models.JobStatus{models.JobStatusAvailable},
		Complexity: query.Complexity,
		Search:     query.Search,
		Pagination: toPagination(query.PageQuery),
	}, query.PageQuery)
}

func (s *JobServiceImpl) ListMine(ctx context.Context, userID string, query dto.JobListQuery) (*dto.JobListResponse, error) {
	filter := repositories.JobFilter{
		LockedBy:   userID,
		Complexity: query.Complexity,
		Search:     query.Search,
		Pagination: toPagination(query.PageQuery),
	}
	if query.Status != "" {
		filter.Statuses = []models.JobStatus{query.Status}
	}
	return s.list(ctx, filter, query.PageQuery)
}

// ClaimJob locks an available job for a verified collaborator. The profile
// row is locked first so one collaborator's concurrent claims are serialized
// and the concurrent-job count cannot be raced past the rank ceiling.
func (s *JobServiceImpl) ClaimJob(ctx context.Context, userID, jobID string) (*dto.LockJobResult, error) {
	var (
		job      *models.Job
		deadline time.Time
		current  int64
		maxJobs  int64
	)

	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		db := s.tx.DB(txCtx)

		profile, err := s.profileRepo.FindByIDForUpdate(db, userID)
		if err != nil {
			return handleRepoError(err)
		}
		if !profile.IsCTV() {
			return apperrors.ErrNotCTV
		}
		if !profile.IsVerified {
			return apperrors.ErrCTVNotVerified
		}

		job, err = s.jobRepo.FindByIDForUpdate(db, jobID)
		if err != nil {
			return handleRepoError(err)
		}
		if job.Status != models.JobStatusAvailable {
			if job.Status == models.JobStatusLocked {
				return apperrors.ErrJobAlreadyClaimed
			}
			return apperrors.ErrJobNotAvailable
		}

		limit, err := s.configRepo.GetRankLimit(db, profile.Rank)
		if err != nil {
			return handleRepoError(err)
		}
		current, err = s.jobRepo.CountLockedBy(db, userID)
		if err != nil {
			return handleRepoError(err)
		}
		maxJobs = int64(limit.MaxConcurrentJobs)
		if current >= maxJobs {
			return apperrors.ErrConcurrentLimitReached(current, maxJobs)
		}

		now := s.now()
		deadline = now.Add(time.Duration(job.Pricing().DeadlineHours) * time.Hour)
		locked, err := s.jobRepo.MarkLocked(db, jobID, userID, now, deadline)
		if err != nil {
			return handleRepoError(err)
		}
		if !locked {
			return apperrors.ErrJobAlreadyClaimed
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	deadlineHours := job.Pricing().DeadlineHours
	logger.CtxInfo(ctx, "Job claimed", "job_id", jobID, "user_id", userID, "deadline", deadline)

	s.publisher.Publish(ctx, events.Event{
		Type:       events.JobLocked,
		JobID:      jobID,
		ActorID:    userID,
		Recipients: []string{job.CreatedBy},
		Audience:   []models.UserRole{models.UserRoleCTV},
		Title:      "Job claimed",
		Message:    fmt.Sprintf("%q was claimed by a collaborator", job.Title),
		Payload:    map[string]any{"job_title": job.Title, "deadline": deadline},
	})

	return &dto.LockJobResult{
		Success:       true,
		Message:       "Job claimed successfully",
		JobID:         ptr(jobID),
		Deadline:      ptr(deadline),
		DeadlineHours: ptr(deadlineHours),
		CurrentLocked: ptr(current + 1),
		MaxAllowed:    ptr(maxJobs),
	}, nil
}

// ReleaseJob hands a locked job back to the pool and charges the holder the
// release penalty.
func (s *JobServiceImpl) ReleaseJob(ctx context.Context, userID, jobID string) (*dto.ReleaseJobResult, error) {
	var (
		job      *models.Job
		newScore int
	)

	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		db := s.tx.DB(txCtx)

		profile, err := s.profileRepo.FindByIDForUpdate(db, userID)
		if err != nil {
			return handleRepoError(err)
		}

		job, err = s.jobRepo.FindByIDForUpdate(db, jobID)
		if err != nil {
			return handleRepoError(err)
		}
		if job.Status != models.JobStatusLocked {
			return apperrors.ErrInvalidJobStatus
		}
		if !job.IsHeldBy(userID) {
			return apperrors.ErrNotJobHolder
		}

		released, err := s.jobRepo.MarkReleased(db, jobID, userID)
		if err != nil {
			return handleRepoError(err)
		}
		if !released {
			return apperrors.ErrInvalidJobStatus
		}

		newScore = s.credit.AfterRelease(profile.CreditScore)
		if _, err := applyCredit(db, s.profileRepo, s.configRepo, userID, newScore); err != nil {
			return handleRepoError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "Job released", "job_id", jobID, "user_id", userID, "credit_score", newScore)

	s.publisher.Publish(ctx, events.Event{
		Type:       events.JobReleased,
		JobID:      jobID,
		ActorID:    userID,
		Recipients: []string{job.CreatedBy},
		Audience:   []models.UserRole{models.UserRoleCTV},
		Title:      "Job released",
		Message:    fmt.Sprintf("%q is available again", job.Title),
		Payload:    map[string]any{"job_title": job.Title},
	})

	return &dto.ReleaseJobResult{
		Success:     true,
		Message:     "Job released",
		CreditScore: ptr(newScore),
	}, nil
}

// SubmitWork records a new revision for a locked or rejected job. The holder
// keeps the lock across revisions.
func (s *JobServiceImpl) SubmitWork(ctx context.Context, userID, jobID string, req *dto.SubmitWorkRequest) (*models.Submission, error) {
	if missing := req.MissingConfirmations(); len(missing) > 0 {
		return nil, apperrors.ErrConfirmationsRequired(missing)
	}

	var (
		job        *models.Job
		submission *models.Submission
	)

	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		db := s.tx.DB(txCtx)

		var err error
		job, err = s.jobRepo.FindByIDForUpdate(db, jobID)
		if err != nil {
			return handleRepoError(err)
		}
		if !job.IsHeldBy(userID) {
			return apperrors.ErrNotJobHolder
		}
		if job.Status != models.JobStatusLocked && job.Status != models.JobStatusRejected {
			return apperrors.ErrInvalidJobStatus
		}

		previous, err := s.submissionRepo.Latest(db, jobID)
		if err != nil {
			return handleRepoError(err)
		}
		prior, err := s.submissionRepo.CountByJob(db, jobID)
		if err != nil {
			return handleRepoError(err)
		}

		submission = &models.Submission{
			JobID:                jobID,
			SubmittedBy:          userID,
			VideoURL:             req.VideoURL,
			SourceFilesURL:       req.SourceFilesURL,
			TranslatedText:       req.TranslatedText,
			ThumbnailURL:         req.ThumbnailURL,
			AdditionalFiles:      datatypes.NewJSONSlice(req.AdditionalFiles),
			Notes:                req.Notes,
			ConfirmedDerivative:  req.ConfirmedDerivative,
			ConfirmedNoCopyright: req.ConfirmedNoCopyright,
			RevisionNumber:       int(prior) + 1,
		}
		if previous != nil {
			submission.ParentSubmissionID = ptr(previous.ID)
		}
		if err := s.submissionRepo.Create(db, submission); err != nil {
			return handleRepoError(err)
		}

		moved, err := s.jobRepo.TransitionStatus(db, jobID,
			[]models.JobStatus{models.JobStatusLocked, models.JobStatusRejected},
			models.JobStatusSubmitted,
		)
		if err != nil {
			return handleRepoError(err)
		}
		if !moved {
			return apperrors.ErrInvalidJobStatus
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "Work submitted",
		"job_id", jobID,
		"user_id", userID,
		"submission_id", submission.ID,
		"revision", submission.RevisionNumber,
	)

	s.publisher.Publish(ctx, events.Event{
		Type:       events.JobSubmitted,
		JobID:      jobID,
		ActorID:    userID,
		Recipients: []string{job.CreatedBy},
		Audience:   []models.UserRole{models.UserRoleManager, models.UserRoleAdmin},
		Title:      "Submission ready for review",
		Message:    fmt.Sprintf("Revision %d of %q was submitted", submission.RevisionNumber, job.Title),
		Payload: map[string]any{
			"job_title":     job.Title,
			"submission_id": submission.ID,
			"revision":      submission.RevisionNumber,
		},
	})
	return submission, nil
}

func (s *JobServiceImpl) GetUserStats(ctx context.Context, userID string) (*dto.UserStats, error) {
	db := s.tx.DB(ctx)

	profile, err := s.profileRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleRepoError(err)
	}

	counts, err := s.jobRepo.CountByStatus(db, repositories.JobFilter{LockedBy: userID})
	if err != nil {
		return nil, handleRepoError(err)
	}

	stats := &dto.UserStats{
		CurrentLocked: counts[models.JobStatusLocked],
		Submitted:     counts[models.JobStatusSubmitted],
		Completed:     counts[models.JobStatusCompleted],
		Rank:          profile.Rank,
		CreditScore:   profile.CreditScore,
		Balance:       profile.Balance,
		TotalEarned:   profile.TotalEarned,
		IsVerified:    profile.IsVerified,
	}

	if profile.IsCTV() {
		limit, err := s.configRepo.GetRankLimit(db, profile.Rank)
		if err != nil {
			return nil, handleRepoError(err)
		}
		stats.MaxConcurrent = int64(limit.MaxConcurrentJobs)
		stats.CanTakeMore = profile.IsVerified && stats.CurrentLocked < stats.MaxConcurrent
	}

	if stats.CurrentLocked > 0 {
		locked, _, err := s.jobRepo.List(db, repositories.JobFilter{
			Statuses:   []models.JobStatus{models.JobStatusLocked},
			LockedBy:   userID,
			Pagination: repositories.Pagination{Page: 1, PageSize: int(stats.CurrentLocked)},
		})
		if err != nil {
			return nil, handleRepoError(err)
		}
		now := s.now()
		for i := range locked {
			if locked[i].IsOverdue(now) {
				stats.OverdueCount++
			}
		}
	}
	return stats, nil
}

// ==========================
// Shared
// ==========================

// GetJob hides jobs a collaborator can neither claim nor holds.
func (s *JobServiceImpl) GetJob(ctx context.Context, userID string, role models.UserRole, jobID string) (*models.Job, error) {
	job, err := s.jobRepo.FindByID(s.tx.DB(ctx), jobID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	if role.IsStaff() || job.Status == models.JobStatusAvailable || job.IsHeldBy(userID) {
		return job, nil
	}
	return nil, apperrors.ErrJobNotFound
}

func (s *JobServiceImpl) ListSubmissions(ctx context.Context, userID string, role models.UserRole, jobID string) ([]models.Submission, error) {
	db := s.tx.DB(ctx)

	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	if !role.IsStaff() && !job.IsHeldBy(userID) {
		return nil, apperrors.ErrNotJobHolder
	}

	submissions, err := s.submissionRepo.ListByJob(db, jobID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	return submissions, nil
}

func (s *JobServiceImpl) list(ctx context.Context, filter repositories.JobFilter, page dto.PageQuery) (*dto.JobListResponse, error) {
	page.Normalize()
	jobs, total, err := s.jobRepo.List(s.tx.DB(ctx), filter)
	if err != nil {
		return nil, handleRepoError(err)
	}
	if jobs == nil {
		jobs = []models.Job{}
	}
	return &dto.JobListResponse{
		Jobs:     jobs,
		PageInfo: dto.NewPageInfo(total, page),
	}, nil
}
