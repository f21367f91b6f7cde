package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/tungtase04539/sangtaophaisinh/internal/events"
	"github.com/tungtase04539/sangtaophaisinh/internal/logger"
	"github.com/tungtase04539/sangtaophaisinh/internal/models"
	"github.com/tungtase04539/sangtaophaisinh/internal/repositories"
	"github.com/tungtase04539/sangtaophaisinh/internal/services/dto"
	"github.com/tungtase04539/sangtaophaisinh/pkg/apperrors"
)

type ReviewService interface {
	ReviewSubmission(ctx context.Context, reviewerID, jobID string, req *dto.ReviewRequest) (*dto.ReviewResult, error)
	ListPendingReviews(ctx context.Context, query dto.PageQuery) (*dto.PendingReviewListResponse, error)
	CompleteJob(ctx context.Context, actorID, jobID string) (*models.Job, error)
	SetJobStatus(ctx context.Context, actorID, jobID string, req *dto.AdminStatusRequest) (*models.Job, error)
}

type ReviewServiceImpl struct {
	tx             repositories.Transactor
	jobRepo        repositories.JobRepository
	submissionRepo repositories.SubmissionRepository
	profileRepo    repositories.ProfileRepository
	configRepo     repositories.ConfigRepository
	ledgerRepo     repositories.LedgerRepository
	publisher      events.Publisher
	credit         CreditPolicy
	now            func() time.Time
}

func NewReviewService(
	tx repositories.Transactor,
	jobRepo repositories.JobRepository,
	submissionRepo repositories.SubmissionRepository,
	profileRepo repositories.ProfileRepository,
	configRepo repositories.ConfigRepository,
	ledgerRepo repositories.LedgerRepository,
	publisher events.Publisher,
	credit CreditPolicy,
) *ReviewServiceImpl {
	return &ReviewServiceImpl{
		tx:             tx,
		jobRepo:        jobRepo,
		submissionRepo: submissionRepo,
		profileRepo:    profileRepo,
		configRepo:     configRepo,
		ledgerRepo:     ledgerRepo,
		publisher:      publisher,
		credit:         credit,
		now:            time.Now,
	}
}

// errIntegrity marks states the database constraints should have made
// impossible. They are logged and surfaced as internal errors.
var errIntegrity = errors.New("integrity violation")

// ReviewSubmission applies a review decision. On approval the holder's
// balance, ledger, credit and rank are updated in the same transaction as the
// status writes.
func (s *ReviewServiceImpl) ReviewSubmission(ctx context.Context, reviewerID, jobID string, req *dto.ReviewRequest) (*dto.ReviewResult, error) {
	if !req.Decision.IsValid() {
		return nil, apperrors.ValidationError(map[string]string{"decision": "Must be one of: approve, reject, request_revision"})
	}
	approve := req.Decision == models.ReviewActionApprove
	if approve {
		if missing := req.SafetyChecks.Missing(); len(missing) > 0 {
			return nil, apperrors.ErrSafetyChecksRequired(missing)
		}
	}

	var (
		job        *models.Job
		submission *models.Submission
		payout     int64
		newBalance *int64
	)

	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		db := s.tx.DB(txCtx)

		// Profiles are locked before jobs everywhere, so look up the holder first.
		peek, err := s.jobRepo.FindByID(db, jobID)
		if err != nil {
			return handleRepoError(err)
		}
		if peek.Status != models.JobStatusSubmitted {
			return apperrors.ErrInvalidJobStatus
		}
		if peek.LockedBy == nil {
			logger.CtxError(ctx, "Submitted job has no holder", "job_id", jobID)
			return apperrors.InternalError(fmt.Errorf("%w: job %s submitted without holder", errIntegrity, jobID))
		}
		holderID := *peek.LockedBy

		var holder *models.Profile
		if approve {
			holder, err = s.profileRepo.FindByIDForUpdate(db, holderID)
			if err != nil {
				if errors.Is(err, repositories.ErrProfileNotFound) {
					logger.CtxError(ctx, "Job holder profile missing", "job_id", jobID, "holder_id", holderID)
					return apperrors.InternalError(fmt.Errorf("%w: holder %s missing", errIntegrity, holderID))
				}
				return handleRepoError(err)
			}
		}

		job, err = s.jobRepo.FindByIDForUpdate(db, jobID)
		if err != nil {
			return handleRepoError(err)
		}
		if job.Status != models.JobStatusSubmitted || !job.IsHeldBy(holderID) {
			return apperrors.ErrInvalidJobStatus
		}

		submission, err = s.submissionRepo.FindByIDForUpdate(db, req.SubmissionID)
		if err != nil {
			return handleRepoError(err)
		}
		if submission.JobID != jobID {
			logger.CtxError(ctx, "Submission belongs to another job",
				"job_id", jobID,
				"submission_id", submission.ID,
				"submission_job_id", submission.JobID,
			)
			return apperrors.InternalError(fmt.Errorf("%w: submission %s is not part of job %s", errIntegrity, submission.ID, jobID))
		}
		if submission.IsReviewed() {
			return apperrors.ErrSubmissionReviewed
		}

		if approve {
			payout = job.Pricing().FinalPrice + req.PayoutBonus - req.PayoutDeduction
			if payout < 0 {
				return apperrors.ErrInvalidPayout
			}
		}

		now := s.now()
		decision := req.Decision.Decision()
		submission.ReviewDecision = &decision
		submission.ReviewedBy = ptr(reviewerID)
		submission.ReviewedAt = ptr(now)
		submission.ReviewNotes = req.Notes
		submission.ReviewRating = req.Rating
		submission.SafetyChecks = datatypes.NewJSONType(req.SafetyChecks)
		if req.QualityScores != nil {
			submission.QualityScores = datatypes.NewJSONType(*req.QualityScores)
		}
		submission.PayoutBonus = req.PayoutBonus
		submission.PayoutDeduction = req.PayoutDeduction

		saved, err := s.submissionRepo.SaveReview(db, submission)
		if err != nil {
			return handleRepoError(err)
		}
		if !saved {
			return apperrors.ErrSubmissionReviewed
		}

		update := repositories.JobReviewUpdate{Status: req.Decision.JobStatus()}
		if req.Decision != models.ReviewActionRequestRevision {
			update.IsPoliticalSafe = ptr(req.SafetyChecks.IsPoliticalSafe)
			update.IsMapSafe = ptr(req.SafetyChecks.IsMapSafe)
			update.SafetyReviewedBy = ptr(reviewerID)
			update.SafetyReviewedAt = ptr(now)
		}
		applied, err := s.jobRepo.ApplyReview(db, jobID, update)
		if err != nil {
			return handleRepoError(err)
		}
		if !applied {
			return apperrors.ErrInvalidJobStatus
		}
		job.Status = update.Status
		if update.SafetyReviewedBy != nil {
			job.IsPoliticalSafe = update.IsPoliticalSafe
			job.IsMapSafe = update.IsMapSafe
			job.SafetyReviewedBy = update.SafetyReviewedBy
			job.SafetyReviewedAt = update.SafetyReviewedAt
		}

		if !approve {
			return nil
		}

		balance := holder.Balance + payout
		if err := s.profileRepo.UpdateBalance(db, holderID, balance, holder.TotalEarned+payout); err != nil {
			return handleRepoError(err)
		}
		if err := s.ledgerRepo.Append(db, &models.BalanceEntry{
			ProfileID:    holderID,
			JobID:        ptr(jobID),
			SubmissionID: ptr(submission.ID),
			EntryType:    models.BalanceEntryJobPayout,
			Amount:       payout,
			BalanceAfter: balance,
			CreatedBy:    ptr(reviewerID),
			CreatedAt:    now,
		}); err != nil {
			return handleRepoError(err)
		}
		if _, err := applyCredit(db, s.profileRepo, s.configRepo, holderID, s.credit.AfterApproval(holder.CreditScore)); err != nil {
			return handleRepoError(err)
		}
		newBalance = ptr(balance)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "Submission reviewed",
		"job_id", jobID,
		"submission_id", submission.ID,
		"decision", *submission.ReviewDecision,
		"reviewer_id", reviewerID,
		"payout", payout,
	)

	payload := map[string]any{
		"job_title":     job.Title,
		"decision":      string(*submission.ReviewDecision),
		"submission_id": submission.ID,
	}
	if req.Notes != nil {
		payload["notes"] = *req.Notes
	}
	if approve {
		payload["payout"] = payout
	}
	s.publisher.Publish(ctx, events.Event{
		Type:       events.JobReviewed,
		JobID:      jobID,
		ActorID:    reviewerID,
		Recipients: []string{*job.LockedBy},
		Audience:   []models.UserRole{models.UserRoleManager, models.UserRoleAdmin},
		Title:      reviewTitle(*submission.ReviewDecision),
		Message:    fmt.Sprintf("Your submission for %q was reviewed", job.Title),
		Payload:    payload,
	})
	if approve {
		s.publisher.Publish(ctx, events.Event{
			Type:       events.BalanceCredited,
			JobID:      jobID,
			ActorID:    reviewerID,
			Recipients: []string{*job.LockedBy},
			Title:      "Balance credited",
			Message:    fmt.Sprintf("%d VND added for %q", payout, job.Title),
			Payload:    map[string]any{"job_title": job.Title, "payout": payout, "balance": *newBalance},
		})
	}

	return &dto.ReviewResult{
		Job:        job,
		Submission: submission,
		Payout:     payout,
		NewBalance: newBalance,
	}, nil
}

func reviewTitle(decision models.ReviewDecision) string {
	switch decision {
	case models.ReviewDecisionApproved:
		return "Submission approved"
	case models.ReviewDecisionRevisionRequested:
		return "Revision requested"
	default:
		return "Submission rejected"
	}
}

func (s *ReviewServiceImpl) ListPendingReviews(ctx context.Context, query dto.PageQuery) (*dto.PendingReviewListResponse, error) {
	query.Normalize()
	db := s.tx.DB(ctx)

	submissions, total, err := s.submissionRepo.ListPendingReview(db, toPagination(query))
	if err != nil {
		return nil, handleRepoError(err)
	}

	items := make([]dto.PendingReviewItem, 0, len(submissions))
	jobs := make(map[string]*models.Job)
	for _, sub := range submissions {
		job, ok := jobs[sub.JobID]
		if !ok {
			job, err = s.jobRepo.FindByID(db, sub.JobID)
			if err != nil {
				return nil, handleRepoError(err)
			}
			jobs[sub.JobID] = job
		}
		items = append(items, dto.PendingReviewItem{Submission: sub, Job: job})
	}

	return &dto.PendingReviewListResponse{
		Items:    items,
		PageInfo: dto.NewPageInfo(total, query),
	}, nil
}

// CompleteJob closes an approved job.
func (s *ReviewServiceImpl) CompleteJob(ctx context.Context, actorID, jobID string) (*models.Job, error) {
	db := s.tx.DB(ctx)

	moved, err := s.jobRepo.TransitionStatus(db, jobID,
		[]models.JobStatus{models.JobStatusApproved},
		models.JobStatusCompleted,
	)
	if err != nil {
		return nil, handleRepoError(err)
	}

	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	if !moved {
		return nil, apperrors.ErrInvalidJobStatus
	}

	logger.CtxInfo(ctx, "Job completed", "job_id", jobID, "actor_id", actorID)

	event := events.Event{
		Type:    events.JobCompleted,
		JobID:   jobID,
		ActorID: actorID,
		Title:   "Job completed",
		Message: fmt.Sprintf("%q has been completed", job.Title),
		Payload: map[string]any{"job_title": job.Title},
	}
	if job.LockedBy != nil {
		event.Recipients = []string{*job.LockedBy}
	}
	s.publisher.Publish(ctx, event)
	return job, nil
}

// SetJobStatus is the administrative escape hatch: cancel or dispute any
// job that has not reached a terminal state.
func (s *ReviewServiceImpl) SetJobStatus(ctx context.Context, actorID, jobID string, req *dto.AdminStatusRequest) (*models.Job, error) {
	if req.Status != models.JobStatusCancelled && req.Status != models.JobStatusDisputed {
		return nil, apperrors.ValidationError(map[string]string{"status": "Must be one of: cancelled, disputed"})
	}

	var (
		job      *models.Job
		previous models.JobStatus
	)
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		db := s.tx.DB(txCtx)

		var err error
		job, err = s.jobRepo.FindByIDForUpdate(db, jobID)
		if err != nil {
			return handleRepoError(err)
		}
		previous = job.Status
		if !job.Status.CanEscalateTo(req.Status) {
			return apperrors.ErrInvalidJobStatus
		}

		moved, err := s.jobRepo.TransitionStatus(db, jobID, []models.JobStatus{previous}, req.Status)
		if err != nil {
			return handleRepoError(err)
		}
		if !moved {
			return apperrors.ErrInvalidJobStatus
		}
		job.Status = req.Status
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.CtxWarn(ctx, "Job status overridden",
		"job_id", jobID,
		"actor_id", actorID,
		"from", previous,
		"to", req.Status,
	)

	payload := map[string]any{"job_title": job.Title, "from": previous, "to": req.Status}
	if req.Reason != nil {
		payload["notes"] = *req.Reason
	}
	recipients := []string{job.CreatedBy}
	if job.LockedBy != nil {
		recipients = append(recipients, *job.LockedBy)
	}
	s.publisher.Publish(ctx, events.Event{
		Type:       events.JobStatusChanged,
		JobID:      jobID,
		ActorID:    actorID,
		Recipients: recipients,
		Audience:   []models.UserRole{models.UserRoleManager, models.UserRoleAdmin},
		Title:      fmt.Sprintf("Job %s", req.Status),
		Message:    fmt.Sprintf("%q moved from %s to %s", job.Title, previous, req.Status),
		Payload:    payload,
	})
	return job, nil
}
