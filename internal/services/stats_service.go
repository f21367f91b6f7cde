package services

import (
	"context"

	"github.com/tungtase04539/sangtaophaisinh/internal/models"
	"github.com/tungtase04539/sangtaophaisinh/internal/repositories"
	"github.com/tungtase04539/sangtaophaisinh/internal/services/dto"
)

type StatsService interface {
	ManagerStats(ctx context.Context) (*dto.ManagerStats, error)
	AdminStats(ctx context.Context) (*dto.AdminStats, error)
}

// DropCounter reports events lost by the realtime bus.
type DropCounter interface {
	Dropped() int64
}

type StatsServiceImpl struct {
	tx             repositories.Transactor
	jobRepo        repositories.JobRepository
	submissionRepo repositories.SubmissionRepository
	profileRepo    repositories.ProfileRepository
	ledgerRepo     repositories.LedgerRepository
	drops          DropCounter
}

func NewStatsService(
	tx repositories.Transactor,
	jobRepo repositories.JobRepository,
	submissionRepo repositories.SubmissionRepository,
	profileRepo repositories.ProfileRepository,
	ledgerRepo repositories.LedgerRepository,
	drops DropCounter,
) *StatsServiceImpl {
	return &StatsServiceImpl{
		tx:             tx,
		jobRepo:        jobRepo,
		submissionRepo: submissionRepo,
		profileRepo:    profileRepo,
		ledgerRepo:     ledgerRepo,
		drops:          drops,
	}
}

func (s *StatsServiceImpl) ManagerStats(ctx context.Context) (*dto.ManagerStats, error) {
	db := s.tx.DB(ctx)

	byStatus, err := s.jobRepo.CountByStatus(db, repositories.JobFilter{})
	if err != nil {
		return nil, handleRepoError(err)
	}
	stats := &dto.ManagerStats{JobsByStatus: byStatus}
	for _, n := range byStatus {
		stats.TotalJobs += n
	}

	_, stats.PendingReviews, err = s.submissionRepo.ListPendingReview(db, repositories.Pagination{Page: 1, PageSize: 1})
	if err != nil {
		return nil, handleRepoError(err)
	}

	stats.PendingVerifications, err = s.profileRepo.Count(db, repositories.ProfileFilter{
		Role:     models.UserRoleCTV,
		Verified: ptr(false),
	})
	if err != nil {
		return nil, handleRepoError(err)
	}
	stats.VerifiedCTVs, err = s.profileRepo.Count(db, repositories.ProfileFilter{
		Role:     models.UserRoleCTV,
		Verified: ptr(true),
	})
	if err != nil {
		return nil, handleRepoError(err)
	}
	return stats, nil
}

func (s *StatsServiceImpl) AdminStats(ctx context.Context) (*dto.AdminStats, error) {
	manager, err := s.ManagerStats(ctx)
	if err != nil {
		return nil, err
	}
	db := s.tx.DB(ctx)

	stats := &dto.AdminStats{
		ManagerStats: *manager,
		UsersByRole:  make(map[models.UserRole]int64),
	}
	for _, role := range []models.UserRole{models.UserRoleAdmin, models.UserRoleManager, models.UserRoleCTV} {
		n, err := s.profileRepo.Count(db, repositories.ProfileFilter{Role: role})
		if err != nil {
			return nil, handleRepoError(err)
		}
		stats.UsersByRole[role] = n
	}

	stats.TotalPaidOut, err = s.ledgerRepo.SumPayouts(db)
	if err != nil {
		return nil, handleRepoError(err)
	}
	if s.drops != nil {
		stats.EventsDropped = s.drops.Dropped()
	}
	return stats, nil
}
