package services

import (
	"context"
	"time"

	"github.com/tungtase04539/sangtaophaisinh/internal/logger"
	"github.com/tungtase04539/sangtaophaisinh/internal/models"
	"github.com/tungtase04539/sangtaophaisinh/internal/pricing"
	"github.com/tungtase04539/sangtaophaisinh/internal/repositories"
	"github.com/tungtase04539/sangtaophaisinh/internal/services/dto"
	"github.com/tungtase04539/sangtaophaisinh/pkg/apperrors"
)

// ConfigService owns the admin-editable pricing singleton and rank table.
// Changes never touch pricing snapshots already frozen on jobs.
type ConfigService interface {
	GetPricing(ctx context.Context) (*models.PricingConfig, error)
	UpdatePricing(ctx context.Context, adminID string, req *dto.UpdatePricingRequest) (*models.PricingConfig, error)
	Quote(ctx context.Context, req *dto.QuoteRequest) (*models.PricingData, error)
	ListRankLimits(ctx context.Context) ([]models.RankLimit, error)
	UpdateRankLimit(ctx context.Context, adminID string, rank models.UserRank, req *dto.UpdateRankLimitRequest) (*models.RankLimit, error)
}

type ConfigServiceImpl struct {
	tx         repositories.Transactor
	configRepo repositories.ConfigRepository
	now        func() time.Time
}

func NewConfigService(tx repositories.Transactor, configRepo repositories.ConfigRepository) *ConfigServiceImpl {
	return &ConfigServiceImpl{tx: tx, configRepo: configRepo, now: time.Now}
}

func (s *ConfigServiceImpl) GetPricing(ctx context.Context) (*models.PricingConfig, error) {
	cfg, err := s.configRepo.GetPricing(s.tx.DB(ctx))
	if err != nil {
		return nil, handleRepoError(err)
	}
	return cfg, nil
}

func (s *ConfigServiceImpl) UpdatePricing(ctx context.Context, adminID string, req *dto.UpdatePricingRequest) (*models.PricingConfig, error) {
	cfg := &models.PricingConfig{
		ID:                   models.PricingConfigID,
		RatePerWord:          req.RatePerWord,
		RatePerMinute:        req.RatePerMinute,
		ReRecordBonusPercent: req.ReRecordBonusPercent,
		BaseDeadlineHours:    req.BaseDeadlineHours,
		UpdatedBy:            ptr(adminID),
		UpdatedAt:            s.now(),
	}
	if err := s.configRepo.UpdatePricing(s.tx.DB(ctx), cfg); err != nil {
		return nil, handleRepoError(err)
	}
	logger.CtxInfo(ctx, "Pricing config updated",
		"admin_id", adminID,
		"rate_per_word", cfg.RatePerWord,
		"rate_per_minute", cfg.RatePerMinute,
		"re_record_bonus_percent", cfg.ReRecordBonusPercent,
		"base_deadline_hours", cfg.BaseDeadlineHours,
	)
	return cfg, nil
}

// Quote previews a price with the current config. It runs the same
// calculator as job creation.
func (s *ConfigServiceImpl) Quote(ctx context.Context, req *dto.QuoteRequest) (*models.PricingData, error) {
	cfg, err := s.GetPricing(ctx)
	if err != nil {
		return nil, err
	}
	breakdown, err := pricing.Calculate(*cfg, pricing.Input{
		WordCount:            req.WordCount,
		VideoDurationSeconds: req.VideoDurationSeconds,
		Complexity:           req.Complexity,
		ReRecordRequired:     req.IsReRecordRequired,
	})
	if err != nil {
		return nil, handlePricingError(err)
	}
	return &breakdown, nil
}

func (s *ConfigServiceImpl) ListRankLimits(ctx context.Context) ([]models.RankLimit, error) {
	limits, err := s.configRepo.ListRankLimits(s.tx.DB(ctx))
	if err != nil {
		return nil, handleRepoError(err)
	}
	return limits, nil
}

func (s *ConfigServiceImpl) UpdateRankLimit(ctx context.Context, adminID string, rank models.UserRank, req *dto.UpdateRankLimitRequest) (*models.RankLimit, error) {
	if !rank.IsValid() {
		return nil, apperrors.ErrRankLimitNotFound
	}
	limit := &models.RankLimit{
		Rank:              rank,
		MaxConcurrentJobs: req.MaxConcurrentJobs,
		MinCreditScore:    req.MinCreditScore,
		Description:       req.Description,
	}
	db := s.tx.DB(ctx)
	if err := s.configRepo.UpdateRankLimit(db, limit); err != nil {
		return nil, handleRepoError(err)
	}
	updated, err := s.configRepo.GetRankLimit(db, rank)
	if err != nil {
		return nil, handleRepoError(err)
	}
	logger.CtxInfo(ctx, "Rank limit updated",
		"admin_id", adminID,
		"rank", rank,
		"max_concurrent_jobs", limit.MaxConcurrentJobs,
		"min_credit_score", limit.MinCreditScore,
	)
	return updated, nil
}
