package repositories

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tungtase04539/sangtaophaisinh/internal/models"
)

// ConfigRepository covers the admin-managed tables: the pricing singleton
// and the per-rank limits.
type ConfigRepository interface {
	GetPricing(db *gorm.DB) (*models.PricingConfig, error)
	UpdatePricing(db *gorm.DB, cfg *models.PricingConfig) error
	ListRankLimits(db *gorm.DB) ([]models.RankLimit, error)
	GetRankLimit(db *gorm.DB, rank models.UserRank) (*models.RankLimit, error)
	UpdateRankLimit(db *gorm.DB, limit *models.RankLimit) error
}

type ConfigRepositoryImpl struct{}

func NewConfigRepository() ConfigRepository {
	return &ConfigRepositoryImpl{}
}

func (r *ConfigRepositoryImpl) GetPricing(db *gorm.DB) (*models.PricingConfig, error) {
	var cfg models.PricingConfig
	if err := db.Where("id = ?", models.PricingConfigID).First(&cfg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPricingNotConfigured
		}
		return nil, err
	}
	return &cfg, nil
}

func (r *ConfigRepositoryImpl) UpdatePricing(db *gorm.DB, cfg *models.PricingConfig) error {
	cfg.ID = models.PricingConfigID
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rate_per_word", "rate_per_minute", "re_record_bonus_percent", "base_deadline_hours", "updated_by", "updated_at"}),
	}).Create(cfg).Error
}

func (r *ConfigRepositoryImpl) ListRankLimits(db *gorm.DB) ([]models.RankLimit, error) {
	var limits []models.RankLimit
	err := db.Order("min_credit_score ASC").Find(&limits).Error
	return limits, err
}

func (r *ConfigRepositoryImpl) GetRankLimit(db *gorm.DB, rank models.UserRank) (*models.RankLimit, error) {
	var limit models.RankLimit
	if err := db.Where("rank = ?", rank).First(&limit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRankLimitNotFound
		}
		return nil, err
	}
	return &limit, nil
}

func (r *ConfigRepositoryImpl) UpdateRankLimit(db *gorm.DB, limit *models.RankLimit) error {
	result := db.Model(&models.RankLimit{}).
		Where("rank = ?", limit.Rank).
		Updates(map[string]interface{}{
			"max_concurrent_jobs": limit.MaxConcurrentJobs,
			"min_credit_score":    limit.MinCreditScore,
			"description":         limit.Description,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRankLimitNotFound
	}
	return nil
}
