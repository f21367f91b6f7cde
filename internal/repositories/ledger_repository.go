package repositories

import (
	"time"

	"gorm.io/gorm"

	"github.com/tungtase04539/sangtaophaisinh/internal/models"
)

// PayoutRow is a ledger entry joined with the names needed for reports.
type PayoutRow struct {
	models.BalanceEntry
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	JobTitle string `json:"job_title"`
}

type LedgerRepository interface {
	Append(db *gorm.DB, entry *models.BalanceEntry) error
	ListByProfile(db *gorm.DB, profileID string, page Pagination) ([]models.BalanceEntry, int64, error)
	ListPayouts(db *gorm.DB, from, to time.Time) ([]PayoutRow, error)
	SumPayouts(db *gorm.DB) (int64, error)
}

type LedgerRepositoryImpl struct{}

func NewLedgerRepository() LedgerRepository {
	return &LedgerRepositoryImpl{}
}

func (r *LedgerRepositoryImpl) Append(db *gorm.DB, entry *models.BalanceEntry) error {
	return db.Create(entry).Error
}

func (r *LedgerRepositoryImpl) ListByProfile(db *gorm.DB, profileID string, page Pagination) ([]models.BalanceEntry, int64, error) {
	var entries []models.BalanceEntry
	var total int64

	query := db.Model(&models.BalanceEntry{}).Where("profile_id = ?", profileID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&entries).Error
	return entries, total, err
}

func (r *LedgerRepositoryImpl) ListPayouts(db *gorm.DB, from, to time.Time) ([]PayoutRow, error) {
	var rows []PayoutRow
	err := db.Table("balance_entries").
		Select("balance_entries.*, profiles.email, profiles.full_name, COALESCE(jobs.title, '') AS job_title").
		Joins("JOIN profiles ON profiles.id = balance_entries.profile_id").
		Joins("LEFT JOIN jobs ON jobs.id = balance_entries.job_id").
		Where("balance_entries.entry_type = ?", models.BalanceEntryJobPayout).
		Where("balance_entries.created_at BETWEEN ? AND ?", from, to).
		Order("balance_entries.created_at ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *LedgerRepositoryImpl) SumPayouts(db *gorm.DB) (int64, error) {
	var total int64
	err := db.Model(&models.BalanceEntry{}).
		Where("entry_type = ?", models.BalanceEntryJobPayout).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
