package repositories

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tungtase04539/sangtaophaisinh/internal/models"
)

type ProfileFilter struct {
	Role     models.UserRole
	Verified *bool
	Search   string
	Pagination
}

type ProfileDetails struct {
	FullName  *string
	Phone     *string
	AvatarURL *string
}

type ProfileRepository interface {
	Create(db *gorm.DB, profile *models.Profile) error
	FindByID(db *gorm.DB, id string) (*models.Profile, error)
	FindByIDForUpdate(db *gorm.DB, id string) (*models.Profile, error)
	FindByEmail(db *gorm.DB, email string) (*models.Profile, error)
	List(db *gorm.DB, filter ProfileFilter) ([]models.Profile, int64, error)
	Count(db *gorm.DB, filter ProfileFilter) (int64, error)

	UpdateDetails(db *gorm.DB, id string, details ProfileDetails) error
	UpdateRole(db *gorm.DB, id string, role models.UserRole) error
	UpdateCredit(db *gorm.DB, id string, score int, rank models.UserRank) error
	UpdateBalance(db *gorm.DB, id string, balance, totalEarned int64) error
	MarkVerified(db *gorm.DB, id, verifierID string, notes *string, at time.Time) error
	SignAgreement(db *gorm.DB, id string, terms, waiver bool, at time.Time) error
}

type ProfileRepositoryImpl struct{}

func NewProfileRepository() ProfileRepository {
	return &ProfileRepositoryImpl{}
}

func (r *ProfileRepositoryImpl) Create(db *gorm.DB, profile *models.Profile) error {
	profile.Email = strings.ToLower(strings.TrimSpace(profile.Email))
	var count int64
	if err := db.Model(&models.Profile{}).Where("email = ?", profile.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrEmailAlreadyExists
	}
	return db.Create(profile).Error
}

func (r *ProfileRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Profile, error) {
	var profile models.Profile
	if err := db.Where("id = ?", id).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) FindByIDForUpdate(db *gorm.DB, id string) (*models.Profile, error) {
	return r.FindByID(db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *ProfileRepositoryImpl) FindByEmail(db *gorm.DB, email string) (*models.Profile, error) {
	var profile models.Profile
	err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) List(db *gorm.DB, filter ProfileFilter) ([]models.Profile, int64, error) {
	var profiles []models.Profile
	var total int64

	query := r.applyFilter(db.Model(&models.Profile{}), filter)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&profiles).Error
	return profiles, total, err
}

func (r *ProfileRepositoryImpl) Count(db *gorm.DB, filter ProfileFilter) (int64, error) {
	var total int64
	err := r.applyFilter(db.Model(&models.Profile{}), filter).Count(&total).Error
	return total, err
}

func (r *ProfileRepositoryImpl) UpdateDetails(db *gorm.DB, id string, details ProfileDetails) error {
	updates := map[string]interface{}{}
	if details.FullName != nil {
		updates["full_name"] = *details.FullName
	}
	if details.Phone != nil {
		updates["phone"] = *details.Phone
	}
	if details.AvatarURL != nil {
		updates["avatar_url"] = *details.AvatarURL
	}
	if len(updates) == 0 {
		return nil
	}
	return r.update(db, id, updates)
}

func (r *ProfileRepositoryImpl) UpdateRole(db *gorm.DB, id string, role models.UserRole) error {
	return r.update(db, id, map[string]interface{}{"role": role})
}

func (r *ProfileRepositoryImpl) UpdateCredit(db *gorm.DB, id string, score int, rank models.UserRank) error {
	return r.update(db, id, map[string]interface{}{"credit_score": score, "rank": rank})
}

func (r *ProfileRepositoryImpl) UpdateBalance(db *gorm.DB, id string, balance, totalEarned int64) error {
	return r.update(db, id, map[string]interface{}{"balance": balance, "total_earned": totalEarned})
}

func (r *ProfileRepositoryImpl) MarkVerified(db *gorm.DB, id, verifierID string, notes *string, at time.Time) error {
	return r.update(db, id, map[string]interface{}{
		"is_verified":        true,
		"verified_at":        at,
		"verified_by":        verifierID,
		"verification_notes": notes,
	})
}

func (r *ProfileRepositoryImpl) SignAgreement(db *gorm.DB, id string, terms, waiver bool, at time.Time) error {
	updates := map[string]interface{}{}
	if terms {
		updates["agreed_to_terms"] = true
		updates["terms_agreed_at"] = at
	}
	if waiver {
		updates["liability_waiver_signed"] = true
		updates["waiver_signed_at"] = at
	}
	if len(updates) == 0 {
		return nil
	}
	return r.update(db, id, updates)
}

func (r *ProfileRepositoryImpl) update(db *gorm.DB, id string, updates map[string]interface{}) error {
	result := db.Model(&models.Profile{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *ProfileRepositoryImpl) applyFilter(query *gorm.DB, filter ProfileFilter) *gorm.DB {
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Verified != nil {
		query = query.Where("is_verified = ?", *filter.Verified)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("full_name ILIKE ? OR email ILIKE ?", like, like)
	}
	return query
}
