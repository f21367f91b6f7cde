package models

import "time"

// Profile is the single account record: login credentials plus the
// collaborator-facing rank, credit and balance.
type Profile struct {
	BaseModel
	Email        string   `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"not null" json:"-"`
	FullName     string   `gorm:"not null;default:''" json:"full_name"`
	Phone        *string  `json:"phone,omitempty"`
	AvatarURL    *string  `json:"avatar_url,omitempty"`
	Role         UserRole `gorm:"type:varchar(16);not null;index" json:"role"`
	Rank         UserRank `gorm:"type:varchar(16);not null;default:'newbie'" json:"rank"`
	CreditScore  int      `gorm:"not null;default:50" json:"credit_score"`
	Balance      int64    `gorm:"not null;default:0" json:"balance"`
	TotalEarned  int64    `gorm:"not null;default:0" json:"total_earned"`

	IsVerified        bool       `gorm:"not null;default:false" json:"is_verified"`
	VerifiedAt        *time.Time `json:"verified_at,omitempty"`
	VerifiedBy        *string    `gorm:"type:uuid" json:"verified_by,omitempty"`
	VerificationNotes *string    `json:"verification_notes,omitempty"`

	AgreedToTerms         bool       `gorm:"not null;default:false" json:"agreed_to_terms"`
	TermsAgreedAt         *time.Time `json:"terms_agreed_at,omitempty"`
	LiabilityWaiverSigned bool       `gorm:"not null;default:false" json:"liability_waiver_signed"`
	WaiverSignedAt        *time.Time `json:"waiver_signed_at,omitempty"`
}

func (Profile) TableName() string { return "profiles" }

func (p *Profile) IsCTV() bool {
	return p.Role == UserRoleCTV
}

// CanClaim reports whether the profile may lock jobs at all.
func (p *Profile) CanClaim() bool {
	return p.IsCTV() && p.IsVerified
}
