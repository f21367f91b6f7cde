package dto

import (
	"github.com/tungtase04539/sangtaophaisinh/internal/models"
)

type UpdateProfileRequest struct {
	FullName  *string `json:"full_name,omitempty" validate:"omitempty,min=1,max=200"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	AvatarURL *string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

// AgreementRequest signs the terms and the liability waiver. Signatures
// cannot be withdrawn.
type AgreementRequest struct {
	AgreeToTerms        bool `json:"agree_to_terms"`
	SignLiabilityWaiver bool `json:"sign_liability_waiver"`
}

type VerifyCTVRequest struct {
	Notes *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// CTVListQuery filters the collaborator list; status is pending, verified or all.
type CTVListQuery struct {
	PageQuery
	Status string `form:"status" validate:"omitempty,oneof=pending verified all"`
	Search string `form:"q" validate:"omitempty,max=200"`
}

type UserListQuery struct {
	PageQuery
	Role   models.UserRole `form:"role" validate:"omitempty,is-user-role"`
	Search string          `form:"q" validate:"omitempty,max=200"`
}

type ProfileListResponse struct {
	Profiles []models.Profile `json:"profiles"`
	PageInfo
}

type UpdateRoleRequest struct {
	Role models.UserRole `json:"role" validate:"required,is-user-role"`
}

type BalanceResponse struct {
	Balance     int64                 `json:"balance"`
	TotalEarned int64                 `json:"total_earned"`
	Entries     []models.BalanceEntry `json:"entries"`
	PageInfo
}
