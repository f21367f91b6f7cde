package services

import (
	"context"
	"fmt"
	"time"

	"github.com/tungtase04539/sangtaophaisinh/internal/events"
	"github.com/tungtase04539/sangtaophaisinh/internal/logger"
	"github.com/tungtase04539/sangtaophaisinh/internal/models"
	"github.com/tungtase04539/sangtaophaisinh/internal/repositories"
	"github.com/tungtase04539/sangtaophaisinh/internal/services/dto"
	"github.com/tungtase04539/sangtaophaisinh/pkg/apperrors"
)

type ProfileService interface {
	// Own profile
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*models.Profile, error)
	SignAgreement(ctx context.Context, userID string, req *dto.AgreementRequest) (*models.Profile, error)
	GetBalance(ctx context.Context, userID string, query dto.PageQuery) (*dto.BalanceResponse, error)

	// Manager side
	ListCTVs(ctx context.Context, query dto.CTVListQuery) (*dto.ProfileListResponse, error)
	VerifyCTV(ctx context.Context, verifierID, ctvID string, req *dto.VerifyCTVRequest) (*dto.SuccessResponse, error)

	// Admin side
	ListUsers(ctx context.Context, query dto.UserListQuery) (*dto.ProfileListResponse, error)
	UpdateRole(ctx context.Context, adminID, userID string, req *dto.UpdateRoleRequest) (*models.Profile, error)

	// LookupRecipient feeds the email notifier.
	LookupRecipient(ctx context.Context, userID string) (string, string, error)
}

type ProfileServiceImpl struct {
	tx          repositories.Transactor
	profileRepo repositories.ProfileRepository
	ledgerRepo  repositories.LedgerRepository
	publisher   events.Publisher
	now         func() time.Time
}

func NewProfileService(
	tx repositories.Transactor,
	profileRepo repositories.ProfileRepository,
	ledgerRepo repositories.LedgerRepository,
	publisher events.Publisher,
) *ProfileServiceImpl {
	return &ProfileServiceImpl{
		tx:          tx,
		profileRepo: profileRepo,
		ledgerRepo:  ledgerRepo,
		publisher:   publisher,
		now:         time.Now,
	}
}

// ==========================
// Own profile
// ==========================

func (s *ProfileServiceImpl) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	profile, err := s.profileRepo.FindByID(s.tx.DB(ctx), userID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	return profile, nil
}

func (s *ProfileServiceImpl) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*models.Profile, error) {
	db := s.tx.DB(ctx)
	err := s.profileRepo.UpdateDetails(db, userID, repositories.ProfileDetails{
		FullName:  req.FullName,
		Phone:     req.Phone,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		return nil, handleRepoError(err)
	}
	return s.GetProfile(ctx, userID)
}

// SignAgreement only ever sets flags. A false field keeps the current value.
func (s *ProfileServiceImpl) SignAgreement(ctx context.Context, userID string, req *dto.AgreementRequest) (*models.Profile, error) {
	if !req.AgreeToTerms && !req.SignLiabilityWaiver {
		return nil, apperrors.NewBadRequestError("Nothing to sign")
	}
	if err := s.profileRepo.SignAgreement(s.tx.DB(ctx), userID, req.AgreeToTerms, req.SignLiabilityWaiver, s.now()); err != nil {
		return nil, handleRepoError(err)
	}
	logger.CtxInfo(ctx, "Agreement signed", "user_id", userID, "terms", req.AgreeToTerms, "waiver", req.SignLiabilityWaiver)
	return s.GetProfile(ctx, userID)
}

func (s *ProfileServiceImpl) GetBalance(ctx context.Context, userID string, query dto.PageQuery) (*dto.BalanceResponse, error) {
	query.Normalize()
	db := s.tx.DB(ctx)

	profile, err := s.profileRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	entries, total, err := s.ledgerRepo.ListByProfile(db, userID, toPagination(query))
	if err != nil {
		return nil, handleRepoError(err)
	}
	if entries == nil {
		entries = []models.BalanceEntry{}
	}
	return &dto.BalanceResponse{
		Balance:     profile.Balance,
		TotalEarned: profile.TotalEarned,
		Entries:     entries,
		PageInfo:    dto.NewPageInfo(total, query),
	}, nil
}

// ==========================
// Manager side
// ==========================

func (s *ProfileServiceImpl) ListCTVs(ctx context.Context, query dto.CTVListQuery) (*dto.ProfileListResponse, error) {
	filter := repositories.ProfileFilter{
		Role:       models.UserRoleCTV,
		Search:     query.Search,
		Pagination: toPagination(query.PageQuery),
	}
	switch query.Status {
	case "pending":
		filter.Verified = ptr(false)
	case "verified":
		filter.Verified = ptr(true)
	}
	return s.list(ctx, filter, query.PageQuery)
}

// VerifyCTV is idempotent: verifying an already verified collaborator
// succeeds without touching the original verifier.
func (s *ProfileServiceImpl) VerifyCTV(ctx context.Context, verifierID, ctvID string, req *dto.VerifyCTVRequest) (*dto.SuccessResponse, error) {
	var already bool
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		db := s.tx.DB(txCtx)

		profile, err := s.profileRepo.FindByIDForUpdate(db, ctvID)
		if err != nil {
			return handleRepoError(err)
		}
		if !profile.IsCTV() {
			return apperrors.ErrNotCTV
		}
		if profile.IsVerified {
			already = true
			return nil
		}
		return handleRepoError(s.profileRepo.MarkVerified(db, ctvID, verifierID, req.Notes, s.now()))
	})
	if err != nil {
		return nil, err
	}
	if already {
		return &dto.SuccessResponse{Success: true, Message: "Collaborator is already verified"}, nil
	}

	logger.CtxInfo(ctx, "Collaborator verified", "ctv_id", ctvID, "verifier_id", verifierID)
	s.publisher.Publish(ctx, events.Event{
		Type:       events.CTVVerified,
		ActorID:    verifierID,
		Recipients: []string{ctvID},
		Title:      "Account verified",
		Message:    "Your account has been verified. You can now claim jobs.",
	})
	return &dto.SuccessResponse{Success: true, Message: "Collaborator verified"}, nil
}

// ==========================
// Admin side
// ==========================

func (s *ProfileServiceImpl) ListUsers(ctx context.Context, query dto.UserListQuery) (*dto.ProfileListResponse, error) {
	return s.list(ctx, repositories.ProfileFilter{
		Role:       query.Role,
		Search:     query.Search,
		Pagination: toPagination(query.PageQuery),
	}, query.PageQuery)
}

func (s *ProfileServiceImpl) UpdateRole(ctx context.Context, adminID, userID string, req *dto.UpdateRoleRequest) (*models.Profile, error) {
	if adminID == userID {
		return nil, apperrors.ErrCannotModifySelf
	}
	if !req.Role.IsValid() {
		return nil, apperrors.ValidationError(map[string]string{"role": "Must be one of: admin, manager, ctv"})
	}
	if err := s.profileRepo.UpdateRole(s.tx.DB(ctx), userID, req.Role); err != nil {
		return nil, handleRepoError(err)
	}
	logger.CtxWarn(ctx, "User role changed", "user_id", userID, "admin_id", adminID, "role", req.Role)
	return s.GetProfile(ctx, userID)
}

func (s *ProfileServiceImpl) LookupRecipient(ctx context.Context, userID string) (string, string, error) {
	profile, err := s.profileRepo.FindByID(s.tx.DB(ctx), userID)
	if err != nil {
		return "", "", fmt.Errorf("lookup recipient: %w", err)
	}
	return profile.Email, profile.FullName, nil
}

func (s *ProfileServiceImpl) list(ctx context.Context, filter repositories.ProfileFilter, page dto.PageQuery) (*dto.ProfileListResponse, error) {
	page.Normalize()
	profiles, total, err := s.profileRepo.List(s.tx.DB(ctx), filter)
	if err != nil {
		return nil, handleRepoError(err)
	}
	if profiles == nil {
		profiles = []models.Profile{}
	}
	return &dto.ProfileListResponse{
		Profiles: profiles,
		PageInfo: dto.NewPageInfo(total, page),
	}, nil
}
