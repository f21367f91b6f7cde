package services

import (
	"context"
	"errors"
	"strings"

	"github.com/tungtase04539/sangtaophaisinh/internal/auth"
	"github.com/tungtase04539/sangtaophaisinh/internal/logger"
	"github.com/tungtase04539/sangtaophaisinh/internal/models"
	"github.com/tungtase04539/sangtaophaisinh/internal/repositories"
	"github.com/tungtase04539/sangtaophaisinh/internal/services/dto"
	"github.com/tungtase04539/sangtaophaisinh/pkg/apperrors"
)

type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Me(ctx context.Context, userID string) (*models.Profile, error)
	// EnsureAdmin creates the first admin account when it does not exist yet.
	EnsureAdmin(ctx context.Context, email, password string) error
}

type AuthServiceImpl struct {
	tx          repositories.Transactor
	profileRepo repositories.ProfileRepository
	configRepo  repositories.ConfigRepository
	tokens      *auth.TokenManager
	credit      CreditPolicy
}

func NewAuthService(
	tx repositories.Transactor,
	profileRepo repositories.ProfileRepository,
	configRepo repositories.ConfigRepository,
	tokens *auth.TokenManager,
	credit CreditPolicy,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		tx:          tx,
		profileRepo: profileRepo,
		configRepo:  configRepo,
		tokens:      tokens,
		credit:      credit,
	}
}

// Register always creates an unverified collaborator. Managers and admins
// are promoted by an admin.
func (s *AuthServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ErrWeakPassword
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	db := s.tx.DB(ctx)
	limits, err := s.configRepo.ListRankLimits(db)
	if err != nil {
		return nil, handleRepoError(err)
	}

	profile := &models.Profile{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		FullName:     strings.TrimSpace(req.FullName),
		Phone:        req.Phone,
		Role:         models.UserRoleCTV,
		CreditScore:  s.credit.Initial,
		Rank:         models.RankForScore(limits, s.credit.Initial),
	}
	if err := s.profileRepo.Create(db, profile); err != nil {
		return nil, handleRepoError(err)
	}

	logger.CtxInfo(ctx, "Collaborator registered", "user_id", profile.ID)
	return s.issue(profile)
}

func (s *AuthServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	profile, err := s.profileRepo.FindByEmail(s.tx.DB(ctx), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, handleRepoError(err)
	}
	if !auth.CheckPasswordHash(req.Password, profile.PasswordHash) {
		logger.CtxWarn(ctx, "Failed login attempt", "user_id", profile.ID)
		return nil, apperrors.ErrInvalidCredentials
	}
	return s.issue(profile)
}

func (s *AuthServiceImpl) Me(ctx context.Context, userID string) (*models.Profile, error) {
	profile, err := s.profileRepo.FindByID(s.tx.DB(ctx), userID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	return profile, nil
}

func (s *AuthServiceImpl) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	db := s.tx.DB(ctx)
	email = strings.ToLower(strings.TrimSpace(email))

	_, err := s.profileRepo.FindByEmail(db, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repositories.ErrProfileNotFound) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	admin := &models.Profile{
		Email:        email,
		PasswordHash: hash,
		FullName:     "Administrator",
		Role:         models.UserRoleAdmin,
		Rank:         models.RankNewbie,
		CreditScore:  s.credit.Initial,
		IsVerified:   true,
	}
	if err := s.profileRepo.Create(db, admin); err != nil {
		return err
	}
	logger.Info("First admin account created", "user_id", admin.ID)
	return nil
}

func (s *AuthServiceImpl) issue(profile *models.Profile) (*dto.AuthResponse, error) {
	token, expiresAt, err := s.tokens.Generate(profile.ID, profile.Role)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		Profile:     profile,
	}, nil
}
