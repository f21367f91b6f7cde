package services

import (
	"errors"

	"github.com/tungtase04539/sangtaophaisinh/internal/pricing"
	"github.com/tungtase04539/sangtaophaisinh/internal/repositories"
	"github.com/tungtase04539/sangtaophaisinh/internal/services/dto"
	"github.com/tungtase04539/sangtaophaisinh/pkg/apperrors"
)

// handleRepoError converts repository sentinels into AppErrors. Anything it
// does not recognise is reported as a database failure.
func handleRepoError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperrors.AsAppError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, repositories.ErrJobNotFound):
		return apperrors.ErrJobNotFound
	case errors.Is(err, repositories.ErrSubmissionNotFound):
		return apperrors.ErrSubmissionNotFound
	case errors.Is(err, repositories.ErrProfileNotFound):
		return apperrors.ErrProfileNotFound
	case errors.Is(err, repositories.ErrEmailAlreadyExists):
		return apperrors.ErrEmailAlreadyExists
	case errors.Is(err, repositories.ErrRankLimitNotFound):
		return apperrors.ErrRankLimitNotFound
	case errors.Is(err, repositories.ErrNotificationNotFound):
		return apperrors.ErrNotificationNotFound
	case errors.Is(err, repositories.ErrPricingNotConfigured):
		return apperrors.InternalError(err)
	}
	return apperrors.DatabaseError(err)
}

// handlePricingError reports calculator failures against the request field
// that caused them.
func handlePricingError(err error) error {
	if errors.Is(err, pricing.ErrOutOfRange) {
		return apperrors.ValidationError(map[string]string{"pricing": err.Error()})
	}
	return apperrors.ValidationError(map[string]string{"complexity": err.Error()})
}

func toPagination(q dto.PageQuery) repositories.Pagination {
	q.Normalize()
	return repositories.Pagination{Page: q.Page, PageSize: q.PageSize}
}

func ptr[T any](v T) *T {
	return &v
}
