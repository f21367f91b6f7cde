package repositories

import "errors"

var (
	ErrJobNotFound          = errors.New("job not found")
	ErrSubmissionNotFound   = errors.New("submission not found")
	ErrProfileNotFound      = errors.New("profile not found")
	ErrEmailAlreadyExists   = errors.New("email already exists")
	ErrRankLimitNotFound    = errors.New("rank limit not found")
	ErrPricingNotConfigured = errors.New("pricing config not found")
	ErrNotificationNotFound = errors.New("notification not found")
)

// Pagination is shared by the list queries.
type Pagination struct {
	Page     int
	PageSize int
}

func (p Pagination) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit()
}

func (p Pagination) Limit() int {
	if p.PageSize <= 0 {
		return 20
	}
	return p.PageSize
}
