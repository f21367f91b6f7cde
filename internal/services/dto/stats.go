package dto

import "github.com/tungtase04539/sangtaophaisinh/internal/models"

type ManagerStats struct {
	JobsByStatus         map[models.JobStatus]int64 `json:"jobs_by_status"`
	TotalJobs            int64                      `json:"total_jobs"`
	PendingReviews       int64                      `json:"pending_reviews"`
	PendingVerifications int64                      `json:"pending_verifications"`
	VerifiedCTVs         int64                      `json:"verified_ctvs"`
}

type AdminStats struct {
	ManagerStats
	UsersByRole   map[models.UserRole]int64 `json:"users_by_role"`
	TotalPaidOut  int64                     `json:"total_paid_out"`
	EventsDropped int64                     `json:"events_dropped"`
}
