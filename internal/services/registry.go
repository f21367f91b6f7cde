package services

import (
	"github.com/tungtase04539/sangtaophaisinh/internal/auth"
	"github.com/tungtase04539/sangtaophaisinh/internal/events"
	"github.com/tungtase04539/sangtaophaisinh/internal/repositories"
)

// Repositories groups the stateless repository implementations.
type Repositories struct {
	Jobs          repositories.JobRepository
	Submissions   repositories.SubmissionRepository
	Profiles      repositories.ProfileRepository
	Config        repositories.ConfigRepository
	Ledger        repositories.LedgerRepository
	Notifications repositories.NotificationRepository
}

func NewRepositories() Repositories {
	return Repositories{
		Jobs:          repositories.NewJobRepository(),
		Submissions:   repositories.NewSubmissionRepository(),
		Profiles:      repositories.NewProfileRepository(),
		Config:        repositories.NewConfigRepository(),
		Ledger:        repositories.NewLedgerRepository(),
		Notifications: repositories.NewNotificationRepository(),
	}
}

// ServiceContainer holds every application service.
type ServiceContainer struct {
	AuthService         AuthService
	JobService          JobService
	ReviewService       ReviewService
	ProfileService      ProfileService
	ConfigService       ConfigService
	StatsService        StatsService
	NotificationService NotificationService
	ReportService       ReportService

	// NotificationStore and Recipients are wired as event subscribers.
	NotificationStore *NotificationServiceImpl
	Recipients        *ProfileServiceImpl
}

func NewServiceContainer(
	tx repositories.Transactor,
	repos Repositories,
	tokens *auth.TokenManager,
	publisher events.Publisher,
	drops DropCounter,
	credit CreditPolicy,
) *ServiceContainer {
	profiles := NewProfileService(tx, repos.Profiles, repos.Ledger, publisher)
	notifications := NewNotificationService(tx, repos.Notifications)

	return &ServiceContainer{
		AuthService:         NewAuthService(tx, repos.Profiles, repos.Config, tokens, credit),
		JobService:          NewJobService(tx, repos.Jobs, repos.Submissions, repos.Profiles, repos.Config, publisher, credit),
		ReviewService:       NewReviewService(tx, repos.Jobs, repos.Submissions, repos.Profiles, repos.Config, repos.Ledger, publisher, credit),
		ProfileService:      profiles,
		ConfigService:       NewConfigService(tx, repos.Config),
		StatsService:        NewStatsService(tx, repos.Jobs, repos.Submissions, repos.Profiles, repos.Ledger, drops),
		NotificationService: notifications,
		ReportService:       NewReportService(tx, repos.Ledger),
		NotificationStore:   notifications,
		Recipients:          profiles,
	}
}
