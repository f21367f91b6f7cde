package repositories_test

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tungtase04539/sangtaophaisinh/database"
	"github.com/tungtase04539/sangtaophaisinh/internal/auth"
	"github.com/tungtase04539/sangtaophaisinh/internal/events"
	"github.com/tungtase04539/sangtaophaisinh/internal/models"
	"github.com/tungtase04539/sangtaophaisinh/internal/repositories"
	"github.com/tungtase04539/sangtaophaisinh/internal/services"
	"github.com/tungtase04539/sangtaophaisinh/internal/services/dto"
)

// openTestDB connects to TEST_DATABASE_URL and resets the schema. Tests are
// skipped when it is not set.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	require.NoError(t, db.Exec("TRUNCATE notifications, balance_entries, submissions, jobs, profiles CASCADE").Error)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func createProfile(t *testing.T, db *gorm.DB, email string, role models.UserRole, verified bool) *models.Profile {
	t.Helper()
	p := &models.Profile{
		Email:        email,
		PasswordHash: "x",
		FullName:     email,
		Role:         role,
		Rank:         models.RankNewbie,
		CreditScore:  50,
		IsVerified:   verified,
	}
	require.NoError(t, repositories.NewProfileRepository().Create(db, p))
	return p
}

func TestPostgres_ClaimRaceAndPayout(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	tx := repositories.NewGormTransactor(db)
	container := services.NewServiceContainer(
		tx,
		services.NewRepositories(),
		auth.NewTokenManager("integration", time.Hour),
		events.Nop{},
		nil,
		services.DefaultCreditPolicy(),
	)

	manager := createProfile(t, db, "manager@example.com", models.UserRoleManager, true)
	const racers = 8
	ctvs := make([]*models.Profile, racers)
	for i := range ctvs {
		ctvs[i] = createProfile(t, db, "ctv"+string(rune('a'+i))+"@example.com", models.UserRoleCTV, true)
	}

	job, err := container.JobService.CreateJob(ctx, manager.ID, &dto.CreateJobRequest{
		Title:                "Intro to CNNs",
		WordCount:            2000,
		VideoDurationSeconds: 900,
		Complexity:           models.ComplexityMedium,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(252000), job.Pricing().FinalPrice)

	var (
		wg     sync.WaitGroup
		wins   atomic.Int32
		winner atomic.Value
		start  = make(chan struct{})
	)
	for _, ctv := range ctvs {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			<-start
			if _, err := container.JobService.ClaimJob(ctx, id, job.ID); err == nil {
				wins.Add(1)
				winner.Store(id)
			}
		}(ctv.ID)
	}
	close(start)
	wg.Wait()
	require.Equal(t, int32(1), wins.Load())

	holderID := winner.Load().(string)
	sub, err := container.JobService.SubmitWork(ctx, holderID, job.ID, &dto.SubmitWorkRequest{
		VideoURL:             "https://cdn.example.com/v.mp4",
		ConfirmedDerivative:  true,
		ConfirmedNoCopyright: true,
	})
	require.NoError(t, err)

	result, err := container.ReviewService.ReviewSubmission(ctx, manager.ID, job.ID, &dto.ReviewRequest{
		SubmissionID: sub.ID,
		Decision:     models.ReviewActionApprove,
		SafetyChecks: models.SafetyChecks{
			IsPoliticalSafe:      true,
			IsMapSafe:            true,
			IsDerivativeWork:     true,
			NoCopyrightViolation: true,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(252000), result.Payout)

	holder, err := repositories.NewProfileRepository().FindByID(db, holderID)
	require.NoError(t, err)
	assert.Equal(t, int64(252000), holder.Balance)
	assert.Equal(t, 52, holder.CreditScore)

	entries, total, err := repositories.NewLedgerRepository().ListByProfile(db, holderID, repositories.Pagination{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	assert.Equal(t, int64(252000), entries[0].BalanceAfter)
}
