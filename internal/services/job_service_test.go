package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tungtase04539/sangtaophaisinh/internal/events"
	"github.com/tungtase04539/sangtaophaisinh/internal/models"
	"github.com/tungtase04539/sangtaophaisinh/internal/services/dto"
	"github.com/tungtase04539/sangtaophaisinh/pkg/apperrors"
)

func (e *testEnv) createJob(t *testing.T, managerID string) *models.Job {
	t.Helper()
	job, err := e.jobs.CreateJob(context.Background(), managerID, &dto.CreateJobRequest{
		Title:                "Intro to CNNs",
		WordCount:            2000,
		VideoDurationSeconds: 15 * 60,
		Complexity:           models.ComplexityMedium,
	})
	require.NoError(t, err)
	return job
}

func validSubmission() *dto.SubmitWorkRequest {
	return &dto.SubmitWorkRequest{
		VideoURL:             "https://cdn.example.com/video.mp4",
		ConfirmedDerivative:  true,
		ConfirmedNoCopyright: true,
	}
}

func TestCreateJob_FreezesPricingSnapshot(t *testing.T) {
	env := newTestEnv(t)
	manager := env.addProfile(t, models.UserRoleManager, true, 50, models.RankNewbie)

	job := env.createJob(t, manager.ID)

	p := job.Pricing()
	assert.Equal(t, models.JobStatusAvailable, job.Status)
	assert.True(t, job.IsReRecordRequired)
	assert.Equal(t, int64(120000), p.WordPrice)
	assert.Equal(t, int64(90000), p.VideoPrice)
	assert.Equal(t, int64(210000), p.BasePrice)
	assert.Equal(t, int64(42000), p.ReRecordBonus)
	assert.Equal(t, int64(252000), p.FinalPrice)
	assert.Equal(t, int64(9), p.DeadlineHours)
	require.Len(t, env.publisher.ofType(events.JobCreated), 1)

	// Later config changes leave the snapshot alone.
	env.store.pricing.RatePerWord = 500
	assert.Equal(t, int64(252000), env.job(t, job.ID).Pricing().FinalPrice)
}

func TestCreateJob_RejectsInvalidMetadata(t *testing.T) {
	env := newTestEnv(t)
	manager := env.addProfile(t, models.UserRoleManager, true, 50, models.RankNewbie)

	_, err := env.jobs.CreateJob(context.Background(), manager.ID, &dto.CreateJobRequest{
		Title:      "Bad metadata",
		Complexity: models.ComplexityEasy,
		AIMetadata: []byte(`{"confidence": 7}`),
	})
	requireAppCode(t, err, apperrors.CodeValidationFailed)

	job, err := env.jobs.CreateJob(context.Background(), manager.ID, &dto.CreateJobRequest{
		Title:      "Good metadata",
		Complexity: models.ComplexityEasy,
		AIMetadata: []byte(`{"source_language": "en", "target_language": "vi", "confidence": 0.9}`),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"source_language": "en", "target_language": "vi", "confidence": 0.9}`, string(job.AIMetadata))
}

func TestClaimJob_Success(t *testing.T) {
	env := newTestEnv(t)
	manager := env.addProfile(t, models.UserRoleManager, true, 50, models.RankNewbie)
	ctv := env.addCTV(t)
	job := env.createJob(t, manager.ID)

	result, err := env.jobs.ClaimJob(context.Background(), ctv.ID, job.ID)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, job.ID, *result.JobID)
	assert.Equal(t, int64(9), *result.DeadlineHours)
	assert.Equal(t, env.now.Add(9*time.Hour), *result.Deadline)
	assert.Equal(t, int64(1), *result.CurrentLocked)
	assert.Equal(t, int64(1), *result.MaxAllowed)

	stored := env.job(t, job.ID)
	assert.Equal(t, models.JobStatusLocked, stored.Status)
	assert.True(t, stored.IsHeldBy(ctv.ID))
	assert.Equal(t, env.now, *stored.LockedAt)

	locked := env.publisher.ofType(events.JobLocked)
	require.Len(t, locked, 1)
	assert.Equal(t, []string{manager.ID}, locked[0].Recipients)
}

func TestClaimJob_Preconditions(t *testing.T) {
	env := newTestEnv(t)
	manager := env.addProfile(t, models.UserRoleManager, true, 50, models.RankNewbie)

	t.Run("unverified collaborator", func(t *testing.T) {
		ctv := env.addProfile(t, models.UserRoleCTV, false, 50, models.RankNewbie)
		job := env.createJob(t, manager.ID)
		_, err := env.jobs.ClaimJob(context.Background(), ctv.ID, job.ID)
		requireAppCode(t, err, apperrors.CodeCTVNotVerified)
		assert.Equal(t, models.JobStatusAvailable, env.job(t, job.ID).Status)
	})

	t.Run("manager cannot claim", func(t *testing.T) {
		job := env.createJob(t, manager.ID)
		_, err := env.jobs.ClaimJob(context.Background(), manager.ID, job.ID)
		requireAppCode(t, err, apperrors.CodeInvalidOperation)
	})

	t.Run("unknown job", func(t *testing.T) {
		ctv := env.addCTV(t)
		_, err := env.jobs.ClaimJob(context.Background(), ctv.ID, "00000000-0000-0000-0000-000000000000")
		requireAppCode(t, err, apperrors.CodeNotFound)
	})

	t.Run("already claimed", func(t *testing.T) {
		first, second := env.addCTV(t), env.addCTV(t)
		job := env.createJob(t, manager.ID)
		_, err := env.jobs.ClaimJob(context.Background(), first.ID, job.ID)
		require.NoError(t, err)

		_, err = env.jobs.ClaimJob(context.Background(), second.ID, job.ID)
		requireAppCode(t, err, apperrors.CodeJobAlreadyClaimed)
		assert.True(t, env.job(t, job.ID).IsHeldBy(first.ID))
	})

	t.Run("cancelled job", func(t *testing.T) {
		ctv := env.addCTV(t)
		job := env.createJob(t, manager.ID)
		_, err := env.reviews.SetJobStatus(context.Background(), manager.ID, job.ID, &dto.AdminStatusRequest{Status: models.JobStatusCancelled})
		require.NoError(t, err)

		_, err = env.jobs.ClaimJob(context.Background(), ctv.ID, job.ID)
		requireAppCode(t, err, apperrors.CodeJobNotAvailable)
	})

	t.Run("rank ceiling", func(t *testing.T) {
		ctv := env.addCTV(t)
		held := env.createJob(t, manager.ID)
		_, err := env.jobs.ClaimJob(context.Background(), ctv.ID, held.ID)
		require.NoError(t, err)

		next := env.createJob(t, manager.ID)
		_, err = env.jobs.ClaimJob(context.Background(), ctv.ID, next.ID)
		appErr := requireAppCode(t, err, apperrors.CodeConcurrentLimitReached)
		assert.Equal(t, map[string]int64{"current_locked": 1, "max_allowed": 1}, appErr.Details)
		assert.Equal(t, models.JobStatusAvailable, env.job(t, next.ID).Status)
	})
}

// Goroutines interleave at transaction boundaries only; see fakeTx.
func TestClaimJob_SerializedClaimsOnOneJob(t *testing.T) {
	env := newTestEnv(t)
	manager := env.addProfile(t, models.UserRoleManager, true, 50, models.RankNewbie)
	job := env.createJob(t, manager.ID)

	const claimants = 12
	ctvs := make([]*models.Profile, claimants)
	for i := range ctvs {
		ctvs[i] = env.addCTV(t)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		winner    string
	)
	for _, ctv := range ctvs {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := env.jobs.ClaimJob(context.Background(), id, job.ID)
			if err == nil {
				mu.Lock()
				successes++
				winner = id
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, apperrors.ErrJobAlreadyClaimed)
		}(ctv.ID)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.True(t, env.job(t, job.ID).IsHeldBy(winner))
}

// Goroutines interleave at transaction boundaries only; see fakeTx.
func TestClaimJob_SerializedClaimsRespectCeiling(t *testing.T) {
	env := newTestEnv(t)
	manager := env.addProfile(t, models.UserRoleManager, true, 50, models.RankNewbie)
	// regular allows two concurrent jobs
	ctv := env.addProfile(t, models.UserRoleCTV, true, 70, models.RankRegular)

	held := env.createJob(t, manager.ID)
	_, err := env.jobs.ClaimJob(context.Background(), ctv.ID, held.ID)
	require.NoError(t, err)

	const racers = 6
	jobs := make([]*models.Job, racers)
	for i := range jobs {
		jobs[i] = env.createJob(t, manager.ID)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for _, job := range jobs {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if _, err := env.jobs.ClaimJob(context.Background(), ctv.ID, id); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}(job.ID)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	count, err := env.repos.Jobs.CountLockedBy(nil, ctv.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestReleaseJob(t *testing.T) {
	env := newTestEnv(t)
	manager := env.addProfile(t, models.UserRoleManager, true, 50, models.RankNewbie)
	ctv := env.addCTV(t)
	other := env.addCTV(t)
	job := env.createJob(t, manager.ID)

	_, err := env.jobs.ClaimJob(context.Background(), ctv.ID, job.ID)
	require.NoError(t, err)

	_, err = env.jobs.ReleaseJob(context.Background(), other.ID, job.ID)
	requireAppCode(t, err, apperrors.CodeNotJobHolder)

	result, err := env.jobs.ReleaseJob(context.Background(), ctv.ID, job.ID)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 45, *result.CreditScore)

	stored := env.job(t, job.ID)
	assert.Equal(t, models.JobStatusAvailable, stored.Status)
	assert.Nil(t, stored.LockedBy)
	assert.Nil(t, stored.LockedAt)
	assert.Nil(t, stored.Deadline)
	assert.Equal(t, 45, env.profile(t, ctv.ID).CreditScore)

	_, err = env.jobs.ReleaseJob(context.Background(), ctv.ID, job.ID)
	requireAppCode(t, err, apperrors.CodeInvalidStatus)
	assert.Equal(t, 45, env.profile(t, ctv.ID).CreditScore)
}

func TestReleaseJob_RecalculatesRank(t *testing.T) {
	env := newTestEnv(t)
	manager := env.addProfile(t, models.UserRoleManager, true, 50, models.RankNewbie)
	ctv := env.addProfile(t, models.UserRoleCTV, true, 62, models.RankRegular)
	job := env.createJob(t, manager.ID)

	_, err := env.jobs.ClaimJob(context.Background(), ctv.ID, job.ID)
	require.NoError(t, err)
	_, err = env.jobs.ReleaseJob(context.Background(), ctv.ID, job.ID)
	require.NoError(t, err)

	p := env.profile(t, ctv.ID)
	assert.Equal(t, 57, p.CreditScore)
	assert.Equal(t, models.RankNewbie, p.Rank)
}

func TestReleaseJob_FloorsCreditAtZero(t *testing.T) {
	env := newTestEnv(t)
	manager := env.addProfile(t, models.UserRoleManager, true, 50, models.RankNewbie)
	ctv := env.addProfile(t, models.UserRoleCTV, true, 3, models.RankNewbie)
	job := env.createJob(t, manager.ID)

	_, err := env.jobs.ClaimJob(context.Background(), ctv.ID, job.ID)
	require.NoError(t, err)
	_, err = env.jobs.ReleaseJob(context.Background(), ctv.ID, job.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, env.profile(t, ctv.ID).CreditScore)
}

func TestSubmitWork(t *testing.T) {
	env := newTestEnv(t)
	manager := env.addProfile(t, models.UserRoleManager, true, 50, models.RankNewbie)
	ctv := env.addCTV(t)
	other := env.addCTV(t)
	job := env.createJob(t, manager.ID)

	_, err := env.jobs.SubmitWork(context.Background(), ctv.ID, job.ID, validSubmission())
	requireAppCode(t, err, apperrors.CodeNotJobHolder)

	_, err = env.jobs.ClaimJob(context.Background(), ctv.ID, job.ID)
	require.NoError(t, err)

	t.Run("confirmations required", func(t *testing.T) {
		req := validSubmission()
		req.ConfirmedNoCopyright = false
		_, err := env.jobs.SubmitWork(context.Background(), ctv.ID, job.ID, req)
		appErr := requireAppCode(t, err, apperrors.CodeConfirmationsRequired)
		assert.Equal(t, map[string][]string{"missing_confirmations": {"confirmed_no_copyright"}}, appErr.Details)
	})

	t.Run("other collaborator", func(t *testing.T) {
		_, err := env.jobs.SubmitWork(context.Background(), other.ID, job.ID, validSubmission())
		requireAppCode(t, err, apperrors.CodeNotJobHolder)
	})

	first, err := env.jobs.SubmitWork(context.Background(), ctv.ID, job.ID, validSubmission())
	require.NoError(t, err)
	assert.Equal(t, 1, first.RevisionNumber)
	assert.Nil(t, first.ParentSubmissionID)
	assert.Equal(t, models.JobStatusSubmitted, env.job(t, job.ID).Status)

	// A submitted job cannot be submitted again until reviewed.
	_, err = env.jobs.SubmitWork(context.Background(), ctv.ID, job.ID, validSubmission())
	requireAppCode(t, err, apperrors.CodeInvalidStatus)

	_, err = env.reviews.ReviewSubmission(context.Background(), manager.ID, job.ID, &dto.ReviewRequest{
		SubmissionID: first.ID,
		Decision:     models.ReviewActionRequestRevision,
	})
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusRejected, env.job(t, job.ID).Status)

	second, err := env.jobs.SubmitWork(context.Background(), ctv.ID, job.ID, validSubmission())
	require.NoError(t, err)
	assert.Equal(t, 2, second.RevisionNumber)
	require.NotNil(t, second.ParentSubmissionID)
	assert.Equal(t, first.ID, *second.ParentSubmissionID)

	stored := env.job(t, job.ID)
	assert.Equal(t, models.JobStatusSubmitted, stored.Status)
	assert.True(t, stored.IsHeldBy(ctv.ID))

	subs, err := env.jobs.ListSubmissions(context.Background(), ctv.ID, models.UserRoleCTV, job.ID)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, first.ID, subs[0].ID)

	_, err = env.jobs.ListSubmissions(context.Background(), other.ID, models.UserRoleCTV, job.ID)
	requireAppCode(t, err, apperrors.CodeNotJobHolder)
}

func TestGetJob_Visibility(t *testing.T) {
	env := newTestEnv(t)
	manager := env.addProfile(t, models.UserRoleManager, true, 50, models.RankNewbie)
	holder, stranger := env.addCTV(t), env.addCTV(t)
	job := env.createJob(t, manager.ID)

	_, err := env.jobs.GetJob(context.Background(), stranger.ID, models.UserRoleCTV, job.ID)
	require.NoError(t, err)

	_, err = env.jobs.ClaimJob(context.Background(), holder.ID, job.ID)
	require.NoError(t, err)

	_, err = env.jobs.GetJob(context.Background(), holder.ID, models.UserRoleCTV, job.ID)
	assert.NoError(t, err)
	_, err = env.jobs.GetJob(context.Background(), manager.ID, models.UserRoleManager, job.ID)
	assert.NoError(t, err)
	_, err = env.jobs.GetJob(context.Background(), stranger.ID, models.UserRoleCTV, job.ID)
	requireAppCode(t, err, apperrors.CodeNotFound)
}

func TestListAvailableAndMine(t *testing.T) {
	env := newTestEnv(t)
	manager := env.addProfile(t, models.UserRoleManager, true, 50, models.RankNewbie)
	ctv := env.addCTV(t)

	mine := env.createJob(t, manager.ID)
	env.createJob(t, manager.ID)
	_, err := env.jobs.CreateJob(context.Background(), manager.ID, &dto.CreateJobRequest{
		Title:      "Hard one",
		WordCount:  10,
		Complexity: models.ComplexityHard,
	})
	require.NoError(t, err)

	_, err = env.jobs.ClaimJob(context.Background(), ctv.ID, mine.ID)
	require.NoError(t, err)

	available, err := env.jobs.ListAvailable(context.Background(), dto.JobListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), available.Total)
	assert.Equal(t, 1, available.TotalPages)

	hard, err := env.jobs.ListAvailable(context.Background(), dto.JobListQuery{Complexity: models.ComplexityHard})
	require.NoError(t, err)
	require.Len(t, hard.Jobs, 1)
	assert.Equal(t, "Hard one", hard.Jobs[0].Title)

	my, err := env.jobs.ListMine(context.Background(), ctv.ID, dto.JobListQuery{})
	require.NoError(t, err)
	require.Len(t, my.Jobs, 1)
	assert.Equal(t, mine.ID, my.Jobs[0].ID)
}

func TestGetUserStats(t *testing.T) {
	env := newTestEnv(t)
	manager := env.addProfile(t, models.UserRoleManager, true, 50, models.RankNewbie)
	ctv := env.addCTV(t)
	job := env.createJob(t, manager.ID)

	stats, err := env.jobs.GetUserStats(context.Background(), ctv.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.CurrentLocked)
	assert.Equal(t, int64(1), stats.MaxConcurrent)
	assert.True(t, stats.CanTakeMore)

	_, err = env.jobs.ClaimJob(context.Background(), ctv.ID, job.ID)
	require.NoError(t, err)

	env.now = env.now.Add(10 * time.Hour)
	stats, err = env.jobs.GetUserStats(context.Background(), ctv.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.CurrentLocked)
	assert.False(t, stats.CanTakeMore)
	assert.Equal(t, int64(1), stats.OverdueCount)
	assert.Equal(t, models.RankNewbie, stats.Rank)
}
