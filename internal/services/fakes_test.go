package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tungtase04539/sangtaophaisinh/internal/events"
	"github.com/tungtase04539/sangtaophaisinh/internal/models"
	"github.com/tungtase04539/sangtaophaisinh/internal/repositories"
	"github.com/tungtase04539/sangtaophaisinh/pkg/apperrors"
)

// memStore is the in-memory database behind the fake repositories.
type memStore struct {
	mu            sync.Mutex
	jobs          map[string]models.Job
	submissions   map[string]models.Submission
	profiles      map[string]models.Profile
	ranks         map[models.UserRank]models.RankLimit
	pricing       *models.PricingConfig
	ledger        []models.BalanceEntry
	notifications map[string]models.Notification
}

type memSnapshot struct {
	jobs          map[string]models.Job
	submissions   map[string]models.Submission
	profiles      map[string]models.Profile
	ranks         map[models.UserRank]models.RankLimit
	pricing       *models.PricingConfig
	ledger        []models.BalanceEntry
	notifications map[string]models.Notification
}

func newMemStore() *memStore {
	cfg := models.DefaultPricingConfig()
	s := &memStore{
		jobs:          make(map[string]models.Job),
		submissions:   make(map[string]models.Submission),
		profiles:      make(map[string]models.Profile),
		ranks:         make(map[models.UserRank]models.RankLimit),
		pricing:       &cfg,
		notifications: make(map[string]models.Notification),
	}
	for _, limit := range models.DefaultRankLimits() {
		s.ranks[limit.Rank] = limit
	}
	return s
}

func copyMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (s *memStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := memSnapshot{
		jobs:          copyMap(s.jobs),
		submissions:   copyMap(s.submissions),
		profiles:      copyMap(s.profiles),
		ranks:         copyMap(s.ranks),
		ledger:        append([]models.BalanceEntry(nil), s.ledger...),
		notifications: copyMap(s.notifications),
	}
	if s.pricing != nil {
		cfg := *s.pricing
		snap.pricing = &cfg
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = snap.jobs
	s.submissions = snap.submissions
	s.profiles = snap.profiles
	s.ranks = snap.ranks
	s.pricing = snap.pricing
	s.ledger = snap.ledger
	s.notifications = snap.notifications
}

// fakeTx serializes transactions and rolls the store back when fn fails.
// Whole transactions run one at a time, so tests on top of it check the
// service's precondition logic under interleaved callers, not the row locks
// in the gorm repositories. Those are covered by TestPostgres_ClaimRaceAndPayout.
type fakeTx struct {
	store *memStore
	mu    sync.Mutex
}

func (t *fakeTx) DB(context.Context) *gorm.DB { return nil }

func (t *fakeTx) WithinTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap := t.store.snapshot()
	if err := fn(ctx); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

// ---------------- jobs ----------------

type fakeJobRepo struct{ s *memStore }

func (r *fakeJobRepo) Create(_ *gorm.DB, job *models.Job) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	job.CreatedAt = time.Now()
	job.UpdatedAt = job.CreatedAt
	r.s.jobs[job.ID] = *job
	return nil
}

func (r *fakeJobRepo) FindByID(_ *gorm.DB, id string) (*models.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	job, ok := r.s.jobs[id]
	if !ok {
		return nil, repositories.ErrJobNotFound
	}
	return &job, nil
}

func (r *fakeJobRepo) FindByIDForUpdate(db *gorm.DB, id string) (*models.Job, error) {
	return r.FindByID(db, id)
}

func (r *fakeJobRepo) matching(filter repositories.JobFilter) []models.Job {
	var out []models.Job
	for _, job := range r.s.jobs {
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, job.Status) {
			continue
		}
		if filter.Complexity != "" && job.Complexity != filter.Complexity {
			continue
		}
		if filter.LockedBy != "" && !job.IsHeldBy(filter.LockedBy) {
			continue
		}
		if filter.CreatedBy != "" && job.CreatedBy != filter.CreatedBy {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(job.Title), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, job)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *fakeJobRepo) List(_ *gorm.DB, filter repositories.JobFilter) ([]models.Job, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := r.matching(filter)
	return paginate(all, filter.Pagination), int64(len(all)), nil
}

func (r *fakeJobRepo) CountLockedBy(_ *gorm.DB, userID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, job := range r.s.jobs {
		if job.Status == models.JobStatusLocked && job.IsHeldBy(userID) {
			n++
		}
	}
	return n, nil
}

func (r *fakeJobRepo) CountByStatus(_ *gorm.DB, filter repositories.JobFilter) (map[models.JobStatus]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := make(map[models.JobStatus]int64)
	for _, job := range r.matching(filter) {
		counts[job.Status]++
	}
	return counts, nil
}

func (r *fakeJobRepo) update(id string, cond func(models.Job) bool, apply func(*models.Job)) bool {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	job, ok := r.s.jobs[id]
	if !ok || !cond(job) {
		return false
	}
	apply(&job)
	job.UpdatedAt = time.Now()
	r.s.jobs[id] = job
	return true
}

func (r *fakeJobRepo) MarkLocked(_ *gorm.DB, id, holderID string, lockedAt, deadline time.Time) (bool, error) {
	return r.update(id,
		func(j models.Job) bool { return j.Status == models.JobStatusAvailable },
		func(j *models.Job) {
			j.Status = models.JobStatusLocked
			j.LockedBy = ptr(holderID)
			j.LockedAt = ptr(lockedAt)
			j.Deadline = ptr(deadline)
		}), nil
}

func (r *fakeJobRepo) MarkReleased(_ *gorm.DB, id, holderID string) (bool, error) {
	return r.update(id,
		func(j models.Job) bool { return j.Status == models.JobStatusLocked && j.IsHeldBy(holderID) },
		func(j *models.Job) {
			j.Status = models.JobStatusAvailable
			j.LockedBy = nil
			j.LockedAt = nil
			j.Deadline = nil
			j.OverdueNotifiedAt = nil
		}), nil
}

func (r *fakeJobRepo) TransitionStatus(_ *gorm.DB, id string, from []models.JobStatus, to models.JobStatus) (bool, error) {
	return r.update(id,
		func(j models.Job) bool { return containsStatus(from, j.Status) },
		func(j *models.Job) {
			j.Status = to
			if to == models.JobStatusCompleted {
				j.CompletedAt = ptr(time.Now())
			}
		}), nil
}

func (r *fakeJobRepo) ApplyReview(_ *gorm.DB, id string, update repositories.JobReviewUpdate) (bool, error) {
	return r.update(id,
		func(j models.Job) bool { return j.Status == models.JobStatusSubmitted },
		func(j *models.Job) {
			j.Status = update.Status
			if update.SafetyReviewedBy != nil {
				j.IsPoliticalSafe = update.IsPoliticalSafe
				j.IsMapSafe = update.IsMapSafe
				j.SafetyReviewedBy = update.SafetyReviewedBy
				j.SafetyReviewedAt = update.SafetyReviewedAt
			}
		}), nil
}

func (r *fakeJobRepo) FindOverdue(_ *gorm.DB, now time.Time, limit int) ([]models.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Job
	for _, job := range r.s.jobs {
		if job.Status == models.JobStatusLocked && job.Deadline != nil && job.Deadline.Before(now) && job.OverdueNotifiedAt == nil {
			out = append(out, job)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Deadline.Before(*out[j].Deadline) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeJobRepo) MarkOverdueNotified(_ *gorm.DB, id string, at time.Time) error {
	r.update(id, func(models.Job) bool { return true }, func(j *models.Job) { j.OverdueNotifiedAt = ptr(at) })
	return nil
}

// ---------------- submissions ----------------

type fakeSubmissionRepo struct{ s *memStore }

func (r *fakeSubmissionRepo) Create(_ *gorm.DB, sub *models.Submission) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	sub.CreatedAt = time.Now()
	r.s.submissions[sub.ID] = *sub
	return nil
}

func (r *fakeSubmissionRepo) FindByID(_ *gorm.DB, id string) (*models.Submission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sub, ok := r.s.submissions[id]
	if !ok {
		return nil, repositories.ErrSubmissionNotFound
	}
	return &sub, nil
}

func (r *fakeSubmissionRepo) FindByIDForUpdate(db *gorm.DB, id string) (*models.Submission, error) {
	return r.FindByID(db, id)
}

func (r *fakeSubmissionRepo) ListByJob(_ *gorm.DB, jobID string) ([]models.Submission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Submission
	for _, sub := range r.s.submissions {
		if sub.JobID == jobID {
			out = append(out, sub)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RevisionNumber < out[j].RevisionNumber })
	return out, nil
}

func (r *fakeSubmissionRepo) Latest(db *gorm.DB, jobID string) (*models.Submission, error) {
	subs, _ := r.ListByJob(db, jobID)
	if len(subs) == 0 {
		return nil, nil
	}
	latest := subs[len(subs)-1]
	return &latest, nil
}

func (r *fakeSubmissionRepo) CountByJob(db *gorm.DB, jobID string) (int64, error) {
	subs, _ := r.ListByJob(db, jobID)
	return int64(len(subs)), nil
}

func (r *fakeSubmissionRepo) SaveReview(_ *gorm.DB, sub *models.Submission) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.submissions[sub.ID]
	if !ok || stored.ReviewDecision != nil {
		return false, nil
	}
	stored.ReviewDecision = sub.ReviewDecision
	stored.ReviewedBy = sub.ReviewedBy
	stored.ReviewedAt = sub.ReviewedAt
	stored.ReviewNotes = sub.ReviewNotes
	stored.ReviewRating = sub.ReviewRating
	stored.QualityScores = sub.QualityScores
	stored.SafetyChecks = sub.SafetyChecks
	stored.PayoutBonus = sub.PayoutBonus
	stored.PayoutDeduction = sub.PayoutDeduction
	r.s.submissions[sub.ID] = stored
	return true, nil
}

func (r *fakeSubmissionRepo) ListPendingReview(_ *gorm.DB, page repositories.Pagination) ([]models.Submission, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Submission
	for _, sub := range r.s.submissions {
		if sub.ReviewDecision == nil && r.s.jobs[sub.JobID].Status == models.JobStatusSubmitted {
			out = append(out, sub)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return paginate(out, page), int64(len(out)), nil
}

// ---------------- profiles ----------------

type fakeProfileRepo struct{ s *memStore }

func (r *fakeProfileRepo) Create(_ *gorm.DB, p *models.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	for _, existing := range r.s.profiles {
		if existing.Email == p.Email {
			return repositories.ErrEmailAlreadyExists
		}
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Rank == "" {
		p.Rank = models.RankNewbie
	}
	p.CreatedAt = time.Now()
	r.s.profiles[p.ID] = *p
	return nil
}

func (r *fakeProfileRepo) FindByID(_ *gorm.DB, id string) (*models.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.profiles[id]
	if !ok {
		return nil, repositories.ErrProfileNotFound
	}
	return &p, nil
}

func (r *fakeProfileRepo) FindByIDForUpdate(db *gorm.DB, id string) (*models.Profile, error) {
	return r.FindByID(db, id)
}

func (r *fakeProfileRepo) FindByEmail(_ *gorm.DB, email string) (*models.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.profiles {
		if p.Email == strings.ToLower(strings.TrimSpace(email)) {
			return &p, nil
		}
	}
	return nil, repositories.ErrProfileNotFound
}

func (r *fakeProfileRepo) matching(filter repositories.ProfileFilter) []models.Profile {
	var out []models.Profile
	for _, p := range r.s.profiles {
		if filter.Role != "" && p.Role != filter.Role {
			continue
		}
		if filter.Verified != nil && p.IsVerified != *filter.Verified {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.FullName+" "+p.Email), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *fakeProfileRepo) List(_ *gorm.DB, filter repositories.ProfileFilter) ([]models.Profile, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := r.matching(filter)
	return paginate(all, filter.Pagination), int64(len(all)), nil
}

func (r *fakeProfileRepo) Count(_ *gorm.DB, filter repositories.ProfileFilter) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.matching(filter))), nil
}

func (r *fakeProfileRepo) update(id string, apply func(*models.Profile)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.profiles[id]
	if !ok {
		return repositories.ErrProfileNotFound
	}
	apply(&p)
	r.s.profiles[id] = p
	return nil
}

func (r *fakeProfileRepo) UpdateDetails(_ *gorm.DB, id string, d repositories.ProfileDetails) error {
	return r.update(id, func(p *models.Profile) {
		if d.FullName != nil {
			p.FullName = *d.FullName
		}
		if d.Phone != nil {
			p.Phone = d.Phone
		}
		if d.AvatarURL != nil {
			p.AvatarURL = d.AvatarURL
		}
	})
}

func (r *fakeProfileRepo) UpdateRole(_ *gorm.DB, id string, role models.UserRole) error {
	return r.update(id, func(p *models.Profile) { p.Role = role })
}

func (r *fakeProfileRepo) UpdateCredit(_ *gorm.DB, id string, score int, rank models.UserRank) error {
	return r.update(id, func(p *models.Profile) {
		p.CreditScore = score
		p.Rank = rank
	})
}

func (r *fakeProfileRepo) UpdateBalance(_ *gorm.DB, id string, balance, totalEarned int64) error {
	return r.update(id, func(p *models.Profile) {
		p.Balance = balance
		p.TotalEarned = totalEarned
	})
}

func (r *fakeProfileRepo) MarkVerified(_ *gorm.DB, id, verifierID string, notes *string, at time.Time) error {
	return r.update(id, func(p *models.Profile) {
		p.IsVerified = true
		p.VerifiedBy = ptr(verifierID)
		p.VerifiedAt = ptr(at)
		p.VerificationNotes = notes
	})
}

func (r *fakeProfileRepo) SignAgreement(_ *gorm.DB, id string, terms, waiver bool, at time.Time) error {
	return r.update(id, func(p *models.Profile) {
		if terms {
			p.AgreedToTerms = true
			p.TermsAgreedAt = ptr(at)
		}
		if waiver {
			p.LiabilityWaiverSigned = true
			p.WaiverSignedAt = ptr(at)
		}
	})
}

// ---------------- config ----------------

type fakeConfigRepo struct{ s *memStore }

func (r *fakeConfigRepo) GetPricing(*gorm.DB) (*models.PricingConfig, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.pricing == nil {
		return nil, repositories.ErrPricingNotConfigured
	}
	cfg := *r.s.pricing
	return &cfg, nil
}

func (r *fakeConfigRepo) UpdatePricing(_ *gorm.DB, cfg *models.PricingConfig) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored := *cfg
	r.s.pricing = &stored
	return nil
}

func (r *fakeConfigRepo) ListRankLimits(*gorm.DB) ([]models.RankLimit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.RankLimit, 0, len(r.s.ranks))
	for _, l := range r.s.ranks {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MinCreditScore < out[j].MinCreditScore })
	return out, nil
}

func (r *fakeConfigRepo) GetRankLimit(_ *gorm.DB, rank models.UserRank) (*models.RankLimit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.ranks[rank]
	if !ok {
		return nil, repositories.ErrRankLimitNotFound
	}
	return &l, nil
}

func (r *fakeConfigRepo) UpdateRankLimit(_ *gorm.DB, limit *models.RankLimit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.ranks[limit.Rank]
	if !ok {
		return repositories.ErrRankLimitNotFound
	}
	stored.MaxConcurrentJobs = limit.MaxConcurrentJobs
	stored.MinCreditScore = limit.MinCreditScore
	stored.Description = limit.Description
	r.s.ranks[limit.Rank] = stored
	return nil
}

// ---------------- ledger ----------------

type fakeLedgerRepo struct {
	s          *memStore
	failAppend error
}

func (r *fakeLedgerRepo) Append(_ *gorm.DB, entry *models.BalanceEntry) error {
	if r.failAppend != nil {
		return r.failAppend
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	r.s.ledger = append(r.s.ledger, *entry)
	return nil
}

func (r *fakeLedgerRepo) ListByProfile(_ *gorm.DB, profileID string, page repositories.Pagination) ([]models.BalanceEntry, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.BalanceEntry
	for i := len(r.s.ledger) - 1; i >= 0; i-- {
		if r.s.ledger[i].ProfileID == profileID {
			out = append(out, r.s.ledger[i])
		}
	}
	return paginate(out, page), int64(len(out)), nil
}

func (r *fakeLedgerRepo) ListPayouts(_ *gorm.DB, from, to time.Time) ([]repositories.PayoutRow, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []repositories.PayoutRow
	for _, e := range r.s.ledger {
		if e.EntryType != models.BalanceEntryJobPayout || e.CreatedAt.Before(from) || !e.CreatedAt.Before(to) {
			continue
		}
		row := repositories.PayoutRow{BalanceEntry: e}
		if p, ok := r.s.profiles[e.ProfileID]; ok {
			row.Email = p.Email
			row.FullName = p.FullName
		}
		if e.JobID != nil {
			row.JobTitle = r.s.jobs[*e.JobID].Title
		}
		out = append(out, row)
	}
	return out, nil
}

func (r *fakeLedgerRepo) SumPayouts(*gorm.DB) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var sum int64
	for _, e := range r.s.ledger {
		if e.EntryType == models.BalanceEntryJobPayout {
			sum += e.Amount
		}
	}
	return sum, nil
}

// ---------------- notifications ----------------

type fakeNotificationRepo struct{ s *memStore }

func (r *fakeNotificationRepo) Create(db *gorm.DB, n *models.Notification) error {
	return r.CreateBulk(db, []*models.Notification{n})
}

func (r *fakeNotificationRepo) CreateBulk(_ *gorm.DB, ns []*models.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, n := range ns {
		if n.ID == "" {
			n.ID = uuid.NewString()
		}
		n.CreatedAt = time.Now()
		r.s.notifications[n.ID] = *n
	}
	return nil
}

func (r *fakeNotificationRepo) ListByUser(_ *gorm.DB, userID string, unreadOnly bool, page repositories.Pagination) ([]models.Notification, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Notification
	for _, n := range r.s.notifications {
		if n.UserID == userID && (!unreadOnly || !n.IsRead) {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, page), int64(len(out)), nil
}

func (r *fakeNotificationRepo) CountUnread(_ *gorm.DB, userID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, item := range r.s.notifications {
		if item.UserID == userID && !item.IsRead {
			n++
		}
	}
	return n, nil
}

func (r *fakeNotificationRepo) MarkRead(_ *gorm.DB, id, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.notifications[id]
	if !ok || n.UserID != userID {
		return repositories.ErrNotificationNotFound
	}
	n.IsRead = true
	n.ReadAt = ptr(time.Now())
	r.s.notifications[id] = n
	return nil
}

func (r *fakeNotificationRepo) MarkAllRead(_ *gorm.DB, userID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var updated int64
	for id, n := range r.s.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			n.ReadAt = ptr(time.Now())
			r.s.notifications[id] = n
			updated++
		}
	}
	return updated, nil
}

// ---------------- helpers ----------------

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) ofType(t events.EventType) []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []events.Event
	for _, e := range p.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func containsStatus(list []models.JobStatus, s models.JobStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func paginate[T any](items []T, page repositories.Pagination) []T {
	start := page.Offset()
	if start >= len(items) {
		return nil
	}
	end := start + page.Limit()
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// testEnv wires the real services to the in-memory store.
type testEnv struct {
	store     *memStore
	tx        *fakeTx
	repos     Repositories
	ledger    *fakeLedgerRepo
	publisher *recordingPublisher
	jobs      *JobServiceImpl
	reviews   *ReviewServiceImpl
	profiles  *ProfileServiceImpl
	now       time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := newMemStore()
	ledger := &fakeLedgerRepo{s: store}
	env := &testEnv{
		store: store,
		tx:    &fakeTx{store: store},
		repos: Repositories{
			Jobs:          &fakeJobRepo{s: store},
			Submissions:   &fakeSubmissionRepo{s: store},
			Profiles:      &fakeProfileRepo{s: store},
			Config:        &fakeConfigRepo{s: store},
			Ledger:        ledger,
			Notifications: &fakeNotificationRepo{s: store},
		},
		ledger:    ledger,
		publisher: &recordingPublisher{},
		now:       time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return env.now }

	env.jobs = NewJobService(env.tx, env.repos.Jobs, env.repos.Submissions, env.repos.Profiles, env.repos.Config, env.publisher, DefaultCreditPolicy())
	env.jobs.now = clock
	env.reviews = NewReviewService(env.tx, env.repos.Jobs, env.repos.Submissions, env.repos.Profiles, env.repos.Config, env.repos.Ledger, env.publisher, DefaultCreditPolicy())
	env.reviews.now = clock
	env.profiles = NewProfileService(env.tx, env.repos.Profiles, env.repos.Ledger, env.publisher)
	env.profiles.now = clock
	return env
}

func (e *testEnv) addProfile(t *testing.T, role models.UserRole, verified bool, credit int, rank models.UserRank) *models.Profile {
	t.Helper()
	p := &models.Profile{
		Email:       uuid.NewString() + "@example.com",
		FullName:    "User " + string(role),
		Role:        role,
		Rank:        rank,
		CreditScore: credit,
		IsVerified:  verified,
	}
	require.NoError(t, e.repos.Profiles.Create(nil, p))
	return p
}

func (e *testEnv) addCTV(t *testing.T) *models.Profile {
	return e.addProfile(t, models.UserRoleCTV, true, 50, models.RankNewbie)
}

func (e *testEnv) profile(t *testing.T, id string) *models.Profile {
	t.Helper()
	p, err := e.repos.Profiles.FindByID(nil, id)
	require.NoError(t, err)
	return p
}

func (e *testEnv) job(t *testing.T, id string) *models.Job {
	t.Helper()
	j, err := e.repos.Jobs.FindByID(nil, id)
	require.NoError(t, err)
	return j
}

func requireAppCode(t *testing.T, err error, code apperrors.ErrorCode) *apperrors.AppError {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	require.Equal(t, code, appErr.Code, appErr.Error())
	return appErr
}

var errBoom = errors.New("boom")
