package workers

import (
	"context"
	"time"

	"github.com/tungtase04539/sangtaophaisinh/internal/events"
	"github.com/tungtase04539/sangtaophaisinh/internal/logger"
	"github.com/tungtase04539/sangtaophaisinh/internal/repositories"
)

const (
	deadlineWorkerName = "deadline_worker"
	overdueBatchSize   = 100
)

// DeadlineWorker reports locked jobs past their deadline. It is advisory:
// the job stays locked and the holder keeps it.
type DeadlineWorker struct {
	tx        repositories.Transactor
	jobRepo   repositories.JobRepository
	publisher events.Publisher
	interval  time.Duration
	now       func() time.Time
}

func NewDeadlineWorker(tx repositories.Transactor, jobRepo repositories.JobRepository, publisher events.Publisher, interval time.Duration) *DeadlineWorker {
	return &DeadlineWorker{
		tx:        tx,
		jobRepo:   jobRepo,
		publisher: publisher,
		interval:  interval,
		now:       time.Now,
	}
}

// Start runs the scan loop in the background until ctx is cancelled.
func (w *DeadlineWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *DeadlineWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger.Info("Deadline worker started", "interval", w.interval)
	for {
		select {
		case <-ctx.Done():
			logger.Info("Deadline worker stopped")
			return
		case <-ticker.C:
			if _, err := w.Scan(ctx); err != nil {
				logger.WorkerLog(deadlineWorkerName, "scan", err)
			}
		}
	}
}

// Scan notifies holders of overdue jobs once per job and returns how many
// were reported.
func (w *DeadlineWorker) Scan(ctx context.Context) (int, error) {
	now := w.now()
	db := w.tx.DB(ctx)

	jobs, err := w.jobRepo.FindOverdue(db, now, overdueBatchSize)
	if err != nil {
		return 0, err
	}

	reported := 0
	for _, job := range jobs {
		if job.LockedBy == nil {
			continue
		}
		if err := w.jobRepo.MarkOverdueNotified(db, job.ID, now); err != nil {
			logger.WorkerLog(deadlineWorkerName, "mark_overdue "+job.ID, err)
			continue
		}

		payload := map[string]any{"job_title": job.Title}
		if job.Deadline != nil {
			payload["deadline"] = job.Deadline.Format(time.RFC3339)
		}
		w.publisher.Publish(ctx, events.Event{
			Type:       events.JobOverdue,
			JobID:      job.ID,
			Recipients: []string{*job.LockedBy, job.CreatedBy},
			Title:      "Job deadline passed",
			Message:    "The deadline for \"" + job.Title + "\" has passed",
			Payload:    payload,
		})
		reported++
	}

	if reported > 0 {
		logger.Info("Overdue jobs reported", "worker", deadlineWorkerName, "count", reported)
	}
	return reported, nil
}
