package services

import (
	"context"
	"encoding/json"

	"gorm.io/datatypes"

	"github.com/tungtase04539/sangtaophaisinh/internal/events"
	"github.com/tungtase04539/sangtaophaisinh/internal/logger"
	"github.com/tungtase04539/sangtaophaisinh/internal/models"
	"github.com/tungtase04539/sangtaophaisinh/internal/repositories"
	"github.com/tungtase04539/sangtaophaisinh/internal/services/dto"
)

type NotificationService interface {
	List(ctx context.Context, userID string, query dto.NotificationListQuery) (*dto.NotificationListResponse, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

// NotificationServiceImpl also subscribes to the event bus and stores one
// notification per event recipient.
type NotificationServiceImpl struct {
	tx               repositories.Transactor
	notificationRepo repositories.NotificationRepository
}

func NewNotificationService(tx repositories.Transactor, notificationRepo repositories.NotificationRepository) *NotificationServiceImpl {
	return &NotificationServiceImpl{tx: tx, notificationRepo: notificationRepo}
}

func (s *NotificationServiceImpl) List(ctx context.Context, userID string, query dto.NotificationListQuery) (*dto.NotificationListResponse, error) {
	query.Normalize()
	db := s.tx.DB(ctx)

	items, total, err := s.notificationRepo.ListByUser(db, userID, query.UnreadOnly, toPagination(query.PageQuery))
	if err != nil {
		return nil, handleRepoError(err)
	}
	unread, err := s.notificationRepo.CountUnread(db, userID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	if items == nil {
		items = []models.Notification{}
	}
	return &dto.NotificationListResponse{
		Notifications: items,
		Unread:        unread,
		PageInfo:      dto.NewPageInfo(total, query.PageQuery),
	}, nil
}

func (s *NotificationServiceImpl) MarkRead(ctx context.Context, userID, notificationID string) error {
	return handleRepoError(s.notificationRepo.MarkRead(s.tx.DB(ctx), notificationID, userID))
}

func (s *NotificationServiceImpl) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	n, err := s.notificationRepo.MarkAllRead(s.tx.DB(ctx), userID)
	if err != nil {
		return 0, handleRepoError(err)
	}
	return n, nil
}

func (s *NotificationServiceImpl) Name() string { return "notification_store" }

// Handle persists the event for its recipients. Events relayed from another
// instance were already stored there.
func (s *NotificationServiceImpl) Handle(ctx context.Context, event events.Event) error {
	if event.Remote || len(event.Recipients) == 0 {
		logger.CtxDebug(ctx, "Notification skipped", "event_id", event.ID, "type", event.Type, "remote", event.Remote)
		return nil
	}

	var data datatypes.JSON
	if len(event.Payload) > 0 {
		raw, err := json.Marshal(event.Payload)
		if err != nil {
			return err
		}
		data = datatypes.JSON(raw)
	}

	seen := make(map[string]struct{}, len(event.Recipients))
	notifications := make([]*models.Notification, 0, len(event.Recipients))
	for _, userID := range event.Recipients {
		if userID == "" || userID == event.ActorID {
			continue
		}
		if _, dup := seen[userID]; dup {
			continue
		}
		seen[userID] = struct{}{}

		n := &models.Notification{
			UserID:  userID,
			Type:    string(event.Type),
			Title:   event.Title,
			Message: event.Message,
			Data:    data,
		}
		if event.JobID != "" {
			n.JobID = ptr(event.JobID)
		}
		notifications = append(notifications, n)
	}
	if len(notifications) == 0 {
		return nil
	}
	return s.notificationRepo.CreateBulk(s.tx.DB(ctx), notifications)
}
