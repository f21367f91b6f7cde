package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tungtase04539/sangtaophaisinh/internal/events"
	"github.com/tungtase04539/sangtaophaisinh/internal/services/dto"
	"github.com/tungtase04539/sangtaophaisinh/pkg/apperrors"
)

func TestNotificationStore_PersistsRecipients(t *testing.T) {
	env := newTestEnv(t)
	svc := NewNotificationService(env.tx, env.repos.Notifications)

	err := svc.Handle(context.Background(), events.Event{
		Type:       events.JobReviewed,
		JobID:      "6f1c7c43-37a4-4c39-9e0a-3b0a3fbb0c1a",
		ActorID:    "manager-1",
		Recipients: []string{"ctv-1", "ctv-1", "manager-1", ""},
		Title:      "Submission approved",
		Message:    "Your submission was reviewed",
		Payload:    map[string]any{"payout": 257000},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Handle(context.Background(), events.Event{
		Type:       events.JobReviewed,
		Recipients: []string{"ctv-1"},
		Remote:     true,
	}))

	list, err := svc.List(context.Background(), "ctv-1", dto.NotificationListQuery{})
	require.NoError(t, err)
	require.Len(t, list.Notifications, 1)
	assert.Equal(t, int64(1), list.Unread)

	n := list.Notifications[0]
	assert.Equal(t, "job.reviewed", n.Type)
	assert.Equal(t, "6f1c7c43-37a4-4c39-9e0a-3b0a3fbb0c1a", *n.JobID)
	assert.JSONEq(t, `{"payout": 257000}`, string(n.Data))

	managerList, err := svc.List(context.Background(), "manager-1", dto.NotificationListQuery{})
	require.NoError(t, err)
	assert.Empty(t, managerList.Notifications)
}

func TestNotificationService_MarkRead(t *testing.T) {
	env := newTestEnv(t)
	svc := NewNotificationService(env.tx, env.repos.Notifications)

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Handle(context.Background(), events.Event{
			Type:       events.JobCompleted,
			Recipients: []string{"ctv-1"},
			Title:      "Job completed",
		}))
	}

	list, err := svc.List(context.Background(), "ctv-1", dto.NotificationListQuery{})
	require.NoError(t, err)
	require.Len(t, list.Notifications, 3)

	require.NoError(t, svc.MarkRead(context.Background(), "ctv-1", list.Notifications[0].ID))
	err = svc.MarkRead(context.Background(), "ctv-2", list.Notifications[1].ID)
	requireAppCode(t, err, apperrors.CodeNotFound)

	unread, err := svc.List(context.Background(), "ctv-1", dto.NotificationListQuery{UnreadOnly: true})
	require.NoError(t, err)
	assert.Len(t, unread.Notifications, 2)

	updated, err := svc.MarkAllRead(context.Background(), "ctv-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	list, err = svc.List(context.Background(), "ctv-1", dto.NotificationListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), list.Unread)
}
