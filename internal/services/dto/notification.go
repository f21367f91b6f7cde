package dto

import "github.com/tungtase04539/sangtaophaisinh/internal/models"

type NotificationListQuery struct {
	PageQuery
	UnreadOnly bool `form:"unread_only"`
}

type NotificationListResponse struct {
	Notifications []models.Notification `json:"notifications"`
	Unread        int64                 `json:"unread"`
	PageInfo
}

type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}
