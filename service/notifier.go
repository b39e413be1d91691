package service

import "github.com/google/uuid"

// HubNotifier 接口用于向在线用户推送 WebSocket 事件。
// 由 handler 层的 Hub 实现，通过 SetHubNotifier 注入。
type HubNotifier interface {
	SendToUser(userID uuid.UUID, event interface{}) bool
	IsUserOnline(userID uuid.UUID) bool
}

// PushEvent WebSocket 推送事件
type PushEvent struct {
	Type string      `json:"type"` // 'note.received' | 'connection.requested' | 'connection.accepted'
	Data interface{} `json:"data"`
}
