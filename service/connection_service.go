package service

import (
	"errors"
	"fmt"

	"kagai/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConnectionService struct {
	db          *gorm.DB
	hubNotifier HubNotifier
}

func NewConnectionService(db *gorm.DB) *ConnectionService {
	return &ConnectionService{db: db}
}

// SetHubNotifier 设置 Hub 通知器（用于依赖注入）
func (s *ConnectionService) SetHubNotifier(notifier HubNotifier) {
	s.hubNotifier = notifier
}

// Request 发起连接请求。
// 无序对上已有任何记录（含 blocked）都算冲突；并发重复请求由
// pair_key 唯一索引兜底，输掉的一方同样拿到 ErrAlreadyExists。
func (s *ConnectionService) Request(initiatorID, recipientID uuid.UUID) (*model.Connection, error) {
	if initiatorID == recipientID {
		return nil, fmt.Errorf("%w: cannot connect with yourself", ErrSelfReference)
	}

	existing, err := s.Status(initiatorID, recipientID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Status == model.ConnectionStatusBlocked {
			return nil, fmt.Errorf("%w: connection is blocked", ErrAlreadyExists)
		}
		return nil, fmt.Errorf("%w: connection already %s", ErrAlreadyExists, existing.Status)
	}

	conn := &model.Connection{
		InitiatorID: initiatorID,
		RecipientID: recipientID,
		Status:      model.ConnectionStatusPending,
	}
	if err := s.db.Create(conn).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: connection already requested", ErrAlreadyExists)
		}
		return nil, fmt.Errorf("failed to create connection: %w", err)
	}

	if s.hubNotifier != nil && s.hubNotifier.IsUserOnline(recipientID) {
		s.hubNotifier.SendToUser(recipientID, PushEvent{Type: "connection.requested", Data: conn})
	}

	return conn, nil
}

// Accept 接受连接请求。只有接收方可以接受。
// blocked 是终态，任何一方都不能通过接受离开该状态；
// 对已 accepted 的记录重复接受会静默成功，这里沿用原有行为不做防护。
func (s *ConnectionService) Accept(actorID, connectionID uuid.UUID) (*model.Connection, error) {
	conn, err := s.getByID(connectionID)
	if err != nil {
		return nil, err
	}

	if conn.Status == model.ConnectionStatusBlocked {
		return nil, fmt.Errorf("%w: connection is blocked", ErrPermissionDenied)
	}
	if conn.RecipientID != actorID {
		return nil, fmt.Errorf("%w: only the recipient can accept", ErrPermissionDenied)
	}

	conn.Status = model.ConnectionStatusAccepted
	if err := s.db.Model(conn).Update("status", model.ConnectionStatusAccepted).Error; err != nil {
		return nil, fmt.Errorf("failed to accept connection: %w", err)
	}

	if s.hubNotifier != nil && s.hubNotifier.IsUserOnline(conn.InitiatorID) {
		s.hubNotifier.SendToUser(conn.InitiatorID, PushEvent{Type: "connection.accepted", Data: conn})
	}

	return conn, nil
}

// Reject 拒绝连接请求（删除记录）。只有接收方可以拒绝。
// blocked 记录不能通过拒绝删掉，否则删完就能重新发起请求。
func (s *ConnectionService) Reject(actorID, connectionID uuid.UUID) error {
	conn, err := s.getByID(connectionID)
	if err != nil {
		return err
	}

	if conn.Status == model.ConnectionStatusBlocked {
		return fmt.Errorf("%w: connection is blocked", ErrPermissionDenied)
	}
	if conn.RecipientID != actorID {
		return fmt.Errorf("%w: only the recipient can reject", ErrPermissionDenied)
	}

	if err := s.db.Delete(conn).Error; err != nil {
		return fmt.Errorf("failed to reject connection: %w", err)
	}
	return nil
}

// Remove 删除连接（pending 或 accepted）。双方任一方都可以删除。
// blocked 记录同样不可删除：删掉等于绕过拉黑重新请求。
func (s *ConnectionService) Remove(actorID, connectionID uuid.UUID) error {
	conn, err := s.getByID(connectionID)
	if err != nil {
		return err
	}

	if conn.Status == model.ConnectionStatusBlocked {
		return fmt.Errorf("%w: connection is blocked", ErrPermissionDenied)
	}
	if !conn.Involves(actorID) {
		return fmt.Errorf("%w: not a party to this connection", ErrPermissionDenied)
	}

	if err := s.db.Delete(conn).Error; err != nil {
		return fmt.Errorf("failed to remove connection: %w", err)
	}
	return nil
}

// Block 拉黑用户：已有记录则置为 blocked，没有则直接创建 blocked 记录。
// 除了让 Request 拒绝新请求外不附加其他语义。
func (s *ConnectionService) Block(actorID, targetID uuid.UUID) (*model.Connection, error) {
	if actorID == targetID {
		return nil, fmt.Errorf("%w: cannot block yourself", ErrSelfReference)
	}

	existing, err := s.Status(actorID, targetID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		if err := s.db.Model(existing).Update("status", model.ConnectionStatusBlocked).Error; err != nil {
			return nil, fmt.Errorf("failed to block connection: %w", err)
		}
		existing.Status = model.ConnectionStatusBlocked
		return existing, nil
	}

	conn := &model.Connection{
		InitiatorID: actorID,
		RecipientID: targetID,
		Status:      model.ConnectionStatusBlocked,
	}
	if err := s.db.Create(conn).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: connection already exists", ErrAlreadyExists)
		}
		return nil, fmt.Errorf("failed to create blocked connection: %w", err)
	}
	return conn, nil
}

// Status 查询无序对 {A,B} 的关系记录，参数顺序无关；没有记录返回 nil。
func (s *ConnectionService) Status(userA, userB uuid.UUID) (*model.Connection, error) {
	var conn model.Connection
	err := s.db.Where("pair_key = ?", model.PairKey(userA, userB)).First(&conn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query connection: %w", err)
	}
	return &conn, nil
}

// ListAccepted 获取已建立的连接列表
func (s *ConnectionService) ListAccepted(userID uuid.UUID) ([]model.Connection, error) {
	var conns []model.Connection
	err := s.db.Where("(initiator_id = ? OR recipient_id = ?) AND status = ?",
		userID, userID, model.ConnectionStatusAccepted).
		Order("created_at DESC").
		Find(&conns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query connections: %w", err)
	}
	return conns, nil
}

// ListPending 获取待处理的连接请求（自己是接收方）
func (s *ConnectionService) ListPending(userID uuid.UUID) ([]model.Connection, error) {
	var conns []model.Connection
	err := s.db.Where("recipient_id = ? AND status = ?", userID, model.ConnectionStatusPending).
		Order("created_at DESC").
		Find(&conns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query pending connections: %w", err)
	}
	return conns, nil
}

// CountAccepted 已建立连接数（dashboard 用）
func (s *ConnectionService) CountAccepted(userID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.Model(&model.Connection{}).
		Where("(initiator_id = ? OR recipient_id = ?) AND status = ?",
			userID, userID, model.ConnectionStatusAccepted).
		Count(&count).Error
	return count, err
}

// CountPending 待处理请求数（dashboard 用）
func (s *ConnectionService) CountPending(userID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.Model(&model.Connection{}).
		Where("recipient_id = ? AND status = ?", userID, model.ConnectionStatusPending).
		Count(&count).Error
	return count, err
}

func (s *ConnectionService) getByID(connectionID uuid.UUID) (*model.Connection, error) {
	var conn model.Connection
	err := s.db.First(&conn, "id = ?", connectionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: connection %s", ErrNotFound, connectionID)
		}
		return nil, fmt.Errorf("failed to query connection: %w", err)
	}
	return &conn, nil
}
