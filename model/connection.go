package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 关系状态
const (
	ConnectionStatusPending  = "pending"
	ConnectionStatusAccepted = "accepted"
	ConnectionStatusBlocked  = "blocked"
)

// Connection 用户关系表。
// 记录保存发起方/接收方用于审计，但查询按无序对处理：
// (A,B) 和 (B,A) 是同一条关系，由 pair_key 唯一索引保证。
type Connection struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	InitiatorID uuid.UUID `json:"initiator_id" gorm:"type:uuid;not null;index"`
	RecipientID uuid.UUID `json:"recipient_id" gorm:"type:uuid;not null;index"`
	PairKey     string    `json:"-" gorm:"type:varchar(80);not null;uniqueIndex"`
	Status      string    `json:"status" gorm:"type:varchar(10);default:pending"` // 'pending' | 'accepted' | 'blocked'
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Connection) TableName() string {
	return "connections"
}

func (c *Connection) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.PairKey == "" {
		c.PairKey = PairKey(c.InitiatorID, c.RecipientID)
	}
	return nil
}

// PairKey 生成无序对的唯一键（两个 UUID 按字典序拼接）
func PairKey(a, b uuid.UUID) string {
	s1, s2 := a.String(), b.String()
	if strings.Compare(s1, s2) > 0 {
		s1, s2 = s2, s1
	}
	return s1 + ":" + s2
}

// Involves 判断用户是否是这条关系的一方
func (c *Connection) Involves(userID uuid.UUID) bool {
	return c.InitiatorID == userID || c.RecipientID == userID
}
