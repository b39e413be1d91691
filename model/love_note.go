package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 情书状态。draft 和 liked 仅为前向兼容保留：
// 当前没有任何接口会产生这两个状态。
const (
	NoteStatusDraft  = "draft"
	NoteStatusSent   = "sent"
	NoteStatusOpened = "opened"
	NoteStatusLiked  = "liked"
)

// LoveNote 情书表（sender → recipient 的单向消息）
type LoveNote struct {
	ID            uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	SenderID      uuid.UUID  `json:"sender_id" gorm:"type:uuid;not null;index"`
	RecipientID   uuid.UUID  `json:"recipient_id" gorm:"type:uuid;not null;index"`
	Title         string     `json:"title" gorm:"type:varchar(200)"`
	Content       string     `json:"content" gorm:"type:varchar(2000);not null"`
	Status        string     `json:"status" gorm:"type:varchar(10);default:draft"` // 'draft' | 'sent' | 'opened' | 'liked'
	IsAnonymous   bool       `json:"is_anonymous" gorm:"default:false"`
	EmojiReaction string     `json:"emoji_reaction" gorm:"type:varchar(10)"`
	CreatedAt     time.Time  `json:"created_at" gorm:"autoCreateTime"`
	SentAt        *time.Time `json:"sent_at,omitempty"`
	OpenedAt      *time.Time `json:"opened_at,omitempty"`
}

func (LoveNote) TableName() string {
	return "love_notes"
}

func (n *LoveNote) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// LoveNoteDetail 情书详情（匿名情书不带发送者资料）
type LoveNoteDetail struct {
	LoveNote
	SenderProfile *Profile `json:"sender_profile,omitempty"`
	IsFavorite    bool     `json:"is_favorite"`
}
