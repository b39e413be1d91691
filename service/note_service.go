package service

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"kagai/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NoteService struct {
	db            *gorm.DB
	maxNoteLength int
	hubNotifier   HubNotifier
}

func NewNoteService(db *gorm.DB, maxNoteLength int) *NoteService {
	if maxNoteLength <= 0 {
		maxNoteLength = 2000
	}
	return &NoteService{db: db, maxNoteLength: maxNoteLength}
}

// SetHubNotifier 设置 Hub 通知器（用于依赖注入）
func (s *NoteService) SetHubNotifier(notifier HubNotifier) {
	s.hubNotifier = notifier
}

// Send 发送情书。记录直接以 sent 状态落库并盖上 sent_at，
// draft 状态只在模型里保留，没有接口会产生它。
func (s *NoteService) Send(senderID, recipientID uuid.UUID, title, content string, isAnonymous bool) (*model.LoveNote, error) {
	if senderID == recipientID {
		return nil, fmt.Errorf("%w: cannot send a note to yourself", ErrSelfReference)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: note content cannot be empty", ErrValidation)
	}
	// 长度限制按字符数算，不按字节
	if utf8.RuneCountInString(content) > s.maxNoteLength {
		return nil, fmt.Errorf("%w: note content must be at most %d characters", ErrValidation, s.maxNoteLength)
	}
	if utf8.RuneCountInString(title) > 200 {
		return nil, fmt.Errorf("%w: title must be at most 200 characters", ErrValidation)
	}

	now := time.Now()
	note := &model.LoveNote{
		SenderID:    senderID,
		RecipientID: recipientID,
		Title:       title,
		Content:     content,
		Status:      model.NoteStatusSent,
		IsAnonymous: isAnonymous,
		SentAt:      &now,
	}

	if err := s.db.Create(note).Error; err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	if s.hubNotifier != nil && s.hubNotifier.IsUserOnline(recipientID) {
		s.hubNotifier.SendToUser(recipientID, PushEvent{Type: "note.received", Data: note})
	}

	return note, nil
}

// View 查看情书。收件人首次查看时把 sent 置为 opened 并盖上 opened_at；
// 重复查看不会重置时间戳。匿名情书不返回发送者资料。
func (s *NoteService) View(actorID, noteID uuid.UUID) (*model.LoveNoteDetail, error) {
	note, err := s.getByID(noteID)
	if err != nil {
		return nil, err
	}

	if actorID != note.SenderID && actorID != note.RecipientID {
		return nil, fmt.Errorf("%w: not a party to this note", ErrPermissionDenied)
	}

	if actorID == note.RecipientID && note.Status == model.NoteStatusSent {
		now := time.Now()
		// WHERE 带上 status 条件，并发重复查看只有一次能改到 opened_at
		result := s.db.Model(&model.LoveNote{}).
			Where("id = ? AND status = ?", noteID, model.NoteStatusSent).
			Updates(map[string]interface{}{
				"status":    model.NoteStatusOpened,
				"opened_at": now,
			})
		if result.Error != nil {
			return nil, fmt.Errorf("failed to mark note opened: %w", result.Error)
		}
		if result.RowsAffected > 0 {
			note.Status = model.NoteStatusOpened
			note.OpenedAt = &now
		} else if note, err = s.getByID(noteID); err != nil {
			return nil, err
		}
	}

	detail := &model.LoveNoteDetail{LoveNote: *note}

	if !note.IsAnonymous {
		var profile model.Profile
		if err := s.db.Where("user_id = ?", note.SenderID).First(&profile).Error; err == nil {
			detail.SenderProfile = &profile
		}
	}

	var favCount int64
	if err := s.db.Model(&model.Favorite{}).
		Where("user_id = ? AND note_id = ?", actorID, noteID).
		Count(&favCount).Error; err != nil {
		return nil, fmt.Errorf("failed to query favorite: %w", err)
	}
	detail.IsFavorite = favCount > 0

	return detail, nil
}

// List 获取用户的全部情书：发出的和收到的两个独立序列，各自按时间倒序
func (s *NoteService) List(userID uuid.UUID) (sent, received []model.LoveNote, err error) {
	if err = s.db.Where("sender_id = ?", userID).
		Order("created_at DESC").
		Find(&sent).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to query sent notes: %w", err)
	}

	if err = s.db.Where("recipient_id = ?", userID).
		Order("created_at DESC").
		Find(&received).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to query received notes: %w", err)
	}

	return sent, received, nil
}

// ToggleFavorite 切换收藏状态：已收藏则取消，未收藏则创建。
// 返回切换后的状态。并发重复收藏由 (user_id, note_id) 唯一索引兜底，
// 输掉的一方拿到 ErrAlreadyExists 而不是写出第二条记录。
func (s *NoteService) ToggleFavorite(actorID, noteID uuid.UUID) (favorited bool, err error) {
	note, err := s.getByID(noteID)
	if err != nil {
		return false, err
	}

	if actorID != note.SenderID && actorID != note.RecipientID {
		return false, fmt.Errorf("%w: not a party to this note", ErrPermissionDenied)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND note_id = ?", actorID, noteID).
			Delete(&model.Favorite{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			favorited = false
			return nil
		}

		if err := tx.Create(&model.Favorite{UserID: actorID, NoteID: noteID}).Error; err != nil {
			return err
		}
		favorited = true
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, fmt.Errorf("%w: favorite for this note", ErrAlreadyExists)
		}
		return false, fmt.Errorf("failed to toggle favorite: %w", err)
	}

	return favorited, nil
}

// ListFavorites 获取用户收藏的情书列表
func (s *NoteService) ListFavorites(userID uuid.UUID) ([]model.LoveNote, error) {
	var notes []model.LoveNote
	err := s.db.Table("love_notes").
		Joins("JOIN favorites ON favorites.note_id = love_notes.id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.created_at DESC").
		Find(&notes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	return notes, nil
}

// Delete 删除情书。只有发送者可以删除；
// 收藏记录随情书一起删，放在同一个事务里。
func (s *NoteService) Delete(actorID, noteID uuid.UUID) error {
	note, err := s.getByID(noteID)
	if err != nil {
		return err
	}

	if note.SenderID != actorID {
		return fmt.Errorf("%w: only the sender can delete a note", ErrPermissionDenied)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("note_id = ?", noteID).Delete(&model.Favorite{}).Error; err != nil {
			return err
		}
		return tx.Delete(note).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return nil
}

// CountSent / CountReceived dashboard 统计用，只数 sent 状态以上的情书
func (s *NoteService) CountSent(userID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.Model(&model.LoveNote{}).
		Where("sender_id = ? AND status <> ?", userID, model.NoteStatusDraft).
		Count(&count).Error
	return count, err
}

func (s *NoteService) CountReceived(userID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.Model(&model.LoveNote{}).
		Where("recipient_id = ? AND status <> ?", userID, model.NoteStatusDraft).
		Count(&count).Error
	return count, err
}

// RecentReceived 最近收到的情书（dashboard 预览）
func (s *NoteService) RecentReceived(userID uuid.UUID, limit int) ([]model.LoveNote, error) {
	if limit <= 0 {
		limit = 5
	}
	var notes []model.LoveNote
	err := s.db.Where("recipient_id = ? AND status <> ?", userID, model.NoteStatusDraft).
		Order("created_at DESC").
		Limit(limit).
		Find(&notes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query recent notes: %w", err)
	}
	return notes, nil
}

func (s *NoteService) getByID(noteID uuid.UUID) (*model.LoveNote, error) {
	var note model.LoveNote
	err := s.db.First(&note, "id = ?", noteID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: note %s", ErrNotFound, noteID)
		}
		return nil, fmt.Errorf("failed to query note: %w", err)
	}
	return &note, nil
}
