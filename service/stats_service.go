package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"kagai/model"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const statsCacheKey = "kagai:stats:home"

type StatsService struct {
	db       *gorm.DB
	rdb      *redis.Client
	cacheTTL time.Duration
}

func NewStatsService(db *gorm.DB, rdb *redis.Client, cacheTTLSeconds int) *StatsService {
	if cacheTTLSeconds <= 0 {
		cacheTTLSeconds = 60
	}
	return &StatsService{
		db:       db,
		rdb:      rdb,
		cacheTTL: time.Duration(cacheTTLSeconds) * time.Second,
	}
}

// HomeStats 首页公开统计
type HomeStats struct {
	TotalNotes int64 `json:"total_notes"` // 已发送情书总数
	TotalUsers int64 `json:"total_users"`
}

// GetHomeStats 获取首页统计，Redis 缓存兜底数据库查询
func (s *StatsService) GetHomeStats(ctx context.Context) (*HomeStats, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, statsCacheKey).Result(); err == nil {
			var stats HomeStats
			if json.Unmarshal([]byte(cached), &stats) == nil {
				return &stats, nil
			}
		}
	}

	var stats HomeStats
	if err := s.db.Model(&model.LoveNote{}).
		Where("status <> ?", model.NoteStatusDraft).
		Count(&stats.TotalNotes).Error; err != nil {
		return nil, fmt.Errorf("failed to count notes: %w", err)
	}
	if err := s.db.Model(&model.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	if s.rdb != nil {
		if data, err := json.Marshal(&stats); err == nil {
			// 缓存失败不影响响应
			s.rdb.Set(ctx, statsCacheKey, data, s.cacheTTL)
		}
	}

	return &stats, nil
}
