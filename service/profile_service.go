package service

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"kagai/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// CreateProfile 为用户创建空资料（注册流程外的补偿入口）
func (s *ProfileService) CreateProfile(userID uuid.UUID) (*model.Profile, error) {
	profile := &model.Profile{UserID: userID}
	if err := s.db.Create(profile).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: profile for user %s", ErrAlreadyExists, userID)
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return profile, nil
}

// GetProfileByUserID 查询用户资料
func (s *ProfileService) GetProfileByUserID(userID uuid.UUID) (*model.Profile, error) {
	var profile model.Profile
	err := s.db.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: profile for user %s", ErrNotFound, userID)
		}
		return nil, fmt.Errorf("failed to query profile: %w", err)
	}
	return &profile, nil
}

// UpdateProfileInput 资料更新请求。
// 全部用指针字段表达"未提交"，只更新显式提交的字段。
type UpdateProfileInput struct {
	Bio         *string `json:"bio"`
	AvatarURL   *string `json:"avatar_url"`
	Gender      *string `json:"gender"`
	DateOfBirth *string `json:"date_of_birth"` // '2006-01-02'
	Location    *string `json:"location"`
	Interests   *string `json:"interests"`
	Website     *string `json:"website"`
	Phone       *string `json:"phone"`
}

// UpdateProfile 部分更新用户资料
func (s *ProfileService) UpdateProfile(userID uuid.UUID, input UpdateProfileInput) (*model.Profile, error) {
	updates := map[string]interface{}{}

	if input.Bio != nil {
		if utf8.RuneCountInString(*input.Bio) > 500 {
			return nil, fmt.Errorf("%w: bio must be at most 500 characters", ErrValidation)
		}
		updates["bio"] = *input.Bio
	}
	if input.AvatarURL != nil {
		updates["avatar_url"] = *input.AvatarURL
	}
	if input.Gender != nil {
		switch *input.Gender {
		case "", model.GenderMale, model.GenderFemale, model.GenderOther:
			updates["gender"] = *input.Gender
		default:
			return nil, fmt.Errorf("%w: gender must be one of M, F, O", ErrValidation)
		}
	}
	if input.DateOfBirth != nil {
		if *input.DateOfBirth == "" {
			updates["date_of_birth"] = nil
		} else {
			dob, err := time.Parse("2006-01-02", *input.DateOfBirth)
			if err != nil {
				return nil, fmt.Errorf("%w: date_of_birth must be YYYY-MM-DD", ErrValidation)
			}
			updates["date_of_birth"] = dob
		}
	}
	if input.Location != nil {
		if utf8.RuneCountInString(*input.Location) > 100 {
			return nil, fmt.Errorf("%w: location must be at most 100 characters", ErrValidation)
		}
		updates["location"] = *input.Location
	}
	if input.Interests != nil {
		if utf8.RuneCountInString(*input.Interests) > 500 {
			return nil, fmt.Errorf("%w: interests must be at most 500 characters", ErrValidation)
		}
		updates["interests"] = *input.Interests
	}
	if input.Website != nil {
		if *input.Website != "" {
			u, err := url.Parse(*input.Website)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				return nil, fmt.Errorf("%w: website must be a valid http(s) URL", ErrValidation)
			}
		}
		updates["website"] = *input.Website
	}
	if input.Phone != nil {
		if utf8.RuneCountInString(*input.Phone) > 15 {
			return nil, fmt.Errorf("%w: phone must be at most 15 characters", ErrValidation)
		}
		updates["phone"] = *input.Phone
	}

	if len(updates) > 0 {
		result := s.db.Model(&model.Profile{}).Where("user_id = ?", userID).Updates(updates)
		if result.Error != nil {
			return nil, fmt.Errorf("failed to update profile: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, fmt.Errorf("%w: profile for user %s", ErrNotFound, userID)
		}
	}

	return s.GetProfileByUserID(userID)
}

// BrowseUsers 浏览其他用户（用户名/昵称模糊搜索 + 性别过滤，最多 50 条）
func (s *ProfileService) BrowseUsers(viewerID uuid.UUID, query, gender string, limit int) ([]model.ProfileWithUser, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}

	q := s.db.Table("profiles").
		Select("profiles.*, users.username, users.first_name").
		Joins("JOIN users ON users.id = profiles.user_id").
		Where("users.id <> ?", viewerID)

	if query = strings.TrimSpace(query); query != "" {
		pattern := "%" + strings.ToLower(query) + "%"
		q = q.Where("LOWER(users.username) LIKE ? OR LOWER(users.first_name) LIKE ?", pattern, pattern)
	}
	if gender != "" && gender != "all" {
		q = q.Where("profiles.gender = ?", gender)
	}

	var results []model.ProfileWithUser
	err := q.Order("profiles.created_at DESC").Limit(limit).Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to browse users: %w", err)
	}
	return results, nil
}
