package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 性别枚举
const (
	GenderMale   = "M"
	GenderFemale = "F"
	GenderOther  = "O"
)

// Profile 用户扩展资料表（每个用户恰好一条，注册时创建）
type Profile struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;uniqueIndex"`
	Bio         string     `json:"bio" gorm:"type:varchar(500)"`
	AvatarURL   *string    `json:"avatar_url,omitempty" gorm:"type:varchar(500)"`
	Gender      string     `json:"gender" gorm:"type:varchar(1)"` // 'M' | 'F' | 'O' | ''
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Location    string     `json:"location" gorm:"type:varchar(100)"`
	Interests   string     `json:"interests" gorm:"type:varchar(500)"` // 逗号分隔
	Website     *string    `json:"website,omitempty" gorm:"type:varchar(200)"`
	Phone       string     `json:"phone" gorm:"type:varchar(15)"`
	IsVerified  bool       `json:"is_verified" gorm:"default:false"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Profile) TableName() string {
	return "profiles"
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ProfileWithUser 资料详情（带用户基本信息，浏览页用）
type ProfileWithUser struct {
	Profile
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
}
