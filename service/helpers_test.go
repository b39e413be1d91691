package service

import (
	"fmt"
	"testing"

	"kagai/model"
	"kagai/utils"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB 创建内存数据库。TranslateError 打开后，
// 唯一约束冲突和 postgres 驱动一样翻译成 gorm.ErrDuplicatedKey。
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, utils.Migrate(db))
	return db
}

var testUserSeq int

// createTestUser 创建测试用户（带空资料）
func createTestUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()

	testUserSeq++
	user := &model.User{
		Username:     username,
		Email:        fmt.Sprintf("%s%d@example.com", username, testUserSeq),
		PasswordHash: "x",
		FirstName:    username,
	}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&model.Profile{UserID: user.ID}).Error)
	return user
}
