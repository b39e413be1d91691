package service

import (
	"testing"

	"kagai/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRegister_CreatesUserAndProfile 注册在同一个事务里创建用户和空资料
func TestRegister_CreatesUserAndProfile(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db)

	user, err := svc.Register(RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "secret123", user.PasswordHash)

	var count int64
	require.NoError(t, db.Model(&model.Profile{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count, "registration must create exactly one profile")
}

// TestRegister_Validation 字段校验
func TestRegister_Validation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db)

	_, err := svc.Register(RegisterInput{Username: "al", Email: "a@b.c", Password: "secret123"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Register(RegisterInput{Username: "alice", Email: "not-an-email", Password: "secret123"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Register(RegisterInput{Username: "alice", Email: "a@b.c", Password: "short"})
	assert.ErrorIs(t, err, ErrValidation)
}

// TestRegister_Duplicate 重复用户名/邮箱 → AlreadyExists，且不会留下半个用户
func TestRegister_Duplicate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db)

	_, err := svc.Register(RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Register(RegisterInput{Username: "alice", Email: "other@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	_, err = svc.Register(RegisterInput{Username: "alice2", Email: "alice@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	var users, profiles int64
	require.NoError(t, db.Model(&model.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&model.Profile{}).Count(&profiles).Error)
	assert.EqualValues(t, 1, users)
	assert.EqualValues(t, 1, profiles)
}

// TestLogin 密码校验
func TestLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db)

	registered, err := svc.Register(RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)

	user, err := svc.Login("alice", "secret123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, err = svc.Login("alice", "wrong-password")
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.Login("nobody", "secret123")
	assert.ErrorIs(t, err, ErrPermissionDenied)
}
