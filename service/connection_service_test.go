package service

import (
	"testing"

	"kagai/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRequestConnection_SelfReference 不能和自己建立连接
func TestRequestConnection_SelfReference(t *testing.T) {
	db := setupTestDB(t)
	svc := NewConnectionService(db)
	alice := createTestUser(t, db, "alice")

	_, err := svc.Request(alice.ID, alice.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSelfReference)
}

// TestRequestConnection_CreatesPending 首次请求创建 pending 记录，发起方是自己
func TestRequestConnection_CreatesPending(t *testing.T) {
	db := setupTestDB(t)
	svc := NewConnectionService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	conn, err := svc.Request(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ConnectionStatusPending, conn.Status)
	assert.Equal(t, alice.ID, conn.InitiatorID)
	assert.Equal(t, bob.ID, conn.RecipientID)
}

// TestRequestConnection_UnorderedPairConflict 反向重复请求同样冲突，
// 且两个方向查出来是同一条记录
func TestRequestConnection_UnorderedPairConflict(t *testing.T) {
	db := setupTestDB(t)
	svc := NewConnectionService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	conn, err := svc.Request(alice.ID, bob.ID)
	require.NoError(t, err)

	// B→A 的请求应该撞上 A→B 的记录
	_, err = svc.Request(bob.ID, alice.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	// 同方向重复请求也冲突
	_, err = svc.Request(alice.ID, bob.ID)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	// 两个方向查询返回同一条记录
	statusAB, err := svc.Status(alice.ID, bob.ID)
	require.NoError(t, err)
	statusBA, err := svc.Status(bob.ID, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, statusAB)
	require.NotNil(t, statusBA)
	assert.Equal(t, conn.ID, statusAB.ID)
	assert.Equal(t, conn.ID, statusBA.ID)
}

// TestRequestConnection_PairKeyUniqueIndex 无序对唯一索引兜底并发重复请求
func TestRequestConnection_PairKeyUniqueIndex(t *testing.T) {
	db := setupTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	first := &model.Connection{InitiatorID: alice.ID, RecipientID: bob.ID, Status: model.ConnectionStatusPending}
	require.NoError(t, db.Create(first).Error)

	// 绕过 service 的存在性检查，直接写反向记录，模拟并发输家
	second := &model.Connection{InitiatorID: bob.ID, RecipientID: alice.ID, Status: model.ConnectionStatusPending}
	err := db.Create(second).Error
	require.Error(t, err)
}

// TestAcceptConnection_WrongActor 只有接收方可以接受
func TestAcceptConnection_WrongActor(t *testing.T) {
	db := setupTestDB(t)
	svc := NewConnectionService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	conn, err := svc.Request(alice.ID, bob.ID)
	require.NoError(t, err)

	// 发起方自己接受 → 权限错误
	_, err = svc.Accept(alice.ID, conn.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	// 第三方接受 → 权限错误
	carol := createTestUser(t, db, "carol")
	_, err = svc.Accept(carol.ID, conn.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	// 接收方接受 → 成功
	accepted, err := svc.Accept(bob.ID, conn.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ConnectionStatusAccepted, accepted.Status)
}

// TestAcceptConnection_ReAccept 重复接受已 accepted 的记录静默成功（沿用原有行为）
func TestAcceptConnection_ReAccept(t *testing.T) {
	db := setupTestDB(t)
	svc := NewConnectionService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	conn, err := svc.Request(alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = svc.Accept(bob.ID, conn.ID)
	require.NoError(t, err)

	again, err := svc.Accept(bob.ID, conn.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ConnectionStatusAccepted, again.Status)
}

// TestAcceptConnection_NotFound 不存在的记录
func TestAcceptConnection_NotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewConnectionService(db)
	alice := createTestUser(t, db, "alice")

	_, err := svc.Accept(alice.ID, alice.ID) // 随便一个不存在的 ID
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestRejectConnection 拒绝后记录删除，可重新发起
func TestRejectConnection(t *testing.T) {
	db := setupTestDB(t)
	svc := NewConnectionService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	conn, err := svc.Request(alice.ID, bob.ID)
	require.NoError(t, err)

	// 发起方不能拒绝
	err = svc.Reject(alice.ID, conn.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	require.NoError(t, svc.Reject(bob.ID, conn.ID))

	status, err := svc.Status(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Nil(t, status)

	// 删除后可以重新请求
	_, err = svc.Request(alice.ID, bob.ID)
	require.NoError(t, err)
}

// TestRemoveConnection 双方任一方都可以删除，无论状态
func TestRemoveConnection(t *testing.T) {
	db := setupTestDB(t)
	svc := NewConnectionService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	conn, err := svc.Request(alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = svc.Accept(bob.ID, conn.ID)
	require.NoError(t, err)

	// 第三方不能删除
	err = svc.Remove(carol.ID, conn.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	// 发起方删除 accepted 记录
	require.NoError(t, svc.Remove(alice.ID, conn.ID))

	status, err := svc.Status(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Nil(t, status)
}

// TestBlockConnection 拉黑后新请求被拒绝，错误消息可区分
func TestBlockConnection(t *testing.T) {
	db := setupTestDB(t)
	svc := NewConnectionService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	conn, err := svc.Block(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ConnectionStatusBlocked, conn.Status)

	// 任一方向的新请求都拿到 AlreadyExists，消息里说明是 blocked
	_, err = svc.Request(bob.ID, alice.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.Contains(t, err.Error(), "blocked")

	_, err = svc.Request(alice.ID, bob.ID)
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

// TestBlockConnection_Terminal blocked 是终态：
// 被拉黑方不能通过接受/拒绝/删除离开该状态
func TestBlockConnection_Terminal(t *testing.T) {
	db := setupTestDB(t)
	svc := NewConnectionService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	conn, err := svc.Block(alice.ID, bob.ID)
	require.NoError(t, err)

	// 被拉黑方（记录的接收方）不能把 blocked 翻成 accepted
	_, err = svc.Accept(bob.ID, conn.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	// 也不能通过拒绝删掉记录
	err = svc.Reject(bob.ID, conn.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	// 双方都不能删除 blocked 记录后重新发起请求
	err = svc.Remove(bob.ID, conn.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)
	err = svc.Remove(alice.ID, conn.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	// 状态保持 blocked
	status, err := svc.Status(alice.ID, bob.ID)
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, model.ConnectionStatusBlocked, status.Status)
}

// TestBlockConnection_UpgradesExisting 已有记录被置为 blocked 而不是新建
func TestBlockConnection_UpgradesExisting(t *testing.T) {
	db := setupTestDB(t)
	svc := NewConnectionService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	pending, err := svc.Request(alice.ID, bob.ID)
	require.NoError(t, err)

	blocked, err := svc.Block(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, pending.ID, blocked.ID)
	assert.Equal(t, model.ConnectionStatusBlocked, blocked.Status)
}

// TestConnectionCounts dashboard 统计
func TestConnectionCounts(t *testing.T) {
	db := setupTestDB(t)
	svc := NewConnectionService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	conn, err := svc.Request(bob.ID, alice.ID)
	require.NoError(t, err)
	_, err = svc.Accept(alice.ID, conn.ID)
	require.NoError(t, err)

	_, err = svc.Request(carol.ID, alice.ID)
	require.NoError(t, err)

	accepted, err := svc.CountAccepted(alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, accepted)

	pending, err := svc.CountPending(alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, pending)

	pendingList, err := svc.ListPending(alice.ID)
	require.NoError(t, err)
	require.Len(t, pendingList, 1)
	assert.Equal(t, carol.ID, pendingList[0].InitiatorID)
}
