package handler

import (
	"kagai/middleware"
	"kagai/service"
	"kagai/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ConnectionHandler struct {
	connSvc *service.ConnectionService
}

func NewConnectionHandler(connSvc *service.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{connSvc: connSvc}
}

// RequestConnection 发起连接请求
func (h *ConnectionHandler) RequestConnection(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	var req struct {
		RecipientID uuid.UUID `json:"recipient_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	conn, err := h.connSvc.Request(userID, req.RecipientID)
	if err != nil {
		serviceError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "connection request sent", gin.H{"connection": conn})
}

// AcceptConnection 接受连接请求
func (h *ConnectionHandler) AcceptConnection(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	connectionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "invalid connection id")
		return
	}

	conn, err := h.connSvc.Accept(userID, connectionID)
	if err != nil {
		serviceError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "connection accepted", gin.H{"connection": conn})
}

// RejectConnection 拒绝连接请求
func (h *ConnectionHandler) RejectConnection(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	connectionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "invalid connection id")
		return
	}

	if err := h.connSvc.Reject(userID, connectionID); err != nil {
		serviceError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "connection request rejected", nil)
}

// RemoveConnection 删除连接
func (h *ConnectionHandler) RemoveConnection(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	connectionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "invalid connection id")
		return
	}

	if err := h.connSvc.Remove(userID, connectionID); err != nil {
		serviceError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "connection removed", nil)
}

// BlockUser 拉黑用户
func (h *ConnectionHandler) BlockUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	var req struct {
		TargetUserID uuid.UUID `json:"target_user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	conn, err := h.connSvc.Block(userID, req.TargetUserID)
	if err != nil {
		serviceError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "user blocked", gin.H{"connection": conn})
}

// GetConnectionStatus 查询与某用户的关系状态（参数顺序无关）
func (h *ConnectionHandler) GetConnectionStatus(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	otherID, err := uuid.Parse(c.Query("user_id"))
	if err != nil {
		utils.BadRequest(c, "invalid user_id")
		return
	}

	conn, err := h.connSvc.Status(userID, otherID)
	if err != nil {
		serviceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"connection": conn})
}

// GetConnections 已建立的连接列表
func (h *ConnectionHandler) GetConnections(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	conns, err := h.connSvc.ListAccepted(userID)
	if err != nil {
		serviceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"connections": conns})
}

// GetPendingConnections 待处理的连接请求列表
func (h *ConnectionHandler) GetPendingConnections(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	conns, err := h.connSvc.ListPending(userID)
	if err != nil {
		serviceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"pending": conns})
}
