package handler

import (
	"kagai/middleware"
	"kagai/service"
	"kagai/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type NoteHandler struct {
	noteSvc *service.NoteService
}

func NewNoteHandler(noteSvc *service.NoteService) *NoteHandler {
	return &NoteHandler{noteSvc: noteSvc}
}

// SendNote 发送情书
func (h *NoteHandler) SendNote(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	var req struct {
		RecipientID uuid.UUID `json:"recipient_id" binding:"required"`
		Title       string    `json:"title"`
		Content     string    `json:"content" binding:"required"`
		IsAnonymous bool      `json:"is_anonymous"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	note, err := h.noteSvc.Send(userID, req.RecipientID, req.Title, req.Content, req.IsAnonymous)
	if err != nil {
		serviceError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "love note sent successfully", gin.H{"note": note})
}

// ViewNote 查看情书（收件人首次查看会标记为 opened）
func (h *NoteHandler) ViewNote(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	noteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "invalid note id")
		return
	}

	detail, err := h.noteSvc.View(userID, noteID)
	if err != nil {
		serviceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"note": detail})
}

// ListNotes 我的情书（发出+收到）
func (h *NoteHandler) ListNotes(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	sent, received, err := h.noteSvc.List(userID)
	if err != nil {
		serviceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"sent_notes":     sent,
		"received_notes": received,
	})
}

// ToggleFavorite 切换情书收藏状态
func (h *NoteHandler) ToggleFavorite(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	noteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "invalid note id")
		return
	}

	favorited, err := h.noteSvc.ToggleFavorite(userID, noteID)
	if err != nil {
		serviceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"favorited": favorited})
}

// ListFavorites 我的收藏
func (h *NoteHandler) ListFavorites(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	notes, err := h.noteSvc.ListFavorites(userID)
	if err != nil {
		serviceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"favorites": notes})
}

// DeleteNote 删除情书（连带收藏记录）
func (h *NoteHandler) DeleteNote(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	noteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "invalid note id")
		return
	}

	if err := h.noteSvc.Delete(userID, noteID); err != nil {
		serviceError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "note deleted", nil)
}
