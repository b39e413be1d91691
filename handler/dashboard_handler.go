package handler

import (
	"kagai/middleware"
	"kagai/service"
	"kagai/utils"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	noteSvc    *service.NoteService
	connSvc    *service.ConnectionService
	profileSvc *service.ProfileService
	statsSvc   *service.StatsService
}

func NewDashboardHandler(noteSvc *service.NoteService, connSvc *service.ConnectionService,
	profileSvc *service.ProfileService, statsSvc *service.StatsService) *DashboardHandler {
	return &DashboardHandler{
		noteSvc:    noteSvc,
		connSvc:    connSvc,
		profileSvc: profileSvc,
		statsSvc:   statsSvc,
	}
}

// GetDashboard 个人主页数据：统计 + 最近收到的情书
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	profile, err := h.profileSvc.GetProfileByUserID(userID)
	if err != nil {
		serviceError(c, err)
		return
	}

	sentCount, err := h.noteSvc.CountSent(userID)
	if err != nil {
		serviceError(c, err)
		return
	}
	receivedCount, err := h.noteSvc.CountReceived(userID)
	if err != nil {
		serviceError(c, err)
		return
	}
	connections, err := h.connSvc.CountAccepted(userID)
	if err != nil {
		serviceError(c, err)
		return
	}
	pendingRequests, err := h.connSvc.CountPending(userID)
	if err != nil {
		serviceError(c, err)
		return
	}
	recentReceived, err := h.noteSvc.RecentReceived(userID, 5)
	if err != nil {
		serviceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"profile":          profile,
		"sent_notes":       sentCount,
		"received_notes":   receivedCount,
		"connections":      connections,
		"pending_requests": pendingRequests,
		"recent_received":  recentReceived,
	})
}

// GetHomeStats 首页公开统计（无需登录）
func (h *DashboardHandler) GetHomeStats(c *gin.Context) {
	stats, err := h.statsSvc.GetHomeStats(c.Request.Context())
	if err != nil {
		serviceError(c, err)
		return
	}

	utils.SuccessResponse(c, stats)
}
