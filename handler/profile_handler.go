package handler

import (
	"strconv"

	"kagai/middleware"
	"kagai/service"
	"kagai/utils"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileSvc *service.ProfileService
	authSvc    *service.AuthService
	connSvc    *service.ConnectionService
}

func NewProfileHandler(profileSvc *service.ProfileService, authSvc *service.AuthService, connSvc *service.ConnectionService) *ProfileHandler {
	return &ProfileHandler{profileSvc: profileSvc, authSvc: authSvc, connSvc: connSvc}
}

// GetProfile 查看用户资料（带与当前用户的关系状态）
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	viewerID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	user, err := h.authSvc.GetUserByUsername(c.Param("username"))
	if err != nil {
		serviceError(c, err)
		return
	}

	profile, err := h.profileSvc.GetProfileByUserID(user.ID)
	if err != nil {
		serviceError(c, err)
		return
	}

	resp := gin.H{
		"username": user.Username,
		"profile":  profile,
	}

	// 查看别人的主页时附带关系状态
	if viewerID != user.ID {
		conn, err := h.connSvc.Status(viewerID, user.ID)
		if err != nil {
			serviceError(c, err)
			return
		}
		resp["connection"] = conn
	}

	utils.SuccessResponse(c, resp)
}

// UpdateProfile 更新自己的资料（部分更新）
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	var req service.UpdateProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	profile, err := h.profileSvc.UpdateProfile(userID, req)
	if err != nil {
		serviceError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "profile updated successfully", gin.H{"profile": profile})
}

// BrowseUsers 浏览其他用户
func (h *ProfileHandler) BrowseUsers(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		utils.Unauthorized(c, "unauthorized")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	users, err := h.profileSvc.BrowseUsers(userID, c.Query("q"), c.Query("gender"), limit)
	if err != nil {
		serviceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"users": users})
}
