package handler

import (
	"kagai/middleware"
	"kagai/service"
	"kagai/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authSvc *service.AuthService
}

func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Register 注册新用户
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	user, err := h.authSvc.Register(req)
	if err != nil {
		serviceError(c, err)
		return
	}

	utils.SuccessWithMessage(c, "account created successfully", gin.H{"user": user})
}

// Login 登录，返回 JWT
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	user, err := h.authSvc.Login(req.Username, req.Password)
	if err != nil {
		utils.Unauthorized(c, "invalid username or password")
		return
	}

	token, err := middleware.GenerateToken(user.ID)
	if err != nil {
		utils.InternalServerError(c, "failed to issue token")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"token": token,
		"user":  user,
	})
}
