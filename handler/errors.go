package handler

import (
	"errors"

	"kagai/service"
	"kagai/utils"

	"github.com/gin-gonic/gin"
)

// serviceError 把 service 层的错误类别映射到 HTTP 状态码
func serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSelfReference), errors.Is(err, service.ErrValidation):
		utils.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrPermissionDenied):
		utils.Forbidden(c, err.Error())
	case errors.Is(err, service.ErrNotFound):
		utils.NotFound(c, err.Error())
	case errors.Is(err, service.ErrAlreadyExists):
		utils.Conflict(c, err.Error())
	default:
		utils.InternalServerError(c, err.Error())
	}
}
