package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"spending/config"
	"spending/service"

	"github.com/gin-gonic/gin"
)

// Response 通用响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    200,
		Message: "success",
		Data:    data,
	})
}

// SuccessWithMessage 带消息的成功响应
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    200,
		Message: message,
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest 400 错误响应
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// InternalError 500 错误响应
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

// NotFound 404 错误响应
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// respondError 按业务错误类型映射 HTTP 状态码
func respondError(c *gin.Context, err error, fallback string) {
	var (
		verr     *service.ValidationError
		nf       *service.NotFoundError
		conflict *service.ConflictError
	)
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, Response{
			Code:    http.StatusBadRequest,
			Message: verr.Error(),
			Data:    gin.H{"field": verr.Field},
		})
	case errors.As(err, &nf):
		NotFound(c, nf.Error())
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, Response{
			Code:    http.StatusConflict,
			Message: conflict.Error(),
			Data:    gin.H{"count": conflict.Count},
		})
	default:
		slog.ErrorContext(c.Request.Context(), fallback, "error", err, "request_id", c.GetString("request_id"))
		InternalError(c, config.SafeErrorMessage(err, fallback))
	}
}

// bindError 请求参数绑定失败；release 模式下不回显校验细节
func bindError(c *gin.Context, err error) {
	BadRequest(c, config.SafeErrorMessage(err, "Invalid request"))
}

// parseID 解析路径中的 id
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		BadRequest(c, "Invalid id")
		return 0, false
	}
	return uint(id), true
}
