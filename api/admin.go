package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

// AdminHandler 进程管理处理器
type AdminHandler struct {
	shutdown func()
}

// NewAdminHandler 创建管理处理器，shutdown 触发优雅退出
func NewAdminHandler(shutdown func()) *AdminHandler {
	return &AdminHandler{shutdown: shutdown}
}

// Exit 退出服务
// @Summary 退出服务
// @Description 先返回响应，再触发优雅关闭
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response "正在退出"
// @Router /api/exit [post]
func (h *AdminHandler) Exit(c *gin.Context) {
	SuccessWithMessage(c, "shutting down", nil)
	c.Writer.Flush()
	slog.InfoContext(c.Request.Context(), "收到退出请求", "request_id", c.GetString("request_id"))
	if h.shutdown != nil {
		h.shutdown()
	}
}
