package api

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"spending/service"

	"github.com/gin-gonic/gin"
)

// MaxImportBytes 导入文件大小上限
const MaxImportBytes = 64 << 20

// BulkHandler 批量操作与数据库维护处理器
type BulkHandler struct {
	svc *service.Services
}

// NewBulkHandler 创建批量操作处理器
func NewBulkHandler(svc *service.Services) *BulkHandler {
	return &BulkHandler{svc: svc}
}

// DuplicateRequest 复制请求
type DuplicateRequest struct {
	Year  int                   `json:"year" binding:"required" example:"2024"`
	Month int                   `json:"month" example:"3"`
	Kind  service.DuplicateKind `json:"kind" example:"expense"`
}

// Duplicate 复制整月账本
// @Summary 复制某月的消费或还款到今天
// @Description 逐行复制，单行失败只计数；kind 默认为 expense
// @Tags 批量操作
// @Accept json
// @Produce json
// @Param request body DuplicateRequest true "源月份"
// @Success 200 {object} Response{data=service.DuplicateResult} "复制完成"
// @Failure 400 {object} Response "参数错误"
// @Failure 429 {object} Response "请求过于频繁"
// @Router /api/bulk/duplicate [post]
func (h *BulkHandler) Duplicate(c *gin.Context) {
	var req DuplicateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if req.Kind == "" {
		req.Kind = service.DuplicateExpenses
	}
	res, err := h.svc.Duplicator.DuplicatePeriod(c.Request.Context(), service.Period{Year: req.Year, Month: req.Month}, req.Kind)
	if err != nil {
		respondError(c, err, "复制失败")
		return
	}
	Success(c, res)
}

// Backup 下载 JSON 备份
// @Summary 导出完整备份
// @Description 返回的快照可直接用于导入合并
// @Tags 数据库
// @Produce json
// @Success 200 {object} service.Snapshot "快照"
// @Router /api/database/backup [get]
func (h *BulkHandler) Backup(c *gin.Context) {
	snap, err := h.svc.Backup(c.Request.Context())
	if err != nil {
		respondError(c, err, "备份失败")
		return
	}
	filename := fmt.Sprintf("spending-backup-%s.json", snap.CreatedAt.Format("20060102-150405"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.JSON(http.StatusOK, snap)
}

// Import 合并导入
// @Summary 合并导入备份
// @Description 支持 JSON 快照或 SQLite 数据库文件（含旧版结构）；已存在的目录项按名称忽略
// @Tags 数据库
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "备份文件"
// @Success 200 {object} Response{data=service.MergeResult} "导入完成"
// @Failure 400 {object} Response "文件无效"
// @Router /api/database/import [post]
func (h *BulkHandler) Import(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxImportBytes)
	fh, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "file is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		BadRequest(c, "cannot read file")
		return
	}
	defer f.Close()

	snap, err := loadSnapshot(c, f)
	if err != nil {
		respondError(c, err, "读取备份失败")
		return
	}
	res, err := h.svc.Importer.MergeSnapshot(c.Request.Context(), snap)
	if err != nil {
		respondError(c, err, "导入失败")
		return
	}
	Success(c, res)
}

// loadSnapshot 上传内容落盘后按文件头识别格式
func loadSnapshot(c *gin.Context, r io.Reader) (*service.Snapshot, error) {
	tmp, err := os.CreateTemp("", "spending-import-*")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}
	return service.LoadSnapshotFile(c.Request.Context(), tmp.Name())
}

// Clear 清空数据库
// @Summary 清空全部数据
// @Description 删除全部目录与账本数据；启用默认数据时重新写入默认目录
// @Tags 数据库
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=service.ClearResult} "已清空"
// @Router /api/database/clear [delete]
func (h *BulkHandler) Clear(c *gin.Context) {
	res, err := h.svc.ClearAll(c.Request.Context())
	if err != nil {
		respondError(c, err, "清空失败")
		return
	}
	SuccessWithMessage(c, "cleared", res)
}
