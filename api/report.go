package api

import (
	"net/http"

	"spending/export"
	"spending/service"

	"github.com/gin-gonic/gin"
)

// ReportHandler 报表处理器
type ReportHandler struct {
	reports *service.Reports
	email   *service.EmailService
}

// NewReportHandler 创建报表处理器
func NewReportHandler(reports *service.Reports, email *service.EmailService) *ReportHandler {
	return &ReportHandler{reports: reports, email: email}
}

// EmailReportRequest 邮件发送报表请求
type EmailReportRequest struct {
	To     string `json:"to" binding:"required" example:"family@example.com"`
	Format string `json:"format" example:"xlsx"`
}

func (h *ReportHandler) period(c *gin.Context) (service.Period, bool) {
	p, err := service.ParsePeriod(c.Param("year"), c.Param("month"))
	if err != nil {
		respondError(c, err, "Invalid period")
		return service.Period{}, false
	}
	return p, true
}

// Get 获取区间报表
// @Summary 获取年度或月度报表
// @Description 按消费类型、消费项、支付方式分组汇总；信用卡还款超出逐笔记录的部分以 Untracked 行追加在末尾
// @Tags 报表
// @Produce json
// @Param year path int true "年"
// @Param month path int false "月 (1-12)"
// @Success 200 {object} Response{data=[]models.ReportLine} "获取成功"
// @Failure 400 {object} Response "参数错误"
// @Router /api/reports/{year} [get]
// @Router /api/reports/{year}/{month} [get]
func (h *ReportHandler) Get(c *gin.Context) {
	p, ok := h.period(c)
	if !ok {
		return
	}
	lines, err := h.reports.BuildPeriodReport(c.Request.Context(), p)
	if err != nil {
		respondError(c, err, "生成报表失败")
		return
	}
	Success(c, lines)
}

// Export 导出报表文件
// @Summary 导出报表
// @Tags 报表
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce application/pdf
// @Param year path int true "年"
// @Param month path int false "月 (1-12)"
// @Param format query string false "xlsx 或 pdf" default(xlsx)
// @Success 200 {file} binary "报表文件"
// @Failure 400 {object} Response "参数错误"
// @Router /api/reports/{year}/export [get]
// @Router /api/reports/{year}/{month}/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	p, ok := h.period(c)
	if !ok {
		return
	}
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	data, filename, err := h.render(c, p, format)
	if err != nil {
		respondError(c, err, "导出报表失败")
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, format.ContentType(), data)
}

// Email 通过邮件发送报表
// @Summary 邮件发送报表
// @Tags 报表
// @Accept json
// @Produce json
// @Param year path int true "年"
// @Param month path int false "月 (1-12)"
// @Param request body EmailReportRequest true "收件人"
// @Success 200 {object} Response "发送成功"
// @Failure 503 {object} Response "邮件服务未启用"
// @Router /api/reports/{year}/email [post]
// @Router /api/reports/{year}/{month}/email [post]
func (h *ReportHandler) Email(c *gin.Context) {
	if h.email == nil || !h.email.Enabled() {
		Error(c, http.StatusServiceUnavailable, "Email is not configured")
		return
	}
	p, ok := h.period(c)
	if !ok {
		return
	}
	var req EmailReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	format, err := export.ParseFormat(req.Format)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	rep, err := h.reports.Summarize(c.Request.Context(), p)
	if err != nil {
		respondError(c, err, "生成报表失败")
		return
	}
	data, err := export.Render(export.FromPeriodReport(rep), format)
	if err != nil {
		respondError(c, err, "导出报表失败")
		return
	}
	attachment := service.ReportAttachment{Filename: export.Filename(p.String(), format), Data: data}
	if err := h.email.SendReport(req.To, rep, attachment); err != nil {
		respondError(c, err, "发送邮件失败")
		return
	}
	SuccessWithMessage(c, "sent", gin.H{"to": req.To, "filename": attachment.Filename})
}

func (h *ReportHandler) render(c *gin.Context, p service.Period, format export.Format) ([]byte, string, error) {
	rep, err := h.reports.Summarize(c.Request.Context(), p)
	if err != nil {
		return nil, "", err
	}
	data, err := export.Render(export.FromPeriodReport(rep), format)
	if err != nil {
		return nil, "", err
	}
	return data, export.Filename(p.String(), format), nil
}
