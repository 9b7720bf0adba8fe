package api

import (
	"spending/service"

	"github.com/gin-gonic/gin"
)

// CardPaymentHandler 信用卡还款处理器
type CardPaymentHandler struct {
	ledger *service.Ledger
}

// NewCardPaymentHandler 创建还款处理器
func NewCardPaymentHandler(ledger *service.Ledger) *CardPaymentHandler {
	return &CardPaymentHandler{ledger: ledger}
}

// List 获取还款列表
// @Summary 获取信用卡还款列表
// @Tags 信用卡还款
// @Produce json
// @Param year query int false "年"
// @Param month query int false "月 (1-12)"
// @Param credit_card_name query string false "卡名"
// @Success 200 {object} Response{data=[]models.CreditCardPayment} "获取成功"
// @Router /api/credit-card-payments [get]
func (h *CardPaymentHandler) List(c *gin.Context) {
	var f service.CardPaymentFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		bindError(c, err)
		return
	}
	rows, err := h.ledger.ListCardPayments(c.Request.Context(), f)
	if err != nil {
		respondError(c, err, "获取还款记录失败")
		return
	}
	Success(c, rows)
}

// Get 获取单条还款
// @Summary 获取还款详情
// @Tags 信用卡还款
// @Produce json
// @Param id path int true "还款 ID"
// @Success 200 {object} Response{data=models.CreditCardPayment} "获取成功"
// @Failure 404 {object} Response "不存在"
// @Router /api/credit-card-payments/{id} [get]
func (h *CardPaymentHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	row, err := h.ledger.GetCardPayment(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "获取还款记录失败")
		return
	}
	Success(c, row)
}

// Create 创建还款
// @Summary 创建信用卡还款
// @Tags 信用卡还款
// @Accept json
// @Produce json
// @Param request body service.CardPaymentInput true "还款"
// @Success 200 {object} Response{data=models.CreditCardPayment} "创建成功"
// @Failure 400 {object} Response "参数错误"
// @Router /api/credit-card-payments [post]
func (h *CardPaymentHandler) Create(c *gin.Context) {
	var req service.CardPaymentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	row, err := h.ledger.CreateCardPayment(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "创建还款记录失败")
		return
	}
	SuccessWithMessage(c, "created", row)
}

// Update 更新还款
// @Summary 更新信用卡还款
// @Tags 信用卡还款
// @Accept json
// @Produce json
// @Param id path int true "还款 ID"
// @Param request body service.CardPaymentInput true "还款"
// @Success 200 {object} Response{data=models.CreditCardPayment} "更新成功"
// @Failure 404 {object} Response "不存在"
// @Router /api/credit-card-payments/{id} [put]
func (h *CardPaymentHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req service.CardPaymentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	row, err := h.ledger.UpdateCardPayment(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err, "更新还款记录失败")
		return
	}
	SuccessWithMessage(c, "updated", row)
}

// Delete 删除还款
// @Summary 删除信用卡还款
// @Tags 信用卡还款
// @Produce json
// @Param id path int true "还款 ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "不存在"
// @Router /api/credit-card-payments/{id} [delete]
func (h *CardPaymentHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.ledger.DeleteCardPayment(c.Request.Context(), id); err != nil {
		respondError(c, err, "删除还款记录失败")
		return
	}
	SuccessWithMessage(c, "deleted", nil)
}
