package api

import (
	"spending/service"

	"github.com/gin-gonic/gin"
)

// ExpenseHandler 消费记录处理器
type ExpenseHandler struct {
	ledger *service.Ledger
}

// NewExpenseHandler 创建消费记录处理器
func NewExpenseHandler(ledger *service.Ledger) *ExpenseHandler {
	return &ExpenseHandler{ledger: ledger}
}

// List 获取消费记录列表
// @Summary 获取消费记录列表
// @Description 支持按年、月、消费类型、消费项、支付方式筛选（名称或 id）
// @Tags 消费记录
// @Produce json
// @Param year query int false "年"
// @Param month query int false "月 (1-12)，需同时指定年"
// @Param expense_type query string false "消费类型名称"
// @Param expense_name query string false "消费项名称"
// @Param payment_method query string false "支付方式名称"
// @Param expense_type_id query int false "消费类型 ID"
// @Param expense_name_id query int false "消费项 ID"
// @Param payment_method_id query int false "支付方式 ID"
// @Success 200 {object} Response{data=[]models.Expense} "获取成功"
// @Failure 400 {object} Response "参数错误"
// @Router /api/expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	var f service.ExpenseFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		bindError(c, err)
		return
	}
	rows, err := h.ledger.ListExpenses(c.Request.Context(), f)
	if err != nil {
		respondError(c, err, "获取消费记录失败")
		return
	}
	Success(c, rows)
}

// Get 获取单条消费记录
// @Summary 获取消费记录详情
// @Tags 消费记录
// @Produce json
// @Param id path int true "消费记录 ID"
// @Success 200 {object} Response{data=models.Expense} "获取成功"
// @Failure 404 {object} Response "不存在"
// @Router /api/expenses/{id} [get]
func (h *ExpenseHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	row, err := h.ledger.GetExpense(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "获取消费记录失败")
		return
	}
	Success(c, row)
}

// Create 创建消费记录
// @Summary 创建消费记录
// @Description 消费类型与消费项不存在时自动创建；支付方式必须已存在
// @Tags 消费记录
// @Accept json
// @Produce json
// @Param request body service.ExpenseInput true "消费记录"
// @Success 200 {object} Response{data=models.Expense} "创建成功"
// @Failure 400 {object} Response "参数错误"
// @Failure 404 {object} Response "支付方式不存在"
// @Router /api/expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req service.ExpenseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	row, err := h.ledger.CreateExpense(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "创建消费记录失败")
		return
	}
	SuccessWithMessage(c, "created", row)
}

// Update 更新消费记录
// @Summary 更新消费记录
// @Tags 消费记录
// @Accept json
// @Produce json
// @Param id path int true "消费记录 ID"
// @Param request body service.ExpenseInput true "消费记录"
// @Success 200 {object} Response{data=models.Expense} "更新成功"
// @Failure 400 {object} Response "参数错误"
// @Failure 404 {object} Response "不存在"
// @Router /api/expenses/{id} [put]
func (h *ExpenseHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req service.ExpenseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	row, err := h.ledger.UpdateExpense(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err, "更新消费记录失败")
		return
	}
	SuccessWithMessage(c, "updated", row)
}

// Delete 删除消费记录
// @Summary 删除消费记录
// @Tags 消费记录
// @Produce json
// @Param id path int true "消费记录 ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "不存在"
// @Router /api/expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.ledger.DeleteExpense(c.Request.Context(), id); err != nil {
		respondError(c, err, "删除消费记录失败")
		return
	}
	SuccessWithMessage(c, "deleted", nil)
}
