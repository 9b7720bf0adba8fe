package api

import (
	"spending/service"

	"github.com/gin-gonic/gin"
)

// CatalogHandler 目录数据处理器
type CatalogHandler struct {
	catalog *service.Catalog
}

// NewCatalogHandler 创建目录处理器
func NewCatalogHandler(catalog *service.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// CreateNameRequest 按名称创建目录项
type CreateNameRequest struct {
	Name string `json:"name" binding:"required" example:"Groceries"`
}

// ListExpenseTypes 获取消费类型
// @Summary 获取消费类型列表
// @Tags 目录
// @Produce json
// @Success 200 {object} Response{data=[]models.ExpenseType} "获取成功"
// @Router /api/expense-types [get]
func (h *CatalogHandler) ListExpenseTypes(c *gin.Context) {
	rows, err := h.catalog.ListExpenseTypes(c.Request.Context())
	if err != nil {
		respondError(c, err, "获取消费类型失败")
		return
	}
	Success(c, rows)
}

// CreateExpenseType 创建消费类型
// @Summary 创建消费类型
// @Tags 目录
// @Accept json
// @Produce json
// @Param request body CreateNameRequest true "名称"
// @Success 200 {object} Response{data=models.ExpenseType} "创建成功"
// @Failure 409 {object} Response "名称已存在"
// @Router /api/expense-types [post]
func (h *CatalogHandler) CreateExpenseType(c *gin.Context) {
	var req CreateNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	row, err := h.catalog.CreateExpenseType(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err, "创建消费类型失败")
		return
	}
	SuccessWithMessage(c, "created", row)
}

// ListExpenseNames 获取消费项
// @Summary 获取消费项列表
// @Tags 目录
// @Produce json
// @Success 200 {object} Response{data=[]models.ExpenseName} "获取成功"
// @Router /api/expense-names [get]
func (h *CatalogHandler) ListExpenseNames(c *gin.Context) {
	rows, err := h.catalog.ListExpenseNames(c.Request.Context())
	if err != nil {
		respondError(c, err, "获取消费项失败")
		return
	}
	Success(c, rows)
}

// CreateExpenseName 创建消费项
// @Summary 创建消费项
// @Tags 目录
// @Accept json
// @Produce json
// @Param request body CreateNameRequest true "名称"
// @Success 200 {object} Response{data=models.ExpenseName} "创建成功"
// @Failure 409 {object} Response "名称已存在"
// @Router /api/expense-names [post]
func (h *CatalogHandler) CreateExpenseName(c *gin.Context) {
	var req CreateNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	row, err := h.catalog.CreateExpenseName(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err, "创建消费项失败")
		return
	}
	SuccessWithMessage(c, "created", row)
}

// ListPaymentMethods 获取支付方式
// @Summary 获取支付方式列表
// @Tags 目录
// @Produce json
// @Success 200 {object} Response{data=[]models.PaymentMethod} "获取成功"
// @Router /api/payment-methods [get]
func (h *CatalogHandler) ListPaymentMethods(c *gin.Context) {
	rows, err := h.catalog.ListPaymentMethods(c.Request.Context())
	if err != nil {
		respondError(c, err, "获取支付方式失败")
		return
	}
	Success(c, rows)
}

// CreatePaymentMethod 创建支付方式
// @Summary 创建支付方式
// @Description 支付方式只能在这里显式创建，提交消费时不会自动生成
// @Tags 目录
// @Accept json
// @Produce json
// @Param request body service.PaymentMethodInput true "支付方式"
// @Success 200 {object} Response{data=models.PaymentMethod} "创建成功"
// @Failure 400 {object} Response "参数错误"
// @Failure 409 {object} Response "名称已存在"
// @Router /api/payment-methods [post]
func (h *CatalogHandler) CreatePaymentMethod(c *gin.Context) {
	var req service.PaymentMethodInput
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	row, err := h.catalog.CreatePaymentMethod(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "创建支付方式失败")
		return
	}
	SuccessWithMessage(c, "created", row)
}

// UpdatePaymentMethod 更新支付方式
// @Summary 更新支付方式
// @Description 改名不会级联到信用卡还款，orphaned_payments 为仍使用旧名称的还款数
// @Tags 目录
// @Accept json
// @Produce json
// @Param id path int true "支付方式 ID"
// @Param request body service.PaymentMethodInput true "支付方式"
// @Success 200 {object} Response{data=service.PaymentMethodUpdate} "更新成功"
// @Failure 404 {object} Response "不存在"
// @Failure 409 {object} Response "名称已存在"
// @Router /api/payment-methods/{id} [put]
func (h *CatalogHandler) UpdatePaymentMethod(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req service.PaymentMethodInput
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	res, err := h.catalog.UpdatePaymentMethod(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err, "更新支付方式失败")
		return
	}
	SuccessWithMessage(c, "updated", res)
}

// DeletePaymentMethod 删除支付方式
// @Summary 删除支付方式
// @Tags 目录
// @Produce json
// @Param id path int true "支付方式 ID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "不存在"
// @Failure 409 {object} Response "仍被消费记录引用"
// @Router /api/payment-methods/{id} [delete]
func (h *CatalogHandler) DeletePaymentMethod(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.catalog.DeletePaymentMethod(c.Request.Context(), id); err != nil {
		respondError(c, err, "删除支付方式失败")
		return
	}
	SuccessWithMessage(c, "deleted", nil)
}

// ListCreditCards 获取信用卡名称
// @Summary 获取信用卡名称列表
// @Description 信用卡类支付方式与还款记录中出现过的卡名
// @Tags 目录
// @Produce json
// @Success 200 {object} Response{data=[]string} "获取成功"
// @Router /api/credit-cards [get]
func (h *CatalogHandler) ListCreditCards(c *gin.Context) {
	names, err := h.catalog.ListCreditCardNames(c.Request.Context())
	if err != nil {
		respondError(c, err, "获取信用卡失败")
		return
	}
	Success(c, names)
}
