package router

import (
	"spending/api"
	"spending/config"
	_ "spending/docs"
	"spending/middleware"
	"spending/service"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter 设置路由，shutdown 由 /api/exit 触发
func SetupRouter(cfg *config.Config, svc *service.Services, shutdown func()) *gin.Engine {
	// 设置运行模式
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())

	// CORS 中间件
	r.Use(CORSMiddleware())

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	catalogHandler := api.NewCatalogHandler(svc.Catalog)
	expenseHandler := api.NewExpenseHandler(svc.Ledger)
	paymentHandler := api.NewCardPaymentHandler(svc.Ledger)
	reportHandler := api.NewReportHandler(svc.Reports, svc.Email)
	bulkHandler := api.NewBulkHandler(svc)
	adminHandler := api.NewAdminHandler(shutdown)

	bulkLimit := middleware.BulkRateLimit(cfg.RateLimit.BulkMax, cfg.RateLimit.BulkWindow)
	adminGuard := middleware.AdminGuard()

	a := r.Group("/api")
	{
		// 目录
		a.GET("/expense-types", catalogHandler.ListExpenseTypes)
		a.POST("/expense-types", catalogHandler.CreateExpenseType)
		a.GET("/expense-names", catalogHandler.ListExpenseNames)
		a.POST("/expense-names", catalogHandler.CreateExpenseName)
		a.GET("/payment-methods", catalogHandler.ListPaymentMethods)
		a.POST("/payment-methods", catalogHandler.CreatePaymentMethod)
		a.PUT("/payment-methods/:id", catalogHandler.UpdatePaymentMethod)
		a.DELETE("/payment-methods/:id", catalogHandler.DeletePaymentMethod)
		a.GET("/credit-cards", catalogHandler.ListCreditCards)

		expenses := a.Group("/expenses")
		{
			expenses.GET("", expenseHandler.List)
			expenses.POST("", expenseHandler.Create)
			expenses.GET("/:id", expenseHandler.Get)
			expenses.PUT("/:id", expenseHandler.Update)
			expenses.DELETE("/:id", expenseHandler.Delete)
		}

		payments := a.Group("/credit-card-payments")
		{
			payments.GET("", paymentHandler.List)
			payments.POST("", paymentHandler.Create)
			payments.GET("/:id", paymentHandler.Get)
			payments.PUT("/:id", paymentHandler.Update)
			payments.DELETE("/:id", paymentHandler.Delete)
		}

		reports := a.Group("/reports")
		{
			reports.GET("/:year", reportHandler.Get)
			reports.GET("/:year/:month", reportHandler.Get)
			reports.GET("/:year/export", reportHandler.Export)
			reports.GET("/:year/:month/export", reportHandler.Export)
			reports.POST("/:year/email", bulkLimit, reportHandler.Email)
			reports.POST("/:year/:month/email", bulkLimit, reportHandler.Email)
		}

		a.POST("/bulk/duplicate", bulkLimit, bulkHandler.Duplicate)

		db := a.Group("/database")
		{
			db.GET("/backup", bulkHandler.Backup)
			db.POST("/import", bulkLimit, adminGuard, bulkHandler.Import)
			db.DELETE("/clear", bulkLimit, adminGuard, bulkHandler.Clear)
		}

		a.POST("/exit", adminGuard, adminHandler.Exit)
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	return r
}

// CORSMiddleware CORS 跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
