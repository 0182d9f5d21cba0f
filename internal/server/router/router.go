package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/smahadik/goldtea/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(salesHandler *handlers.SalesHandler, reportHandler *handlers.ReportHandler, catalogHandler *handlers.CatalogHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/sales", salesHandler.Create)
		api.GET("/sales", salesHandler.List)
		api.GET("/sales/:id", salesHandler.Get)
		api.PUT("/sales/:id", salesHandler.Update)
		api.DELETE("/sales/:id", salesHandler.Delete)

		api.GET("/reports/dashboard", reportHandler.Dashboard)
		api.GET("/reports/daily", reportHandler.Daily)
		api.GET("/reports/weekly", reportHandler.Weekly)
		api.GET("/reports/monthly", reportHandler.Monthly)
		api.GET("/reports/customers", reportHandler.Customers)
		api.GET("/reports/villages", reportHandler.Villages)
		api.GET("/reports/products", reportHandler.Products)
		api.GET("/reports/pending", reportHandler.Pending)
		api.GET("/reports/export", reportHandler.Export)

		api.GET("/customers", catalogHandler.ListCustomers)
		api.POST("/customers", catalogHandler.AddCustomer)
		api.DELETE("/customers", catalogHandler.DeleteCustomer)

		api.GET("/pricing", catalogHandler.ListPricing)
		api.PUT("/pricing/:package", catalogHandler.SetRate)
	}

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
