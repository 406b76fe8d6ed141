package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	adjH "github.com/sampleloop/inventory-service/internal/adjustment/handler"
	"github.com/sampleloop/inventory-service/internal/auth"
	holdH "github.com/sampleloop/inventory-service/internal/hold/handler"
	ledgerH "github.com/sampleloop/inventory-service/internal/ledger/handler"
	wholesaleH "github.com/sampleloop/inventory-service/internal/wholesale/handler"
)

// New wires the gin engine with all routes and middlewares.
func New(
	ledgerHandler *ledgerH.LedgerHandler,
	holdHandler *holdH.HoldHandler,
	adjustmentHandler *adjH.AdjustmentHandler,
	wholesaleHandler *wholesaleH.WholesaleHandler,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		inventory := v1.Group("/inventory", auth.RequireStore())
		{
			inventory.GET("/stock", ledgerHandler.GetStock)
			inventory.GET("/transactions", ledgerHandler.ListTransactions)
			inventory.GET("/transactions/search", ledgerHandler.SearchTransactions)

			inventory.POST("/holds", holdHandler.CreateHold)
			inventory.PATCH("/holds/:holdId", holdHandler.ResolveHold)
			inventory.GET("/holds", holdHandler.ListHolds)

			inventory.POST("/adjust", adjustmentHandler.AdjustStock)
		}

		// Receipt verification is reached through a tokened link; the token
		// itself is the credential.
		wholesale := v1.Group("/wholesale")
		{
			wholesale.GET("/verify/:token", wholesaleHandler.GetVerification)
			wholesale.POST("/verify/:token", wholesaleHandler.VerifyReceipt)
		}
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
