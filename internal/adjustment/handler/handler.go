package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sampleloop/inventory-service/internal/adjustment"
	"github.com/sampleloop/inventory-service/internal/adjustment/dto"
	"github.com/sampleloop/inventory-service/internal/auth"
	"github.com/sampleloop/inventory-service/pkg/errs"
)

type AdjustmentHandler struct {
	uc     adjustment.UseCase
	logger *zap.Logger
}

func NewAdjustmentHandler(uc adjustment.UseCase, logger *zap.Logger) *AdjustmentHandler {
	return &AdjustmentHandler{uc: uc, logger: logger}
}

// AdjustStock handles POST /inventory/adjust
func (h *AdjustmentHandler) AdjustStock(c *gin.Context) {
	var req struct {
		ProductSKU string `json:"productSku" binding:"required"`
		Quantity   int    `json:"quantity" binding:"required"`
		Notes      string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid adjustment request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, txn, err := h.uc.AdjustDown(c.Request.Context(), &dto.AdjustDownInput{
		StoreID:    auth.GetStoreID(c),
		ProductSKU: req.ProductSKU,
		Magnitude:  req.Quantity,
		Notes:      req.Notes,
		Actor:      auth.GetActor(c),
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"newQuantity": rec.QuantityOnHand, "transaction": txn})
}

func writeError(c *gin.Context, logger *zap.Logger, err error) {
	se := errs.As(err)
	if se.HTTPStatus() >= http.StatusInternalServerError {
		logger.Error("request failed", zap.String("code", se.Code), zap.Error(err))
	}
	c.JSON(se.HTTPStatus(), se)
}
