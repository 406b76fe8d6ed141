package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sampleloop/inventory-service/internal/wholesale"
	"github.com/sampleloop/inventory-service/internal/wholesale/dto"
	"github.com/sampleloop/inventory-service/pkg/errs"
)

type WholesaleHandler struct {
	uc     wholesale.UseCase
	logger *zap.Logger
}

func NewWholesaleHandler(uc wholesale.UseCase, logger *zap.Logger) *WholesaleHandler {
	return &WholesaleHandler{uc: uc, logger: logger}
}

// GetVerification handles GET /wholesale/verify/:token
func (h *WholesaleHandler) GetVerification(c *gin.Context) {
	view, err := h.uc.GetVerification(c.Request.Context(), c.Param("token"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// VerifyReceipt handles POST /wholesale/verify/:token
func (h *WholesaleHandler) VerifyReceipt(c *gin.Context) {
	// receivedQuantities may be empty or absent; unlisted items default to
	// their expected units.
	var req struct {
		ReceivedQuantities map[string]int `json:"receivedQuantities"`
		Notes              string         `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.uc.VerifyReceipt(c.Request.Context(), c.Param("token"), &dto.VerifyReceiptInput{
		ReceivedQuantities: req.ReceivedQuantities,
		Notes:              req.Notes,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "order": view.Order, "items": view.Items})
}

func writeError(c *gin.Context, logger *zap.Logger, err error) {
	se := errs.As(err)
	if se.HTTPStatus() >= http.StatusInternalServerError {
		logger.Error("request failed", zap.String("code", se.Code), zap.Error(err))
	}
	c.JSON(se.HTTPStatus(), se)
}
