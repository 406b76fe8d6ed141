package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sampleloop/inventory-service/internal/auth"
	"github.com/sampleloop/inventory-service/internal/hold"
	"github.com/sampleloop/inventory-service/internal/hold/dto"
	"github.com/sampleloop/inventory-service/internal/model"
	"github.com/sampleloop/inventory-service/pkg/errs"
)

type HoldHandler struct {
	uc     hold.UseCase
	logger *zap.Logger
}

func NewHoldHandler(uc hold.UseCase, logger *zap.Logger) *HoldHandler {
	return &HoldHandler{uc: uc, logger: logger}
}

// CreateHold handles POST /inventory/holds
func (h *HoldHandler) CreateHold(c *gin.Context) {
	var req struct {
		CustomerID string `json:"customerId" binding:"required"`
		ProductSKU string `json:"productSku" binding:"required"`
		Quantity   int    `json:"quantity" binding:"required,gt=0"`
		StoreID    string `json:"storeId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid hold request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	storeID := req.StoreID
	if storeID == "" {
		storeID = auth.GetStoreID(c)
	}

	created, err := h.uc.CreateHold(c.Request.Context(), &dto.CreateHoldInput{
		StoreID:    storeID,
		CustomerID: req.CustomerID,
		ProductSKU: req.ProductSKU,
		Quantity:   req.Quantity,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"hold": created, "expiresAt": created.ExpiresAt})
}

// ResolveHold handles PATCH /inventory/holds/:holdId
func (h *HoldHandler) ResolveHold(c *gin.Context) {
	var req struct {
		Action string `json:"action" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome := model.HoldStatus(req.Action)
	resolved, err := h.uc.ResolveHold(c.Request.Context(), c.Param("holdId"), outcome)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"hold": resolved, "action": req.Action})
}

// ListHolds handles GET /inventory/holds?storeId=&status=
func (h *HoldHandler) ListHolds(c *gin.Context) {
	storeID := c.Query("storeId")
	if storeID == "" {
		storeID = auth.GetStoreID(c)
	}

	filters := &dto.HoldFilters{
		StoreID:  storeID,
		Status:   model.HoldStatus(c.Query("status")),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "pageSize", 50),
	}

	holds, total, err := h.uc.ListHolds(c.Request.Context(), filters)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"holds": holds, "total": total})
}

func queryInt(c *gin.Context, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			return i
		}
	}
	return fallback
}

func writeError(c *gin.Context, logger *zap.Logger, err error) {
	se := errs.As(err)
	if se.HTTPStatus() >= http.StatusInternalServerError {
		logger.Error("request failed", zap.String("code", se.Code), zap.Error(err))
	}
	c.JSON(se.HTTPStatus(), se)
}
