package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sampleloop/inventory-service/internal/auth"
	"github.com/sampleloop/inventory-service/internal/ledger"
	"github.com/sampleloop/inventory-service/internal/ledger/dto"
	"github.com/sampleloop/inventory-service/internal/model"
	"github.com/sampleloop/inventory-service/pkg/errs"
)

type LedgerHandler struct {
	uc     ledger.UseCase
	logger *zap.Logger
}

func NewLedgerHandler(uc ledger.UseCase, logger *zap.Logger) *LedgerHandler {
	return &LedgerHandler{uc: uc, logger: logger}
}

// GetStock handles GET /inventory/stock?sku=
func (h *LedgerHandler) GetStock(c *gin.Context) {
	storeID := auth.GetStoreID(c)
	sku := c.Query("sku")

	if sku != "" {
		rec, err := h.uc.GetRecord(c.Request.Context(), storeID, sku)
		if err != nil {
			writeError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"record": rec})
		return
	}

	records, total, err := h.uc.ListRecords(c.Request.Context(), &dto.RecordFilters{
		StoreID:  storeID,
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "pageSize", 50),
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records, "total": total})
}

// ListTransactions handles GET /inventory/transactions
func (h *LedgerHandler) ListTransactions(c *gin.Context) {
	filters := &dto.TransactionFilters{
		StoreID:    auth.GetStoreID(c),
		ProductSKU: c.Query("sku"),
		Type:       model.TransactionType(c.Query("type")),
		Page:       queryInt(c, "page", 1),
		PageSize:   queryInt(c, "pageSize", 50),
	}
	if filters.Type != "" && !filters.Type.Valid() {
		writeError(c, h.logger, errs.NewInvalidRequest("unknown transaction type", string(filters.Type)))
		return
	}

	txns, total, err := h.uc.ListTransactions(c.Request.Context(), filters)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txns, "total": total})
}

// SearchTransactions handles GET /inventory/transactions/search?q=
func (h *LedgerHandler) SearchTransactions(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		writeError(c, h.logger, errs.NewInvalidRequest("missing query", "q"))
		return
	}

	txns, err := h.uc.SearchTransactions(c.Request.Context(), auth.GetStoreID(c), q, queryInt(c, "size", 20))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txns})
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
