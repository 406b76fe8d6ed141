package dto

import (
	"github.com/sampleloop/inventory-service/internal/model"
	"github.com/sampleloop/inventory-service/pkg/errs"
)

// ItemError reports one rejected line of a partially successful batch.
type ItemError struct {
	CaseSKU string              `json:"caseSku"`
	Error   *errs.StandardError `json:"error"`
}

type MarkIncomingResult struct {
	Order      *model.WholesaleOrder      `json:"order"`
	Items      []model.WholesaleOrderItem `json:"items"`
	ItemErrors []ItemError                `json:"itemErrors,omitempty"`
}

type VerificationView struct {
	Order *model.WholesaleOrder      `json:"order"`
	Items []model.WholesaleOrderItem `json:"items"`
}
