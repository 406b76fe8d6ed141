package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes surfaced to API callers.
const (
	CodeInvalidRequest          = "InvalidRequest"
	CodeInsufficientInventory   = "InsufficientInventory"
	CodeInvalidAdjustment       = "InvalidAdjustment"
	CodeHoldNotFound            = "HoldNotFound"
	CodeHoldNotActive           = "HoldNotActive"
	CodeInventoryRecordNotFound = "InventoryRecordNotFound"
	CodeUnresolvedCaseSku       = "UnresolvedCaseSku"
	CodeInactiveCatalogEntry    = "InactiveCatalogEntry"
	CodeInvalidCasePackSize     = "InvalidCasePackSize"
	CodeAlreadyVerified         = "AlreadyVerified"
	CodeOrderNotFound           = "OrderNotFound"
	CodeInvariantViolation      = "InvariantViolation"
	CodeSearchUnavailable       = "SearchUnavailable"
	CodeDatabaseError           = "DatabaseError"
	CodeInternalError           = "InternalError"
)

// StandardError is the structured error every usecase returns to the API
// boundary.
type StandardError struct {
	Code    string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *StandardError) Error() string {
	return e.Message
}

// HTTPStatus maps an error code to the response status for handlers.
func (e *StandardError) HTTPStatus() int {
	switch e.Code {
	case CodeInvalidRequest, CodeInsufficientInventory, CodeInvalidAdjustment,
		CodeHoldNotActive, CodeUnresolvedCaseSku, CodeInactiveCatalogEntry,
		CodeInvalidCasePackSize, CodeInventoryRecordNotFound:
		return http.StatusBadRequest
	case CodeHoldNotFound, CodeOrderNotFound, CodeAlreadyVerified:
		return http.StatusNotFound
	case CodeSearchUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func New(code, message, details string) *StandardError {
	return &StandardError{Code: code, Message: message, Details: details}
}

// As unwraps err into a *StandardError, falling back to an InternalError
// wrapper so handlers always have a code to map.
func As(err error) *StandardError {
	var se *StandardError
	if errors.As(err, &se) {
		return se
	}
	return New(CodeInternalError, "internal error", err.Error())
}

func NewInvalidRequest(message, details string) *StandardError {
	return New(CodeInvalidRequest, message, details)
}

func NewInsufficientInventory(available, requested int) *StandardError {
	return New(CodeInsufficientInventory, "insufficient inventory",
		fmt.Sprintf("available: %d, requested: %d", available, requested))
}

func NewInvalidAdjustment(magnitude int) *StandardError {
	return New(CodeInvalidAdjustment, "adjustment magnitude must be negative",
		fmt.Sprintf("magnitude: %d", magnitude))
}

func NewHoldNotFound(holdID string) *StandardError {
	return New(CodeHoldNotFound, "hold not found", fmt.Sprintf("hold: %s", holdID))
}

func NewHoldNotActive(holdID, status string) *StandardError {
	return New(CodeHoldNotActive, "hold is not active",
		fmt.Sprintf("hold: %s, status: %s", holdID, status))
}

func NewInventoryRecordNotFound(storeID, sku string) *StandardError {
	return New(CodeInventoryRecordNotFound, "no inventory record for sku",
		fmt.Sprintf("store: %s, sku: %s", storeID, sku))
}

func NewUnresolvedCaseSku(caseSku string) *StandardError {
	return New(CodeUnresolvedCaseSku, "case sku has no retail mapping",
		fmt.Sprintf("case sku: %s", caseSku))
}

func NewInactiveCatalogEntry(caseSku string) *StandardError {
	return New(CodeInactiveCatalogEntry, "catalog entry is inactive",
		fmt.Sprintf("case sku: %s", caseSku))
}

func NewInvalidCasePackSize(caseSku string, unitsPerCase int) *StandardError {
	return New(CodeInvalidCasePackSize, "units per case must be positive",
		fmt.Sprintf("case sku: %s, units per case: %d", caseSku, unitsPerCase))
}

func NewAlreadyVerified(orderID string) *StandardError {
	return New(CodeAlreadyVerified, "wholesale order already verified",
		fmt.Sprintf("order: %s", orderID))
}

func NewOrderNotFound(ref string) *StandardError {
	return New(CodeOrderNotFound, "wholesale order not found", ref)
}

func NewInvariantViolation(details string) *StandardError {
	return New(CodeInvariantViolation, "inventory invariant violated", details)
}

func NewSearchUnavailable() *StandardError {
	return New(CodeSearchUnavailable, "transaction search is not configured", "")
}

func NewDatabaseError(operation string, err error) *StandardError {
	return New(CodeDatabaseError, fmt.Sprintf("database operation failed: %s", operation), err.Error())
}
