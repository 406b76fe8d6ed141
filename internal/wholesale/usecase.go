package wholesale

import (
	"context"

	"github.com/sampleloop/inventory-service/internal/wholesale/dto"
)

type UseCase interface {
	// MarkIncoming records a fulfilled upstream case order: case quantities
	// are converted to retail units and added to each SKU's incoming
	// counter. Invalid items are reported per item; valid items proceed.
	MarkIncoming(ctx context.Context, input *dto.FulfilledOrderInput) (*dto.MarkIncomingResult, error)

	// GetVerification loads a pending order and its items for the receipt
	// confirmation screen.
	GetVerification(ctx context.Context, token string) (*dto.VerificationView, error)

	// VerifyReceipt reconciles the physically counted units into on-hand
	// stock and clears the incoming expectation. Verifying twice fails.
	VerifyReceipt(ctx context.Context, token string, input *dto.VerifyReceiptInput) (*dto.VerificationView, error)
}
