package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sampleloop/inventory-service/internal/adjustment"
	"github.com/sampleloop/inventory-service/internal/adjustment/dto"
	"github.com/sampleloop/inventory-service/internal/ledger"
	ledgerdto "github.com/sampleloop/inventory-service/internal/ledger/dto"
	"github.com/sampleloop/inventory-service/internal/model"
	"github.com/sampleloop/inventory-service/pkg/errs"
)

type adjustmentUseCase struct {
	ledgerUC ledger.UseCase
	logger   *zap.Logger
}

func NewAdjustmentUseCase(ledgerUC ledger.UseCase, logger *zap.Logger) adjustment.UseCase {
	return &adjustmentUseCase{
		ledgerUC: ledgerUC,
		logger:   logger,
	}
}

func (uc *adjustmentUseCase) AdjustDown(ctx context.Context, input *dto.AdjustDownInput) (*model.InventoryRecord, *model.InventoryTransaction, error) {
	if input.Magnitude >= 0 {
		return nil, nil, errs.NewInvalidAdjustment(input.Magnitude)
	}
	if input.StoreID == "" || input.ProductSKU == "" {
		return nil, nil, errs.NewInvalidRequest("storeId and productSku are required", "")
	}

	rec, err := uc.ledgerUC.GetRecord(ctx, input.StoreID, input.ProductSKU)
	if err != nil {
		return nil, nil, err
	}
	// A zero-valued aggregate has no row id: nothing was ever stocked here.
	if rec.ID == "" {
		return nil, nil, errs.NewInventoryRecordNotFound(input.StoreID, input.ProductSKU)
	}
	if rec.QuantityOnHand+input.Magnitude < 0 {
		return nil, nil, errs.NewInsufficientInventory(rec.QuantityOnHand, -input.Magnitude)
	}

	notes := input.Notes
	if notes == "" {
		actor := input.Actor
		if actor == "" {
			actor = "store staff"
		}
		notes = fmt.Sprintf("manual stock adjustment by %s", actor)
	}

	rec, txn, err := uc.ledgerUC.ApplyDelta(ctx, &ledgerdto.ApplyDeltaInput{
		StoreID:     input.StoreID,
		ProductSKU:  input.ProductSKU,
		Type:        model.TxnManualDecrease,
		OnHandDelta: input.Magnitude,
		Notes:       notes,
	})
	if err != nil {
		return nil, nil, err
	}

	uc.logger.Info("stock adjusted down",
		zap.String("store_id", input.StoreID),
		zap.String("sku", input.ProductSKU),
		zap.Int("magnitude", input.Magnitude),
		zap.Int("on_hand", rec.QuantityOnHand))
	return rec, txn, nil
}
