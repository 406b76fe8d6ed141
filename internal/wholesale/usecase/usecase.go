package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/sampleloop/inventory-service/internal/catalog"
	"github.com/sampleloop/inventory-service/internal/ledger"
	ledgerdto "github.com/sampleloop/inventory-service/internal/ledger/dto"
	"github.com/sampleloop/inventory-service/internal/model"
	"github.com/sampleloop/inventory-service/internal/wholesale"
	"github.com/sampleloop/inventory-service/internal/wholesale/dto"
	"github.com/sampleloop/inventory-service/pkg/errs"
)

type wholesaleUseCase struct {
	repo        wholesale.Repository
	catalogRepo catalog.Repository
	ledgerUC    ledger.UseCase
	logger      *zap.Logger
}

func NewWholesaleUseCase(repo wholesale.Repository, catalogRepo catalog.Repository, ledgerUC ledger.UseCase, logger *zap.Logger) wholesale.UseCase {
	return &wholesaleUseCase{
		repo:        repo,
		catalogRepo: catalogRepo,
		ledgerUC:    ledgerUC,
		logger:      logger,
	}
}

// resolveItem converts one case line to retail units via the catalog.
func (uc *wholesaleUseCase) resolveItem(ctx context.Context, orderID string, item dto.FulfilledItemInput) (*model.WholesaleOrderItem, *errs.StandardError) {
	if item.CaseQuantity <= 0 {
		return nil, errs.NewInvalidRequest("case quantity must be positive",
			fmt.Sprintf("case sku: %s, quantity: %d", item.CaseSKU, item.CaseQuantity))
	}

	entry, err := uc.catalogRepo.GetByCaseSKU(ctx, item.CaseSKU)
	if err != nil {
		return nil, errs.NewDatabaseError("load catalog entry", err)
	}
	if entry == nil || entry.RetailSKU == "" {
		return nil, errs.NewUnresolvedCaseSku(item.CaseSKU)
	}
	if !entry.Active {
		return nil, errs.NewInactiveCatalogEntry(item.CaseSKU)
	}
	if entry.UnitsPerCase <= 0 {
		return nil, errs.NewInvalidCasePackSize(item.CaseSKU, entry.UnitsPerCase)
	}

	return &model.WholesaleOrderItem{
		ID:            uuid.New().String(),
		OrderID:       orderID,
		CaseSKU:       item.CaseSKU,
		CaseQuantity:  item.CaseQuantity,
		RetailSKU:     entry.RetailSKU,
		ExpectedUnits: item.CaseQuantity * entry.UnitsPerCase,
	}, nil
}

func (uc *wholesaleUseCase) MarkIncoming(ctx context.Context, input *dto.FulfilledOrderInput) (*dto.MarkIncomingResult, error) {
	if input.OrderID == "" || input.StoreID == "" {
		return nil, errs.NewInvalidRequest("orderId and storeId are required", "")
	}
	if len(input.Items) == 0 {
		return nil, errs.NewInvalidRequest("fulfilled order has no items", input.OrderID)
	}

	existing, err := uc.repo.GetOrderByID(ctx, input.OrderID)
	if err != nil {
		return nil, errs.NewDatabaseError("load wholesale order", err)
	}
	if existing != nil {
		return nil, errs.NewInvalidRequest("wholesale order already recorded", input.OrderID)
	}

	// Validate every line first; invalid ones are reported, valid ones
	// proceed.
	result := &dto.MarkIncomingResult{}
	items := make([]model.WholesaleOrderItem, 0, len(input.Items))
	for _, in := range input.Items {
		item, itemErr := uc.resolveItem(ctx, input.OrderID, in)
		if itemErr != nil {
			result.ItemErrors = append(result.ItemErrors, dto.ItemError{CaseSKU: in.CaseSKU, Error: itemErr})
			continue
		}
		items = append(items, *item)
	}
	if len(items) == 0 {
		return result, nil
	}

	now := time.Now().UTC()
	order := &model.WholesaleOrder{
		ID:          input.OrderID,
		StoreID:     input.StoreID,
		Status:      model.OrderStatusFulfilled,
		VerifyToken: uuid.New().String(),
		FulfilledAt: &now,
		CreatedAt:   now,
	}

	// Phase 1: the order rows and every item's incoming raise commit as one
	// transaction. An item row must never exist without its expectation, or
	// receipt verification would drive incoming negative and fail forever.
	txns := make([]*model.InventoryTransaction, 0, len(items))
	err = uc.ledgerUC.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := uc.repo.CreateOrderTx(ctx, tx, order, items); err != nil {
			return errs.NewDatabaseError("create wholesale order", err)
		}
		for _, item := range items {
			_, txn, err := uc.ledgerUC.ApplyDeltaTx(ctx, tx, &ledgerdto.ApplyDeltaInput{
				StoreID:        input.StoreID,
				ProductSKU:     item.RetailSKU,
				Type:           model.TxnWholesaleIncoming,
				IncomingDelta:  item.ExpectedUnits,
				PendingOrderID: &order.ID,
				Notes: fmt.Sprintf("wholesale order %s fulfilled: %d cases of %s",
					order.ID, item.CaseQuantity, item.CaseSKU),
			})
			if err != nil {
				return err
			}
			txns = append(txns, txn)
		}
		return nil
	})
	if err != nil {
		// Nothing was recorded; the event can be redelivered and retried.
		uc.logger.Error("failed to mark wholesale order incoming",
			zap.String("order_id", order.ID),
			zap.Error(err))
		return nil, err
	}

	for _, txn := range txns {
		uc.ledgerUC.IndexTransaction(txn)
	}
	result.Items = items
	result.Order = order
	uc.logger.Info("wholesale order marked incoming",
		zap.String("order_id", order.ID),
		zap.String("store_id", order.StoreID),
		zap.Int("items", len(result.Items)),
		zap.Int("rejected", len(result.ItemErrors)))
	return result, nil
}

func (uc *wholesaleUseCase) GetVerification(ctx context.Context, token string) (*dto.VerificationView, error) {
	order, err := uc.repo.GetOrderByToken(ctx, token)
	if err != nil {
		return nil, errs.NewDatabaseError("load wholesale order", err)
	}
	if order == nil {
		return nil, errs.NewOrderNotFound(token)
	}
	if order.Status == model.OrderStatusReceived {
		return nil, errs.NewAlreadyVerified(order.ID)
	}

	items, err := uc.repo.ListItems(ctx, order.ID)
	if err != nil {
		return nil, errs.NewDatabaseError("load wholesale order items", err)
	}
	return &dto.VerificationView{Order: order, Items: items}, nil
}

// VerifyReceipt is phase 2: the counted units enter on-hand, the full
// incoming expectation is cleared regardless of shortfall or overage, and
// the order becomes received. The whole reconciliation commits as one
// transaction.
func (uc *wholesaleUseCase) VerifyReceipt(ctx context.Context, token string, input *dto.VerifyReceiptInput) (*dto.VerificationView, error) {
	order, err := uc.repo.GetOrderByToken(ctx, token)
	if err != nil {
		return nil, errs.NewDatabaseError("load wholesale order", err)
	}
	if order == nil {
		return nil, errs.NewOrderNotFound(token)
	}
	// Idempotency guard, checked again under the row lock below before any
	// ledger call.
	if order.Status == model.OrderStatusReceived {
		return nil, errs.NewAlreadyVerified(order.ID)
	}

	items, err := uc.repo.ListItems(ctx, order.ID)
	if err != nil {
		return nil, errs.NewDatabaseError("load wholesale order items", err)
	}

	var locked *model.WholesaleOrder
	txns := make([]*model.InventoryTransaction, 0, len(items))
	err = uc.ledgerUC.WithTx(ctx, func(tx *sqlx.Tx) error {
		locked, err = uc.repo.GetOrderForUpdate(ctx, tx, order.ID)
		if err != nil {
			return errs.NewDatabaseError("lock wholesale order", err)
		}
		if locked == nil {
			return errs.NewOrderNotFound(token)
		}
		if locked.Status == model.OrderStatusReceived {
			return errs.NewAlreadyVerified(locked.ID)
		}

		now := time.Now().UTC()
		for i := range items {
			item := &items[i]

			received, ok := input.ReceivedQuantities[item.ID]
			if !ok {
				received = item.ExpectedUnits
			}
			if received < 0 {
				return errs.NewInvalidRequest("received quantity cannot be negative",
					fmt.Sprintf("item: %s, received: %d", item.ID, received))
			}

			notes := fmt.Sprintf("wholesale order %s received: %d units of %s", order.ID, received, item.RetailSKU)
			if diff := received - item.ExpectedUnits; diff != 0 {
				notes += fmt.Sprintf(" (%+d discrepancy)", diff)
			}

			_, txn, err := uc.ledgerUC.ApplyDeltaTx(ctx, tx, &ledgerdto.ApplyDeltaInput{
				StoreID:           order.StoreID,
				ProductSKU:        item.RetailSKU,
				Type:              model.TxnWholesaleReceived,
				OnHandDelta:       received,
				IncomingDelta:     -item.ExpectedUnits,
				ClearPendingOrder: true,
				Notes:             notes,
			})
			if err != nil {
				return err
			}
			txns = append(txns, txn)

			if err := uc.repo.UpdateItemReceivedTx(ctx, tx, item.ID, received); err != nil {
				return errs.NewDatabaseError("update wholesale order item", err)
			}
			item.ReceivedUnits = &received
		}

		locked.Status = model.OrderStatusReceived
		locked.ReceivedAt = &now
		if input.Notes != "" {
			locked.Notes = input.Notes
		}
		if err := uc.repo.UpdateOrderTx(ctx, tx, locked); err != nil {
			return errs.NewDatabaseError("update wholesale order", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, txn := range txns {
		uc.ledgerUC.IndexTransaction(txn)
	}
	uc.logger.Info("wholesale order received",
		zap.String("order_id", locked.ID),
		zap.String("store_id", locked.StoreID),
		zap.Int("items", len(items)))
	return &dto.VerificationView{Order: locked, Items: items}, nil
}
