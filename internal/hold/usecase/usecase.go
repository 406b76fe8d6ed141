package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/sampleloop/inventory-service/internal/hold"
	"github.com/sampleloop/inventory-service/internal/hold/dto"
	"github.com/sampleloop/inventory-service/internal/ledger"
	ledgerdto "github.com/sampleloop/inventory-service/internal/ledger/dto"
	"github.com/sampleloop/inventory-service/internal/model"
	"github.com/sampleloop/inventory-service/pkg/errs"
)

const sweepBatchSize = 100

type holdUseCase struct {
	repo     hold.Repository
	ledgerUC ledger.UseCase
	ttl      time.Duration
	logger   *zap.Logger
}

func NewHoldUseCase(repo hold.Repository, ledgerUC ledger.UseCase, ttl time.Duration, logger *zap.Logger) hold.UseCase {
	return &holdUseCase{
		repo:     repo,
		ledgerUC: ledgerUC,
		ttl:      ttl,
		logger:   logger,
	}
}

// CreateHold reserves quantity units for a customer. The reservation delta
// and the hold row commit in one transaction; the ledger guard reports
// available vs requested when stock is short.
func (uc *holdUseCase) CreateHold(ctx context.Context, input *dto.CreateHoldInput) (*model.ProductHold, error) {
	if input.Quantity <= 0 {
		return nil, errs.NewInvalidRequest("hold quantity must be positive", fmt.Sprintf("quantity: %d", input.Quantity))
	}
	if input.StoreID == "" || input.CustomerID == "" || input.ProductSKU == "" {
		return nil, errs.NewInvalidRequest("storeId, customerId and productSku are required", "")
	}

	now := time.Now().UTC()
	expiresAt := now.Add(uc.ttl)
	h := &model.ProductHold{
		ID:         uuid.New().String(),
		StoreID:    input.StoreID,
		CustomerID: input.CustomerID,
		ProductSKU: input.ProductSKU,
		Quantity:   input.Quantity,
		Status:     model.HoldStatusActive,
		ExpiresAt:  expiresAt,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	var txn *model.InventoryTransaction
	err := uc.ledgerUC.WithKeyLock(ctx, input.StoreID, input.ProductSKU, func(ctx context.Context) error {
		return uc.ledgerUC.WithTx(ctx, func(tx *sqlx.Tx) error {
			var err error
			_, txn, err = uc.ledgerUC.ApplyDeltaTx(ctx, tx, &ledgerdto.ApplyDeltaInput{
				StoreID:       input.StoreID,
				ProductSKU:    input.ProductSKU,
				Type:          model.TxnHoldCreated,
				ReservedDelta: input.Quantity,
				CustomerID:    &input.CustomerID,
				ExpiresAt:     &expiresAt,
				Notes:         fmt.Sprintf("hold %s for customer %s", h.ID, input.CustomerID),
			})
			if err != nil {
				return err
			}

			if err := uc.repo.CreateTx(ctx, tx, h); err != nil {
				return errs.NewDatabaseError("create hold", err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	uc.ledgerUC.IndexTransaction(txn)
	uc.logger.Info("hold created",
		zap.String("hold_id", h.ID),
		zap.String("store_id", h.StoreID),
		zap.String("sku", h.ProductSKU),
		zap.Int("quantity", h.Quantity))
	return h, nil
}

// ResolveHold moves an active hold to one of its terminal states and
// applies the matching ledger mutation atomically.
func (uc *holdUseCase) ResolveHold(ctx context.Context, holdID string, outcome model.HoldStatus) (*model.ProductHold, error) {
	if !outcome.Terminal() {
		return nil, errs.NewInvalidRequest("outcome must be picked_up, cancelled or expired", string(outcome))
	}

	h, err := uc.repo.GetByID(ctx, holdID)
	if err != nil {
		return nil, errs.NewDatabaseError("load hold", err)
	}
	if h == nil {
		return nil, errs.NewHoldNotFound(holdID)
	}
	if h.Status != model.HoldStatusActive {
		return nil, errs.NewHoldNotActive(holdID, string(h.Status))
	}

	var txn *model.InventoryTransaction
	err = uc.ledgerUC.WithKeyLock(ctx, h.StoreID, h.ProductSKU, func(ctx context.Context) error {
		return uc.ledgerUC.WithTx(ctx, func(tx *sqlx.Tx) error {
			// Re-check under the row lock so concurrent resolvers settle on
			// one winner.
			locked, err := uc.repo.GetForUpdate(ctx, tx, holdID)
			if err != nil {
				return errs.NewDatabaseError("lock hold", err)
			}
			if locked == nil {
				return errs.NewHoldNotFound(holdID)
			}
			if locked.Status != model.HoldStatusActive {
				return errs.NewHoldNotActive(holdID, string(locked.Status))
			}
			h = locked

			input := &ledgerdto.ApplyDeltaInput{
				StoreID:       h.StoreID,
				ProductSKU:    h.ProductSKU,
				ReservedDelta: -h.Quantity,
				CustomerID:    &h.CustomerID,
			}
			now := time.Now().UTC()
			switch outcome {
			case model.HoldStatusPickedUp:
				input.Type = model.TxnPromoSale
				input.OnHandDelta = -h.Quantity
				input.Notes = fmt.Sprintf("hold %s picked up", h.ID)
				h.PickedUpAt = &now
			case model.HoldStatusCancelled:
				input.Type = model.TxnHoldReleased
				input.Notes = fmt.Sprintf("hold %s cancelled", h.ID)
			case model.HoldStatusExpired:
				input.Type = model.TxnHoldExpired
				input.Notes = fmt.Sprintf("hold %s expired", h.ID)
			}

			_, txn, err = uc.ledgerUC.ApplyDeltaTx(ctx, tx, input)
			if err != nil {
				return err
			}

			h.Status = outcome
			h.UpdatedAt = now
			if err := uc.repo.UpdateStatusTx(ctx, tx, h); err != nil {
				return errs.NewDatabaseError("update hold status", err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	uc.ledgerUC.IndexTransaction(txn)
	uc.logger.Info("hold resolved",
		zap.String("hold_id", h.ID),
		zap.String("outcome", string(outcome)))
	return h, nil
}

func (uc *holdUseCase) ListHolds(ctx context.Context, filters *dto.HoldFilters) ([]model.ProductHold, int, error) {
	if filters.Status != "" && !filters.Status.Valid() {
		return nil, 0, errs.NewInvalidRequest("unknown hold status", string(filters.Status))
	}
	return uc.repo.List(ctx, filters)
}

// ExpireOverdue sweeps active holds past expiry. Each hold goes through the
// normal resolve path; one failure does not stop the sweep.
func (uc *holdUseCase) ExpireOverdue(ctx context.Context) (int, error) {
	overdue, err := uc.repo.ListOverdue(ctx, time.Now().UTC(), sweepBatchSize)
	if err != nil {
		return 0, errs.NewDatabaseError("list overdue holds", err)
	}

	swept := 0
	for _, h := range overdue {
		if _, err := uc.ResolveHold(ctx, h.ID, model.HoldStatusExpired); err != nil {
			uc.logger.Error("failed to expire hold",
				zap.String("hold_id", h.ID),
				zap.Error(err))
			continue
		}
		swept++
	}
	return swept, nil
}
