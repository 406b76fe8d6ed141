package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/sampleloop/inventory-service/internal/ledger"
	"github.com/sampleloop/inventory-service/internal/ledger/dto"
	searchidx "github.com/sampleloop/inventory-service/internal/ledger/search"
	"github.com/sampleloop/inventory-service/internal/model"
	"github.com/sampleloop/inventory-service/pkg/errs"
)

type ledgerUseCase struct {
	repo    ledger.Repository
	locker  ledger.KeyLocker
	indexer *searchidx.Indexer
	logger  *zap.Logger
}

func NewLedgerUseCase(repo ledger.Repository, locker ledger.KeyLocker, indexer *searchidx.Indexer, logger *zap.Logger) ledger.UseCase {
	return &ledgerUseCase{
		repo:    repo,
		locker:  locker,
		indexer: indexer,
		logger:  logger,
	}
}

// WithKeyLock serializes callers racing on the same (store, SKU) pair ahead
// of the database row lock. Three attempts, then the caller is told to
// retry.
func (uc *ledgerUseCase) WithKeyLock(ctx context.Context, storeID, productSKU string, fn func(ctx context.Context) error) error {
	if uc.locker == nil {
		return fn(ctx)
	}

	lockKey := fmt.Sprintf("lock:inventory:%s:%s", storeID, productSKU)
	lockValue := uuid.New().String()

	acquired := false
	for i := 0; i < 3; i++ {
		ok, err := uc.locker.AcquireLock(ctx, lockKey, lockValue, 5*time.Second)
		if err != nil {
			uc.logger.Error("failed to acquire lock redis error", zap.Error(err))
		}
		if ok {
			acquired = true
			break
		}
		time.Sleep(100 * time.Millisecond) // wait before retry
	}
	if !acquired {
		return errs.New(errs.CodeInternalError, "inventory busy, please try again later", lockKey)
	}
	defer uc.locker.ReleaseLock(ctx, lockKey, lockValue)

	return fn(ctx)
}

// WithTx runs fn inside one database transaction, committing only when fn
// succeeds.
func (uc *ledgerUseCase) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := uc.repo.BeginTx(ctx)
	if err != nil {
		return errs.NewDatabaseError("begin transaction", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return errs.NewDatabaseError("commit transaction", err)
	}
	return nil
}

// ApplyDelta is the standalone form: per-key lock, one transaction, commit.
func (uc *ledgerUseCase) ApplyDelta(ctx context.Context, input *dto.ApplyDeltaInput) (*model.InventoryRecord, *model.InventoryTransaction, error) {
	var (
		rec *model.InventoryRecord
		txn *model.InventoryTransaction
	)

	err := uc.WithKeyLock(ctx, input.StoreID, input.ProductSKU, func(ctx context.Context) error {
		return uc.WithTx(ctx, func(tx *sqlx.Tx) error {
			var err error
			rec, txn, err = uc.ApplyDeltaTx(ctx, tx, input)
			return err
		})
	})
	if err != nil {
		return nil, nil, err
	}

	uc.IndexTransaction(txn)
	return rec, txn, nil
}

// ApplyDeltaTx runs the read-check-write unit inside the caller's
// transaction: lock the aggregate row, apply the deltas with invariant
// checks, upsert the row and append exactly one audit entry. Callers that
// commit their own tx are responsible for IndexTransaction afterwards.
func (uc *ledgerUseCase) ApplyDeltaTx(ctx context.Context, tx *sqlx.Tx, input *dto.ApplyDeltaInput) (*model.InventoryRecord, *model.InventoryTransaction, error) {
	if !input.Type.Valid() {
		return nil, nil, errs.NewInvalidRequest("unknown transaction type", string(input.Type))
	}

	rec, err := uc.repo.GetRecordForUpdate(ctx, tx, input.StoreID, input.ProductSKU)
	if err != nil {
		return nil, nil, errs.NewDatabaseError("load inventory record", err)
	}

	now := time.Now().UTC()
	if rec == nil {
		// Lazy creation: all counters start at zero.
		rec = &model.InventoryRecord{
			ID:         uuid.New().String(),
			StoreID:    input.StoreID,
			ProductSKU: input.ProductSKU,
			UpdatedAt:  now,
		}
	}

	if err := rec.ApplyDelta(input.OnHandDelta, input.ReservedDelta, input.IncomingDelta, now); err != nil {
		return nil, nil, err
	}

	if input.PendingOrderID != nil {
		rec.PendingOrderID = input.PendingOrderID
	} else if input.ClearPendingOrder {
		rec.PendingOrderID = nil
	}

	txn := &model.InventoryTransaction{
		ID:           uuid.New().String(),
		StoreID:      input.StoreID,
		ProductSKU:   input.ProductSKU,
		Type:         input.Type,
		Quantity:     input.PrimaryDelta(),
		BalanceAfter: rec.QuantityOnHand,
		CustomerID:   input.CustomerID,
		ExpiresAt:    input.ExpiresAt,
		Notes:        input.Notes,
		CreatedAt:    now,
	}

	if err := uc.repo.UpsertRecord(ctx, tx, rec); err != nil {
		return nil, nil, errs.NewDatabaseError("upsert inventory record", err)
	}
	if err := uc.repo.InsertTransaction(ctx, tx, txn); err != nil {
		return nil, nil, errs.NewDatabaseError("append inventory transaction", err)
	}

	return rec, txn, nil
}

// IndexTransaction mirrors a committed audit row into search, best effort.
func (uc *ledgerUseCase) IndexTransaction(txn *model.InventoryTransaction) {
	if txn == nil || !uc.indexer.Available() {
		return
	}
	go uc.indexer.Index(txn)
}

func (uc *ledgerUseCase) GetRecord(ctx context.Context, storeID, productSKU string) (*model.InventoryRecord, error) {
	rec, err := uc.repo.GetRecord(ctx, storeID, productSKU)
	if err != nil {
		return nil, errs.NewDatabaseError("load inventory record", err)
	}
	if rec == nil {
		// Zero-value aggregate for SKUs never touched at this store.
		return &model.InventoryRecord{
			StoreID:    storeID,
			ProductSKU: productSKU,
		}, nil
	}
	return rec, nil
}

func (uc *ledgerUseCase) ListRecords(ctx context.Context, filters *dto.RecordFilters) ([]model.InventoryRecord, int, error) {
	return uc.repo.ListRecords(ctx, filters)
}

func (uc *ledgerUseCase) ListTransactions(ctx context.Context, filters *dto.TransactionFilters) ([]model.InventoryTransaction, int, error) {
	return uc.repo.ListTransactions(ctx, filters)
}

func (uc *ledgerUseCase) SearchTransactions(ctx context.Context, storeID, query string, size int) ([]model.InventoryTransaction, error) {
	if !uc.indexer.Available() {
		return nil, errs.NewSearchUnavailable()
	}
	return uc.indexer.Search(ctx, storeID, query, size)
}
