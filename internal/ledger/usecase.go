package ledger

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/sampleloop/inventory-service/internal/ledger/dto"
	"github.com/sampleloop/inventory-service/internal/model"
)

// UseCase is the single mutation primitive every stock change passes
// through. Sibling components compose ApplyDeltaTx with their own row
// updates inside one transaction run by WithTx, under WithKeyLock.
type UseCase interface {
	ApplyDelta(ctx context.Context, input *dto.ApplyDeltaInput) (*model.InventoryRecord, *model.InventoryTransaction, error)
	ApplyDeltaTx(ctx context.Context, tx *sqlx.Tx, input *dto.ApplyDeltaInput) (*model.InventoryRecord, *model.InventoryTransaction, error)
	// WithTx runs fn inside one database transaction: commit when fn
	// returns nil, roll back otherwise.
	WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
	WithKeyLock(ctx context.Context, storeID, productSKU string, fn func(ctx context.Context) error) error
	IndexTransaction(txn *model.InventoryTransaction)

	GetRecord(ctx context.Context, storeID, productSKU string) (*model.InventoryRecord, error)
	ListRecords(ctx context.Context, filters *dto.RecordFilters) ([]model.InventoryRecord, int, error)
	ListTransactions(ctx context.Context, filters *dto.TransactionFilters) ([]model.InventoryTransaction, int, error)
	SearchTransactions(ctx context.Context, storeID, query string, size int) ([]model.InventoryTransaction, error)
}
