package ledger

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/sampleloop/inventory-service/internal/ledger/dto"
	"github.com/sampleloop/inventory-service/internal/model"
)

type Repository interface {
	// Transaction support
	BeginTx(ctx context.Context) (*sqlx.Tx, error)

	// Aggregate row
	GetRecord(ctx context.Context, storeID, productSKU string) (*model.InventoryRecord, error)
	GetRecordForUpdate(ctx context.Context, tx *sqlx.Tx, storeID, productSKU string) (*model.InventoryRecord, error)
	UpsertRecord(ctx context.Context, tx *sqlx.Tx, rec *model.InventoryRecord) error
	ListRecords(ctx context.Context, filters *dto.RecordFilters) ([]model.InventoryRecord, int, error)

	// Audit ledger (append-only)
	InsertTransaction(ctx context.Context, tx *sqlx.Tx, txn *model.InventoryTransaction) error
	ListTransactions(ctx context.Context, filters *dto.TransactionFilters) ([]model.InventoryTransaction, int, error)
}
