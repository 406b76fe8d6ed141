package hold

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sampleloop/inventory-service/internal/hold/dto"
	"github.com/sampleloop/inventory-service/internal/model"
)

type Repository interface {
	// Tx-scoped writes compose with the ledger mutation in one transaction.
	CreateTx(ctx context.Context, tx *sqlx.Tx, h *model.ProductHold) error
	GetForUpdate(ctx context.Context, tx *sqlx.Tx, holdID string) (*model.ProductHold, error)
	UpdateStatusTx(ctx context.Context, tx *sqlx.Tx, h *model.ProductHold) error

	GetByID(ctx context.Context, holdID string) (*model.ProductHold, error)
	List(ctx context.Context, filters *dto.HoldFilters) ([]model.ProductHold, int, error)
	ListOverdue(ctx context.Context, asOf time.Time, limit int) ([]model.ProductHold, error)
}
