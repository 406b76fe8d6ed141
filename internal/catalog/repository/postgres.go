package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/sampleloop/inventory-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) GetByCaseSKU(ctx context.Context, caseSKU string) (*model.CatalogEntry, error) {
	var entry model.CatalogEntry
	query := `SELECT case_sku, retail_sku, units_per_case, active FROM catalog_entries WHERE case_sku = $1`
	err := r.DB.GetContext(ctx, &entry, query, caseSKU)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}
