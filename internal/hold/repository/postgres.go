package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sampleloop/inventory-service/internal/hold/dto"
	"github.com/sampleloop/inventory-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, h *model.ProductHold) error {
	query := `
        INSERT INTO product_holds (
            id, store_id, customer_id, product_sku, quantity, status,
            expires_at, notified_at, picked_up_at, created_at, updated_at
        )
        VALUES (
            :id, :store_id, :customer_id, :product_sku, :quantity, :status,
            :expires_at, :notified_at, :picked_up_at, :created_at, :updated_at
        )
    `
	_, err := tx.NamedExecContext(ctx, query, h)
	if err != nil {
		return fmt.Errorf("failed to create hold: %w", err)
	}
	return nil
}

func (r *PGRepository) GetByID(ctx context.Context, holdID string) (*model.ProductHold, error) {
	var h model.ProductHold
	err := r.DB.GetContext(ctx, &h, `SELECT * FROM product_holds WHERE id = $1`, holdID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &h, nil
}

// GetForUpdate locks the hold row so two resolvers cannot both see it
// active.
func (r *PGRepository) GetForUpdate(ctx context.Context, tx *sqlx.Tx, holdID string) (*model.ProductHold, error) {
	var h model.ProductHold
	err := tx.GetContext(ctx, &h, `SELECT * FROM product_holds WHERE id = $1 FOR UPDATE`, holdID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &h, nil
}

func (r *PGRepository) UpdateStatusTx(ctx context.Context, tx *sqlx.Tx, h *model.ProductHold) error {
	query := `
        UPDATE product_holds
        SET status = :status, picked_up_at = :picked_up_at, updated_at = :updated_at
        WHERE id = :id
    `
	_, err := tx.NamedExecContext(ctx, query, h)
	if err != nil {
		return fmt.Errorf("failed to update hold status: %w", err)
	}
	return nil
}

func (r *PGRepository) List(ctx context.Context, f *dto.HoldFilters) ([]model.ProductHold, int, error) {
	var items []model.ProductHold
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.StoreID != "" {
		conditions = append(conditions, "store_id = :store_id")
		args["store_id"] = f.StoreID
	}
	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = string(f.Status)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM product_holds" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM product_holds" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}

func (r *PGRepository) ListOverdue(ctx context.Context, asOf time.Time, limit int) ([]model.ProductHold, error) {
	var items []model.ProductHold
	query := `
        SELECT * FROM product_holds
        WHERE status = $1 AND expires_at < $2
        ORDER BY expires_at ASC
        LIMIT $3
    `
	err := r.DB.SelectContext(ctx, &items, query, model.HoldStatusActive, asOf, limit)
	return items, err
}
