package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sampleloop/inventory-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) CreateOrderTx(ctx context.Context, tx *sqlx.Tx, order *model.WholesaleOrder, items []model.WholesaleOrderItem) error {
	orderQuery := `
        INSERT INTO wholesale_orders (
            id, store_id, status, verify_token, fulfilled_at, received_at, notes, created_at
        )
        VALUES (
            :id, :store_id, :status, :verify_token, :fulfilled_at, :received_at, :notes, :created_at
        )
    `
	if _, err := tx.NamedExecContext(ctx, orderQuery, order); err != nil {
		return fmt.Errorf("failed to create wholesale order: %w", err)
	}

	itemQuery := `
        INSERT INTO wholesale_order_items (
            id, order_id, case_sku, case_quantity, retail_sku, expected_units, received_units
        )
        VALUES (
            :id, :order_id, :case_sku, :case_quantity, :retail_sku, :expected_units, :received_units
        )
    `
	for i := range items {
		if _, err := tx.NamedExecContext(ctx, itemQuery, &items[i]); err != nil {
			return fmt.Errorf("failed to create wholesale order item: %w", err)
		}
	}
	return nil
}

func (r *PGRepository) GetOrderByID(ctx context.Context, orderID string) (*model.WholesaleOrder, error) {
	var order model.WholesaleOrder
	err := r.DB.GetContext(ctx, &order, `SELECT * FROM wholesale_orders WHERE id = $1`, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *PGRepository) GetOrderByToken(ctx context.Context, token string) (*model.WholesaleOrder, error) {
	var order model.WholesaleOrder
	err := r.DB.GetContext(ctx, &order, `SELECT * FROM wholesale_orders WHERE verify_token = $1`, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetOrderForUpdate locks the order row; the received status check under
// this lock is the duplicate-verification guard.
func (r *PGRepository) GetOrderForUpdate(ctx context.Context, tx *sqlx.Tx, orderID string) (*model.WholesaleOrder, error) {
	var order model.WholesaleOrder
	err := tx.GetContext(ctx, &order, `SELECT * FROM wholesale_orders WHERE id = $1 FOR UPDATE`, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *PGRepository) UpdateOrderTx(ctx context.Context, tx *sqlx.Tx, order *model.WholesaleOrder) error {
	query := `
        UPDATE wholesale_orders
        SET status = :status, fulfilled_at = :fulfilled_at, received_at = :received_at, notes = :notes
        WHERE id = :id
    `
	if _, err := tx.NamedExecContext(ctx, query, order); err != nil {
		return fmt.Errorf("failed to update wholesale order: %w", err)
	}
	return nil
}

func (r *PGRepository) ListItems(ctx context.Context, orderID string) ([]model.WholesaleOrderItem, error) {
	var items []model.WholesaleOrderItem
	err := r.DB.SelectContext(ctx, &items,
		`SELECT * FROM wholesale_order_items WHERE order_id = $1 ORDER BY case_sku`, orderID)
	return items, err
}

func (r *PGRepository) UpdateItemReceivedTx(ctx context.Context, tx *sqlx.Tx, itemID string, receivedUnits int) error {
	if _, err := tx.ExecContext(ctx,
		`UPDATE wholesale_order_items SET received_units = $1 WHERE id = $2`, receivedUnits, itemID); err != nil {
		return fmt.Errorf("failed to update wholesale order item: %w", err)
	}
	return nil
}
