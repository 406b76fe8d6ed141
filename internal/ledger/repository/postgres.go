package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/sampleloop/inventory-service/internal/ledger/dto"
	"github.com/sampleloop/inventory-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) BeginTx(ctx context.Context) (*sqlx.Tx, error) {
	return r.DB.BeginTxx(ctx, nil)
}

func (r *PGRepository) GetRecord(ctx context.Context, storeID, productSKU string) (*model.InventoryRecord, error) {
	var rec model.InventoryRecord
	query := `SELECT * FROM inventory_records WHERE store_id = $1 AND product_sku = $2`
	err := r.DB.GetContext(ctx, &rec, query, storeID, productSKU)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Return nil if no record found (caller handles creating defaults)
		}
		return nil, err
	}
	return &rec, nil
}

// GetRecordForUpdate takes the row lock that serializes all mutations for
// one (store, SKU) pair. Different pairs do not contend.
func (r *PGRepository) GetRecordForUpdate(ctx context.Context, tx *sqlx.Tx, storeID, productSKU string) (*model.InventoryRecord, error) {
	var rec model.InventoryRecord
	query := `SELECT * FROM inventory_records WHERE store_id = $1 AND product_sku = $2 FOR UPDATE`
	err := tx.GetContext(ctx, &rec, query, storeID, productSKU)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (r *PGRepository) UpsertRecord(ctx context.Context, tx *sqlx.Tx, rec *model.InventoryRecord) error {
	query := `
        INSERT INTO inventory_records (
            id, store_id, product_sku,
            quantity_on_hand, quantity_reserved, quantity_available, quantity_incoming,
            pending_order_id, updated_at
        )
        VALUES (
            :id, :store_id, :product_sku,
            :quantity_on_hand, :quantity_reserved, :quantity_available, :quantity_incoming,
            :pending_order_id, :updated_at
        )
        ON CONFLICT (store_id, product_sku)
        DO UPDATE SET
            quantity_on_hand = EXCLUDED.quantity_on_hand,
            quantity_reserved = EXCLUDED.quantity_reserved,
            quantity_available = EXCLUDED.quantity_available,
            quantity_incoming = EXCLUDED.quantity_incoming,
            pending_order_id = EXCLUDED.pending_order_id,
            updated_at = EXCLUDED.updated_at
    `
	_, err := tx.NamedExecContext(ctx, query, rec)
	if err != nil {
		return fmt.Errorf("failed to upsert inventory record: %w", err)
	}
	return nil
}

func (r *PGRepository) InsertTransaction(ctx context.Context, tx *sqlx.Tx, txn *model.InventoryTransaction) error {
	query := `
        INSERT INTO inventory_transactions (
            id, store_id, product_sku, type, quantity, balance_after,
            customer_id, expires_at, notes, created_at
        )
        VALUES (
            :id, :store_id, :product_sku, :type, :quantity, :balance_after,
            :customer_id, :expires_at, :notes, :created_at
        )
    `
	_, err := tx.NamedExecContext(ctx, query, txn)
	if err != nil {
		return fmt.Errorf("failed to append inventory transaction: %w", err)
	}
	return nil
}

func (r *PGRepository) ListRecords(ctx context.Context, f *dto.RecordFilters) ([]model.InventoryRecord, int, error) {
	var items []model.InventoryRecord
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.StoreID != "" {
		conditions = append(conditions, "store_id = :store_id")
		args["store_id"] = f.StoreID
	}
	if f.ProductSKU != "" {
		conditions = append(conditions, "product_sku = :product_sku")
		args["product_sku"] = f.ProductSKU
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM inventory_records" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM inventory_records" + whereClause + " ORDER BY updated_at DESC"
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

func (r *PGRepository) ListTransactions(ctx context.Context, f *dto.TransactionFilters) ([]model.InventoryTransaction, int, error) {
	var items []model.InventoryTransaction
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.StoreID != "" {
		conditions = append(conditions, "store_id = :store_id")
		args["store_id"] = f.StoreID
	}
	if f.ProductSKU != "" {
		conditions = append(conditions, "product_sku = :product_sku")
		args["product_sku"] = f.ProductSKU
	}
	if f.Type != "" {
		conditions = append(conditions, "type = :type")
		args["type"] = string(f.Type)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT count(*) FROM inventory_transactions" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		rows.Scan(&count)
	}

	query := "SELECT * FROM inventory_transactions" + whereClause + " ORDER BY created_at DESC"
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
