package wholesale

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/sampleloop/inventory-service/internal/model"
)

type Repository interface {
	CreateOrderTx(ctx context.Context, tx *sqlx.Tx, order *model.WholesaleOrder, items []model.WholesaleOrderItem) error
	GetOrderByID(ctx context.Context, orderID string) (*model.WholesaleOrder, error)
	GetOrderByToken(ctx context.Context, token string) (*model.WholesaleOrder, error)
	GetOrderForUpdate(ctx context.Context, tx *sqlx.Tx, orderID string) (*model.WholesaleOrder, error)
	UpdateOrderTx(ctx context.Context, tx *sqlx.Tx, order *model.WholesaleOrder) error
	ListItems(ctx context.Context, orderID string) ([]model.WholesaleOrderItem, error)
	UpdateItemReceivedTx(ctx context.Context, tx *sqlx.Tx, itemID string, receivedUnits int) error
}
