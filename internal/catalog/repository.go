package catalog

import (
	"context"

	"github.com/sampleloop/inventory-service/internal/model"
)

// Repository is the read-only view of the product catalog this service
// needs: case SKU -> retail SKU and case-pack size. Catalog writes live in
// another service.
type Repository interface {
	GetByCaseSKU(ctx context.Context, caseSKU string) (*model.CatalogEntry, error)
}
