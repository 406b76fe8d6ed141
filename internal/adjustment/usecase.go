package adjustment

import (
	"context"

	"github.com/sampleloop/inventory-service/internal/adjustment/dto"
	"github.com/sampleloop/inventory-service/internal/model"
)

// UseCase is the store-initiated correction path. It only ever decreases
// stock; increases go through wholesale receiving.
type UseCase interface {
	AdjustDown(ctx context.Context, input *dto.AdjustDownInput) (*model.InventoryRecord, *model.InventoryTransaction, error)
}
