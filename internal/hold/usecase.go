package hold

import (
	"context"

	"github.com/sampleloop/inventory-service/internal/hold/dto"
	"github.com/sampleloop/inventory-service/internal/model"
)

type UseCase interface {
	CreateHold(ctx context.Context, input *dto.CreateHoldInput) (*model.ProductHold, error)
	ResolveHold(ctx context.Context, holdID string, outcome model.HoldStatus) (*model.ProductHold, error)
	ListHolds(ctx context.Context, filters *dto.HoldFilters) ([]model.ProductHold, int, error)
	// ExpireOverdue resolves active holds past their expiry as expired and
	// returns how many it swept.
	ExpireOverdue(ctx context.Context) (int, error)
}
