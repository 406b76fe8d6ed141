package dto

import "github.com/sampleloop/inventory-service/internal/model"

type HoldFilters struct {
	StoreID  string
	Status   model.HoldStatus
	Page     int
	PageSize int
}
