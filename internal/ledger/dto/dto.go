package dto

import "github.com/sampleloop/inventory-service/internal/model"

type RecordFilters struct {
	StoreID    string
	ProductSKU string
	Page       int
	PageSize   int
}

type TransactionFilters struct {
	StoreID    string
	ProductSKU string
	Type       model.TransactionType
	Page       int
	PageSize   int
}
