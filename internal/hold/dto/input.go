package dto

type CreateHoldInput struct {
	StoreID    string
	CustomerID string
	ProductSKU string
	Quantity   int
}
