package model

// CatalogEntry maps a wholesale case SKU to its retail SKU and case-pack
// size. The catalog is owned elsewhere; this service only reads it.
type CatalogEntry struct {
	CaseSKU      string `db:"case_sku" json:"caseSku"`
	RetailSKU    string `db:"retail_sku" json:"retailSku"`
	UnitsPerCase int    `db:"units_per_case" json:"unitsPerCase"`
	Active       bool   `db:"active" json:"active"`
}
