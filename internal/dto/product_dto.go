package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Name             string          `json:"name"              validate:"required,min=1,max=120"`
	Category         string          `json:"category"          validate:"required,max=80"`
	StockLevel       int             `json:"stock_level"       validate:"min=0"`
	ReorderThreshold int             `json:"reorder_threshold" validate:"min=0"`
	CostPrice        decimal.Decimal `json:"cost_price"        validate:"min=0"`
	Price            decimal.Decimal `json:"price"             validate:"required,gt=0"`
	SupplierID       *string         `json:"supplier_id"       validate:"omitempty,uuid"`
	ImageURL         string          `json:"image_url"         validate:"omitempty,max=500"`
}

// UpdateQuantityRequest adds StockLevel units to the named product, creating
// it when it does not exist yet.
type UpdateQuantityRequest struct {
	Name       string  `json:"name"        validate:"required,min=1,max=120"`
	StockLevel int     `json:"stock_level" validate:"gt=0"`
	SupplierID *string `json:"supplier_id" validate:"omitempty,uuid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Category         string          `json:"category"`
	StockLevel       int             `json:"stock_level"`
	ReservedStock    int             `json:"reserved_stock"`
	ReorderThreshold int             `json:"reorder_threshold"`
	CostPrice        decimal.Decimal `json:"cost_price"`
	Price            decimal.Decimal `json:"price"`
	SupplierID       *string         `json:"supplier_id"`
	ImageURL         string          `json:"image_url"`
	ImageURLs        []string        `json:"image_urls"`
}

type CreateProductResponse struct {
	Message string          `json:"message"`
	Product ProductResponse `json:"product"`
}

type ImageURLResponse struct {
	ImageURL string `json:"image_url"`
}

type ImagesUploadedResponse struct {
	Message   string   `json:"message"`
	ImageURLs []string `json:"image_urls"`
}
