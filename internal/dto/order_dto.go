package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ReserveItem is one line of a reservation. ProductID carries the product
// name, which is the catalog's lookup key for customers.
type ReserveItem struct {
	ProductID string `json:"product_id" validate:"required,min=1"`
	Quantity  int    `json:"quantity"   validate:"gt=0"`
}

type RejectOrderRequest struct {
	Reason string `json:"reason" validate:"required,min=1,max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ReserveResponse struct {
	Message string `json:"message"`
	OrderID string `json:"order_id"`
}

type ReorderResponse struct {
	Message    string `json:"message"`
	NewOrderID string `json:"new_order_id"`
}

type OrderItemResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

type OrderResponse struct {
	ID              string              `json:"id"`
	CustomerName    string              `json:"customer_name"`
	UserID          string              `json:"user_id"`
	TotalPrice      decimal.Decimal     `json:"total_price"`
	Status          string              `json:"status"`
	RejectionReason *string             `json:"rejection_reason"`
	SourceOrderID   *string             `json:"source_order_id,omitempty"`
	CreatedAt       string              `json:"created_at"`
	Items           []OrderItemResponse `json:"items"`
}

type StockMovementFilter struct {
	ProductID string `form:"product_id" validate:"omitempty,uuid"`
	Type      string `form:"type"       validate:"omitempty,oneof=reserve sale release restock initial_stock supply adjustment"`
	Pagination
}

type StockMovementResponse struct {
	ID           string  `json:"id"`
	ProductID    string  `json:"product_id"`
	ProductName  string  `json:"product_name"`
	MovementType string  `json:"movement_type"`
	Quantity     int     `json:"quantity"`
	StockBefore  int     `json:"stock_before"`
	StockAfter   int     `json:"stock_after"`
	Reason       string  `json:"reason"`
	OrderID      *string `json:"order_id"`
	Timestamp    string  `json:"timestamp"`
}

type StockMovementListResponse struct {
	Data  []StockMovementResponse `json:"data"`
	Total int64                   `json:"total"`
	Page  int                     `json:"page"`
	Limit int                     `json:"limit"`
}
