package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// Dates are calendar dates in YYYY-MM-DD form.
type CreateBatchRequest struct {
	ProductID        string  `json:"product_id"        validate:"required,uuid"`
	SupplierID       string  `json:"supplier_id"       validate:"required,uuid"`
	BatchNumber      string  `json:"batch_number"      validate:"required,min=1,max=64"`
	QuantityReceived int     `json:"quantity_received" validate:"gt=0"`
	ReceivedDate     string  `json:"received_date"     validate:"required,datetime=2006-01-02"`
	ExpirationDate   *string `json:"expiration_date"   validate:"omitempty,datetime=2006-01-02"`
}

type BatchFilter struct {
	Status    string `form:"status"     validate:"omitempty,oneof=Active Expired 'Sold Out'"`
	ProductID string `form:"product_id" validate:"omitempty,uuid"`
	MinAge    *int   `form:"min_age"    validate:"omitempty,min=0"`
	MaxAge    *int   `form:"max_age"    validate:"omitempty,min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type BatchResponse struct {
	ID                string  `json:"id"`
	BatchNumber       string  `json:"batch_number"`
	ProductID         string  `json:"product_id"`
	ProductName       string  `json:"product_name"`
	SupplierID        string  `json:"supplier_id"`
	QuantityReceived  int     `json:"quantity_received"`
	ReceivedDate      string  `json:"received_date"`
	ExpirationDate    *string `json:"expiration_date"`
	BatchStatus       string  `json:"batch_status"`
	AgeDays           int     `json:"age_days"`
	DaysUntilExpiry   *int    `json:"days_until_expiry"`
	RemainingQuantity int     `json:"remaining_quantity"`
}

type CreateBatchResponse struct {
	Message string        `json:"message"`
	Batch   BatchResponse `json:"batch"`
}

type ExpiringBatchesResponse struct {
	ExpiringBatches []BatchResponse `json:"expiring_batches"`
}

type AgingReportRow struct {
	BatchNumber       string  `json:"batch_number"`
	ProductName       string  `json:"product_name"`
	ReceivedDate      string  `json:"received_date"`
	ExpirationDate    *string `json:"expiration_date"`
	AgeDays           int     `json:"age_days"`
	RemainingQuantity int     `json:"remaining_quantity"`
	BatchStatus       string  `json:"batch_status"`
	DaysUntilExpiry   *int    `json:"days_until_expiry"`
}

type AgingSummary struct {
	TotalBatches   int `json:"total_batches"`
	ExpiredBatches int `json:"expired_batches"`
	ActiveBatches  int `json:"active_batches"`
	ExpiringSoon   int `json:"expiring_soon"`
}

type AgingReportResponse struct {
	AgingReport []AgingReportRow `json:"aging_report"`
	Summary     AgingSummary     `json:"summary"`
}
