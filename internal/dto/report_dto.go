package dto

import "github.com/shopspring/decimal"

// DateRange is the optional, inclusive YYYY-MM-DD window every report accepts.
type DateRange struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

type TopSellingItem struct {
	Name      string `json:"name"`
	TotalSold int64  `json:"total_sold"`
}

type TurnoverItem struct {
	Name         string  `json:"name"`
	TurnoverRate float64 `json:"turnover_rate"`
}

type ProfitItem struct {
	Name      string          `json:"name"`
	TotalSold int64           `json:"total_sold"`
	Revenue   decimal.Decimal `json:"revenue"`
	Cost      decimal.Decimal `json:"cost"`
	Profit    decimal.Decimal `json:"profit"`
}

type TopSellingResponse struct {
	TopSellingProducts []TopSellingItem `json:"top_selling_products"`
}

type TurnoverResponse struct {
	StockTurnover []TurnoverItem `json:"stock_turnover"`
}

type ProfitResponse struct {
	ProfitAnalysis []ProfitItem `json:"profit_analysis"`
}

type OverviewResponse struct {
	TopSellingProducts []TopSellingItem `json:"top_selling_products"`
	StockTurnover      []TurnoverItem   `json:"stock_turnover"`
	ProfitAnalysis     []ProfitItem     `json:"profit_analysis"`
}
