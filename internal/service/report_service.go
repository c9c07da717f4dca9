package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/venky2821/finalproject/internal/apierror"
	"github.com/venky2821/finalproject/internal/dto"
	"github.com/venky2821/finalproject/internal/infra"
	"github.com/venky2821/finalproject/internal/repository"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const topSellingLimit = 10

// costRatio is the share of revenue booked as cost in the profit analysis.
var costRatio = decimal.NewFromFloat(0.7)

// Report types accepted by the per-type export.
const (
	ReportStockTurnover  = "stock-turnover"
	ReportProfitAnalysis = "profit-analysis"
	ReportBatchAging     = "batch-aging"
	ReportTopSelling     = "top-selling-products"
)

// ExportFile is a rendered report ready to be sent as an attachment.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

type ReportService interface {
	TopSelling(ctx context.Context, r dto.DateRange) (*dto.TopSellingResponse, error)
	StockTurnover(ctx context.Context, r dto.DateRange) (*dto.TurnoverResponse, error)
	ProfitAnalysis(ctx context.Context, r dto.DateRange) (*dto.ProfitResponse, error)
	// Overview computes the three sales reports concurrently.
	Overview(ctx context.Context, r dto.DateRange) (*dto.OverviewResponse, error)
	// ExportProfit renders the profit analysis as csv or pdf.
	ExportProfit(ctx context.Context, format string, r dto.DateRange) (*ExportFile, error)
	Export(ctx context.Context, reportType, format string, r dto.DateRange) (*ExportFile, error)
}

type reportService struct {
	repo    repository.ReportRepository
	batches BatchService
}

func NewReportService(repo repository.ReportRepository, batches BatchService) ReportService {
	return &reportService{repo: repo, batches: batches}
}

// parsePeriod turns an inclusive YYYY-MM-DD range into the repository's
// half-open window.
func parsePeriod(r dto.DateRange) (repository.Period, error) {
	var p repository.Period
	if r.StartDate != "" {
		d, err := time.Parse(dateLayout, r.StartDate)
		if err != nil {
			return p, apierror.BadRequest(errMsgInvalidDate)
		}
		p.From = &d
	}
	if r.EndDate != "" {
		d, err := time.Parse(dateLayout, r.EndDate)
		if err != nil {
			return p, apierror.BadRequest(errMsgInvalidDate)
		}
		d = d.AddDate(0, 0, 1)
		p.To = &d
	}
	return p, nil
}

func (s *reportService) TopSelling(ctx context.Context, r dto.DateRange) (*dto.TopSellingResponse, error) {
	p, err := parsePeriod(r)
	if err != nil {
		return nil, err
	}
	items, err := s.topSelling(ctx, p)
	if err != nil {
		return nil, err
	}
	return &dto.TopSellingResponse{TopSellingProducts: items}, nil
}

func (s *reportService) StockTurnover(ctx context.Context, r dto.DateRange) (*dto.TurnoverResponse, error) {
	p, err := parsePeriod(r)
	if err != nil {
		return nil, err
	}
	items, err := s.turnover(ctx, p)
	if err != nil {
		return nil, err
	}
	return &dto.TurnoverResponse{StockTurnover: items}, nil
}

func (s *reportService) ProfitAnalysis(ctx context.Context, r dto.DateRange) (*dto.ProfitResponse, error) {
	p, err := parsePeriod(r)
	if err != nil {
		return nil, err
	}
	items, err := s.profit(ctx, p)
	if err != nil {
		return nil, err
	}
	return &dto.ProfitResponse{ProfitAnalysis: items}, nil
}

func (s *reportService) Overview(ctx context.Context, r dto.DateRange) (*dto.OverviewResponse, error) {
	p, err := parsePeriod(r)
	if err != nil {
		return nil, err
	}

	var out dto.OverviewResponse
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		out.TopSellingProducts, err = s.topSelling(gctx, p)
		return err
	})
	g.Go(func() error {
		var err error
		out.StockTurnover, err = s.turnover(gctx, p)
		return err
	})
	g.Go(func() error {
		var err error
		out.ProfitAnalysis, err = s.profit(gctx, p)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *reportService) topSelling(ctx context.Context, p repository.Period) ([]dto.TopSellingItem, error) {
	rows, err := s.repo.TopSelling(ctx, p, topSellingLimit)
	if err != nil {
		return nil, fmt.Errorf("top selling: %w", err)
	}
	out := make([]dto.TopSellingItem, len(rows))
	for i, r := range rows {
		out[i] = dto.TopSellingItem{Name: r.Name, TotalSold: r.TotalSold}
	}
	return out, nil
}

func (s *reportService) turnover(ctx context.Context, p repository.Period) ([]dto.TurnoverItem, error) {
	rows, err := s.repo.MovementVolume(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("stock turnover: %w", err)
	}
	out := make([]dto.TurnoverItem, 0, len(rows))
	for _, r := range rows {
		if r.StockLevel <= 0 {
			continue
		}
		rate := decimal.NewFromInt(r.Moved).
			Div(decimal.NewFromInt(int64(r.StockLevel))).
			Round(2).InexactFloat64()
		out = append(out, dto.TurnoverItem{Name: r.Name, TurnoverRate: rate})
	}
	return out, nil
}

func (s *reportService) profit(ctx context.Context, p repository.Period) ([]dto.ProfitItem, error) {
	rows, err := s.repo.SalesByProduct(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("profit analysis: %w", err)
	}
	out := make([]dto.ProfitItem, len(rows))
	for i, r := range rows {
		revenue := r.Price.Mul(decimal.NewFromInt(r.TotalSold))
		cost := revenue.Mul(costRatio)
		out[i] = dto.ProfitItem{
			Name:      r.Name,
			TotalSold: r.TotalSold,
			Revenue:   revenue.Round(2),
			Cost:      cost.Round(2),
			Profit:    revenue.Sub(cost).Round(2),
		}
	}
	return out, nil
}

// ── Export ───────────────────────────────────────────────────────────────────

func (s *reportService) ExportProfit(ctx context.Context, format string, r dto.DateRange) (*ExportFile, error) {
	if format != "csv" && format != "pdf" {
		return nil, apierror.BadRequest("Invalid format. Use 'csv' or 'pdf'")
	}
	resp, err := s.ProfitAnalysis(ctx, r)
	if err != nil {
		return nil, err
	}
	table := profitTable(resp.ProfitAnalysis)
	table.Title = "Sales & Profit Report"
	table.Subtitle = fmt.Sprintf("Period: %s to %s", orDefault(r.StartDate, "Start"), orDefault(r.EndDate, "End"))

	name := "report"
	if r.StartDate != "" && r.EndDate != "" {
		name = fmt.Sprintf("report_%s_%s", r.StartDate, r.EndDate)
	}
	return render(table, format, name)
}

func (s *reportService) Export(ctx context.Context, reportType, format string, r dto.DateRange) (*ExportFile, error) {
	if format != "csv" && format != "pdf" {
		return nil, apierror.BadRequest("Invalid format. Use 'csv' or 'pdf'")
	}

	var table infra.ReportTable
	switch reportType {
	case ReportTopSelling:
		resp, err := s.TopSelling(ctx, r)
		if err != nil {
			return nil, err
		}
		table = topSellingTable(resp.TopSellingProducts)
	case ReportStockTurnover:
		resp, err := s.StockTurnover(ctx, r)
		if err != nil {
			return nil, err
		}
		table = turnoverTable(resp.StockTurnover)
	case ReportProfitAnalysis:
		resp, err := s.ProfitAnalysis(ctx, r)
		if err != nil {
			return nil, err
		}
		table = profitTable(resp.ProfitAnalysis)
	case ReportBatchAging:
		resp, err := s.batches.AgingReport(ctx, r)
		if err != nil {
			return nil, err
		}
		table = agingTable(resp.AgingReport)
	default:
		return nil, apierror.BadRequest("Invalid report type")
	}
	table.Subtitle = fmt.Sprintf("Period: %s to %s", orDefault(r.StartDate, "Start"), orDefault(r.EndDate, "End"))

	name := fmt.Sprintf("%s_%s_%s",
		strings.ReplaceAll(reportType, "-", "_"),
		orDefault(r.StartDate, "all"),
		orDefault(r.EndDate, "all"))
	return render(table, format, name)
}

func render(t infra.ReportTable, format, name string) (*ExportFile, error) {
	var buf bytes.Buffer
	switch format {
	case "csv":
		w := csv.NewWriter(&buf)
		if err := w.Write(t.Headers); err != nil {
			return nil, err
		}
		if err := w.WriteAll(t.Rows); err != nil {
			return nil, err
		}
		return &ExportFile{Filename: name + ".csv", ContentType: "text/csv", Data: buf.Bytes()}, nil
	default:
		if err := infra.RenderReportPDF(&buf, t); err != nil {
			return nil, fmt.Errorf("render pdf: %w", err)
		}
		return &ExportFile{Filename: name + ".pdf", ContentType: "application/pdf", Data: buf.Bytes()}, nil
	}
}

func topSellingTable(items []dto.TopSellingItem) infra.ReportTable {
	t := infra.ReportTable{
		Title:      "Top Selling Products",
		Headers:    []string{"Product Name", "Total Sold"},
		Widths:     []float64{3, 1},
		RightAlign: []bool{false, true},
	}
	for _, it := range items {
		t.Rows = append(t.Rows, []string{it.Name, strconv.FormatInt(it.TotalSold, 10)})
	}
	return t
}

func turnoverTable(items []dto.TurnoverItem) infra.ReportTable {
	t := infra.ReportTable{
		Title:      "Stock Turnover",
		Headers:    []string{"Product Name", "Turnover Rate"},
		Widths:     []float64{3, 1},
		RightAlign: []bool{false, true},
	}
	for _, it := range items {
		t.Rows = append(t.Rows, []string{it.Name, strconv.FormatFloat(it.TurnoverRate, 'f', 2, 64)})
	}
	return t
}

func profitTable(items []dto.ProfitItem) infra.ReportTable {
	t := infra.ReportTable{
		Title:      "Profit Analysis",
		Headers:    []string{"Product Name", "Total Sold", "Revenue", "Cost", "Profit"},
		Widths:     []float64{3, 1, 1.2, 1.2, 1.2},
		RightAlign: []bool{false, true, true, true, true},
	}
	for _, it := range items {
		t.Rows = append(t.Rows, []string{
			it.Name,
			strconv.FormatInt(it.TotalSold, 10),
			it.Revenue.StringFixed(2),
			it.Cost.StringFixed(2),
			it.Profit.StringFixed(2),
		})
	}
	return t
}

func agingTable(rows []dto.AgingReportRow) infra.ReportTable {
	t := infra.ReportTable{
		Title:      "Batch Aging Report",
		Headers:    []string{"Batch Number", "Product Name", "Age (days)", "Remaining Quantity", "Status", "Days Until Expiry"},
		Widths:     []float64{1.4, 2, 1, 1.2, 1, 1.2},
		RightAlign: []bool{false, false, true, true, false, true},
	}
	for _, r := range rows {
		expiry := "N/A"
		if r.DaysUntilExpiry != nil {
			expiry = strconv.Itoa(*r.DaysUntilExpiry)
		}
		t.Rows = append(t.Rows, []string{
			r.BatchNumber,
			r.ProductName,
			strconv.Itoa(r.AgeDays),
			strconv.Itoa(r.RemainingQuantity),
			r.BatchStatus,
			expiry,
		})
	}
	return t
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
