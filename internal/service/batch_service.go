package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/venky2821/finalproject/internal/apierror"
	"github.com/venky2821/finalproject/internal/dto"
	"github.com/venky2821/finalproject/internal/model"
	"github.com/venky2821/finalproject/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	dateLayout        = "2006-01-02"
	expiringSoonDays  = 30
	errMsgInvalidDate = "Invalid date format. Please use YYYY-MM-DD format."
)

type BatchService interface {
	Create(ctx context.Context, req dto.CreateBatchRequest) (*dto.CreateBatchResponse, error)
	List(ctx context.Context, f dto.BatchFilter) ([]dto.BatchResponse, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]dto.BatchResponse, error)
	// ExpiringSoon lists batches whose expiration date is within days of today,
	// already expired ones included.
	ExpiringSoon(ctx context.Context, days int) ([]dto.BatchResponse, error)
	ProductsForBatch(ctx context.Context, batchNumber string) ([]dto.ProductResponse, error)
	AgingReport(ctx context.Context, r dto.DateRange) (*dto.AgingReportResponse, error)
}

type batchService struct {
	batches   repository.BatchRepository
	products  repository.ProductRepository
	suppliers repository.SupplierRepository
	now       func() time.Time
}

func NewBatchService(
	batches repository.BatchRepository,
	products repository.ProductRepository,
	suppliers repository.SupplierRepository,
	now func() time.Time,
) BatchService {
	if now == nil {
		now = time.Now
	}
	return &batchService{batches: batches, products: products, suppliers: suppliers, now: now}
}

func (s *batchService) today() time.Time { return calendarDay(s.now()) }

func (s *batchService) Create(ctx context.Context, req dto.CreateBatchRequest) (*dto.CreateBatchResponse, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, apierror.BadRequest("Invalid product id")
	}
	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return nil, apierror.BadRequest("Invalid supplier id")
	}
	if req.QuantityReceived <= 0 {
		return nil, apierror.BadRequest("Quantity received must be positive")
	}
	received, err := time.Parse(dateLayout, req.ReceivedDate)
	if err != nil {
		return nil, apierror.BadRequest(errMsgInvalidDate)
	}
	var expires *time.Time
	if req.ExpirationDate != nil && *req.ExpirationDate != "" {
		e, err := time.Parse(dateLayout, *req.ExpirationDate)
		if err != nil {
			return nil, apierror.BadRequest(errMsgInvalidDate)
		}
		if e.Before(received) {
			return nil, apierror.BadRequest("Expiration date cannot be before received date")
		}
		expires = &e
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, notFound(err, "Product not found")
	}
	if _, err := s.suppliers.FindByID(ctx, supplierID); err != nil {
		return nil, notFound(err, "Supplier not found")
	}
	number := strings.TrimSpace(req.BatchNumber)
	if _, err := s.batches.FindByNumber(ctx, number); err == nil {
		return nil, apierror.BadRequest("Batch number already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	b := &model.Batch{
		BatchNumber:      number,
		ProductID:        productID,
		SupplierID:       supplierID,
		QuantityReceived: req.QuantityReceived,
		ReceivedDate:     received,
		ExpirationDate:   expires,
		Status:           model.BatchActive,
	}
	if err := s.batches.Create(ctx, b); err != nil {
		return nil, err
	}
	b.Product = product
	return &dto.CreateBatchResponse{Message: "Batch created successfully", Batch: s.toResponse(b)}, nil
}

func (s *batchService) List(ctx context.Context, f dto.BatchFilter) ([]dto.BatchResponse, error) {
	q := repository.BatchQuery{Status: f.Status}
	if f.ProductID != "" {
		id, err := uuid.Parse(f.ProductID)
		if err != nil {
			return nil, apierror.BadRequest("Invalid product id")
		}
		q.ProductID = &id
	}
	today := s.today()
	// min_age: at least N days old, so received on or before today-N.
	if f.MinAge != nil {
		d := today.AddDate(0, 0, -*f.MinAge)
		q.ReceivedBefore = &d
	}
	if f.MaxAge != nil {
		d := today.AddDate(0, 0, -*f.MaxAge)
		q.ReceivedAfter = &d
	}

	batches, err := s.batches.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return s.toResponses(batches), nil
}

func (s *batchService) ListByProduct(ctx context.Context, productID uuid.UUID) ([]dto.BatchResponse, error) {
	batches, err := s.batches.List(ctx, repository.BatchQuery{ProductID: &productID})
	if err != nil {
		return nil, err
	}
	if len(batches) == 0 {
		return nil, apierror.NotFound("No batches found for this product")
	}
	return s.toResponses(batches), nil
}

func (s *batchService) ExpiringSoon(ctx context.Context, days int) ([]dto.BatchResponse, error) {
	if days < 0 {
		return nil, apierror.BadRequest("days must not be negative")
	}
	batches, err := s.batches.ListExpiringBy(ctx, s.today().AddDate(0, 0, days))
	if err != nil {
		return nil, err
	}
	return s.toResponses(batches), nil
}

func (s *batchService) ProductsForBatch(ctx context.Context, batchNumber string) ([]dto.ProductResponse, error) {
	products, err := s.batches.ProductsByBatchNumber(ctx, batchNumber)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, apierror.NotFound("No products found for this batch")
	}
	out := make([]dto.ProductResponse, len(products))
	for i := range products {
		out[i] = toProductResponse(&products[i])
	}
	return out, nil
}

// AgingReport lists batches received in the window, oldest first.
func (s *batchService) AgingReport(ctx context.Context, r dto.DateRange) (*dto.AgingReportResponse, error) {
	q := repository.BatchQuery{}
	if r.StartDate != "" {
		d, err := time.Parse(dateLayout, r.StartDate)
		if err != nil {
			return nil, apierror.BadRequest(errMsgInvalidDate)
		}
		q.ReceivedAfter = &d
	}
	if r.EndDate != "" {
		d, err := time.Parse(dateLayout, r.EndDate)
		if err != nil {
			return nil, apierror.BadRequest(errMsgInvalidDate)
		}
		q.ReceivedBefore = &d
	}

	batches, err := s.batches.List(ctx, q)
	if err != nil {
		return nil, err
	}

	rows := make([]dto.AgingReportRow, 0, len(batches))
	var sum dto.AgingSummary
	for i := range batches {
		b := s.toResponse(&batches[i])
		rows = append(rows, dto.AgingReportRow{
			BatchNumber:       b.BatchNumber,
			ProductName:       b.ProductName,
			ReceivedDate:      b.ReceivedDate,
			ExpirationDate:    b.ExpirationDate,
			AgeDays:           b.AgeDays,
			RemainingQuantity: b.RemainingQuantity,
			BatchStatus:       b.BatchStatus,
			DaysUntilExpiry:   b.DaysUntilExpiry,
		})
		switch model.BatchStatus(b.BatchStatus) {
		case model.BatchExpired:
			sum.ExpiredBatches++
		case model.BatchActive:
			sum.ActiveBatches++
		}
		if d := b.DaysUntilExpiry; d != nil && *d > 0 && *d <= expiringSoonDays {
			sum.ExpiringSoon++
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].AgeDays > rows[j].AgeDays })
	sum.TotalBatches = len(rows)

	return &dto.AgingReportResponse{AgingReport: rows, Summary: sum}, nil
}

func (s *batchService) toResponses(batches []model.Batch) []dto.BatchResponse {
	out := make([]dto.BatchResponse, len(batches))
	for i := range batches {
		out[i] = s.toResponse(&batches[i])
	}
	return out
}

// toResponse derives age and expiry from today. Remaining quantity equals
// the received quantity: batch consumption is not tracked.
func (s *batchService) toResponse(b *model.Batch) dto.BatchResponse {
	today := s.today()
	resp := dto.BatchResponse{
		ID:                b.ID.String(),
		BatchNumber:       b.BatchNumber,
		ProductID:         b.ProductID.String(),
		SupplierID:        b.SupplierID.String(),
		QuantityReceived:  b.QuantityReceived,
		ReceivedDate:      b.ReceivedDate.Format(dateLayout),
		BatchStatus:       string(b.Status),
		AgeDays:           daysBetween(b.ReceivedDate, today),
		RemainingQuantity: b.QuantityReceived,
	}
	if b.Product != nil {
		resp.ProductName = b.Product.Name
	}
	if b.ExpirationDate != nil {
		exp := b.ExpirationDate.Format(dateLayout)
		left := daysBetween(today, *b.ExpirationDate)
		resp.ExpirationDate = &exp
		resp.DaysUntilExpiry = &left
	}
	return resp
}
