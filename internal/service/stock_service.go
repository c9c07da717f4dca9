package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/venky2821/finalproject/internal/apierror"
	"github.com/venky2821/finalproject/internal/dto"
	"github.com/venky2821/finalproject/internal/model"
	"github.com/venky2821/finalproject/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// stockChange describes one adjustment of a product's counters.
// StockDelta moves stock_level, ReservedDelta moves reserved_stock; the
// ledger row records Quantity with the given sign.
type stockChange struct {
	ProductID     uuid.UUID
	ProductName   string
	StockDelta    int
	ReservedDelta int
	Quantity      int
	Type          model.MovementType
	Reason        string
	OrderID       *uuid.UUID
}

// stockLedger applies stock changes and writes the matching movement in the
// same transaction.
type stockLedger struct {
	products  repository.ProductRepository
	movements repository.StockMovementRepository
}

func (l stockLedger) apply(tx *gorm.DB, ch stockChange) (*model.Product, error) {
	p, err := l.products.AdjustStockTx(tx, ch.ProductID, ch.StockDelta, ch.ReservedDelta)
	if errors.Is(err, repository.ErrStockConflict) {
		name := ch.ProductName
		if name == "" {
			name = ch.ProductID.String()
		}
		return nil, apierror.InsufficientStock(fmt.Sprintf("Not enough stock for product %s", name))
	}
	if err != nil {
		return nil, fmt.Errorf("adjust stock %s: %w", ch.ProductID, err)
	}

	// Snapshot of the counter the movement is about: reserved stock for
	// approvals, available stock for everything else.
	after := p.StockLevel
	before := p.StockLevel - ch.StockDelta
	if ch.StockDelta == 0 {
		after = p.ReservedStock
		before = p.ReservedStock - ch.ReservedDelta
	}

	m := &model.StockMovement{
		ProductID:    ch.ProductID,
		MovementType: ch.Type,
		Quantity:     ch.Quantity,
		StockBefore:  before,
		StockAfter:   after,
		Reason:       ch.Reason,
		OrderID:      ch.OrderID,
	}
	if err := l.movements.CreateTx(tx, m); err != nil {
		return nil, fmt.Errorf("record movement: %w", err)
	}
	return p, nil
}

// StockService exposes the movement ledger read side.
type StockService interface {
	ListMovements(ctx context.Context, f dto.StockMovementFilter) (*dto.StockMovementListResponse, error)
}

type stockService struct {
	movements repository.StockMovementRepository
}

func NewStockService(movements repository.StockMovementRepository) StockService {
	return &stockService{movements: movements}
}

func (s *stockService) ListMovements(ctx context.Context, f dto.StockMovementFilter) (*dto.StockMovementListResponse, error) {
	filter := repository.StockMovementFilter{Type: f.Type, Page: f.Page, Limit: f.Limit}
	if f.ProductID != "" {
		id, err := uuid.Parse(f.ProductID)
		if err != nil {
			return nil, apierror.BadRequest("Invalid product id")
		}
		filter.ProductID = &id
	}
	movements, total, err := s.movements.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.StockMovementResponse, len(movements))
	for i, m := range movements {
		name := ""
		if m.Product != nil {
			name = m.Product.Name
		}
		data[i] = dto.StockMovementResponse{
			ID:           m.ID.String(),
			ProductID:    m.ProductID.String(),
			ProductName:  name,
			MovementType: string(m.MovementType),
			Quantity:     m.Quantity,
			StockBefore:  m.StockBefore,
			StockAfter:   m.StockAfter,
			Reason:       m.Reason,
			OrderID:      uuidPtrString(m.OrderID),
			Timestamp:    m.Timestamp.UTC().Format(time.RFC3339),
		}
	}
	return &dto.StockMovementListResponse{Data: data, Total: total, Page: f.Page, Limit: f.Limit}, nil
}
