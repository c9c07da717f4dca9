package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/venky2821/finalproject/internal/metrics"
	"github.com/venky2821/finalproject/internal/model"
	"github.com/venky2821/finalproject/internal/repository"
	"github.com/venky2821/finalproject/internal/worker"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// RestockService tops up low stock. It satisfies worker.Restocker.
type RestockService struct {
	products   repository.ProductRepository
	ledger     stockLedger
	notifier   Notifier
	alertEmail string
	metrics    *metrics.AppMetrics
}

var _ worker.Restocker = (*RestockService)(nil)

func NewRestockService(
	products repository.ProductRepository,
	movements repository.StockMovementRepository,
	notifier Notifier,
	alertEmail string,
	m *metrics.AppMetrics,
) *RestockService {
	return &RestockService{
		products:   products,
		ledger:     stockLedger{products: products, movements: movements},
		notifier:   notifier,
		alertEmail: alertEmail,
		metrics:    m,
	}
}

// RestockLowStock raises every product below its reorder threshold by that
// threshold, one transaction per product, and queues a single alert listing
// what was restocked. A failure on one product does not stop the others.
func (s *RestockService) RestockLowStock(ctx context.Context) (int, error) {
	low, err := s.products.ListBelowThreshold(ctx)
	if err != nil {
		return 0, fmt.Errorf("list low stock: %w", err)
	}

	var lines []string
	var firstErr error
	for i := range low {
		p := &low[i]
		if p.ReorderThreshold <= 0 {
			continue
		}
		err := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
			_, err := s.ledger.apply(tx, stockChange{
				ProductID:   p.ID,
				ProductName: p.Name,
				StockDelta:  p.ReorderThreshold,
				Quantity:    p.ReorderThreshold,
				Type:        model.MovementRestock,
				Reason:      "automatic restock below threshold",
			})
			return err
		})
		if err != nil {
			log.Error().Err(err).Str("product", p.Name).Msg("restock: product failed")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		s.metrics.RecordRestock(ctx, p.Name)
		lines = append(lines, fmt.Sprintf("- %s: %d (Threshold: %d)", p.Name, p.StockLevel, p.ReorderThreshold))
	}

	if len(lines) > 0 {
		s.alert(ctx, lines)
	}
	return len(lines), firstErr
}

func (s *RestockService) alert(ctx context.Context, lines []string) {
	if s.alertEmail == "" {
		log.Warn().Int("products", len(lines)).Msg("restock: ALERT_EMAIL not set, low stock alert skipped")
		return
	}
	body := "The following products are low in stock:\n\n" + strings.Join(lines, "\n")
	err := s.notifier.EnqueueEmail(ctx, worker.EmailJobPayload{
		To:      []string{s.alertEmail},
		Subject: "Low Stock Alert",
		Body:    body,
	})
	if err != nil {
		log.Warn().Err(err).Msg("restock: low stock alert not queued")
	}
}
