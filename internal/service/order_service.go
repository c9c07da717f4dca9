package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/venky2821/finalproject/internal/apierror"
	"github.com/venky2821/finalproject/internal/authz"
	"github.com/venky2821/finalproject/internal/dto"
	"github.com/venky2821/finalproject/internal/metrics"
	"github.com/venky2821/finalproject/internal/model"
	"github.com/venky2821/finalproject/internal/repository"
	"github.com/venky2821/finalproject/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderService interface {
	Reserve(ctx context.Context, actor Actor, items []dto.ReserveItem) (*dto.ReserveResponse, error)
	Approve(ctx context.Context, actor Actor, orderID uuid.UUID) error
	Reject(ctx context.Context, actor Actor, orderID uuid.UUID, reason string) error
	Cancel(ctx context.Context, actor Actor, orderID uuid.UUID) error
	Reorder(ctx context.Context, actor Actor, orderID uuid.UUID) (*dto.ReorderResponse, error)

	ListReserved(ctx context.Context, actor Actor) ([]dto.OrderResponse, error)
	ListAll(ctx context.Context, actor Actor) ([]dto.OrderResponse, error)
	ListMine(ctx context.Context, actor Actor) ([]dto.OrderResponse, error)
}

type orderService struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	users    repository.UserRepository
	ledger   stockLedger
	az       authz.Authorizer
	notifier Notifier
	metrics  *metrics.AppMetrics
}

func NewOrderService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	movements repository.StockMovementRepository,
	users repository.UserRepository,
	az authz.Authorizer,
	notifier Notifier,
	m *metrics.AppMetrics,
) OrderService {
	return &orderService{
		orders:   orders,
		products: products,
		users:    users,
		ledger:   stockLedger{products: products, movements: movements},
		az:       az,
		notifier: notifier,
		metrics:  m,
	}
}

// ── Reserve ──────────────────────────────────────────────────────────────────
// Every line is checked and held in one transaction: a failing line rolls
// back the lines before it. The conditional stock update keeps two
// concurrent reservations from overselling.

func (s *orderService) Reserve(ctx context.Context, actor Actor, items []dto.ReserveItem) (*dto.ReserveResponse, error) {
	if !s.az.Allows(actor.Role, authz.ReserveOrders) {
		return nil, apierror.Forbidden("Not authorized")
	}
	if len(items) == 0 {
		return nil, apierror.BadRequest("No items to reserve")
	}

	order := &model.Order{
		ID:           uuid.New(),
		CustomerName: actor.Username,
		UserID:       actor.UserID,
		Status:       model.OrderReserved,
		TotalPrice:   decimal.Zero,
	}
	units := 0

	err := runTx(ctx, s.orders.DB(), func(tx *gorm.DB) error {
		for _, it := range items {
			if it.Quantity <= 0 {
				return apierror.BadRequest(fmt.Sprintf("Quantity for product %s must be positive", it.ProductID))
			}
			p, err := s.products.FindByNameTx(tx, it.ProductID)
			if err != nil {
				return notFound(err, fmt.Sprintf("Product with id %s not found", it.ProductID))
			}
			if p.StockLevel < it.Quantity {
				return apierror.InsufficientStock(fmt.Sprintf("Not enough stock for product %s", p.Name))
			}
			if _, err := s.ledger.apply(tx, stockChange{
				ProductID:     p.ID,
				ProductName:   p.Name,
				StockDelta:    -it.Quantity,
				ReservedDelta: it.Quantity,
				Quantity:      -it.Quantity,
				Type:          model.MovementReserve,
				Reason:        "order reserved",
				OrderID:       &order.ID,
			}); err != nil {
				return err
			}

			line := p.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
			order.Items = append(order.Items, model.OrderItem{
				ProductID: p.ID,
				Quantity:  it.Quantity,
				Price:     line,
			})
			order.TotalPrice = order.TotalPrice.Add(line)
			units += it.Quantity
		}
		return s.orders.CreateTx(tx, order)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordOrderEvent(ctx, string(EventReserve))
	s.metrics.RecordReserved(ctx, units)
	log.Info().Str("order_id", order.ID.String()).Int("units", units).Msg("order reserved")

	return &dto.ReserveResponse{
		Message: "Items reserved successfully. Waiting for admin approval.",
		OrderID: order.ID.String(),
	}, nil
}

// ── Approve / Reject / Cancel ────────────────────────────────────────────────

func (s *orderService) Approve(ctx context.Context, actor Actor, orderID uuid.UUID) error {
	if !s.az.Allows(actor.Role, authz.ModerateOrders) {
		return apierror.Forbidden("Not authorized")
	}
	order, err := s.transition(ctx, orderID, EventApprove, nil, nil)
	if err != nil {
		return notFound(err, "Reserved order not found")
	}
	s.notifyOwner(ctx, order, "Purchase Approved",
		fmt.Sprintf("Your purchase has been approved. Order ID: %s", order.ID))
	return nil
}

func (s *orderService) Reject(ctx context.Context, actor Actor, orderID uuid.UUID, reason string) error {
	if !s.az.Allows(actor.Role, authz.ModerateOrders) {
		return apierror.Forbidden("Not authorized")
	}
	order, err := s.transition(ctx, orderID, EventReject, &reason, nil)
	if err != nil {
		return notFound(err, "Reserved order not found")
	}
	body := fmt.Sprintf("Your purchase has been rejected. Order ID: %s", order.ID)
	if reason != "" {
		body += "\nReason: " + reason
	}
	s.notifyOwner(ctx, order, "Purchase Rejected", body)
	return nil
}

func (s *orderService) Cancel(ctx context.Context, actor Actor, orderID uuid.UUID) error {
	_, err := s.transition(ctx, orderID, EventCancel, nil, func(o *model.Order) error {
		if o.UserID != actor.UserID {
			return apierror.Forbidden("Not authorized to cancel this order")
		}
		return nil
	})
	return notFound(err, "Order not found")
}

// transition loads and locks the order, lets guard (if any) veto, then applies the
// FSM move and its stock effect in one transaction.
func (s *orderService) transition(
	ctx context.Context,
	orderID uuid.UUID,
	event OrderEvent,
	reason *string,
	guard func(*model.Order) error,
) (*model.Order, error) {
	var order *model.Order
	err := runTx(ctx, s.orders.DB(), func(tx *gorm.DB) error {
		o, err := s.orders.FindByIDForUpdateTx(tx, orderID)
		if err != nil {
			return err
		}
		if guard != nil {
			if err := guard(o); err != nil {
				return err
			}
		}
		t, err := nextState(event, o.Status)
		if err != nil {
			return err
		}
		for _, item := range o.Items {
			ch, ok := itemChange(t.effect, item)
			if !ok {
				continue
			}
			ch.OrderID = &o.ID
			ch.Reason = "order " + string(event)
			if _, err := s.ledger.apply(tx, ch); err != nil {
				return err
			}
		}
		if err := s.orders.UpdateStatusTx(tx, o.ID, o.Status, t.to, reason); err != nil {
			if errors.Is(err, repository.ErrStaleState) {
				return apierror.BadRequest("Order was modified concurrently, retry")
			}
			return err
		}
		o.Status = t.to
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.RecordOrderEvent(ctx, string(event))
	log.Info().Str("order_id", order.ID.String()).Str("event", string(event)).
		Str("status", string(order.Status)).Msg("order transition")
	return order, nil
}

// ── Reorder ──────────────────────────────────────────────────────────────────

func (s *orderService) Reorder(ctx context.Context, actor Actor, orderID uuid.UUID) (*dto.ReorderResponse, error) {
	src, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, notFound(err, "Order not found")
	}
	if src.UserID != actor.UserID {
		return nil, apierror.Forbidden("Not authorized to reorder this order")
	}
	if err := canReorder(src.Status); err != nil {
		return nil, err
	}

	order := &model.Order{
		ID:            uuid.New(),
		CustomerName:  src.CustomerName,
		UserID:        src.UserID,
		Status:        model.OrderPending,
		SourceOrderID: &src.ID,
		TotalPrice:    decimal.Zero,
	}
	for _, it := range src.Items {
		order.Items = append(order.Items, model.OrderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
		order.TotalPrice = order.TotalPrice.Add(it.Price)
	}

	if err := runTx(ctx, s.orders.DB(), func(tx *gorm.DB) error {
		return s.orders.CreateTx(tx, order)
	}); err != nil {
		return nil, err
	}
	s.metrics.RecordOrderEvent(ctx, string(EventReorder))
	return &dto.ReorderResponse{Message: "Order reordered successfully", NewOrderID: order.ID.String()}, nil
}

// ── Queries ──────────────────────────────────────────────────────────────────

func (s *orderService) ListReserved(ctx context.Context, actor Actor) ([]dto.OrderResponse, error) {
	if !s.az.Allows(actor.Role, authz.ModerateOrders) {
		return nil, apierror.Forbidden("Not authorized")
	}
	orders, err := s.orders.ListByStatus(ctx, model.OrderReserved)
	if err != nil {
		return nil, err
	}
	return toOrderResponses(orders), nil
}

func (s *orderService) ListAll(ctx context.Context, actor Actor) ([]dto.OrderResponse, error) {
	if !s.az.Allows(actor.Role, authz.ModerateOrders) {
		return nil, apierror.Forbidden("Not authorized")
	}
	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return toOrderResponses(orders), nil
}

func (s *orderService) ListMine(ctx context.Context, actor Actor) ([]dto.OrderResponse, error) {
	orders, err := s.orders.ListByUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return toOrderResponses(orders), nil
}

// notifyOwner queues an email to the order's owner. Failures are logged and
// never undo the transition that already committed.
func (s *orderService) notifyOwner(ctx context.Context, order *model.Order, subject, body string) {
	if s.notifier == nil {
		return
	}
	user, err := s.users.FindByID(ctx, order.UserID)
	if err != nil {
		log.Warn().Err(err).Str("order_id", order.ID.String()).Msg("order owner lookup failed, email skipped")
		return
	}
	if err := s.notifier.EnqueueEmail(ctx, worker.EmailJobPayload{
		To: []string{user.Email}, Subject: subject, Body: body,
	}); err != nil {
		log.Warn().Err(err).Str("order_id", order.ID.String()).Msg("enqueue order email failed")
	}
}

func toOrderResponses(orders []model.Order) []dto.OrderResponse {
	out := make([]dto.OrderResponse, len(orders))
	for i := range orders {
		out[i] = toOrderResponse(&orders[i])
	}
	return out
}

func toOrderResponse(o *model.Order) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, len(o.Items))
	for i, it := range o.Items {
		name := ""
		if it.Product != nil {
			name = it.Product.Name
		}
		items[i] = dto.OrderItemResponse{
			ProductID:   it.ProductID.String(),
			ProductName: name,
			Quantity:    it.Quantity,
			Price:       it.Price,
		}
	}
	return dto.OrderResponse{
		ID:              o.ID.String(),
		CustomerName:    o.CustomerName,
		UserID:          o.UserID.String(),
		TotalPrice:      o.TotalPrice,
		Status:          string(o.Status),
		RejectionReason: o.RejectionReason,
		SourceOrderID:   uuidPtrString(o.SourceOrderID),
		CreatedAt:       o.CreatedAt.Format(time.RFC3339),
		Items:           items,
	}
}
