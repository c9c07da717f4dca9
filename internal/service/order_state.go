package service

import (
	"github.com/venky2821/finalproject/internal/apierror"
	"github.com/venky2821/finalproject/internal/model"
)

// OrderEvent names a transition of the order lifecycle.
type OrderEvent string

const (
	EventReserve OrderEvent = "reserve"
	EventApprove OrderEvent = "approve"
	EventReject  OrderEvent = "reject"
	EventCancel  OrderEvent = "cancel"
	EventReorder OrderEvent = "reorder"
)

// stockEffect is what a transition does to the counters of every item.
type stockEffect int

const (
	effectNone stockEffect = iota
	// reserved_stock -= q (units leave the shop)
	effectCommit
	// reserved_stock -= q, stock_level += q
	effectRelease
)

type transition struct {
	to     model.OrderStatus
	effect stockEffect
}

// orderTransitions is the whole state machine for existing orders. Reserve
// creates an order straight into OrderReserved and reorder spawns a new
// pending order, so neither appears here.
var orderTransitions = map[OrderEvent]map[model.OrderStatus]transition{
	EventApprove: {
		model.OrderReserved: {to: model.OrderCompleted, effect: effectCommit},
	},
	EventReject: {
		model.OrderReserved: {to: model.OrderRejected, effect: effectRelease},
	},
	EventCancel: {
		model.OrderReserved:  {to: model.OrderCancelled, effect: effectRelease},
		model.OrderPending:   {to: model.OrderCancelled, effect: effectNone},
		model.OrderRejected:  {to: model.OrderCancelled, effect: effectNone},
		model.OrderCancelled: {to: model.OrderCancelled, effect: effectNone},
	},
}

// nextState looks up the transition for event from the order's current
// status. The error is the one the caller reports when the move is illegal.
func nextState(event OrderEvent, from model.OrderStatus) (transition, error) {
	if t, ok := orderTransitions[event][from]; ok {
		return t, nil
	}
	switch event {
	case EventApprove, EventReject:
		return transition{}, apierror.NotFound("Reserved order not found")
	case EventCancel:
		return transition{}, apierror.BadRequest("Only pending orders can be cancelled.")
	default:
		return transition{}, apierror.BadRequest("Invalid order transition")
	}
}

// canReorder reports whether a new order may be copied from one in status s.
func canReorder(s model.OrderStatus) error {
	if s != model.OrderCompleted {
		return apierror.BadRequest("Only completed orders can be reordered.")
	}
	return nil
}

// itemChange converts one order line into the stock change an effect implies.
func itemChange(effect stockEffect, item model.OrderItem) (stockChange, bool) {
	ch := stockChange{ProductID: item.ProductID}
	if item.Product != nil {
		ch.ProductName = item.Product.Name
	}
	q := item.Quantity
	switch effect {
	case effectCommit:
		ch.ReservedDelta = -q
		ch.Quantity = -q
		ch.Type = model.MovementSale
	case effectRelease:
		ch.StockDelta = q
		ch.ReservedDelta = -q
		ch.Quantity = q
		ch.Type = model.MovementRelease
	default:
		return ch, false
	}
	return ch, true
}
