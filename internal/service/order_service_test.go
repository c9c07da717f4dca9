package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/venky2821/finalproject/internal/apierror"
	"github.com/venky2821/finalproject/internal/authz"
	"github.com/venky2821/finalproject/internal/dto"
	"github.com/venky2821/finalproject/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	svc       OrderService
	products  *stubProductRepo
	orders    *stubOrderRepo
	movements *stubMovementRepo
	users     *stubUserRepo
	notifier  *stubNotifier
	customer  Actor
	admin     Actor
	mug       *model.Product
	shirt     *model.Product
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	f := &orderFixture{
		products:  newStubProductRepo(),
		movements: &stubMovementRepo{},
		users:     newStubUserRepo(),
		notifier:  &stubNotifier{},
	}
	f.orders = newStubOrderRepo(f.products)
	f.svc = NewOrderService(f.orders, f.products, f.movements, f.users, authz.Default(), f.notifier, nil)

	buyer := &model.User{Email: "buyer@example.com", Username: "buyer", RoleID: model.RoleCustomer}
	require.NoError(t, f.users.Create(context.Background(), buyer))
	f.customer = Actor{UserID: buyer.ID, Email: buyer.Email, Username: buyer.Username, Role: model.RoleCustomer}
	f.admin = Actor{UserID: uuid.New(), Email: "admin@example.com", Username: "admin", Role: model.RoleAdmin}

	f.mug = f.products.add(model.Product{Name: "Mug", StockLevel: 10, Price: decimal.NewFromFloat(12.50)})
	f.shirt = f.products.add(model.Product{Name: "Shirt", StockLevel: 3, Price: decimal.NewFromInt(20)})
	return f
}

func (f *orderFixture) stock(id uuid.UUID) (int, int) {
	p := f.products.byID[id]
	return p.StockLevel, p.ReservedStock
}

func (f *orderFixture) reserve(t *testing.T, items ...dto.ReserveItem) uuid.UUID {
	t.Helper()
	resp, err := f.svc.Reserve(context.Background(), f.customer, items)
	require.NoError(t, err)
	id, err := uuid.Parse(resp.OrderID)
	require.NoError(t, err)
	return id
}

func assertStatus(t *testing.T, err error, status int, detail string) {
	t.Helper()
	require.Error(t, err)
	e, ok := apierror.As(err)
	require.True(t, ok, "expected apierror, got %v", err)
	assert.Equal(t, status, e.Status)
	if detail != "" {
		assert.Equal(t, detail, e.Detail)
	}
}

// ── Reserve ──────────────────────────────────────────────────────────────────

func TestReserve_HoldsStockAndPricesLines(t *testing.T) {
	f := newOrderFixture(t)

	resp, err := f.svc.Reserve(context.Background(), f.customer, []dto.ReserveItem{
		{ProductID: "Mug", Quantity: 2},
		{ProductID: "Shirt", Quantity: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, "Items reserved successfully. Waiting for admin approval.", resp.Message)

	id := uuid.MustParse(resp.OrderID)
	o := f.orders.byID[id]
	require.NotNil(t, o)
	assert.Equal(t, model.OrderReserved, o.Status)
	assert.Equal(t, "buyer", o.CustomerName)
	assert.True(t, decimal.NewFromInt(45).Equal(o.TotalPrice), "total %s", o.TotalPrice)
	require.Len(t, o.Items, 2)
	assert.True(t, decimal.NewFromInt(25).Equal(o.Items[0].Price))

	stock, reserved := f.stock(f.mug.ID)
	assert.Equal(t, 8, stock)
	assert.Equal(t, 2, reserved)

	moves := f.movements.ofType(model.MovementReserve)
	require.Len(t, moves, 2)
	assert.Equal(t, -2, moves[0].Quantity)
	assert.Equal(t, 10, moves[0].StockBefore)
	assert.Equal(t, 8, moves[0].StockAfter)
	assert.Equal(t, &id, moves[0].OrderID)
}

func TestReserve_UnknownProduct(t *testing.T) {
	f := newOrderFixture(t)
	_, err := f.svc.Reserve(context.Background(), f.customer, []dto.ReserveItem{{ProductID: "Hat", Quantity: 1}})
	assertStatus(t, err, http.StatusNotFound, "Product with id Hat not found")
}

func TestReserve_InsufficientStockCreatesNoOrder(t *testing.T) {
	f := newOrderFixture(t)
	_, err := f.svc.Reserve(context.Background(), f.customer, []dto.ReserveItem{
		{ProductID: "Mug", Quantity: 1},
		{ProductID: "Shirt", Quantity: 4},
	})
	assertStatus(t, err, http.StatusBadRequest, "Not enough stock for product Shirt")
	assert.Empty(t, f.orders.byID)
}

func TestReserve_EmptyItems(t *testing.T) {
	f := newOrderFixture(t)
	_, err := f.svc.Reserve(context.Background(), f.customer, nil)
	assertStatus(t, err, http.StatusBadRequest, "")
}

// ── Approve / Reject ─────────────────────────────────────────────────────────

func TestApprove_CommitsReservedStock(t *testing.T) {
	f := newOrderFixture(t)
	id := f.reserve(t, dto.ReserveItem{ProductID: "Mug", Quantity: 4})

	require.NoError(t, f.svc.Approve(context.Background(), f.admin, id))

	assert.Equal(t, model.OrderCompleted, f.orders.byID[id].Status)
	stock, reserved := f.stock(f.mug.ID)
	assert.Equal(t, 6, stock)
	assert.Equal(t, 0, reserved)

	sales := f.movements.ofType(model.MovementSale)
	require.Len(t, sales, 1)
	assert.Equal(t, -4, sales[0].Quantity)
	assert.Equal(t, 4, sales[0].StockBefore)
	assert.Equal(t, 0, sales[0].StockAfter)

	assert.Equal(t, []string{"Purchase Approved"}, f.notifier.subjects())
	assert.Equal(t, []string{"buyer@example.com"}, f.notifier.sent[0].To)
}

func TestApprove_RequiresCapability(t *testing.T) {
	f := newOrderFixture(t)
	id := f.reserve(t, dto.ReserveItem{ProductID: "Mug", Quantity: 1})

	err := f.svc.Approve(context.Background(), f.customer, id)
	assertStatus(t, err, http.StatusForbidden, "Not authorized")
	assert.Equal(t, model.OrderReserved, f.orders.byID[id].Status)
}

func TestApprove_OnlyReservedOrders(t *testing.T) {
	f := newOrderFixture(t)
	id := f.reserve(t, dto.ReserveItem{ProductID: "Mug", Quantity: 1})
	require.NoError(t, f.svc.Approve(context.Background(), f.admin, id))

	err := f.svc.Approve(context.Background(), f.admin, id)
	assertStatus(t, err, http.StatusNotFound, "Reserved order not found")

	err = f.svc.Approve(context.Background(), f.admin, uuid.New())
	assertStatus(t, err, http.StatusNotFound, "Reserved order not found")
}

func TestReject_RestoresStock(t *testing.T) {
	f := newOrderFixture(t)
	id := f.reserve(t, dto.ReserveItem{ProductID: "Shirt", Quantity: 3})

	require.NoError(t, f.svc.Reject(context.Background(), f.admin, id, "out of season"))

	o := f.orders.byID[id]
	assert.Equal(t, model.OrderRejected, o.Status)
	require.NotNil(t, o.RejectionReason)
	assert.Equal(t, "out of season", *o.RejectionReason)

	stock, reserved := f.stock(f.shirt.ID)
	assert.Equal(t, 3, stock)
	assert.Equal(t, 0, reserved)
	assert.Len(t, f.movements.ofType(model.MovementRelease), 1)
	assert.Equal(t, []string{"Purchase Rejected"}, f.notifier.subjects())
}

// ── Cancel ───────────────────────────────────────────────────────────────────

func TestCancel_ReservedReleasesStockLikeReject(t *testing.T) {
	f := newOrderFixture(t)
	id := f.reserve(t, dto.ReserveItem{ProductID: "Mug", Quantity: 5})

	require.NoError(t, f.svc.Cancel(context.Background(), f.customer, id))

	assert.Equal(t, model.OrderCancelled, f.orders.byID[id].Status)
	stock, reserved := f.stock(f.mug.ID)
	assert.Equal(t, 10, stock)
	assert.Equal(t, 0, reserved)
	release := f.movements.ofType(model.MovementRelease)
	require.Len(t, release, 1)
	assert.Equal(t, 5, release[0].Quantity)
}

func TestCancel_OwnerOnly(t *testing.T) {
	f := newOrderFixture(t)
	id := f.reserve(t, dto.ReserveItem{ProductID: "Mug", Quantity: 1})

	err := f.svc.Cancel(context.Background(), f.admin, id)
	assertStatus(t, err, http.StatusForbidden, "Not authorized to cancel this order")
}

func TestCancel_CompletedRefused(t *testing.T) {
	f := newOrderFixture(t)
	id := f.reserve(t, dto.ReserveItem{ProductID: "Mug", Quantity: 1})
	require.NoError(t, f.svc.Approve(context.Background(), f.admin, id))

	err := f.svc.Cancel(context.Background(), f.customer, id)
	assertStatus(t, err, http.StatusBadRequest, "Only pending orders can be cancelled.")
}

func TestCancel_UnknownOrder(t *testing.T) {
	f := newOrderFixture(t)
	err := f.svc.Cancel(context.Background(), f.customer, uuid.New())
	assertStatus(t, err, http.StatusNotFound, "Order not found")
}

// ── Reorder ──────────────────────────────────────────────────────────────────

func TestReorder_CopiesCompletedOrderWithoutTouchingStock(t *testing.T) {
	f := newOrderFixture(t)
	id := f.reserve(t,
		dto.ReserveItem{ProductID: "Mug", Quantity: 2},
		dto.ReserveItem{ProductID: "Shirt", Quantity: 1},
	)
	require.NoError(t, f.svc.Approve(context.Background(), f.admin, id))
	stockBefore, _ := f.stock(f.mug.ID)
	movesBefore := len(f.movements.rows)

	resp, err := f.svc.Reorder(context.Background(), f.customer, id)
	require.NoError(t, err)
	assert.Equal(t, "Order reordered successfully", resp.Message)

	n := f.orders.byID[uuid.MustParse(resp.NewOrderID)]
	require.NotNil(t, n)
	assert.Equal(t, model.OrderPending, n.Status)
	require.NotNil(t, n.SourceOrderID)
	assert.Equal(t, id, *n.SourceOrderID)

	sum := decimal.Zero
	for _, it := range n.Items {
		sum = sum.Add(it.Price)
	}
	assert.True(t, sum.Equal(n.TotalPrice))
	assert.True(t, f.orders.byID[id].TotalPrice.Equal(n.TotalPrice))

	stockAfter, _ := f.stock(f.mug.ID)
	assert.Equal(t, stockBefore, stockAfter)
	assert.Len(t, f.movements.rows, movesBefore)
}

func TestReorder_OnlyCompleted(t *testing.T) {
	f := newOrderFixture(t)
	id := f.reserve(t, dto.ReserveItem{ProductID: "Mug", Quantity: 1})

	_, err := f.svc.Reorder(context.Background(), f.customer, id)
	assertStatus(t, err, http.StatusBadRequest, "Only completed orders can be reordered.")
}

func TestCancel_PendingReorderTouchesNoStock(t *testing.T) {
	f := newOrderFixture(t)
	id := f.reserve(t, dto.ReserveItem{ProductID: "Mug", Quantity: 2})
	require.NoError(t, f.svc.Approve(context.Background(), f.admin, id))
	resp, err := f.svc.Reorder(context.Background(), f.customer, id)
	require.NoError(t, err)
	movesBefore := len(f.movements.rows)

	require.NoError(t, f.svc.Cancel(context.Background(), f.customer, uuid.MustParse(resp.NewOrderID)))
	assert.Len(t, f.movements.rows, movesBefore)
}

// ── Queries ──────────────────────────────────────────────────────────────────

func TestListReserved_RequiresModerator(t *testing.T) {
	f := newOrderFixture(t)
	f.reserve(t, dto.ReserveItem{ProductID: "Mug", Quantity: 1})

	_, err := f.svc.ListReserved(context.Background(), f.customer)
	assertStatus(t, err, http.StatusForbidden, "Not authorized")

	list, err := f.svc.ListReserved(context.Background(), f.admin)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Len(t, list[0].Items, 1)
	assert.Equal(t, "Mug", list[0].Items[0].ProductName)
}

func TestListMine_OnlyOwnOrders(t *testing.T) {
	f := newOrderFixture(t)
	f.reserve(t, dto.ReserveItem{ProductID: "Mug", Quantity: 1})

	mine, err := f.svc.ListMine(context.Background(), f.customer)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := f.svc.ListMine(context.Background(), f.admin)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

// ── State table ──────────────────────────────────────────────────────────────

func TestNextState_Table(t *testing.T) {
	cases := []struct {
		event  OrderEvent
		from   model.OrderStatus
		to     model.OrderStatus
		effect stockEffect
		ok     bool
	}{
		{EventApprove, model.OrderReserved, model.OrderCompleted, effectCommit, true},
		{EventReject, model.OrderReserved, model.OrderRejected, effectRelease, true},
		{EventCancel, model.OrderReserved, model.OrderCancelled, effectRelease, true},
		{EventCancel, model.OrderPending, model.OrderCancelled, effectNone, true},
		{EventCancel, model.OrderCompleted, "", effectNone, false},
		{EventApprove, model.OrderPending, "", effectNone, false},
		{EventReject, model.OrderCancelled, "", effectNone, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.event)+"_"+string(tc.from), func(t *testing.T) {
			tr, err := nextState(tc.event, tc.from)
			if !tc.ok {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.to, tr.to)
			assert.Equal(t, tc.effect, tr.effect)
		})
	}
}
