package handler

import (
	"context"
	"net/http"

	"github.com/venky2821/finalproject/internal/apierror"
	"github.com/venky2821/finalproject/internal/dto"
	"github.com/venky2821/finalproject/internal/service"

	"github.com/gin-gonic/gin"
)

type OrdersHandler struct{ svc service.OrderService }

func NewOrdersHandler(svc service.OrderService) *OrdersHandler {
	return &OrdersHandler{svc: svc}
}

// Reserve godoc
// @Summary Reserve stock for a list of products
// @Tags orders
// @Accept json
// @Produce json
// @Param body body []dto.ReserveItem true "Lines keyed by product name"
// @Success 200 {object} dto.ReserveResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /reserve [post]
func (h *OrdersHandler) Reserve(c *gin.Context) {
	var items []dto.ReserveItem
	if err := c.ShouldBindJSON(&items); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid JSON: "+err.Error()))
		return
	}
	if !runValidation(c, validate.Var(items, "required,min=1,dive")) {
		return
	}
	resp, err := h.svc.Reserve(c.Request.Context(), actorFrom(c), items)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrdersHandler) Approve(c *gin.Context) {
	id, ok := uuidParam(c, "order_id", "Invalid order id")
	if !ok {
		return
	}
	if err := h.svc.Approve(c.Request.Context(), actorFrom(c), id); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Purchase approved successfully"})
}

func (h *OrdersHandler) Reject(c *gin.Context) {
	id, ok := uuidParam(c, "order_id", "Invalid order id")
	if !ok {
		return
	}
	var req dto.RejectOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Reject(c.Request.Context(), actorFrom(c), id, req.Reason); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Purchase rejected successfully"})
}

func (h *OrdersHandler) Cancel(c *gin.Context) {
	id, ok := uuidParam(c, "id", "Invalid order id")
	if !ok {
		return
	}
	if err := h.svc.Cancel(c.Request.Context(), actorFrom(c), id); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Order cancelled successfully."})
}

func (h *OrdersHandler) Reorder(c *gin.Context) {
	id, ok := uuidParam(c, "id", "Invalid order id")
	if !ok {
		return
	}
	resp, err := h.svc.Reorder(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrdersHandler) ListReserved(c *gin.Context) {
	h.list(c, h.svc.ListReserved)
}

func (h *OrdersHandler) ListAll(c *gin.Context) {
	h.list(c, h.svc.ListAll)
}

func (h *OrdersHandler) ListMine(c *gin.Context) {
	h.list(c, h.svc.ListMine)
}

func (h *OrdersHandler) list(c *gin.Context, fn func(context.Context, service.Actor) ([]dto.OrderResponse, error)) {
	resp, err := fn(c.Request.Context(), actorFrom(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
