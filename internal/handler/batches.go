package handler

import (
	"net/http"
	"strconv"

	"github.com/venky2821/finalproject/internal/apierror"
	"github.com/venky2821/finalproject/internal/dto"
	"github.com/venky2821/finalproject/internal/service"

	"github.com/gin-gonic/gin"
)

const defaultExpiringDays = 30

type BatchesHandler struct{ svc service.BatchService }

func NewBatchesHandler(svc service.BatchService) *BatchesHandler {
	return &BatchesHandler{svc: svc}
}

func (h *BatchesHandler) Create(c *gin.Context) {
	var req dto.CreateBatchRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BatchesHandler) List(c *gin.Context) {
	var f dto.BatchFilter
	if !bindQuery(c, &f) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), f)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BatchesHandler) ListByProduct(c *gin.Context) {
	id, ok := uuidParam(c, "product_id", "Invalid product id")
	if !ok {
		return
	}
	resp, err := h.svc.ListByProduct(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BatchesHandler) ExpiringSoon(c *gin.Context) {
	days := defaultExpiringDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, apierror.New("days must be a non-negative integer"))
			return
		}
		days = n
	}

	batches, err := h.svc.ExpiringSoon(c.Request.Context(), days)
	if err != nil {
		respondErr(c, err)
		return
	}
	if len(batches) == 0 {
		c.JSON(http.StatusOK, dto.MessageResponse{Message: "No batches expiring soon"})
		return
	}
	c.JSON(http.StatusOK, dto.ExpiringBatchesResponse{ExpiringBatches: batches})
}

func (h *BatchesHandler) ProductsForBatch(c *gin.Context) {
	resp, err := h.svc.ProductsForBatch(c.Request.Context(), c.Param("batch_number"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AgingReport godoc
// @Summary Batch aging report over a received_date window
// @Tags reports
// @Produce json
// @Param start_date query string false "YYYY-MM-DD"
// @Param end_date query string false "YYYY-MM-DD"
// @Success 200 {object} dto.AgingReportResponse
// @Failure 400 {object} apierror.APIError
// @Router /reports/batch-aging [get]
func (h *BatchesHandler) AgingReport(c *gin.Context) {
	var r dto.DateRange
	if !bindQuery(c, &r) {
		return
	}
	resp, err := h.svc.AgingReport(c.Request.Context(), r)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
