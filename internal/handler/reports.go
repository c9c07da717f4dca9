package handler

import (
	"net/http"

	"github.com/venky2821/finalproject/internal/dto"
	"github.com/venky2821/finalproject/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

func (h *ReportsHandler) TopSelling(c *gin.Context) {
	var r dto.DateRange
	if !bindQuery(c, &r) {
		return
	}
	resp, err := h.svc.TopSelling(c.Request.Context(), r)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportsHandler) StockTurnover(c *gin.Context) {
	var r dto.DateRange
	if !bindQuery(c, &r) {
		return
	}
	resp, err := h.svc.StockTurnover(c.Request.Context(), r)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportsHandler) ProfitAnalysis(c *gin.Context) {
	var r dto.DateRange
	if !bindQuery(c, &r) {
		return
	}
	resp, err := h.svc.ProfitAnalysis(c.Request.Context(), r)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportsHandler) Overview(c *gin.Context) {
	var r dto.DateRange
	if !bindQuery(c, &r) {
		return
	}
	resp, err := h.svc.Overview(c.Request.Context(), r)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExportProfit godoc
// @Summary Download the profit analysis
// @Tags reports
// @Produce text/csv,application/pdf
// @Param format path string true "csv or pdf"
// @Param start_date query string false "YYYY-MM-DD"
// @Param end_date query string false "YYYY-MM-DD"
// @Success 200 {file} file
// @Failure 400 {object} apierror.APIError
// @Router /reports/export/{format} [get]
func (h *ReportsHandler) ExportProfit(c *gin.Context) {
	var r dto.DateRange
	if !bindQuery(c, &r) {
		return
	}
	file, err := h.svc.ExportProfit(c.Request.Context(), c.Param("format"), r)
	if err != nil {
		respondErr(c, err)
		return
	}
	sendFile(c, file)
}

func (h *ReportsHandler) Export(c *gin.Context) {
	var r dto.DateRange
	if !bindQuery(c, &r) {
		return
	}
	file, err := h.svc.Export(c.Request.Context(), c.Param("report_type"), c.Param("format"), r)
	if err != nil {
		respondErr(c, err)
		return
	}
	sendFile(c, file)
}

func sendFile(c *gin.Context, f *service.ExportFile) {
	c.Header("Content-Disposition", "attachment; filename="+f.Filename)
	c.Data(http.StatusOK, f.ContentType, f.Data)
}

// ── Stock ledger ─────────────────────────────────────────────────────────────

type StockHandler struct{ svc service.StockService }

func NewStockHandler(svc service.StockService) *StockHandler {
	return &StockHandler{svc: svc}
}

func (h *StockHandler) ListMovements(c *gin.Context) {
	var f dto.StockMovementFilter
	if !bindQuery(c, &f) {
		return
	}
	resp, err := h.svc.ListMovements(c.Request.Context(), f)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
