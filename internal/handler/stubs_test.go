package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/venky2821/finalproject/internal/dto"
	"github.com/venky2821/finalproject/internal/middleware"
	"github.com/venky2821/finalproject/internal/model"
	"github.com/venky2821/finalproject/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ── Engine helpers ────────────────────────────────────────────────────────────

var errBoom = errors.New("boom")

var testUserID = uuid.MustParse("8d7f2c52-2d57-4f0e-9a51-0c7c3f7f1a01")

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	return r
}

// asUser stands in for JWTAuth.
func asUser(role model.RoleID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ClaimsKey, &middleware.JWTClaims{
			UserID:           testUserID.String(),
			Username:         "alice",
			RoleID:           int(role),
			RegisteredClaims: jwt.RegisteredClaims{Subject: "alice@example.com"},
		})
		c.Next()
	}
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ── Service stubs ─────────────────────────────────────────────────────────────

type stubOrderService struct {
	reserveItems []dto.ReserveItem
	actor        service.Actor
	rejectReason string
	err          error
}

func (s *stubOrderService) Reserve(_ context.Context, a service.Actor, items []dto.ReserveItem) (*dto.ReserveResponse, error) {
	s.actor, s.reserveItems = a, items
	if s.err != nil {
		return nil, s.err
	}
	return &dto.ReserveResponse{Message: "Items reserved successfully. Waiting for admin approval.", OrderID: "o-1"}, nil
}

func (s *stubOrderService) Approve(_ context.Context, a service.Actor, _ uuid.UUID) error {
	s.actor = a
	return s.err
}

func (s *stubOrderService) Reject(_ context.Context, a service.Actor, _ uuid.UUID, reason string) error {
	s.actor, s.rejectReason = a, reason
	return s.err
}

func (s *stubOrderService) Cancel(_ context.Context, a service.Actor, _ uuid.UUID) error {
	s.actor = a
	return s.err
}

func (s *stubOrderService) Reorder(_ context.Context, a service.Actor, _ uuid.UUID) (*dto.ReorderResponse, error) {
	s.actor = a
	if s.err != nil {
		return nil, s.err
	}
	return &dto.ReorderResponse{Message: "Order reordered successfully", NewOrderID: "o-2"}, nil
}

func (s *stubOrderService) ListReserved(context.Context, service.Actor) ([]dto.OrderResponse, error) {
	return []dto.OrderResponse{{ID: "o-1", Status: "reserved"}}, s.err
}

func (s *stubOrderService) ListAll(context.Context, service.Actor) ([]dto.OrderResponse, error) {
	return []dto.OrderResponse{}, s.err
}

func (s *stubOrderService) ListMine(_ context.Context, a service.Actor) ([]dto.OrderResponse, error) {
	s.actor = a
	return []dto.OrderResponse{}, s.err
}

type stubBatchService struct {
	days     int
	expiring []dto.BatchResponse
	filter   dto.BatchFilter
	err      error
}

func (s *stubBatchService) Create(context.Context, dto.CreateBatchRequest) (*dto.CreateBatchResponse, error) {
	return &dto.CreateBatchResponse{Message: "Batch created successfully"}, s.err
}

func (s *stubBatchService) List(_ context.Context, f dto.BatchFilter) ([]dto.BatchResponse, error) {
	s.filter = f
	return []dto.BatchResponse{}, s.err
}

func (s *stubBatchService) ListByProduct(context.Context, uuid.UUID) ([]dto.BatchResponse, error) {
	return nil, s.err
}

func (s *stubBatchService) ExpiringSoon(_ context.Context, days int) ([]dto.BatchResponse, error) {
	s.days = days
	return s.expiring, s.err
}

func (s *stubBatchService) ProductsForBatch(context.Context, string) ([]dto.ProductResponse, error) {
	return nil, s.err
}

func (s *stubBatchService) AgingReport(context.Context, dto.DateRange) (*dto.AgingReportResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.AgingReportResponse{AgingReport: []dto.AgingReportRow{}}, nil
}

type stubReportService struct {
	reportType, format string
	rng                dto.DateRange
	err                error
}

func (s *stubReportService) TopSelling(_ context.Context, r dto.DateRange) (*dto.TopSellingResponse, error) {
	s.rng = r
	return &dto.TopSellingResponse{TopSellingProducts: []dto.TopSellingItem{{Name: "Mug", TotalSold: 4}}}, s.err
}

func (s *stubReportService) StockTurnover(context.Context, dto.DateRange) (*dto.TurnoverResponse, error) {
	return &dto.TurnoverResponse{}, s.err
}

func (s *stubReportService) ProfitAnalysis(context.Context, dto.DateRange) (*dto.ProfitResponse, error) {
	return &dto.ProfitResponse{}, s.err
}

func (s *stubReportService) Overview(context.Context, dto.DateRange) (*dto.OverviewResponse, error) {
	return &dto.OverviewResponse{}, s.err
}

func (s *stubReportService) ExportProfit(_ context.Context, format string, r dto.DateRange) (*service.ExportFile, error) {
	s.format, s.rng = format, r
	if s.err != nil {
		return nil, s.err
	}
	return &service.ExportFile{Filename: "report." + format, ContentType: "text/csv", Data: []byte("a,b\n")}, nil
}

func (s *stubReportService) Export(_ context.Context, reportType, format string, r dto.DateRange) (*service.ExportFile, error) {
	s.reportType, s.format, s.rng = reportType, format, r
	if s.err != nil {
		return nil, s.err
	}
	return &service.ExportFile{
		Filename:    "stock_turnover_2024-01-01_2024-01-31.pdf",
		ContentType: "application/pdf",
		Data:        []byte("%PDF-1.3"),
	}, nil
}

type stubAuthService struct {
	login dto.LoginRequest
	meta  service.LoginMeta
	actor service.Actor
	err   error
}

func (s *stubAuthService) Login(_ context.Context, req dto.LoginRequest, meta service.LoginMeta) (*dto.TokenResponse, error) {
	s.login, s.meta = req, meta
	if s.err != nil {
		return nil, s.err
	}
	return &dto.TokenResponse{AccessToken: "tok", TokenType: "bearer", ExpiresIn: 1800}, nil
}

func (s *stubAuthService) Register(_ context.Context, req dto.RegisterRequest) (*dto.UserResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.UserResponse{Email: req.Email, Username: req.Username, RoleID: 2}, nil
}

func (s *stubAuthService) ForgotPassword(context.Context, dto.ForgotPasswordRequest) (*dto.MessageResponse, error) {
	return &dto.MessageResponse{Message: "Password reset link sent!"}, s.err
}

func (s *stubAuthService) ChangePassword(context.Context, dto.ChangePasswordRequest) (*dto.MessageResponse, error) {
	return &dto.MessageResponse{Message: "Password has been successfully changed"}, s.err
}

func (s *stubAuthService) Me(_ context.Context, a service.Actor) (*dto.UserResponse, error) {
	s.actor = a
	return &dto.UserResponse{ID: a.UserID.String(), Email: a.Email}, s.err
}

func (s *stubAuthService) LoginActivity(_ context.Context, a service.Actor) ([]dto.LoginActivityResponse, error) {
	s.actor = a
	return []dto.LoginActivityResponse{}, s.err
}

type stubPhotoService struct {
	category string
	filename string
	body     string
	approved uuid.UUID
	err      error
}

func (s *stubPhotoService) Upload(_ context.Context, _ service.Actor, category string, f service.Upload) (*dto.PhotoUploadResponse, error) {
	s.category, s.filename = category, f.Filename
	b, _ := io.ReadAll(f.Body)
	s.body = string(b)
	if s.err != nil {
		return nil, s.err
	}
	return &dto.PhotoUploadResponse{Message: "Photo uploaded successfully", PhotoID: "p-1"}, nil
}

func (s *stubPhotoService) ListApproved(_ context.Context, category string) ([]dto.PhotoResponse, error) {
	s.category = category
	return []dto.PhotoResponse{}, s.err
}

func (s *stubPhotoService) ListAll(context.Context) ([]dto.PhotoResponse, error) {
	return []dto.PhotoResponse{}, s.err
}

func (s *stubPhotoService) Approve(_ context.Context, id uuid.UUID) error {
	s.approved = id
	return s.err
}

func (s *stubPhotoService) Reject(context.Context, uuid.UUID) error { return s.err }

func (s *stubPhotoService) Categories(context.Context) ([]string, error) {
	return []string{"events"}, s.err
}

type stubReviewService struct {
	in  service.CreateReviewInput
	err error
}

func (s *stubReviewService) Create(_ context.Context, _ service.Actor, in service.CreateReviewInput) (*dto.CreateReviewResponse, error) {
	s.in = in
	if s.err != nil {
		return nil, s.err
	}
	return &dto.CreateReviewResponse{Message: "Review submitted successfully"}, nil
}

func (s *stubReviewService) ListApproved(context.Context) ([]dto.ReviewResponse, error) {
	return []dto.ReviewResponse{}, s.err
}

func (s *stubReviewService) ListAll(context.Context) ([]dto.ReviewResponse, error) {
	return []dto.ReviewResponse{}, s.err
}

func (s *stubReviewService) Approve(context.Context, uuid.UUID) error { return s.err }
func (s *stubReviewService) Reject(context.Context, uuid.UUID) error  { return s.err }

type stubWishlistService struct {
	product uuid.UUID
	err     error
}

func (s *stubWishlistService) Add(_ context.Context, _ service.Actor, id uuid.UUID) (*dto.MessageResponse, error) {
	s.product = id
	if s.err != nil {
		return nil, s.err
	}
	return &dto.MessageResponse{Message: "Product added to wishlist"}, nil
}

func (s *stubWishlistService) Remove(_ context.Context, _ service.Actor, id uuid.UUID) (*dto.MessageResponse, error) {
	s.product = id
	if s.err != nil {
		return nil, s.err
	}
	return &dto.MessageResponse{Message: "Item removed from wishlist"}, nil
}

func (s *stubWishlistService) List(context.Context, service.Actor) ([]dto.WishlistItemResponse, error) {
	return []dto.WishlistItemResponse{}, s.err
}
