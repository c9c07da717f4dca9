package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/venky2821/finalproject/internal/apierror"
	"github.com/venky2821/finalproject/internal/dto"
	"github.com/venky2821/finalproject/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ── Reviews ──────────────────────────────────────────────────────────────────

type ReviewsHandler struct{ svc service.ReviewService }

func NewReviewsHandler(svc service.ReviewService) *ReviewsHandler {
	return &ReviewsHandler{svc: svc}
}

// Upload takes a multipart form: rating, review_text and an optional
// review_photo.
func (h *ReviewsHandler) Upload(c *gin.Context) {
	rating, err := strconv.Atoi(c.PostForm("rating"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Rating must be between 1 and 5"))
		return
	}
	in := service.CreateReviewInput{Rating: rating, ReviewText: c.PostForm("review_text")}

	if fh, err := c.FormFile("review_photo"); err == nil {
		u, closer, err := openUpload(fh)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("Invalid image file"))
			return
		}
		defer closer.Close()
		in.Photo = &u
	}

	resp, err := h.svc.Create(c.Request.Context(), actorFrom(c), in)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReviewsHandler) ListApproved(c *gin.Context) {
	resp, err := h.svc.ListApproved(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReviewsHandler) ListAll(c *gin.Context) {
	resp, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReviewsHandler) Approve(c *gin.Context) {
	moderate(c, "Invalid review id", h.svc.Approve, "Review approved")
}

func (h *ReviewsHandler) Reject(c *gin.Context) {
	moderate(c, "Invalid review id", h.svc.Reject, "Review rejected")
}

// ── Photos ───────────────────────────────────────────────────────────────────

type PhotosHandler struct{ svc service.PhotoService }

func NewPhotosHandler(svc service.PhotoService) *PhotosHandler {
	return &PhotosHandler{svc: svc}
}

func (h *PhotosHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("uploaded_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("No files uploaded"))
		return
	}
	u, closer, err := openUpload(fh)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid image file"))
		return
	}
	defer closer.Close()

	resp, err := h.svc.Upload(c.Request.Context(), actorFrom(c), c.PostForm("category"), u)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PhotosHandler) ListApproved(c *gin.Context) {
	resp, err := h.svc.ListApproved(c.Request.Context(), c.Query("category"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PhotosHandler) ListAll(c *gin.Context) {
	resp, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PhotosHandler) Categories(c *gin.Context) {
	resp, err := h.svc.Categories(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PhotosHandler) Approve(c *gin.Context) {
	moderate(c, "Invalid photo id", h.svc.Approve, "Photo approved")
}

func (h *PhotosHandler) Reject(c *gin.Context) {
	moderate(c, "Invalid photo id", h.svc.Reject, "Photo rejected")
}

// moderate runs an approve/reject action on the :id path parameter.
func moderate(c *gin.Context, badID string, action func(context.Context, uuid.UUID) error, msg string) {
	id, ok := uuidParam(c, "id", badID)
	if !ok {
		return
	}
	if err := action(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: msg})
}

// ── Wishlist ─────────────────────────────────────────────────────────────────

type WishlistHandler struct{ svc service.WishlistService }

func NewWishlistHandler(svc service.WishlistService) *WishlistHandler {
	return &WishlistHandler{svc: svc}
}

func (h *WishlistHandler) Add(c *gin.Context) {
	id, ok := uuidParam(c, "product_id", "Invalid product id")
	if !ok {
		return
	}
	resp, err := h.svc.Add(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *WishlistHandler) Remove(c *gin.Context) {
	id, ok := uuidParam(c, "product_id", "Invalid product id")
	if !ok {
		return
	}
	resp, err := h.svc.Remove(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *WishlistHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context(), actorFrom(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
