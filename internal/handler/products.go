package handler

import (
	"net/http"

	"github.com/venky2821/finalproject/internal/apierror"
	"github.com/venky2821/finalproject/internal/dto"
	"github.com/venky2821/finalproject/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductsHandler struct{ svc service.ProductService }

func NewProductsHandler(svc service.ProductService) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

func (h *ProductsHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
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

func (h *ProductsHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductsHandler) GetByName(c *gin.Context) {
	resp, err := h.svc.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductsHandler) UpdateQuantity(c *gin.Context) {
	var req dto.UpdateQuantityRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateQuantity(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UploadImages attaches every multipart "files" part to the product.
func (h *ProductsHandler) UploadImages(c *gin.Context) {
	id, ok := uuidParam(c, "id", "Invalid product id")
	if !ok {
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("No files uploaded"))
		return
	}

	headers := form.File["files"]
	uploads := make([]service.Upload, 0, len(headers))
	for _, fh := range headers {
		u, closer, err := openUpload(fh)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("Invalid image file"))
			return
		}
		defer closer.Close()
		uploads = append(uploads, u)
	}

	resp, err := h.svc.UploadImages(c.Request.Context(), id, uploads)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductsHandler) UploadImage(c *gin.Context) {
	fh, err := c.FormFile("file")
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

	resp, err := h.svc.UploadImage(c.Request.Context(), actorFrom(c), u)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
