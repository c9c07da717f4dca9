package handler

import (
	"io"
	"mime/multipart"
	"net/http"
	"reflect"

	"github.com/venky2821/finalproject/internal/apierror"
	"github.com/venky2821/finalproject/internal/middleware"
	"github.com/venky2821/finalproject/internal/model"
	"github.com/venky2821/finalproject/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid JSON: "+err.Error()))
		return false
	}
	return runValidation(c, validate.Struct(req))
}

// bindQuery is bindAndValidate for query strings.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid query: "+err.Error()))
		return false
	}
	return runValidation(c, validate.Struct(req))
}

func runValidation(c *gin.Context, err error) bool {
	if err == nil {
		return true
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return false
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
	return false
}

// respondErr writes client errors raised by the service layer and hands
// everything else to middleware.ErrorHandler.
func respondErr(c *gin.Context, err error) {
	if e, ok := apierror.As(err); ok {
		c.JSON(e.Status, apierror.New(e.Detail))
		return
	}
	_ = c.Error(err)
}

// actorFrom builds the service-level caller from the validated token.
func actorFrom(c *gin.Context) service.Actor {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return service.Actor{}
	}
	id, _ := uuid.Parse(claims.UserID)
	return service.Actor{
		UserID:   id,
		Email:    claims.Subject,
		Username: claims.Username,
		Role:     model.RoleID(claims.RoleID),
	}
}

func uuidParam(c *gin.Context, name, detail string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(detail))
		return uuid.Nil, false
	}
	return id, true
}

// openUpload adapts a multipart part to service.Upload. The caller closes
// the returned file.
func openUpload(fh *multipart.FileHeader) (service.Upload, io.Closer, error) {
	f, err := fh.Open()
	if err != nil {
		return service.Upload{}, nil, err
	}
	return service.Upload{Filename: fh.Filename, Body: f}, f, nil
}
