package handler

import (
	"net/http"

	"github.com/venky2821/finalproject/internal/apierror"
	"github.com/venky2821/finalproject/internal/dto"
	"github.com/venky2821/finalproject/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Login godoc
// @Summary Exchange credentials for an access token
// @Tags auth
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Param username formData string true "Email"
// @Param password formData string true "Password"
// @Success 200 {object} dto.TokenResponse
// @Failure 401 {object} apierror.APIError
// @Router /token [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	// ShouldBind picks the form or JSON binding from Content-Type.
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid credentials payload"))
		return
	}
	if !runValidation(c, validate.Struct(&req)) {
		return
	}

	meta := service.LoginMeta{IPAddress: c.ClientIP(), UserAgent: c.Request.UserAgent()}
	resp, err := h.svc.Login(c.Request.Context(), req, meta)
	if err != nil {
		if _, ok := apierror.As(err); ok {
			c.Header("WWW-Authenticate", "Bearer")
		}
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Register godoc
// @Summary Create a customer account
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RegisterRequest true "New user"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} apierror.APIError
// @Router /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ForgotPassword(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ChangePassword(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Me(c *gin.Context) {
	resp, err := h.svc.Me(c.Request.Context(), actorFrom(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) LoginActivity(c *gin.Context) {
	resp, err := h.svc.LoginActivity(c.Request.Context(), actorFrom(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
