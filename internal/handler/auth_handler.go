package handler

import (
	"net/http"

	"github.com/JohnShema/BE-Capstone-project/internal/dto"
	"github.com/JohnShema/BE-Capstone-project/internal/models"
	"github.com/JohnShema/BE-Capstone-project/internal/service"
	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	svc service.AuthService
}

func NewAuthHandler(svc service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo) {
	auth := e.Group("/api/v1/auth")
	auth.POST("/register", h.Signup)
	auth.POST("/token", h.Login)
	auth.POST("/token/refresh", h.Refresh)
}

func (h *AuthHandler) Signup(c echo.Context) error {
	var req dto.SignupRequest
	if err := c.Bind(&req); err != nil {
		return httpError(http.StatusBadRequest, "invalid_body", "invalid request body")
	}

	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if err := h.svc.Signup(c.Request().Context(), user, req.Password); err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return httpError(http.StatusBadRequest, "invalid_body", "invalid request body")
	}
	if req.Username == "" || req.Password == "" {
		return httpError(http.StatusBadRequest, "missing_field", "username and password are required")
	}

	user, pair, err := h.svc.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return mapServiceError(err)
	}

	profile := dto.ToUserResponse(user)
	return c.JSON(http.StatusOK, dto.TokenResponse{
		AccessToken:  pair.Access,
		RefreshToken: pair.Refresh,
		User:         &profile,
	})
}

func (h *AuthHandler) Refresh(c echo.Context) error {
	var req dto.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return httpError(http.StatusBadRequest, "invalid_body", "invalid request body")
	}
	if req.RefreshToken == "" {
		return httpError(http.StatusBadRequest, "missing_field", "refresh is required")
	}

	access, err := h.svc.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, dto.TokenResponse{AccessToken: access})
}
