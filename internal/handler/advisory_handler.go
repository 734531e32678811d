package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"legalai/internal/errors"
	"legalai/internal/service"
)

// AdvisoryHandler handles the user-facing advisory endpoints.
type AdvisoryHandler struct {
	advisoryService service.AdvisoryService
}

// NewAdvisoryHandler creates a new advisory handler.
func NewAdvisoryHandler(advisoryService service.AdvisoryService) *AdvisoryHandler {
	return &AdvisoryHandler{advisoryService: advisoryService}
}

// CreateAdvisoryRequest represents a new advisory request.
type CreateAdvisoryRequest struct {
	FullName    string `json:"full_name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Subject     string `json:"subject" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// Create godoc
// @Summary Submit a legal advisory request
// @Tags advisories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateAdvisoryRequest true "Advisory request"
// @Success 201 {object} model.Advisory
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /advisories [post]
func (h *AdvisoryHandler) Create(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	var req CreateAdvisoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	advisory, err := h.advisoryService.Create(c.Request().Context(), claims.UserID, req.FullName, req.Email, req.Subject, req.Description)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, advisory)
}

// ListMine godoc
// @Summary List the current user's advisory requests
// @Tags advisories
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Advisory
// @Failure 401 {object} errors.ErrorResponse
// @Router /advisories [get]
func (h *AdvisoryHandler) ListMine(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	advisories, err := h.advisoryService.ListMine(c.Request().Context(), claims.UserID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, advisories)
}
