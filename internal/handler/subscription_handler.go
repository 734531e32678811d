package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"legalai/internal/errors"
	"legalai/internal/service"
)

// SubscriptionHandler handles the user-facing subscription endpoints.
type SubscriptionHandler struct {
	subscriptionService service.SubscriptionService
}

// NewSubscriptionHandler creates a new subscription handler.
func NewSubscriptionHandler(subscriptionService service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

// Upgrade godoc
// @Summary Upgrade to a plus subscription
// @Tags subscription
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Profile
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /subscription/upgrade [post]
func (h *SubscriptionHandler) Upgrade(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	profile, err := h.subscriptionService.Upgrade(c.Request().Context(), claims.UserID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, profile)
}

// RequestDowngrade godoc
// @Summary Request a downgrade at period end
// @Tags subscription
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Profile
// @Failure 401 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /subscription/downgrade [post]
func (h *SubscriptionHandler) RequestDowngrade(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	profile, err := h.subscriptionService.RequestDowngrade(c.Request().Context(), claims.UserID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, profile)
}

// Renew godoc
// @Summary Renew the plus subscription for another period
// @Tags subscription
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Profile
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /subscription/renew [post]
func (h *SubscriptionHandler) Renew(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	profile, err := h.subscriptionService.Renew(c.Request().Context(), claims.UserID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, profile)
}

// Config godoc
// @Summary Get subscription availability and pricing
// @Tags subscription
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.APIConfig
// @Failure 401 {object} errors.ErrorResponse
// @Router /subscription/config [get]
func (h *SubscriptionHandler) Config(c echo.Context) error {
	cfg, err := h.subscriptionService.Config(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, cfg)
}
