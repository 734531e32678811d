package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"legalai/internal/errors"
	"legalai/internal/service"
)

// ProfileHandler handles the current user's profile endpoints.
type ProfileHandler struct {
	profileService      service.ProfileService
	quotaService        service.QuotaService
	subscriptionService service.SubscriptionService
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(profileService service.ProfileService, quotaService service.QuotaService, subscriptionService service.SubscriptionService) *ProfileHandler {
	return &ProfileHandler{
		profileService:      profileService,
		quotaService:        quotaService,
		subscriptionService: subscriptionService,
	}
}

// UpdateProfileRequest represents a profile update. Omitted fields keep
// their current values.
type UpdateProfileRequest struct {
	FullName           *string `json:"full_name,omitempty"`
	Phone              *string `json:"phone,omitempty"`
	Address            *string `json:"address,omitempty"`
	EmailNotifications *bool   `json:"email_notifications,omitempty"`
	WeeklySummary      *bool   `json:"weekly_summary,omitempty"`
	DarkMode           *bool   `json:"dark_mode,omitempty"`
}

// Me godoc
// @Summary Get the current user's profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Profile
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /me [get]
func (h *ProfileHandler) Me(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	profile, err := h.profileService.Get(c.Request().Context(), claims.UserID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, profile)
}

// Update godoc
// @Summary Update the current user's profile
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Fields to update"
// @Success 200 {object} model.Profile
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /me [put]
func (h *ProfileHandler) Update(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	profile, err := h.profileService.Update(c.Request().Context(), claims.UserID, service.ProfileUpdate{
		FullName:           req.FullName,
		Phone:              req.Phone,
		Address:            req.Address,
		EmailNotifications: req.EmailNotifications,
		WeeklySummary:      req.WeeklySummary,
		DarkMode:           req.DarkMode,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, profile)
}

// UploadAvatar godoc
// @Summary Upload a new avatar image
// @Tags profile
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param avatar formData file true "Avatar image"
// @Success 200 {object} model.Profile
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /me/avatar [post]
func (h *ProfileHandler) UploadAvatar(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "avatar file is required",
			Code:  "INVALID_REQUEST",
		})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "cannot read avatar file",
			Code:  "INVALID_REQUEST",
		})
	}
	defer src.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	profile, err := h.profileService.UploadAvatar(c.Request().Context(), claims.UserID, fileHeader.Filename, contentType, src)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, profile)
}

// Quota godoc
// @Summary Get today's message quota
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.DailyStats
// @Failure 401 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /me/quota [get]
func (h *ProfileHandler) Quota(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	stats, err := h.quotaService.DailyStats(c.Request().Context(), claims.UserID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, stats)
}

// Payments godoc
// @Summary List the current user's payments
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Payment
// @Failure 401 {object} errors.ErrorResponse
// @Router /me/payments [get]
func (h *ProfileHandler) Payments(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	payments, err := h.subscriptionService.ListPayments(c.Request().Context(), claims.UserID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, payments)
}
