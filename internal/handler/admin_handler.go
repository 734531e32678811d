package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"legalai/internal/errors"
	"legalai/internal/model"
	"legalai/internal/service"
)

// AdminHandler handles the admin console endpoints.
type AdminHandler struct {
	statsService        service.StatsService
	quotaService        service.QuotaService
	subscriptionService service.SubscriptionService
	advisoryService     service.AdvisoryService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(
	statsService service.StatsService,
	quotaService service.QuotaService,
	subscriptionService service.SubscriptionService,
	advisoryService service.AdvisoryService,
) *AdminHandler {
	return &AdminHandler{
		statsService:        statsService,
		quotaService:        quotaService,
		subscriptionService: subscriptionService,
		advisoryService:     advisoryService,
	}
}

// UserListResponse is one page of users with the total for pagination.
type UserListResponse struct {
	Users []model.Profile `json:"users"`
	Total int64           `json:"total"`
}

// SetRoleLimitRequest overwrites the daily message budget for a role.
type SetRoleLimitRequest struct {
	Role  string `json:"role" validate:"required"`
	Limit int    `json:"limit" validate:"required"`
}

// SetSubscriptionsEnabledRequest toggles the platform subscription switch.
type SetSubscriptionsEnabledRequest struct {
	Enabled bool `json:"enabled"`
}

// SetPlusPriceRequest overwrites the monthly plus price.
type SetPlusPriceRequest struct {
	Price string `json:"price" validate:"required"`
}

// RespondAdvisoryRequest carries an admin's answer to an advisory.
type RespondAdvisoryRequest struct {
	Response string `json:"response" validate:"required"`
}

// SetSubscriptionEndRequest overwrites one user's period end.
type SetSubscriptionEndRequest struct {
	End time.Time `json:"end" validate:"required"`
}

// ListUsers godoc
// @Summary List users with optional search
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param search query string false "Name or email substring"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} UserListResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	users, total, err := h.statsService.ListUsers(c.Request().Context(), c.QueryParam("search"), limit, offset)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, UserListResponse{Users: users, Total: total})
}

// Overview godoc
// @Summary Dashboard overview counts and recent activity
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Overview
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/stats/overview [get]
func (h *AdminHandler) Overview(c echo.Context) error {
	overview, err := h.statsService.Overview(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, overview)
}

// Revenue godoc
// @Summary Subscription revenue metrics
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.RevenueMetrics
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/stats/revenue [get]
func (h *AdminHandler) Revenue(c echo.Context) error {
	metrics, err := h.statsService.RevenueMetrics(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, metrics)
}

// Usage godoc
// @Summary Platform message volume over the last 30 days
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.UsageMetrics
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/stats/usage [get]
func (h *AdminHandler) Usage(c echo.Context) error {
	metrics, err := h.statsService.UsageMetrics(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, metrics)
}

// ListRoleLimits godoc
// @Summary List per-role daily message limits
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.RoleLimit
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/role-limits [get]
func (h *AdminHandler) ListRoleLimits(c echo.Context) error {
	limits, err := h.quotaService.ListRoleLimits(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, limits)
}

// SetRoleLimit godoc
// @Summary Overwrite a role's daily message limit
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SetRoleLimitRequest true "Role and limit"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/role-limits [put]
func (h *AdminHandler) SetRoleLimit(c echo.Context) error {
	var req SetRoleLimitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.quotaService.SetRoleLimit(c.Request().Context(), model.Role(req.Role), req.Limit); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "role limit updated",
	})
}

// SetSubscriptionsEnabled godoc
// @Summary Toggle platform-wide subscriptions
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SetSubscriptionsEnabledRequest true "Switch state"
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/config/subscriptions [put]
func (h *AdminHandler) SetSubscriptionsEnabled(c echo.Context) error {
	var req SetSubscriptionsEnabledRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.subscriptionService.SetSubscriptionsEnabled(c.Request().Context(), req.Enabled); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "subscriptions setting updated",
	})
}

// SetPlusPrice godoc
// @Summary Overwrite the monthly plus price
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SetPlusPriceRequest true "New price"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/config/price [put]
func (h *AdminHandler) SetPlusPrice(c echo.Context) error {
	var req SetPlusPriceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid price",
			Code:  "INVALID_AMOUNT",
		})
	}

	if err := h.subscriptionService.SetPlusPrice(c.Request().Context(), price); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "price updated",
	})
}

// ListAdvisories godoc
// @Summary List advisory requests across all users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status (pending|reviewed)"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} model.Advisory
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/advisories [get]
func (h *AdminHandler) ListAdvisories(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	advisories, err := h.advisoryService.ListAll(c.Request().Context(), model.AdvisoryStatus(c.QueryParam("status")), limit, offset)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, advisories)
}

// RespondAdvisory godoc
// @Summary Answer a pending advisory request
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Advisory ID"
// @Param request body RespondAdvisoryRequest true "Response text"
// @Success 200 {object} model.Advisory
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /admin/advisories/{id}/respond [post]
func (h *AdminHandler) RespondAdvisory(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	advisoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid advisory id",
			Code:  "INVALID_UUID",
		})
	}

	var req RespondAdvisoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	advisory, err := h.advisoryService.Respond(c.Request().Context(), advisoryID, claims.UserID, req.Response)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, advisory)
}

// SetSubscriptionEnd godoc
// @Summary Overwrite one user's subscription end
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body SetSubscriptionEndRequest true "New period end"
// @Success 200 {object} model.Profile
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /admin/users/{id}/subscription-end [put]
func (h *AdminHandler) SetSubscriptionEnd(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid user id",
			Code:  "INVALID_UUID",
		})
	}

	var req SetSubscriptionEndRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	profile, err := h.subscriptionService.SetSubscriptionEnd(c.Request().Context(), userID, req.End)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, profile)
}
