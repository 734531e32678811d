package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"legalai/internal/errors"
	"legalai/internal/service"
)

// LawHandler serves the read-only legal catalog.
type LawHandler struct {
	lawService service.LawService
}

// NewLawHandler creates a new law handler.
func NewLawHandler(lawService service.LawService) *LawHandler {
	return &LawHandler{lawService: lawService}
}

// List godoc
// @Summary List catalog laws
// @Tags laws
// @Produce json
// @Security BearerAuth
// @Param category query string false "Filter by category"
// @Success 200 {array} model.Law
// @Failure 401 {object} errors.ErrorResponse
// @Router /laws [get]
func (h *LawHandler) List(c echo.Context) error {
	laws, err := h.lawService.List(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, laws)
}

// Get godoc
// @Summary Get one law by its code
// @Tags laws
// @Produce json
// @Security BearerAuth
// @Param code path string true "Law code"
// @Success 200 {object} model.Law
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /laws/{code} [get]
func (h *LawHandler) Get(c echo.Context) error {
	law, err := h.lawService.GetByCode(c.Request().Context(), c.Param("code"))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, law)
}
