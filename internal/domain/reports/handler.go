package reports

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/pediclinic/pediclinic/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/reports", auth.RequireRole(auth.RoleDoctor, auth.RolePharmacist))
	g.GET("/monthly-sales", h.MonthlySales)
	g.GET("/recommendations", h.Recommendations)
}

func (h *Handler) MonthlySales(c echo.Context) error {
	month, year, err := periodParams(c)
	if err != nil {
		return err
	}
	report, err := h.svc.MonthlySales(c.Request().Context(), month, year)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, report)
}

func (h *Handler) Recommendations(c echo.Context) error {
	month, year, err := periodParams(c)
	if err != nil {
		return err
	}
	report, err := h.svc.Recommendations(c.Request().Context(), month, year)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, report)
}

func periodParams(c echo.Context) (month, year int, err error) {
	month, err = strconv.Atoi(c.QueryParam("month"))
	if err != nil {
		return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "month is required")
	}
	year, err = strconv.Atoi(c.QueryParam("year"))
	if err != nil {
		return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "year is required")
	}
	return month, year, nil
}
