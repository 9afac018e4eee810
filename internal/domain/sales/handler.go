package sales

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/pediclinic/pediclinic/internal/platform/auth"
	"github.com/pediclinic/pediclinic/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	// Both roles sell at the counter, so reads and writes share one group.
	g := api.Group("", auth.RequireRole(auth.RoleDoctor, auth.RolePharmacist))
	g.GET("/sales", h.List)
	g.GET("/sales/today", h.Today)
	g.GET("/sales/daily-balance", h.DailyBalance)
	g.GET("/sales/:id", h.Get)
	g.POST("/sales", h.Create)
	g.POST("/sales/quick", h.QuickSale)
}

func (h *Handler) Create(c echo.Context) error {
	var sale Sale
	if err := c.Bind(&sale); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &sale); err != nil {
		return echo.NewHTTPError(httpStatusFor(err), err.Error())
	}
	return c.JSON(http.StatusCreated, sale)
}

func (h *Handler) QuickSale(c echo.Context) error {
	var req QuickSaleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sale, err := h.svc.QuickSale(c.Request().Context(), &req)
	if err != nil {
		return echo.NewHTTPError(httpStatusFor(err), err.Error())
	}
	return c.JSON(http.StatusCreated, sale)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	sale, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "sale not found")
	}
	return c.JSON(http.StatusOK, sale)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	from, err := parseDateParam(c, "from")
	if err != nil {
		return err
	}
	to, err := parseDateParam(c, "to")
	if err != nil {
		return err
	}
	if to != nil {
		// The upper bound is exclusive, so include the whole "to" day.
		end := to.AddDate(0, 0, 1)
		to = &end
	}
	items, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset, from, to)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Today(c echo.Context) error {
	out, err := h.svc.Today(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) DailyBalance(c echo.Context) error {
	var date time.Time
	if d, err := parseDateParam(c, "date"); err != nil {
		return err
	} else if d != nil {
		date = *d
	}
	balance, err := h.svc.DailyBalance(c.Request().Context(), date)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, balance)
}

func parseDateParam(c echo.Context, name string) (*time.Time, error) {
	s := c.QueryParam(name)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest,
			"invalid "+name+" date, expected YYYY-MM-DD")
	}
	return &t, nil
}

func httpStatusFor(err error) int {
	var stock *InsufficientStockError
	if errors.As(err, &stock) {
		return http.StatusConflict
	}
	if strings.Contains(err.Error(), "not found") {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}
