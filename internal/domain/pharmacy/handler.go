package pharmacy

import (
	"errors"
	"net/http"
	"strconv"

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
	// Read endpoints – doctor and pharmacist
	readGroup := api.Group("", auth.RequireRole(auth.RoleDoctor, auth.RolePharmacist))
	readGroup.GET("/medications", h.List)
	readGroup.GET("/medications/search", h.Search)
	readGroup.GET("/medications/available", h.Available)
	readGroup.GET("/medications/low-stock", h.LowStock)
	readGroup.GET("/medications/expiring", h.Expiring)
	readGroup.GET("/medications/alerts", h.Alerts)
	readGroup.GET("/medications/:id", h.Get)

	// Write endpoints – pharmacist
	writeGroup := api.Group("", auth.RequireRole(auth.RolePharmacist))
	writeGroup.POST("/medications", h.Create)
	writeGroup.POST("/medications/price-quote", h.PriceQuote)
	writeGroup.POST("/medications/detect-restock", h.DetectRestock)
	writeGroup.PUT("/medications/:id", h.Update)
	writeGroup.PUT("/medications/:id/stock", h.SetStock)
	writeGroup.PUT("/medications/:id/restock", h.ApplyRestock)
	writeGroup.DELETE("/medications/:id", h.Delete)
}

func httpStatusFor(err error) int {
	var inputErr *InvalidInputError
	if errors.As(err, &inputErr) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (h *Handler) Create(c echo.Context) error {
	var m Medication
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	m, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "medication not found")
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Search(c echo.Context) error {
	query := c.QueryParam("query")
	if query == "" {
		query = c.QueryParam("q")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.Search(c.Request().Context(), query, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Available(c echo.Context) error {
	items, err := h.svc.Available(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if items == nil {
		items = []*Medication{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var m Medication
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	m.ID = id
	if err := h.svc.Update(c.Request().Context(), &m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, m)
}

// SetStockRequest is the body for PUT /medications/:id/stock.
type SetStockRequest struct {
	Stock int `json:"stock"`
}

func (h *Handler) SetStock(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req SetStockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	m, err := h.svc.SetStock(c.Request().Context(), id, req.Stock)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "medication not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) LowStock(c echo.Context) error {
	items, err := h.svc.LowStock(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if items == nil {
		items = []*Medication{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Expiring(c echo.Context) error {
	days, _ := strconv.Atoi(c.QueryParam("days"))
	items, err := h.svc.Expiring(c.Request().Context(), days)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if items == nil {
		items = []*Medication{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Alerts(c echo.Context) error {
	feed, err := h.svc.Alerts(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, feed)
}

// QuoteResponse is the price-quote payload: the calculator result plus a
// human-readable summary and the formulas used, for auditability by
// pharmacy staff.
type QuoteResponse struct {
	*PricingResult
	Message  string            `json:"message"`
	Formulas map[string]string `json:"formulas"`
}

func (h *Handler) PriceQuote(c echo.Context) error {
	var in PricingInput
	if c.QueryParam("unit_cost") != "" {
		var err error
		in, err = quoteInputFromQuery(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	} else if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.svc.Quote(in)
	if err != nil {
		return echo.NewHTTPError(httpStatusFor(err), err.Error())
	}

	message := "price computed with the minimum margin guaranteed"
	if !result.MarginGuaranteed {
		message = "warning: the computed price does not reach the minimum margin"
	}
	return c.JSON(http.StatusOK, QuoteResponse{
		PricingResult: result,
		Message:       message,
		Formulas: map[string]string{
			"cost_with_tax": "unit_cost * (1 + tax_percent/100)",
			"base_price":    "real_unit_cost / (1 - margin_target)",
			"public_price":  "real_unit_cost / ((1 - margin_target) * (1 - discount_percent/100))",
		},
	})
}

func quoteInputFromQuery(c echo.Context) (PricingInput, error) {
	var in PricingInput
	var err error
	if in.UnitCost, err = strconv.ParseFloat(c.QueryParam("unit_cost"), 64); err != nil {
		return in, errors.New("invalid unit_cost")
	}
	if v := c.QueryParam("tax_percent"); v != "" {
		if in.TaxPercent, err = strconv.ParseFloat(v, 64); err != nil {
			return in, errors.New("invalid tax_percent")
		}
	}
	if v := c.QueryParam("discount_percent"); v != "" {
		if in.DiscountPercent, err = strconv.ParseFloat(v, 64); err != nil {
			return in, errors.New("invalid discount_percent")
		}
	}
	in.PurchaseScale = c.QueryParam("purchase_scale")
	return in, nil
}

func (h *Handler) DetectRestock(c echo.Context) error {
	var req RestockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	detection, err := h.svc.DetectRestock(c.Request().Context(), &req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, detection)
}

func (h *Handler) ApplyRestock(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var apply RestockApply
	if err := c.Bind(&apply); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	m, err := h.svc.ApplyRestock(c.Request().Context(), id, &apply)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, m)
}
