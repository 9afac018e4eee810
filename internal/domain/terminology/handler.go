package terminology

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/pediclinic/pediclinic/internal/platform/auth"
)

// Handler provides REST endpoints for the CIE-10 catalog.
type Handler struct {
	svc *Service
}

// NewHandler creates a new terminology handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers CIE-10 routes on the API group. The catalog is
// read at the front desk too, so both roles get access.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/cie10", auth.RequireRole(auth.RoleDoctor, auth.RolePharmacist))
	g.GET("", h.List)
	g.GET("/search", h.Search)
	g.GET("/:code", h.Lookup)
	g.POST("/classify", h.Classify)
}

func getLimit(c echo.Context) int {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return limit
}

// List handles GET /api/v1/cie10
func (h *Handler) List(c echo.Context) error {
	codes, err := h.svc.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if codes == nil {
		codes = []*DiagnosisCode{}
	}
	return c.JSON(http.StatusOK, codes)
}

// Search handles GET /api/v1/cie10/search?q=...
func (h *Handler) Search(c echo.Context) error {
	query := c.QueryParam("query")
	if query == "" {
		query = c.QueryParam("q")
	}
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter is required")
	}
	results, err := h.svc.Search(c.Request().Context(), query, getLimit(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if results == nil {
		results = []*DiagnosisCode{}
	}
	return c.JSON(http.StatusOK, results)
}

// Lookup handles GET /api/v1/cie10/:code
func (h *Handler) Lookup(c echo.Context) error {
	code, err := h.svc.Lookup(c.Request().Context(), c.Param("code"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "code not found")
	}
	return c.JSON(http.StatusOK, code)
}

// ClassifyRequest is the body for POST /api/v1/cie10/classify.
type ClassifyRequest struct {
	Diagnosis string `json:"diagnosis"`
}

// Classify handles POST /api/v1/cie10/classify
func (h *Handler) Classify(c echo.Context) error {
	var req ClassifyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Diagnosis == "" {
		req.Diagnosis = c.QueryParam("diagnosis")
	}
	result, err := h.svc.Classify(c.Request().Context(), req.Diagnosis)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}
