package auth

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	verifier *CodeVerifier
	issuer   *Issuer
}

func NewHandler(verifier *CodeVerifier, issuer *Issuer) *Handler {
	return &Handler{verifier: verifier, issuer: issuer}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/auth/login", h.Login)
}

type LoginRequest struct {
	AccessCode string `json:"access_code"`
	Role       string `json:"role"`
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	Roles       []string  `json:"roles"`
}

// Login exchanges the clinic access code for a bearer token. The optional
// role field scopes the session; omitting it grants both clinical and
// pharmacy access, matching how the front desk shares one terminal.
func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.verifier.Verify(req.AccessCode); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid access code")
	}

	roles := []string{RoleDoctor, RolePharmacist}
	if req.Role != "" {
		if !ValidRole(req.Role) {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid role: "+req.Role)
		}
		roles = []string{req.Role}
	}

	token, expiresAt, err := h.issuer.Issue(roles)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to issue token")
	}

	return c.JSON(http.StatusOK, LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
		Roles:       roles,
	})
}
