package clinic

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vetclinic/vetclinic/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes wires the status endpoints. Reading the status is public
// so booking clients can show it before login; changing it is admin-only.
func (h *Handler) RegisterRoutes(public, authed *echo.Group) {
	public.GET("/clinic/status", h.Get)
	authed.PUT("/clinic/status", h.Update, auth.RequireAdmin())
}

type updateRequest struct {
	Status string `json:"status"`
}

func (h *Handler) Get(c echo.Context) error {
	s, err := h.svc.Get(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s)
}

func (h *Handler) Update(c echo.Context) error {
	var req updateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	s, err := h.svc.Update(c.Request().Context(), Status(req.Status))
	if err != nil {
		if errors.Is(err, ErrUnknownStatus) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return err
	}
	return c.JSON(http.StatusOK, s)
}
