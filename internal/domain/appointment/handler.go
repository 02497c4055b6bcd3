package appointment

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/vetclinic/vetclinic/internal/platform/auth"
	"github.com/vetclinic/vetclinic/pkg/pagination"
)

type Handler struct {
	svc *Service
	loc *time.Location
}

// NewHandler builds the appointment HTTP surface. loc is the clinic
// timezone, used to interpret date-only from/to filters.
func NewHandler(svc *Service, loc *time.Location) *Handler {
	return &Handler{svc: svc, loc: loc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/appointments", h.Create)
	api.GET("/appointments", h.List)
	api.GET("/appointments/:id", h.Get)
	api.PATCH("/appointments/:id/status", h.UpdateStatus)
	api.DELETE("/appointments/:id", h.Cancel)
}

type createRequest struct {
	PetID       string  `json:"pet_id"`
	StartTime   string  `json:"start_time"`
	ServiceType string  `json:"service_type"`
	Note        *string `json:"note,omitempty"`
}

type statusRequest struct {
	Status string `json:"status"`
}

// translate maps domain failures to HTTP codes. Slot conflicts map to 409
// so clients can distinguish "pick another time" from plain bad input.
func translate(err error) error {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrPetNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrSlotConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case IsValidation(err):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return err
}

func callerOr401(c echo.Context) (auth.Caller, error) {
	caller, ok := auth.CallerFromContext(c.Request().Context())
	if !ok {
		return auth.Caller{}, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return caller, nil
}

func (h *Handler) Create(c echo.Context) error {
	caller, err := callerOr401(c)
	if err != nil {
		return err
	}

	var req createRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	petID, err := uuid.Parse(req.PetID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid pet_id")
	}
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "start_time must be RFC 3339")
	}

	a, err := h.svc.Create(c.Request().Context(), CreateInput{
		PetID:       petID,
		StartTime:   start,
		ServiceType: ServiceType(req.ServiceType),
		Note:        req.Note,
	}, caller)
	if err != nil {
		return translate(err)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) List(c echo.Context) error {
	caller, err := callerOr401(c)
	if err != nil {
		return err
	}

	var f Filter
	if s := c.QueryParam("status"); s != "" {
		status := Status(s)
		if !status.Known() {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown status filter")
		}
		f.Status = &status
	}
	if v := c.QueryParam("from"); v != "" {
		t, err := h.parseTime(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid from")
		}
		f.From = &t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := h.parseTime(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid to")
		}
		f.To = &t
	}

	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), caller, f, pg.Limit, pg.Offset)
	if err != nil {
		return translate(err)
	}
	if items == nil {
		items = []*Appointment{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Get(c echo.Context) error {
	caller, err := callerOr401(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.Get(c.Request().Context(), id, caller)
	if err != nil {
		return translate(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	caller, err := callerOr401(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.UpdateStatus(c.Request().Context(), id, Status(req.Status), caller)
	if err != nil {
		return translate(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) Cancel(c echo.Context) error {
	caller, err := callerOr401(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.Cancel(c.Request().Context(), id, caller)
	if err != nil {
		return translate(err)
	}
	return c.JSON(http.StatusOK, a)
}

// parseTime accepts RFC 3339 timestamps or bare dates. Bare dates are read
// as midnight in the clinic timezone.
func (h *Handler) parseTime(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", v, h.loc)
}
