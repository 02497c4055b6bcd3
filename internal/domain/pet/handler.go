package pet

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
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/pets", h.Create)
	api.GET("/pets", h.List)
	api.GET("/pets/:id", h.Get)
	api.PATCH("/pets/:id", h.Update)
	api.DELETE("/pets/:id", h.Delete)
}

type createRequest struct {
	OwnerID         *string    `json:"owner_id,omitempty"`
	Name            string     `json:"name"`
	Species         string     `json:"species"`
	Breed           *string    `json:"breed,omitempty"`
	Age             *int       `json:"age,omitempty"`
	LastVaccination *time.Time `json:"last_vaccination,omitempty"`
}

type updateRequest struct {
	Name            *string    `json:"name,omitempty"`
	Species         *string    `json:"species,omitempty"`
	Breed           *string    `json:"breed,omitempty"`
	Age             *int       `json:"age,omitempty"`
	LastVaccination *time.Time `json:"last_vaccination,omitempty"`
}

func translate(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrHasActiveAppointments):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return echo.NewHTTPError(http.StatusBadRequest, err.Error())
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

	in := CreateInput{
		Name:            req.Name,
		Species:         req.Species,
		Breed:           req.Breed,
		Age:             req.Age,
		LastVaccination: req.LastVaccination,
	}
	if req.OwnerID != nil {
		ownerID, err := uuid.Parse(*req.OwnerID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid owner_id")
		}
		in.OwnerID = &ownerID
	}

	p, err := h.svc.Create(c.Request().Context(), in, caller)
	if err != nil {
		return translate(err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) List(c echo.Context) error {
	caller, err := callerOr401(c)
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), caller, pg.Limit, pg.Offset)
	if err != nil {
		return translate(err)
	}
	if items == nil {
		items = []*Pet{}
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
	p, err := h.svc.Get(c.Request().Context(), id, caller)
	if err != nil {
		return translate(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) Update(c echo.Context) error {
	caller, err := callerOr401(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req updateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.svc.Update(c.Request().Context(), id, UpdateInput(req), caller)
	if err != nil {
		return translate(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) Delete(c echo.Context) error {
	caller, err := callerOr401(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id, caller); err != nil {
		return translate(err)
	}
	return c.NoContent(http.StatusNoContent)
}
