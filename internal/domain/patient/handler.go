package patient

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medapp/clinic/internal/platform/apierr"
	"github.com/medapp/clinic/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients", h.ListPatients)
	api.POST("/patients", h.CreatePatient)
	api.GET("/patients/:id", h.GetPatient)
	api.PUT("/patients/:id", h.UpdatePatient)
	api.DELETE("/patients/:id", h.DeletePatient)
}

func (h *Handler) CreatePatient(c echo.Context) error {
	var p Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	created, err := h.svc.Add(c.Request().Context(), &p)
	if err != nil {
		return apierr.FromService(err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) GetPatient(c echo.Context) error {
	id := c.Param("id")
	p, ok, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return apierr.FromService(err)
	}
	if !ok {
		return apierr.NotFound("Patient with ID " + id + " not found")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListPatients(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return apierr.FromService(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset).WithLinks(c))
}

func (h *Handler) UpdatePatient(c echo.Context) error {
	id := c.Param("id")
	var p Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	updated, ok, err := h.svc.Update(c.Request().Context(), id, &p)
	if !ok && err == nil {
		return apierr.NotFound("Patient with ID " + id + " not found")
	}
	if err != nil {
		return apierr.FromService(err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeletePatient(c echo.Context) error {
	id := c.Param("id")
	deleted, cascaded, err := h.svc.Delete(c.Request().Context(), id)
	if err != nil {
		return apierr.FromService(err)
	}
	if !deleted {
		return apierr.NotFound("Patient with ID: " + id + " was not found")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":              "Patient with ID: " + id + " has been deleted successfully",
		"deleted_appointments": cascaded,
	})
}
