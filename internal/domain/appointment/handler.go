package appointment

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
	api.GET("/appointments", h.ListAppointments)
	api.POST("/appointments", h.CreateAppointment)
	api.GET("/appointments/:id", h.GetAppointment)
	api.PUT("/appointments/:id", h.UpdateAppointment)
	api.DELETE("/appointments/:id", h.DeleteAppointment)
	api.GET("/patients/:id/appointments", h.ListPatientAppointments)
}

func (h *Handler) CreateAppointment(c echo.Context) error {
	var a Appointment
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	created, err := h.svc.Add(c.Request().Context(), &a)
	if err != nil {
		return apierr.FromService(err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) GetAppointment(c echo.Context) error {
	id := c.Param("id")
	a, ok, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return apierr.FromService(err)
	}
	if !ok {
		return apierr.NotFound("Appointment with ID " + id + " not found")
	}
	return c.JSON(http.StatusOK, a)
}

// ListAppointments pages through all appointments unless a date or
// patient_id filter is given, in which case every match is returned.
func (h *Handler) ListAppointments(c echo.Context) error {
	ctx := c.Request().Context()

	if raw := c.QueryParam("date"); raw != "" {
		date, err := ParseDate(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		items, err := h.svc.ListByDate(ctx, date)
		if err != nil {
			return apierr.FromService(err)
		}
		return c.JSON(http.StatusOK, unpaged(items))
	}
	if patientID := c.QueryParam("patient_id"); patientID != "" {
		items, err := h.svc.ListByPatient(ctx, patientID)
		if err != nil {
			return apierr.FromService(err)
		}
		return c.JSON(http.StatusOK, unpaged(items))
	}

	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(ctx, pg.Limit, pg.Offset)
	if err != nil {
		return apierr.FromService(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset).WithLinks(c))
}

func (h *Handler) ListPatientAppointments(c echo.Context) error {
	items, err := h.svc.ListByPatient(c.Request().Context(), c.Param("id"))
	if err != nil {
		return apierr.FromService(err)
	}
	return c.JSON(http.StatusOK, unpaged(items))
}

func (h *Handler) UpdateAppointment(c echo.Context) error {
	id := c.Param("id")
	var a Appointment
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	updated, ok, err := h.svc.Update(c.Request().Context(), id, &a)
	if !ok && err == nil {
		return apierr.NotFound("Appointment with ID " + id + " not found")
	}
	if err != nil {
		return apierr.FromService(err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteAppointment(c echo.Context) error {
	id := c.Param("id")
	deleted, err := h.svc.Delete(c.Request().Context(), id)
	if err != nil {
		return apierr.FromService(err)
	}
	if !deleted {
		return apierr.NotFound("Appointment with ID: " + id + " was not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func unpaged(items []*Appointment) *pagination.Response {
	return pagination.NewResponse(items, len(items), len(items), 0)
}
