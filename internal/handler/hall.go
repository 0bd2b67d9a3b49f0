package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pwalcz/cinema-ticket-booking/internal/model"
	"github.com/pwalcz/cinema-ticket-booking/internal/repository"
)

// HallHandler manages hall setup per region.  A hall is created with
// its full row and seat layout in one request and the layout is
// immutable afterwards.
type HallHandler struct {
	Services RegionServices
}

func NewHallHandler(services RegionServices) *HallHandler {
	if len(services) == 0 {
		panic("no region services passed to NewHallHandler")
	}
	return &HallHandler{Services: services}
}

// Create handles POST /v1/halls.  The body carries the hall name and
// an ordered list of rows, each with a seat count and optional seat
// type (default STANDARD).
func (h *HallHandler) Create(c echo.Context) error {
	s, err := h.Services.svc(c)
	if err != nil {
		return err
	}
	var body struct {
		Name string                 `json:"name"`
		Rows []repository.RowLayout `json:"rows"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" || len(body.Rows) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and at least one row are required"})
	}
	for i := range body.Rows {
		if body.Rows[i].SeatCount == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "every row needs a positive seat count"})
		}
		body.Rows[i].RowNumber = uint32(i + 1)
	}
	hall := &model.Hall{Name: body.Name}
	if err := s.Halls().CreateWithLayout(c.Request().Context(), hall, body.Rows); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, hall)
}

// List handles GET /v1/halls.
func (h *HallHandler) List(c echo.Context) error {
	s, err := h.Services.svc(c)
	if err != nil {
		return err
	}
	halls, err := s.Halls().List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, halls)
}

// Seats handles GET /v1/halls/:id/seats, returning the hall's seat map
// so clients can pick seat ids for a reservation.
func (h *HallHandler) Seats(c echo.Context) error {
	s, err := h.Services.svc(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hall id"})
	}
	if _, err := s.Halls().GetByID(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrHallNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	seats, err := s.Seats().ListByHall(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, seats)
}

// Delete handles DELETE /v1/halls/:id.  Halls hosting scheduled shows
// cannot be removed.
func (h *HallHandler) Delete(c echo.Context) error {
	s, err := h.Services.svc(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hall id"})
	}
	if err := s.Halls().Delete(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrHallNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "hall has scheduled shows"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.NoContent(http.StatusNoContent)
}
