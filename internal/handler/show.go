package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pwalcz/cinema-ticket-booking/internal/booking"
	"github.com/pwalcz/cinema-ticket-booking/internal/model"
	"github.com/pwalcz/cinema-ticket-booking/internal/repository"
)

// ShowHandler manages the show schedule per region.  Scheduling is
// guarded by the hall conflict checker: a show that would overlap an
// existing show's runtime plus the cleaning buffer is rejected.
type ShowHandler struct {
	Services RegionServices
}

func NewShowHandler(services RegionServices) *ShowHandler {
	if len(services) == 0 {
		panic("no region services passed to NewShowHandler")
	}
	return &ShowHandler{Services: services}
}

type showRequest struct {
	MovieID    uint64  `json:"movie_id"`
	HallID     uint64  `json:"hall_id"`
	StartTime  string  `json:"start_time"`
	PriceCents *uint32 `json:"price_cents"`
}

// parseStartTime accepts RFC 3339 timestamps with or without an
// offset.  Offsets are kept; the booking layer strips them down to the
// naive wall-clock time all schedule data is stored in.
func parseStartTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05", raw)
}

// Create handles POST /v1/shows.  On overlap it answers 409 with the
// complete list of conflicting shows and their occupied windows.
func (h *ShowHandler) Create(c echo.Context) error {
	s, err := h.Services.svc(c)
	if err != nil {
		return err
	}
	var body showRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.MovieID == 0 || body.HallID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie_id and hall_id are required"})
	}
	start, err := parseStartTime(body.StartTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start_time"})
	}
	ctx := c.Request().Context()
	if _, err := s.Halls().GetByID(ctx, body.HallID); err != nil {
		if errors.Is(err, repository.ErrHallNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	show := &model.Show{
		MovieID:    body.MovieID,
		HallID:     body.HallID,
		StartTime:  start,
		PriceCents: body.PriceCents,
	}
	if err := s.AddShow(ctx, show); err != nil {
		var overlap *booking.OverlapError
		switch {
		case errors.As(err, &overlap):
			return c.JSON(http.StatusConflict, echo.Map{
				"error":     "show overlaps existing schedule",
				"conflicts": overlap.Conflicts,
			})
		case errors.Is(err, repository.ErrMovieNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, show)
}

// CheckConflict handles POST /v1/shows/check-conflict.  It runs the
// same overlap computation as Create without writing anything, so
// staff can probe a slot before committing to it.
func (h *ShowHandler) CheckConflict(c echo.Context) error {
	s, err := h.Services.svc(c)
	if err != nil {
		return err
	}
	var body showRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.MovieID == 0 || body.HallID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie_id and hall_id are required"})
	}
	start, err := parseStartTime(body.StartTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start_time"})
	}
	report, err := s.CheckShowConflict(c.Request().Context(), body.HallID, body.MovieID, start)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, report)
}

// List handles GET /v1/shows with movie and hall names attached.
func (h *ShowHandler) List(c echo.Context) error {
	s, err := h.Services.svc(c)
	if err != nil {
		return err
	}
	shows, err := s.Shows().ListWithDetails(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, shows)
}

// Get handles GET /v1/shows/:id.
func (h *ShowHandler) Get(c echo.Context) error {
	s, err := h.Services.svc(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	show, err := s.Shows().GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrShowNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, show)
}

// Delete handles DELETE /v1/shows/:id.  A show that already has
// reservations cannot be removed.
func (h *ShowHandler) Delete(c echo.Context) error {
	s, err := h.Services.svc(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	if err := s.Shows().Delete(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrShowNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "show has reservations"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.NoContent(http.StatusNoContent)
}
