package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pwalcz/cinema-ticket-booking/internal/booking"
	"github.com/pwalcz/cinema-ticket-booking/internal/repository"
)

// ReservationHandler serves the seat reservation lifecycle.  A created
// reservation holds its seats for the hold TTL; unpaid holds are
// reclaimed by the background sweeper.  All seat accounting happens in
// the booking service, never here.
type ReservationHandler struct {
	Services RegionServices
}

func NewReservationHandler(services RegionServices) *ReservationHandler {
	if len(services) == 0 {
		panic("no region services passed to NewReservationHandler")
	}
	return &ReservationHandler{Services: services}
}

type reservationRequest struct {
	ShowID    uint64   `json:"show_id"`
	SeatIDs   []uint64 `json:"seat_ids"`
	UserID    uint64   `json:"user_id"`    // staff booking on behalf of a customer
	CreatedAt string   `json:"created_at"` // optional RFC 3339 override, staff only
}

// Create handles POST /v1/reservations for the authenticated customer.
func (h *ReservationHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return h.create(c, userID, false)
}

// CreateForUser handles POST /v1/reservations/for-user, letting staff
// book seats for any customer, optionally backdating created_at.
func (h *ReservationHandler) CreateForUser(c echo.Context) error {
	return h.create(c, 0, true)
}

func (h *ReservationHandler) create(c echo.Context, userID uint64, staff bool) error {
	s, err := h.Services.svc(c)
	if err != nil {
		return err
	}
	var body reservationRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.ShowID == 0 || len(body.SeatIDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "show_id and seat_ids are required"})
	}
	var createdAt time.Time
	if staff {
		if body.UserID == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id is required"})
		}
		userID = body.UserID
		if body.CreatedAt != "" {
			createdAt, err = time.Parse(time.RFC3339, body.CreatedAt)
			if err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid created_at"})
			}
		}
	}
	res, err := s.CreateReservation(c.Request().Context(), userID, body.ShowID, body.SeatIDs, createdAt)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrNoSeats), errors.Is(err, booking.ErrSeatsUnknown):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		case errors.Is(err, repository.ErrShowNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		case errors.Is(err, repository.ErrSeatsTaken):
			return c.JSON(http.StatusConflict, echo.Map{"error": "one or more seats are already reserved"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, res)
}

// Get handles GET /v1/reservations/:id with full seat, movie and hall
// details.  Customers only see their own reservations; a reservation
// owned by someone else answers 404, not 403.
func (h *ReservationHandler) Get(c echo.Context) error {
	s, err := h.Services.svc(c)
	if err != nil {
		return err
	}
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	detail, err := s.GetReservationDetails(c.Request().Context(), id, userID, isEmployee(c))
	if err != nil {
		if errors.Is(err, booking.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, detail)
}

// ListMine handles GET /v1/reservations for the authenticated user.
func (h *ReservationHandler) ListMine(c echo.Context) error {
	s, err := h.Services.svc(c)
	if err != nil {
		return err
	}
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	details, err := s.ListReservationsForUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, details)
}

// ListAll handles GET /v1/reservations/all for staff.
func (h *ReservationHandler) ListAll(c echo.Context) error {
	s, err := h.Services.svc(c)
	if err != nil {
		return err
	}
	details, err := s.ListAllReservations(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, details)
}

// Delete handles DELETE /v1/reservations/:id, removing the
// reservation together with its seat holds and payment in any
// status.  Admin only: the route middleware requires the role and
// the handler rejects every other role itself.
func (h *ReservationHandler) Delete(c echo.Context) error {
	s, err := h.Services.svc(c)
	if err != nil {
		return err
	}
	if !isAdmin(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	if err := s.DeleteReservation(c.Request().Context(), id); err != nil {
		if errors.Is(err, booking.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.NoContent(http.StatusNoContent)
}
