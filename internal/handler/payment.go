package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pwalcz/cinema-ticket-booking/internal/booking"
	"github.com/pwalcz/cinema-ticket-booking/internal/repository"
)

// PaymentHandler records payments against pending reservations.
// Paying flips the reservation to paid inside one transaction; at most
// one payment can ever exist per reservation.
type PaymentHandler struct {
	Services RegionServices
}

func NewPaymentHandler(services RegionServices) *PaymentHandler {
	if len(services) == 0 {
		panic("no region services passed to NewPaymentHandler")
	}
	return &PaymentHandler{Services: services}
}

// Create handles POST /v1/reservations/:id/payment.
func (h *PaymentHandler) Create(c echo.Context) error {
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
	var body struct {
		Method string `json:"method"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Method = strings.TrimSpace(body.Method)
	if body.Method == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "method is required"})
	}
	payment, err := s.CreatePayment(c.Request().Context(), id, body.Method, userID)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrReservationNotFound), errors.Is(err, repository.ErrForbidden):
			// non-owned reservations are indistinguishable from absent ones
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		case errors.Is(err, repository.ErrPaymentExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "reservation is already paid"})
		case errors.Is(err, booking.ErrNoPrice):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "show has no price set"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, payment)
}

// ListAll handles GET /v1/payments for staff.
func (h *PaymentHandler) ListAll(c echo.Context) error {
	s, err := h.Services.svc(c)
	if err != nil {
		return err
	}
	payments, err := s.Payments().ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, payments)
}
