package handler // handler defines http handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/pwalcz/cinema-ticket-booking/internal/booking"
	"github.com/pwalcz/cinema-ticket-booking/internal/model"
)

// RegionServices maps a region name to the booking service bound to
// that region's database.  Handlers embed it and resolve the service
// from the "region" context key set by the region middleware.
type RegionServices map[string]*booking.Service

// svc returns the booking service for the request's region.  The
// region middleware has already validated the name, so a miss here is
// a wiring bug reported as a 500.
func (rs RegionServices) svc(c echo.Context) (*booking.Service, error) {
	region, _ := c.Get("region").(string)
	s, ok := rs[region]
	if !ok {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "region not configured")
	}
	return s, nil
}

// getUserID extracts the authenticated user id placed in the context
// by the JWT middleware.
func getUserID(c echo.Context) (uint64, error) {
	if id, ok := c.Get("user_id").(uint64); ok && id > 0 {
		return id, nil
	}
	return 0, errors.New("invalid user_id in context")
}

// isEmployee reports whether the request carries staff privileges.
func isEmployee(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == model.RoleEmployee || role == model.RoleAdmin
}

// isAdmin reports whether the request carries the admin role.
func isAdmin(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == model.RoleAdmin
}

// parseID parses a positive numeric path parameter.
func parseID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid " + name)
	}
	return id, nil
}
