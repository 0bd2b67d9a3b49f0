package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// RequireRegion validates the "region" query parameter against the set
// of configured regions and stores the normalized name under the
// context key "region".  Booking data lives in per-region databases,
// so every show and reservation route must name the region it operates
// on.
func RequireRegion(regions []string) echo.MiddlewareFunc {
	known := make(map[string]bool, len(regions))
	for _, r := range regions {
		known[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			region := strings.ToLower(strings.TrimSpace(c.QueryParam("region")))
			if region == "" {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "region query parameter is required"})
			}
			if !known[region] {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown region: " + region})
			}
			c.Set("region", region)
			return next(c)
		}
	}
}
