package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runWithRole(t *testing.T, mw echo.MiddlewareFunc, role interface{}) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != nil {
		c.Set("role", role)
	}
	h := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	require.NoError(t, h(c))
	return rec
}

func TestRequireRole(t *testing.T) {
	mw := RequireRole("EMPLOYEE", "ADMIN")

	assert.Equal(t, http.StatusOK, runWithRole(t, mw, "EMPLOYEE").Code)
	assert.Equal(t, http.StatusOK, runWithRole(t, mw, "ADMIN").Code)
	assert.Equal(t, http.StatusForbidden, runWithRole(t, mw, "USER").Code)
	assert.Equal(t, http.StatusForbidden, runWithRole(t, mw, nil).Code)
	assert.Equal(t, http.StatusForbidden, runWithRole(t, mw, 42).Code)
}
