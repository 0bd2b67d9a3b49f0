package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runWithRegion(t *testing.T, target string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	mw := RequireRegion([]string{"krakow", "warsaw"})
	h := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	require.NoError(t, h(c))
	return rec, c
}

func TestRequireRegion(t *testing.T) {
	rec, c := runWithRegion(t, "/v1/shows?region=krakow")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "krakow", c.Get("region"))

	rec, c = runWithRegion(t, "/v1/shows?region=WARSAW")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "warsaw", c.Get("region"))

	rec, _ = runWithRegion(t, "/v1/shows")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = runWithRegion(t, "/v1/shows?region=berlin")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
