package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pwalcz/cinema-ticket-booking/internal/utils"
)

func runAuth(t *testing.T, authorization string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	h := JWTAuth("test-secret")(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	require.NoError(t, h(c))
	return rec, c
}

func TestJWTAuth_ValidToken(t *testing.T) {
	tok, err := utils.NewAccessToken("test-secret", 42, "EMPLOYEE", 5)
	require.NoError(t, err)

	rec, c := runAuth(t, "Bearer "+tok.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(42), c.Get("user_id"))
	assert.Equal(t, "EMPLOYEE", c.Get("role"))
}

func TestJWTAuth_Rejections(t *testing.T) {
	rec, _ := runAuth(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = runAuth(t, "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// signed with a different secret
	tok, err := utils.NewAccessToken("other-secret", 42, "USER", 5)
	require.NoError(t, err)
	rec, _ = runAuth(t, "Bearer "+tok.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
