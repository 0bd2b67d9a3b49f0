package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pwalcz/cinema-ticket-booking/internal/model"
	"github.com/pwalcz/cinema-ticket-booking/internal/repository"
	"github.com/pwalcz/cinema-ticket-booking/internal/utils"
)

// AuthHandler serves registration, login and profile endpoints against
// the global user store.  Accounts are region-independent: one login
// works for bookings in every region.
type AuthHandler struct {
	Users        *repository.UserRepo
	JWTSecret    string
	AccessTTLMin int
	BcryptCost   int
}

// NewAuthHandler constructs an AuthHandler and panics on nil deps.
func NewAuthHandler(users *repository.UserRepo, secret string, accessTTLMin, bcryptCost int) *AuthHandler {
	if users == nil || secret == "" {
		panic("invalid dependency passed to NewAuthHandler")
	}
	return &AuthHandler{Users: users, JWTSecret: secret, AccessTTLMin: accessTTLMin, BcryptCost: bcryptCost}
}

type registerRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// Register handles POST /v1/auth/register.  New accounts always get
// the USER role; staff roles are provisioned out of band.
func (h *AuthHandler) Register(c echo.Context) error {
	var body registerRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Username = strings.TrimSpace(body.Username)
	if body.Username == "" || len(body.Password) < 8 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username and a password of at least 8 characters are required"})
	}
	u := &model.User{
		Username:  body.Username,
		FirstName: strings.TrimSpace(body.FirstName),
		LastName:  strings.TrimSpace(body.LastName),
		Email:     strings.TrimSpace(body.Email),
		Role:      model.RoleUser,
	}
	if err := h.Users.Create(c.Request().Context(), u, body.Password, h.BcryptCost); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "username already taken"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": u.ID, "username": u.Username})
}

// Login handles POST /v1/auth/login and returns a short-lived access
// token.  Wrong username and wrong password produce the same response.
func (h *AuthHandler) Login(c echo.Context) error {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	u, err := h.Users.GetByUsername(c.Request().Context(), strings.TrimSpace(body.Username))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !utils.VerifyPassword(u.PasswordHash, body.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	tok, err := utils.NewAccessToken(h.JWTSecret, u.ID, u.Role, h.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to issue token"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access_token": tok.Token,
		"expires_at":   tok.Exp,
		"role":         u.Role,
	})
}

// Me handles GET /v1/auth/me for the authenticated user.
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	u, err := h.Users.GetByID(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, userResponse(u))
}

// ListUsers handles GET /v1/users for staff.
func (h *AuthHandler) ListUsers(c echo.Context) error {
	users, err := h.Users.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]echo.Map, 0, len(users))
	for i := range users {
		out = append(out, userResponse(&users[i]))
	}
	return c.JSON(http.StatusOK, out)
}

func userResponse(u *model.User) echo.Map {
	return echo.Map{
		"id":         u.ID,
		"username":   u.Username,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"email":      u.Email,
		"role":       u.Role,
	}
}
