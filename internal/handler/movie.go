package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pwalcz/cinema-ticket-booking/internal/model"
	"github.com/pwalcz/cinema-ticket-booking/internal/repository"
)

// MovieHandler manages the per-region movie catalogue.  Listing is
// public; mutations are staff only.
type MovieHandler struct {
	Services RegionServices
}

func NewMovieHandler(services RegionServices) *MovieHandler {
	if len(services) == 0 {
		panic("no region services passed to NewMovieHandler")
	}
	return &MovieHandler{Services: services}
}

// Create handles POST /v1/movies.
func (h *MovieHandler) Create(c echo.Context) error {
	s, err := h.Services.svc(c)
	if err != nil {
		return err
	}
	var body struct {
		Title      string `json:"title"`
		RuntimeMin uint32 `json:"runtime"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Title = strings.TrimSpace(body.Title)
	if body.Title == "" || body.RuntimeMin == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and a positive runtime are required"})
	}
	m := &model.Movie{Title: body.Title, RuntimeMin: body.RuntimeMin}
	if err := s.Movies().Create(c.Request().Context(), m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, m)
}

// List handles GET /v1/movies.
func (h *MovieHandler) List(c echo.Context) error {
	s, err := h.Services.svc(c)
	if err != nil {
		return err
	}
	movies, err := s.Movies().List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, movies)
}

// Get handles GET /v1/movies/:id.
func (h *MovieHandler) Get(c echo.Context) error {
	s, err := h.Services.svc(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	m, err := s.Movies().GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, m)
}

// Delete handles DELETE /v1/movies/:id.  Movies referenced by a
// scheduled show cannot be removed.
func (h *MovieHandler) Delete(c echo.Context) error {
	s, err := h.Services.svc(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	if err := s.Movies().Delete(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrMovieNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "movie has scheduled shows"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.NoContent(http.StatusNoContent)
}
