package httpserver

import (
	"errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// actorID reads the authenticated user set by the auth middleware. The core
// never re-authenticates; this identity is threaded down as an explicit
// parameter.
func actorID(c echo.Context) (uuid.UUID, error) {
	v := c.Get("user_id")
	s, ok := v.(string)
	if !ok || s == "" {
		return uuid.Nil, errors.New("unauthorized")
	}

	userID, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, errors.New("unauthorized")
	}

	return userID, nil
}

func isAdmin(c echo.Context) bool {
	role, ok := c.Get("role").(string)
	return ok && role == "admin"
}
