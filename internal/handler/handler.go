package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "ecomstore/internal/errors"
	"ecomstore/internal/middleware"
	"ecomstore/internal/service"
)

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// bindAndValidate decodes the request into req and runs its validate tags.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperrors.Detail(apperrors.ErrInvalidInput, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return apperrors.Detail(apperrors.ErrInvalidInput, err.Error())
	}
	return nil
}

// uuidParam parses a path parameter as a UUID; malformed ids are reported as notFound
// because no record can carry them.
func uuidParam(c echo.Context, name string, notFound error) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, notFound
	}
	return id, nil
}

// actor returns the authenticated caller. Only valid behind AuthMiddleware.Authenticate.
func actor(c echo.Context) (service.Actor, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return service.Actor{}, apperrors.Detail(apperrors.ErrUnauthenticated, "no token")
	}
	return service.Actor{UserID: id, Role: middleware.Role(c)}, nil
}

// targetUser resolves an optional user id from the request, defaulting to the caller.
func targetUser(raw string, caller service.Actor) (uuid.UUID, error) {
	if raw == "" {
		return caller.UserID, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.Detail(apperrors.ErrInvalidInput, "invalid userId")
	}
	return id, nil
}
