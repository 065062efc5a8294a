package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	deliverycontext "groovesync/internal/delivery/context"
	domainerrors "groovesync/internal/domain/errors"
)

// bindAndValidate decodes the request into req and runs its validate tags.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("malformed request body")
	}

	return c.Validate(req)
}

// currentUser returns the username set by the auth middleware.
func currentUser(c echo.Context) (string, error) {
	username, ok := deliverycontext.GetUsername(c)
	if !ok {
		return "", domainerrors.ErrTokenInvalid
	}

	return username, nil
}

// queryInt reads an optional non-negative integer query parameter. Missing means zero.
func queryInt(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, domainerrors.ErrValidationFailed.WithDetails(name + " must be a non-negative integer")
	}

	return n, nil
}
