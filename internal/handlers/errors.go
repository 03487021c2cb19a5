package handlers

import (
	"errors"

	"github.com/Rithari/url-shortener/internal/shortener"
	"github.com/Rithari/url-shortener/internal/users"
	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"
)

const internalErrorMessage = "something went wrong, please try again later"

// toHTTPError maps domain errors to API errors. Unexpected causes are logged and
// never leaked to the client.
func toHTTPError(logger *zap.Logger, err error) error {
	switch {
	case errors.Is(err, shortener.ErrInvalidInput):
		return huma.Error400BadRequest(shortener.ErrInvalidInput.Error())
	case errors.Is(err, users.ErrInvalidInput):
		return huma.Error400BadRequest(users.ErrInvalidInput.Error())
	case errors.Is(err, shortener.ErrNotFound):
		return huma.Error404NotFound(shortener.ErrNotFound.Error())
	case errors.Is(err, users.ErrNotFound):
		return huma.Error404NotFound(users.ErrNotFound.Error())
	case errors.Is(err, users.ErrAlreadyExists):
		return huma.Error409Conflict("a user with this email already exists")
	case errors.Is(err, users.ErrUnauthorized):
		return huma.Error401Unauthorized(users.ErrUnauthorized.Error())
	case errors.Is(err, shortener.ErrCodeSpaceExhausted):
		logger.Error("request failed", zap.Error(err))

		return huma.Error503ServiceUnavailable(internalErrorMessage)
	default:
		logger.Error("request failed", zap.Error(err))

		return huma.Error500InternalServerError(internalErrorMessage)
	}
}
