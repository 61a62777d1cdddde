package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sickfits/storefront-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error    string `json:"error"`
	ChargeID string `json:"charge_id,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain errors to their HTTP status codes.
//   - Answers every denial with the same generic message.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, resp := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var pce *domain.PostChargeError
	switch {
	case errors.As(err, &pce):
		// already logged with full context by the checkout pipeline
		return http.StatusInternalServerError, errorResponse{
			Error:    "payment was captured but the order could not be saved; support has the charge reference",
			ChargeID: pce.ChargeID,
		}
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, errorResponse{Error: "you must be signed in"}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "invalid email or password"}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: "access forbidden"}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, errorResponse{Error: notFoundMessage(err)}
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrInvalidOrExpiredToken):
		return http.StatusBadRequest, errorResponse{Error: "this reset token is either invalid or expired"}
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, errorResponse{Error: "user already exists"}
	case errors.Is(err, domain.ErrCheckoutInProgress):
		return http.StatusConflict, errorResponse{Error: "a checkout is already in progress"}
	case errors.Is(err, domain.ErrEmptyCart):
		return http.StatusUnprocessableEntity, errorResponse{Error: "cart is empty"}
	case errors.Is(err, domain.ErrPaymentDeclined):
		return http.StatusPaymentRequired, errorResponse{Error: "payment declined"}
	case errors.Is(err, domain.ErrPaymentUncertain):
		return http.StatusBadGateway, errorResponse{Error: "payment status unknown; do not retry before checking your orders"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}

// notFoundMessage keeps the entity name from a wrapped not-found error,
// e.g. "item not found", and drops any operation prefix.
func notFoundMessage(err error) string {
	for _, known := range []error{domain.ErrUserNotFound, domain.ErrItemNotFound, domain.ErrCartItemNotFound, domain.ErrOrderNotFound} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return domain.ErrNotFound.Error()
}
