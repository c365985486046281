package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"paypal-payments-gateway/internal/client"
	"paypal-payments-gateway/internal/dto"
	"paypal-payments-gateway/internal/entity"
	"paypal-payments-gateway/internal/logger"
	"paypal-payments-gateway/internal/webhook"
)

// HTTPErrorHandler writes errors returned by handlers as ErrorResponse.
func HTTPErrorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := errorResponse(err)
		ctx := c.Request().Context()
		if status >= http.StatusInternalServerError {
			log.ErrorContext(ctx, "request failed",
				slog.String("method", c.Request().Method),
				slog.String("path", c.Path()),
				logger.Err(err), logger.Traced(ctx))
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			log.WarnContext(ctx, "write error response", logger.Err(err))
		}
	}
}

func errorResponse(err error) (int, dto.ErrorResponse) {
	var (
		httpErr *echo.HTTPError
		apiErr  *client.APIError
	)
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code, dto.ErrorResponse{Name: http.StatusText(httpErr.Code), Message: fmt.Sprint(httpErr.Message)}
	case errors.Is(err, webhook.ErrLockHeld):
		return http.StatusServiceUnavailable, dto.ErrorResponse{Name: "LOCKED", Message: "the order is being processed, try again later"}
	case errors.Is(err, entity.ErrInvalidArgument):
		return http.StatusBadRequest, dto.ErrorResponse{Name: "INVALID_REQUEST", Message: err.Error()}
	case errors.Is(err, entity.ErrAmountMismatch):
		return http.StatusConflict, dto.ErrorResponse{Name: "AMOUNT_MISMATCH", Message: err.Error()}
	case errors.Is(err, entity.ErrNotFound):
		return http.StatusNotFound, dto.ErrorResponse{Name: "RESOURCE_NOT_FOUND", Message: err.Error()}
	case errors.As(err, &apiErr):
		status := http.StatusBadGateway
		if apiErr.IsNotFound() {
			status = http.StatusNotFound
		}
		return status, dto.ErrorResponse{
			Name:    apiErr.Name,
			Message: apiErr.Message,
			DebugID: apiErr.DebugID,
			Details: apiErr.Details,
		}
	default:
		return http.StatusInternalServerError, dto.ErrorResponse{Name: "INTERNAL_SERVER_ERROR", Message: "internal error"}
	}
}
