package http

import (
	"errors"
	"fmt"
	"net/http"

	"orders/internal/core/application/usecases/commands"
	"orders/internal/generated/servers"
	"orders/internal/pkg/errs"
	"orders/internal/pkg/logging"

	"github.com/labstack/echo/v4"
)

const (
	errorTypeValidation      = "ValidationError"
	errorTypeNotFound        = "OrderNotFound"
	errorTypeInvalidStatus   = "InvalidStatusTransition"
	errorTypeDuplicate       = "DuplicateRequest"
	errorTypeNotPublished    = "StatusChangeNotPublished"
	errorTypeInternal        = "InternalServerError"
	errorTypeHTTP            = "HTTPError"
	internalServerErrMessage = "Internal server error"
)

// handleError maps use case errors onto HTTP responses. Only the message of
// client-side errors reaches the response; anything else is logged.
func handleError(ctx echo.Context, err error) error {
	logger := logging.FromContext(ctx.Request().Context())

	switch {
	case errors.Is(err, commands.ErrStatusChangeNotPublished):
		logger.Error("status change not published", "error", err)
		return writeError(ctx, http.StatusBadGateway, errorTypeNotPublished,
			"Order status was updated but the change event could not be published yet")
	case errors.Is(err, errs.ErrObjectNotFound):
		return writeError(ctx, http.StatusNotFound, errorTypeNotFound, "Order not found")
	case errors.Is(err, errs.ErrStatusTransitionIsInvalid):
		return writeError(ctx, http.StatusBadRequest, errorTypeInvalidStatus, err.Error())
	case errs.IsValidation(err):
		return writeError(ctx, http.StatusBadRequest, errorTypeValidation, err.Error())
	case errors.Is(err, commands.ErrDuplicateRequest):
		return writeError(ctx, http.StatusConflict, errorTypeDuplicate,
			"A request with this idempotency key is already in progress")
	default:
		logger.Error("request failed", "error", err)
		return writeError(ctx, http.StatusInternalServerError, errorTypeInternal, internalServerErrMessage)
	}
}

func writeError(ctx echo.Context, code int, errorType, message string) error {
	body := servers.Error{
		Code:      code,
		Message:   message,
		ErrorType: &errorType,
	}
	if id := correlationID(ctx); id != "" {
		body.CorrelationId = &id
	}
	return ctx.JSON(code, body)
}

// httpErrorHandler renders errors that escape the handlers (routing, binding,
// request validation, panics) in the same body shape.
func httpErrorHandler(err error, ctx echo.Context) {
	if ctx.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if !errors.As(err, &he) {
		_ = handleError(ctx, err)
		return
	}

	code := he.Code
	message := http.StatusText(code)
	if m, ok := he.Message.(string); ok {
		message = m
	} else if he.Message != nil {
		message = fmt.Sprint(he.Message)
	}

	errorType := errorTypeHTTP
	switch {
	case code == http.StatusBadRequest:
		errorType = errorTypeValidation
	case code >= http.StatusInternalServerError:
		logging.FromContext(ctx.Request().Context()).Error("request failed", "error", err)
		errorType = errorTypeInternal
		message = internalServerErrMessage
	}

	_ = writeError(ctx, code, errorType, message)
}
