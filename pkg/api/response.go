package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "claims-platform/pkg/errors"
)

type Response[T any] struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Body    T      `json:"body,omitempty"`
}

type ListBody[T any] struct {
	List       []T             `json:"list"`
	Pagination *PaginationMeta `json:"pagination"`
}

type PaginationMeta struct {
	TotalCount uint64 `json:"total_count"`
	TotalPages int    `json:"total_pages"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
}

func SuccessOne[T any](c echo.Context, code int, message string, data T) error {
	return c.JSON(code, Response[T]{
		Status:  true,
		Message: message,
		Body:    data,
	})
}

func SuccessList[T any](c echo.Context, message string, list []T, total uint64, page, limit int) error {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + uint64(limit) - 1) / uint64(limit))
	}

	if list == nil {
		list = make([]T, 0)
	}

	body := ListBody[T]{
		List: list,
		Pagination: &PaginationMeta{
			TotalCount: total,
			TotalPages: totalPages,
			Page:       page,
			Limit:      limit,
		},
	}

	return c.JSON(http.StatusOK, Response[ListBody[T]]{
		Status:  true,
		Message: message,
		Body:    body,
	})
}

// ErrorResponse maps service errors to the response envelope. Only the
// user-facing message of an HttpError leaks out, technical details stay in logs.
func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	code := http.StatusInternalServerError
	msg := "internal server error"

	var httpErr *apperrors.HttpError
	var inputErr *apperrors.InvalidInputError
	switch {
	case errors.As(err, &httpErr):
		code = httpErr.Code
		msg = httpErr.Message
	case errors.As(err, &inputErr):
		code = http.StatusBadRequest
		msg = inputErr.Message
	case errors.Is(err, apperrors.ErrNotFound):
		code = http.StatusNotFound
		msg = err.Error()
	case errors.Is(err, apperrors.ErrConflict):
		code = http.StatusConflict
		msg = err.Error()
	case errors.Is(err, apperrors.ErrBadRequest):
		code = http.StatusBadRequest
		msg = err.Error()
	}

	if code >= http.StatusInternalServerError && logger != nil {
		logger.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("uri", c.Request().RequestURI),
			zap.Error(err),
		)
	}

	return c.JSON(code, Response[any]{
		Status:  false,
		Message: msg,
	})
}
