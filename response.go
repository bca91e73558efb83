package taskboard

import (
	"net/http"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// APIResponse is the envelope every JSON endpoint replies with.
type APIResponse struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
	Errors     []any  `json:"error,omitempty"`
}

func RespondOK(c router.Context, statusCode int, message string, data any) error {
	return c.JSON(statusCode, APIResponse{
		StatusCode: statusCode,
		Data:       data,
		Message:    message,
		Success:    true,
	})
}

// RespondError maps a rich error to the envelope. Plain errors are treated
// as internal server errors.
func RespondError(c router.Context, logger Logger, err error) error {
	richErr := asRichError(err)

	statusCode := statusFromError(richErr)

	if logger != nil {
		logger.Info(
			"request failed",
			"error", richErr.Message,
			"category", richErr.Category,
			"text_code", richErr.TextCode,
			"details", print.MaybePrettyJSON(richErr.Metadata),
		)
	}

	details := []any{}
	if richErr.TextCode != "" {
		details = append(details, map[string]any{"code": richErr.TextCode})
	}

	return c.JSON(statusCode, APIResponse{
		StatusCode: statusCode,
		Data:       nil,
		Message:    richErr.Message,
		Success:    false,
		Errors:     details,
	})
}

func badRequest(msg string, err error) *errors.Error {
	if err == nil {
		return errors.New(msg, errors.CategoryValidation).
			WithCode(errors.CodeBadRequest)
	}
	return errors.Wrap(err, errors.CategoryValidation, msg).
		WithCode(errors.CodeBadRequest)
}

func asRichError(err error) *errors.Error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}
	return richErr
}

func statusFromError(richErr *errors.Error) int {
	if richErr.Code >= http.StatusBadRequest {
		return richErr.Code
	}

	switch richErr.Category {
	case errors.CategoryValidation, errors.CategoryBadInput:
		return http.StatusBadRequest
	case errors.CategoryAuth:
		return http.StatusUnauthorized
	case errors.CategoryAuthz:
		return http.StatusForbidden
	case errors.CategoryNotFound:
		return http.StatusNotFound
	case errors.CategoryConflict:
		return http.StatusConflict
	case errors.CategoryRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
