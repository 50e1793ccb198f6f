package identity

import (
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

// Response is the uniform result envelope returned by every command:
// success flag, status-style code, human message, optional payload.
type Response struct {
	Successful bool   `json:"successful"`
	Code       int    `json:"code"`
	Message    string `json:"message"`
	Data       any    `json:"data,omitempty"`
}

// Success wraps a payload in a successful envelope.
func Success(data any) Response {
	return Response{
		Successful: true,
		Code:       http.StatusOK,
		Message:    "successfully",
		Data:       data,
	}
}

// SuccessMessage returns a successful envelope without payload.
func SuccessMessage(message string) Response {
	return Response{
		Successful: true,
		Code:       http.StatusOK,
		Message:    message,
	}
}

// Fail converts an error into a failure envelope. Rich errors contribute
// their code and message; internal-category faults surface a generic message
// only, the detail stays in logs.
func Fail(err error) Response {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		richErr = goerrors.Wrap(err, goerrors.CategoryInternal, "An unexpected server error occurred").
			WithCode(goerrors.CodeInternal)
	}

	code := richErr.Code
	if code == 0 {
		code = http.StatusInternalServerError
	}

	message := richErr.Message
	if richErr.Category == goerrors.CategoryInternal {
		message = "An unexpected server error occurred"
	}

	return Response{
		Successful: false,
		Code:       code,
		Message:    message,
	}
}
