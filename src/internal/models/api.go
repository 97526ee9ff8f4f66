package models

import "net/http"

// ApiError is the JSON body returned for every failed request.
type ApiError struct {
	Code        int    `json:"code"`
	Message     string `json:"message"`
	Description string `json:"description,omitempty"`
}

// BuildApiError converts the error taxonomy into a transport error. This is
// the only place status codes are decided; anything unrecognized is a 500.
func BuildApiError(err error) *ApiError {
	var appErr *Error
	code := http.StatusInternalServerError

	switch {
	case IsValidation(err):
		code = http.StatusBadRequest
	case IsConflict(err):
		code = http.StatusConflict
	case IsRepository(err):
		code = http.StatusInternalServerError
	}

	if ok := asError(err, &appErr); ok {
		return &ApiError{Code: code, Message: appErr.Message, Description: appErr.Description}
	}
	return &ApiError{Code: code, Message: err.Error()}
}

// NotFound mounts the fixed 404 body for a resource type.
func NotFound(message, description string) *ApiError {
	return &ApiError{
		Code:        http.StatusNotFound,
		Message:     message,
		Description: description,
	}
}
