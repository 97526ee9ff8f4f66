package models

import "errors"

// Kind classifies every error the repository layer is allowed to surface.
// Handlers translate kinds into HTTP status codes; nothing upstream of the
// repository re-classifies an error.
type Kind int

const (
	KindValidation Kind = iota
	KindConflict
	KindRepository
)

// Error is the single error shape exchanged between layers. Message is a
// short client-facing text, Description an optional longer one.
type Error struct {
	Kind        Kind   `json:"-"`
	Message     string `json:"message"`
	Description string `json:"description,omitempty"`
}

func (e *Error) Error() string {
	if e.Description != "" {
		return e.Message + ": " + e.Description
	}
	return e.Message
}

func NewValidationError(message, description string) *Error {
	return &Error{Kind: KindValidation, Message: message, Description: description}
}

func NewConflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func NewRepositoryError(message, description string) *Error {
	return &Error{Kind: KindRepository, Message: message, Description: description}
}

func kindOf(err error) (Kind, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind, true
	}
	return 0, false
}

func asError(err error, target **Error) bool {
	return errors.As(err, target)
}

func IsValidation(err error) bool {
	kind, ok := kindOf(err)
	return ok && kind == KindValidation
}

func IsConflict(err error) bool {
	kind, ok := kindOf(err)
	return ok && kind == KindConflict
}

func IsRepository(err error) bool {
	kind, ok := kindOf(err)
	return ok && kind == KindRepository
}

var (
	ErrRedisGet = errors.New("redis get error")
	ErrRedisSet = errors.New("redis set error")
	ErrRedisDel = errors.New("redis delete error")
)
