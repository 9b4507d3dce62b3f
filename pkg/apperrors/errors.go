package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Error is the domain error carried from the manager layer to the HTTP
// boundary. Status is the HTTP status the boundary should answer with.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string { return e.Detail }

// Is makes errors.Is match any two *Error values with the same status,
// so callers can compare against the sentinel constructors.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Status == t.Status
}

func BadRequest(detail string) *Error {
	if detail == "" {
		detail = "Bad request"
	}
	return &Error{Status: http.StatusBadRequest, Detail: detail}
}

// NotFound names the missing entity type, and its id when known.
func NotFound(model string, id int64) *Error {
	detail := model + " not found"
	if id > 0 {
		detail = fmt.Sprintf("%s with ID %d not found", model, id)
	}
	return &Error{Status: http.StatusNotFound, Detail: detail}
}

func Unauthorized(detail string) *Error {
	if detail == "" {
		detail = "Unauthorized"
	}
	return &Error{Status: http.StatusUnauthorized, Detail: detail}
}

func Forbidden(detail string) *Error {
	if detail == "" {
		detail = "Access denied"
	}
	return &Error{Status: http.StatusForbidden, Detail: detail}
}

func Conflict(detail string) *Error {
	if detail == "" {
		detail = "Conflict"
	}
	return &Error{Status: http.StatusConflict, Detail: detail}
}

func Internal() *Error {
	return &Error{Status: http.StatusInternalServerError, Detail: "Internal Server Error"}
}

// StatusOf returns the HTTP status for err, falling back to 500 for
// anything outside the taxonomy.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return http.StatusInternalServerError
}

// IsUniqueViolation reports whether err is a uniqueness/integrity
// constraint failure from the store. Covers Postgres (pgx) and the SQLite
// engine used in tests.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "constraint failed")
}
