// Package respond writes the wire envelope every endpoint shares: 2xx bodies
// are {"success": true, "data": ...}, failures carry success=false plus a
// message the console can surface directly.
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/upcharify/admin-api/internal/validate"
)

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`

	Errors []validate.FieldError `json:"errors,omitempty"`
}

// Pagination is the list-envelope page descriptor.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// NewPagination computes the page descriptor for a list response.
func NewPagination(total, page, limit int) Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{Total: total, Page: page, Limit: limit, TotalPages: pages}
}

// JSON writes a success envelope with the given payload.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

// Error writes a failure envelope with a user-facing message.
func Error(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: false, Message: message})
}

// ValidationFailed writes a 422 with per-field errors so the form can render
// inline messages under each input.
func ValidationFailed(w http.ResponseWriter, errs []validate.FieldError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	_ = json.NewEncoder(w).Encode(envelope{
		Success: false,
		Message: "validation failed",
		Errors:  errs,
	})
}

// NotFound writes the standard missing-entity failure.
func NotFound(w http.ResponseWriter, what string) {
	Error(w, http.StatusNotFound, what+" not found")
}
