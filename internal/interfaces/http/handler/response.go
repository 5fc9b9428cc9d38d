package handler

import "github.com/oms/backend/internal/interfaces/http/dto"

// APIResponse exists for the OpenAPI docs: it names the envelope with a
// concrete data type where dto.Response can only say interface{}.
type APIResponse[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}

// ErrorResponse is the failure envelope as the OpenAPI docs show it.
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}
