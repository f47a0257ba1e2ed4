// Package response writes the JSON envelope every API endpoint answers with.
package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeNotFound            = "NOT_FOUND"
	CodeConflict            = "CONFLICT"
	CodeEmailExists         = "EMAIL_EXISTS"
	CodeRoundAlreadyActive  = "ROUND_ALREADY_ACTIVE"
	CodeInvalidRoundStatus  = "INVALID_ROUND_STATUS"
	CodeDeviceAlreadyPaired = "DEVICE_ALREADY_PAIRED"
	CodeRateLimitExceeded   = "RATE_LIMIT_EXCEEDED"
	CodeOpenAIRateLimit     = "OPENAI_RATE_LIMIT"
	CodeOpenAIQuotaExceeded = "OPENAI_QUOTA_EXCEEDED"
	CodeAIUnavailable       = "AI_SERVICE_UNAVAILABLE"
	CodeServiceUnavailable  = "SERVICE_UNAVAILABLE"
	CodeInternal            = "INTERNAL_ERROR"
)

type Envelope struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	Data      any               `json:"data"`
	ErrorCode string            `json:"error_code"`
	Errors    map[string]string `json:"errors"`
	Timestamp time.Time         `json:"timestamp"`
}

func write(w http.ResponseWriter, status int, env Envelope) {
	env.Timestamp = time.Now().UTC()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(env)
	if err != nil {
		slog.Warn("failed to write response", "error", err)
	}
}

// OK answers 200 with data.
func OK(w http.ResponseWriter, data any) {
	write(w, http.StatusOK, Envelope{Success: true, Data: data})
}

// Created answers 201 with data.
func Created(w http.ResponseWriter, data any) {
	write(w, http.StatusCreated, Envelope{Success: true, Data: data})
}

// Message answers 200 with a message and no data.
func Message(w http.ResponseWriter, message string) {
	write(w, http.StatusOK, Envelope{Success: true, Message: message})
}

func Error(w http.ResponseWriter, status int, code, message string) {
	write(w, status, Envelope{ErrorCode: code, Message: message})
}

// ValidationError answers 400 with per-field messages.
func ValidationError(w http.ResponseWriter, fields map[string]string) {
	write(w, http.StatusBadRequest, Envelope{
		ErrorCode: CodeValidation,
		Message:   "Validation failed",
		Errors:    fields,
	})
}
