package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/caddieai/caddie/internal/ctxkeys"
	"github.com/caddieai/caddie/internal/repository"
	"github.com/caddieai/caddie/internal/response"
	"github.com/caddieai/caddie/internal/service"
	"github.com/caddieai/caddie/internal/validation"
)

const (
	maxBodyBytes   = 1 << 20
	maxUploadBytes = 11 << 20
)

var notFoundErrors = []error{
	repository.ErrUserNotFound,
	repository.ErrCourseNotFound,
	repository.ErrHoleNotFound,
	repository.ErrRoundNotFound,
	repository.ErrShotNotFound,
	repository.ErrChatSessionNotFound,
	repository.ErrRecommendationNotFound,
	repository.ErrDeviceNotFound,
	repository.ErrFileNotFound,
	service.ErrCourseInactive,
}

// decodeJSON reads a JSON request body into dst. Unknown fields are ignored so
// older app versions keep working.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	err := json.NewDecoder(r.Body).Decode(dst)
	if err != nil {
		message := "Request body must be valid JSON"
		if errors.Is(err, io.EOF) {
			message = "Request body is required"
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			message = "Request body is too large"
		}
		response.Error(w, http.StatusBadRequest, response.CodeValidation, message)
		return false
	}
	return true
}

// userID returns the authenticated user's id. Routes are wrapped in RequireAuth.
func userID(r *http.Request) string {
	return ctxkeys.User(r.Context()).ID
}

// pathInt parses a numeric path segment, answering 400 when it is not a number.
func pathInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	value, err := strconv.Atoi(r.PathValue(name))
	if err != nil {
		response.ValidationError(w, map[string]string{name: fmt.Sprintf("%s must be a number", name)})
		return 0, false
	}
	return value, true
}

func queryInt(r *http.Request, name string, fallback int) int {
	value, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return fallback
	}
	return value
}

func queryFloat(r *http.Request, name string) (float64, bool) {
	value, err := strconv.ParseFloat(r.URL.Query().Get(name), 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// readUpload pulls the "file" part out of a multipart request.
func readUpload(w http.ResponseWriter, r *http.Request, constraints validation.FileConstraints) (service.Upload, func(), bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	err := r.ParseMultipartForm(constraints.MaxSize)
	if err != nil {
		response.ValidationError(w, map[string]string{"file": "Upload must be multipart/form-data within the size limit"})
		return service.Upload{}, nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.ValidationError(w, map[string]string{"file": "File is required"})
		return service.Upload{}, nil, false
	}

	cleanup := func() {
		_ = file.Close()
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}

	return service.Upload{
		Reader:       file,
		OriginalName: header.Filename,
		Size:         header.Size,
	}, cleanup, true
}

// handleError maps service and repository errors onto the response envelope.
// Unexpected errors are logged and reported as INTERNAL_ERROR without details.
func handleError(w http.ResponseWriter, r *http.Request, err error, msg string, attrs ...any) {
	var fields validation.Errors
	if errors.As(err, &fields) {
		response.ValidationError(w, fields)
		return
	}

	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			response.Error(w, http.StatusNotFound, response.CodeNotFound, capitalize(target.Error()))
			return
		}
	}

	switch {
	case errors.Is(err, service.ErrInvalidCurrentPassword):
		response.ValidationError(w, map[string]string{"current_password": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Error(w, http.StatusUnauthorized, response.CodeUnauthorized, "Invalid email or password")
	case errors.Is(err, service.ErrInvalidToken):
		response.Error(w, http.StatusUnauthorized, response.CodeUnauthorized, "Invalid or expired token")
	case errors.Is(err, service.ErrForbidden):
		response.Error(w, http.StatusForbidden, response.CodeForbidden, "You do not have access to this resource")
	case errors.Is(err, service.ErrEmailAlreadyExists):
		response.Error(w, http.StatusConflict, response.CodeEmailExists, "An account with this email already exists")
	case errors.Is(err, service.ErrRoundAlreadyActive):
		response.Error(w, http.StatusConflict, response.CodeRoundAlreadyActive, "You already have a round in progress")
	case errors.Is(err, service.ErrInvalidRoundStatus):
		response.Error(w, http.StatusConflict, response.CodeInvalidRoundStatus, "The round's status does not allow this operation")
	case errors.Is(err, service.ErrDeviceAlreadyPaired):
		response.Error(w, http.StatusConflict, response.CodeDeviceAlreadyPaired, "This device is paired to another account")
	case errors.Is(err, service.ErrRateLimited):
		response.Error(w, http.StatusTooManyRequests, response.CodeRateLimitExceeded, "Too many requests. Please try again later.")
	case errors.Is(err, service.ErrAIRateLimited):
		response.Error(w, http.StatusTooManyRequests, response.CodeOpenAIRateLimit, "The caddie is busy right now. Try again in a moment.")
	case errors.Is(err, service.ErrAIQuotaExceeded):
		response.Error(w, http.StatusTooManyRequests, response.CodeOpenAIQuotaExceeded, "The caddie has reached its usage limit")
	case errors.Is(err, service.ErrAIUnavailable):
		response.Error(w, http.StatusServiceUnavailable, response.CodeAIUnavailable, "The caddie is unavailable right now")
	case errors.Is(err, service.ErrFeatureDisabled):
		response.Error(w, http.StatusServiceUnavailable, response.CodeServiceUnavailable, "This feature is not available")
	default:
		slog.Error(msg, append([]any{"error", err, "path", r.URL.Path, "request_id", ctxkeys.RequestID(r.Context())}, attrs...)...)
		response.Error(w, http.StatusInternalServerError, response.CodeInternal, "Something went wrong")
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
