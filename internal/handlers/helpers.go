package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/benvon/thai-toolkit/internal/logger"
	"github.com/benvon/thai-toolkit/internal/services/ai"
	"github.com/benvon/thai-toolkit/internal/validation"
)

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]any{
		"success":   true,
		"data":      data,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

const maxErrorMessageLength = 200

// sanitizeErrorMessage bounds error messages sent to clients, cutting on a
// rune boundary so Thai text stays valid UTF-8
func sanitizeErrorMessage(message string) string {
	if len(message) <= maxErrorMessageLength {
		return message
	}
	cut := maxErrorMessageLength
	for cut > 0 && !utf8.RuneStart(message[cut]) {
		cut--
	}
	return message[:cut] + "..."
}

// respondJSONError sends an error JSON response with sanitized error messages
func respondJSONError(w http.ResponseWriter, status int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]any{
		"success":   false,
		"error":     errorType,
		"message":   sanitizeErrorMessage(message),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// decodeJSON decodes and validates a request body into dst, writing the error
// response itself. It reports whether the handler should continue.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large",
				fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return false
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return false
	}

	if err := validation.Validate.Struct(dst); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Validation failed: "+validation.FormatErrors(err))
		return false
	}
	return true
}

// respondGatewayError maps a completion or speech gateway failure to a response.
func respondGatewayError(w http.ResponseWriter, log *zap.Logger, operation string, err error) {
	fields := []zap.Field{
		zap.String("operation", operation),
		zap.String("error", logger.SanitizeError(err)),
	}

	switch {
	case errors.Is(err, ai.ErrMalformed):
		log.Warn("gateway_malformed_response", fields...)
		respondJSONError(w, http.StatusBadGateway, "bad_gateway_response",
			"The language model returned a response that could not be understood")
	case ai.IsQuotaError(err), ai.IsRateLimitError(err):
		log.Warn("gateway_rate_limited", fields...)
		delay := ai.GetRetryDelay(err, 0)
		w.Header().Set("Retry-After", strconv.Itoa(int(delay.Seconds())))
		respondJSONError(w, http.StatusTooManyRequests, "Too Many Requests",
			"The language service is busy, please try again later")
	default:
		log.Error("gateway_request_failed", fields...)
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error",
			fmt.Sprintf("Failed to %s", operation))
	}
}

// queryLimit parses the optional limit query parameter. Zero means no limit.
func queryLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, fmt.Errorf("limit must be a non-negative integer")
	}
	return limit, nil
}
