package shipping

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ErrMissingCredentials is returned when the aggregator login is not configured
var ErrMissingCredentials = errors.New("shiprocket credentials not configured")

// APIError is a non-2xx answer from the aggregator
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("shiprocket API error (status %d): %s", e.StatusCode, e.Message)
}

// IsUnauthorized reports whether err is a 401 from the aggregator
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// newAPIError extracts the vendor message from an error body. The vendor uses
// "message", "error" (string or object) or "errors" (list or field map).
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Message: http.StatusText(status)}

	var payload struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
		Errors  json.RawMessage `json:"errors"`
	}
	if len(body) == 0 {
		return apiErr
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		apiErr.Message = strings.TrimSpace(fmt.Sprintf("%s: %s", apiErr.Message, body))
		return apiErr
	}

	switch {
	case payload.Message != "":
		apiErr.Message = payload.Message
	case len(payload.Error) > 0:
		if msg := errorFieldMessage(payload.Error); msg != "" {
			apiErr.Message = msg
		}
	case len(payload.Errors) > 0:
		if msg := errorsFieldMessage(payload.Errors); msg != "" {
			apiErr.Message = msg
		}
	}
	return apiErr
}

func errorFieldMessage(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var obj struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &obj) == nil && obj.Message != "" {
		return obj.Message
	}
	return string(raw)
}

func errorsFieldMessage(raw json.RawMessage) string {
	var list []json.RawMessage
	if json.Unmarshal(raw, &list) == nil {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			parts = append(parts, errorFieldMessage(item))
		}
		return strings.Join(parts, ", ")
	}

	var fields map[string]interface{}
	if json.Unmarshal(raw, &fields) == nil {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			switch v := fields[k].(type) {
			case []interface{}:
				vals := make([]string, 0, len(v))
				for _, item := range v {
					vals = append(vals, fmt.Sprint(item))
				}
				parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(vals, ", ")))
			default:
				parts = append(parts, fmt.Sprintf("%s: %v", k, v))
			}
		}
		return strings.Join(parts, "; ")
	}
	return ""
}
