package olleh

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// AuthenticationError means the session is absent, expired, or the refresh
// cycle was exhausted. Callers must treat it as "user is logged out": the
// session store has already been cleared by the time it is returned.
type AuthenticationError struct {
	Reason string
}

func (e *AuthenticationError) Error() string {
	if e.Reason == "" {
		return "olleh: authentication required"
	}
	return fmt.Sprintf("olleh: authentication required: %s", e.Reason)
}

// NotFoundError is a legitimate absence signal (HTTP 404), used by the
// active-membership lookup. It is not a failure in that context.
type NotFoundError struct {
	Endpoint string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("olleh: not found: %s", e.Endpoint)
}

// ValidationError carries a backend 400 with field-keyed messages.
// Reserved keys (detail, message, non_field_errors) are routed to General.
type ValidationError struct {
	Fields  map[string][]string
	General []string
}

func (e *ValidationError) Error() string {
	var parts []string
	parts = append(parts, e.General...)

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], "; ")))
	}

	if len(parts) == 0 {
		return "olleh: validation failed"
	}
	return "olleh: validation failed: " + strings.Join(parts, "; ")
}

// HTTPError is any other non-2xx response, carrying the original status and
// the best-effort parsed body.
type HTTPError struct {
	Status int
	Body   map[string]any
}

func (e *HTTPError) Error() string {
	if msg := e.Message(); msg != "" {
		return fmt.Sprintf("olleh: http %d: %s", e.Status, msg)
	}
	return fmt.Sprintf("olleh: http %d", e.Status)
}

// Message extracts the backend-provided message, if any.
func (e *HTTPError) Message() string {
	for _, key := range []string{"detail", "message"} {
		if v, ok := e.Body[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// reserved DRF keys that are not form fields
var generalErrorKeys = map[string]bool{
	"detail":           true,
	"message":          true,
	"non_field_errors": true,
}

// ParseAPIError normalizes a non-2xx response into the error taxonomy.
// statusText is the fallback when the body is not valid JSON.
func ParseAPIError(status int, body []byte, statusText string) error {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil || payload == nil {
		payload = map[string]any{"detail": statusText}
	}

	switch status {
	case http.StatusNotFound:
		return &NotFoundError{Endpoint: messageFrom(payload, statusText)}
	case http.StatusBadRequest:
		return parseValidation(payload)
	default:
		return &HTTPError{Status: status, Body: payload}
	}
}

func parseValidation(payload map[string]any) *ValidationError {
	v := &ValidationError{Fields: make(map[string][]string)}
	for key, raw := range payload {
		msgs := messageList(raw)
		if len(msgs) == 0 {
			continue
		}
		if generalErrorKeys[key] {
			v.General = append(v.General, msgs...)
		} else {
			v.Fields[key] = msgs
		}
	}
	sort.Strings(v.General)
	return v
}

// messageList flattens a DRF error value, which may be a string or a list
// of strings, into an ordered message slice.
func messageList(raw any) []string {
	switch val := raw.(type) {
	case string:
		return []string{val}
	case []any:
		msgs := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				msgs = append(msgs, s)
			}
		}
		return msgs
	default:
		return nil
	}
}

func messageFrom(payload map[string]any, fallback string) string {
	if v, ok := payload["detail"].(string); ok && v != "" {
		return v
	}
	return fallback
}
