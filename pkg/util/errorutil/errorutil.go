package errorutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind classifies authentication failures.
type Kind string

const (
	KindNetwork           Kind = "NETWORK"
	KindValidation        Kind = "VALIDATION"
	KindMalformedResponse Kind = "MALFORMED_RESPONSE"
	KindStorage           Kind = "STORAGE"
	KindSessionAbsent     Kind = "SESSION_ABSENT"
)

const genericMessage = "authentication failed"

// AuthError is the single error type surfaced by the auth repository.
// Message carries the most specific human-readable detail available and
// is free of transport-layer wrapping.
type AuthError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// NewNetwork wraps a transport failure.
func NewNetwork(err error) *AuthError {
	message := genericMessage
	if err != nil {
		message = stripWrapping(err.Error())
	}
	return &AuthError{Kind: KindNetwork, Message: message, Err: err}
}

// NewValidation carries backend-supplied validation detail verbatim.
func NewValidation(message string) *AuthError {
	return &AuthError{Kind: KindValidation, Message: message}
}

// NewMalformedResponse flags a response the client could not use.
func NewMalformedResponse(message string) *AuthError {
	return &AuthError{Kind: KindMalformedResponse, Message: message}
}

// NewStorage wraps a secure store failure.
func NewStorage(err error) *AuthError {
	message := "secure storage unavailable"
	if err != nil {
		message = fmt.Sprintf("secure storage: %s", stripWrapping(err.Error()))
	}
	return &AuthError{Kind: KindStorage, Message: message, Err: err}
}

// NewSessionAbsent flags an operation that needs a stored token when none exists.
func NewSessionAbsent(message string) *AuthError {
	if message == "" {
		message = "no active session"
	}
	return &AuthError{Kind: KindSessionAbsent, Message: message}
}

// FromResponse normalizes a non-success HTTP response into an AuthError,
// preferring backend detail, then field-level errors, then a status fallback.
func FromResponse(status int, body []byte) *AuthError {
	if message, ok := detailFromBody(body); ok {
		return NewValidation(message)
	}
	if status >= 500 {
		return &AuthError{Kind: KindNetwork, Message: fmt.Sprintf("server error (status %d)", status)}
	}
	return NewValidation(fmt.Sprintf("request failed with status %d", status))
}

// Normalize coerces an arbitrary error into an AuthError.
func Normalize(err error) *AuthError {
	if err == nil {
		return nil
	}
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr
	}
	return NewNetwork(err)
}

// Message extracts the display message from any error.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if authErr := Normalize(err); authErr.Message != "" {
		return authErr.Message
	}
	return genericMessage
}

// detailFromBody extracts either the DRF "detail" string or flattened
// field errors ("field: msg; field2: msg") from a 4xx body.
func detailFromBody(body []byte) (string, bool) {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil || len(payload) == 0 {
		return "", false
	}

	if raw, ok := payload["detail"]; ok {
		var detail string
		if err := json.Unmarshal(raw, &detail); err == nil && detail != "" {
			return detail, true
		}
	}

	fields := make([]string, 0, len(payload))
	for name, raw := range payload {
		var messages []string
		if err := json.Unmarshal(raw, &messages); err == nil && len(messages) > 0 {
			fields = append(fields, fmt.Sprintf("%s: %s", name, strings.Join(messages, ", ")))
			continue
		}
		var single string
		if err := json.Unmarshal(raw, &single); err == nil && single != "" {
			fields = append(fields, fmt.Sprintf("%s: %s", name, single))
		}
	}
	if len(fields) == 0 {
		return "", false
	}
	sort.Strings(fields)
	return strings.Join(fields, "; "), true
}

// stripWrapping removes common transport prefixes ("Get \"url\": ...",
// "Post \"url\": ...") so only the underlying cause reaches the UI.
func stripWrapping(message string) string {
	for _, verb := range []string{"Get ", "Post ", "Put ", "Delete "} {
		if strings.HasPrefix(message, verb) {
			if idx := strings.Index(message, "\": "); idx >= 0 {
				return message[idx+3:]
			}
		}
	}
	return message
}
