package catapi

import (
	"encoding/json"
	"strings"
)

// DefaultErrorMessage is used when a failed response carries no message.
const DefaultErrorMessage = "TheCatAPI request failed"

// RequestError is returned for any response with a non-2xx status.
type RequestError struct {
	Status  int
	Payload json.RawMessage
	Message string
}

func (e *RequestError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func newRequestError(status int, payload json.RawMessage) *RequestError {
	return &RequestError{
		Status:  status,
		Payload: payload,
		Message: messageFrom(payload),
	}
}

// messageFrom reads the payload's string "message" field, falling back to
// DefaultErrorMessage.
func messageFrom(payload json.RawMessage) string {
	if payload == nil {
		return DefaultErrorMessage
	}
	var body struct {
		Message any `json:"message"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return DefaultErrorMessage
	}
	if msg, ok := body.Message.(string); ok && strings.TrimSpace(msg) != "" {
		return msg
	}
	return DefaultErrorMessage
}
