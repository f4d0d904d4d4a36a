package consoleclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// fallbackErrorMessage is substituted when a non-2xx response carries no
// decodable error envelope.
const fallbackErrorMessage = "request failed"

// maxErrorBody bounds how much of an error response body is read.
const maxErrorBody = 64 << 10

// APIError is the normalized error every caller sees for a non-2xx response.
// Callers above the client never see transport-level error shapes, only this
// type or a wrapped transport error.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// errorEnvelope matches the gateway's canonical error payload.
type errorEnvelope struct {
	Error string `json:"error"`
}

// normalizeError converts a non-2xx response into an APIError, preferring the
// structured body when one is present. It consumes the response body.
func normalizeError(resp *http.Response) *APIError {
	out := &APIError{Status: resp.StatusCode, Message: fallbackErrorMessage}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return out
	}
	var env errorEnvelope
	if json.Unmarshal(body, &env) == nil && env.Error != "" {
		out.Message = env.Error
	}
	return out
}
