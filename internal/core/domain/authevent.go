package domain

import "time"

// AuthEventKind enumerates the auth trail entries the gateway records.
type AuthEventKind string

const (
	EventLoginSucceeded AuthEventKind = "login_succeeded"
	EventLoginFailed    AuthEventKind = "login_failed"
	EventLoggedOut      AuthEventKind = "logged_out"
	EventTokenRejected  AuthEventKind = "token_rejected"
)

// AuthEvent is one entry in the authentication audit trail.
type AuthEvent struct {
	ID        string        `json:"id"`
	Username  string        `json:"username"`
	Kind      AuthEventKind `json:"kind"`
	At        time.Time     `json:"at"`
	RemoteIP  string        `json:"remote_ip,omitempty"`
	UserAgent string        `json:"user_agent,omitempty"`
}
