package session

import "time"

// Status is the lifecycle state of a focus session.
type Status string

const (
	// StatusIdle means no session exists.
	StatusIdle Status = "idle"

	// StatusActive means a session is running and enforced.
	StatusActive Status = "active"

	// StatusCompleted means the session ran to its scheduled end.
	StatusCompleted Status = "completed"

	// StatusUnlocked means the session ended early with the full secret.
	StatusUnlocked Status = "unlocked"

	// StatusEmergencyTerminated means enforcement could not be kept
	// alive and the session was force-ended without the secret.
	StatusEmergencyTerminated Status = "emergency_terminated"
)

// Session is one focus session. Only the SHA-256 of the secret is kept;
// the plaintext and its fragments exist solely in the StartSession
// return value.
type Session struct {
	ID         string
	Task       string
	SecretHash string
	StartedAt  time.Time
	EndsAt     time.Time
	Status     Status
}

// StatusInfo is the answer to a status query.
type StatusInfo struct {
	Active    bool          `json:"active"`
	Status    Status        `json:"status"`
	Task      string        `json:"task,omitempty"`
	EndsAt    time.Time     `json:"ends_at,omitempty"`
	Remaining time.Duration `json:"remaining,omitempty"`
}
