package domain

import "time"

// UserRegisteredEvent represents the payload for citypulse.user.registered messages.
type UserRegisteredEvent struct {
	EventID            string
	UserID             string
	Username           string
	Email              string
	Role               string
	RegisteredAt       time.Time
	RegistrationMethod string
	Metadata           map[string]any
}

// ComplaintSubmittedEvent represents the payload for citypulse.complaint.submitted messages.
type ComplaintSubmittedEvent struct {
	EventID     string
	ComplaintID string
	UserID      string
	Category    ComplaintCategory
	Severity    ComplaintSeverity
	Title       string
	SubmittedAt time.Time
	Metadata    map[string]any
}

// ComplaintStatusChangedEvent represents the payload for citypulse.complaint.status.changed messages.
type ComplaintStatusChangedEvent struct {
	EventID     string
	ComplaintID string
	UserID      string
	OldStatus   ComplaintStatus
	NewStatus   ComplaintStatus
	Notes       string
	ChangedBy   string
	ChangedAt   time.Time
	Metadata    map[string]any
}

// MailMessage is a one-way notification handed to the asynchronous
// dispatch boundary. Failures never propagate to the triggering request.
type MailMessage struct {
	Recipients []string
	Subject    string
	Body       string
}
