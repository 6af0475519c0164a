package model

import (
	"fmt"
	"time"

	apperrors "mcphubs/internal/errors"
)

// RemoteServer is a hosted MCP endpoint that clients can connect to.
type RemoteServer struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	Transport   string    `json:"transport"`
	AuthType    string    `json:"auth_type"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Client is an application that speaks MCP.
type Client struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Homepage    string    `json:"homepage"`
	Platforms   []string  `json:"platforms"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SubmissionStatus is the moderation state of a community submission.
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionApproved SubmissionStatus = "approved"
	SubmissionRejected SubmissionStatus = "rejected"
)

// ParseSubmissionStatus accepts the three known states.
func ParseSubmissionStatus(s string) (SubmissionStatus, bool) {
	switch st := SubmissionStatus(s); st {
	case SubmissionPending, SubmissionApproved, SubmissionRejected:
		return st, true
	}
	return "", false
}

// Submission is an entry proposed by the community and waiting for moderation.
type Submission struct {
	ID              string           `json:"id"`
	Kind            string           `json:"kind"`
	Name            string           `json:"name"`
	URL             string           `json:"url"`
	SubmitterEmail  string           `json:"submitter_email,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	Status          SubmissionStatus `json:"status"`
	ApprovedAt      *time.Time       `json:"approved_at,omitempty"`
	RejectedAt      *time.Time       `json:"rejected_at,omitempty"`
	RejectionReason string           `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

// Transition moves the submission to next. Only pending submissions can move,
// and only to approved or rejected.
func (s *Submission) Transition(next SubmissionStatus, at time.Time, reason string) error {
	if s.Status != SubmissionPending {
		return fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidTransition, s.Status, next)
	}
	switch next {
	case SubmissionApproved:
		s.ApprovedAt = &at
	case SubmissionRejected:
		s.RejectedAt = &at
		s.RejectionReason = reason
	default:
		return fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidTransition, s.Status, next)
	}
	s.Status = next
	return nil
}
