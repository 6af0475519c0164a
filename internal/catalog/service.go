// Package catalog manages the curated remote servers and clients and the community
// submissions that feed them.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"mcphubs/internal/database"
	apperrors "mcphubs/internal/errors"
	"mcphubs/internal/model"
	"mcphubs/internal/validation"
)

// Store is the catalog's slice of the database.
type Store interface {
	UpsertRemoteServer(ctx context.Context, arg database.UpsertRemoteServerParams) (database.RemoteServer, error)
	GetRemoteServer(ctx context.Context, id uuid.UUID) (database.RemoteServer, error)
	ListRemoteServers(ctx context.Context) ([]database.RemoteServer, error)
	UpsertClient(ctx context.Context, arg database.UpsertClientParams) (database.Client, error)
	ListClients(ctx context.Context) ([]database.Client, error)
	CreateSubmission(ctx context.Context, arg database.CreateSubmissionParams) (database.Submission, error)
	GetSubmission(ctx context.Context, id uuid.UUID) (database.Submission, error)
	ListSubmissionsByStatus(ctx context.Context, status string) ([]database.Submission, error)
	UpdateSubmissionStatus(ctx context.Context, arg database.UpdateSubmissionStatusParams) (database.Submission, error)
}

// ServerInput is the payload for creating or replacing a remote server, keyed by name.
type ServerInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	URL         string `json:"url" validate:"required,http_url"`
	Transport   string `json:"transport" validate:"required,oneof=sse streamable-http"`
	AuthType    string `json:"auth_type" validate:"required,oneof=none api_key oauth"`
	Status      string `json:"status" validate:"omitempty,oneof=active inactive"`
	Description string `json:"description" validate:"max=2000"`
}

// ClientInput is the payload for creating or replacing a client, keyed by name.
type ClientInput struct {
	Name        string   `json:"name" validate:"required,max=100"`
	Homepage    string   `json:"homepage" validate:"omitempty,http_url"`
	Platforms   []string `json:"platforms" validate:"max=10,dive,required,max=30"`
	Status      string   `json:"status" validate:"omitempty,oneof=active inactive"`
	Description string   `json:"description" validate:"max=2000"`
}

// SubmissionInput is a community proposal.
type SubmissionInput struct {
	Kind           string `json:"kind" validate:"required,oneof=project server client"`
	Name           string `json:"name" validate:"required,max=100"`
	URL            string `json:"url" validate:"required,http_url"`
	SubmitterEmail string `json:"submitter_email" validate:"omitempty,email"`
	Notes          string `json:"notes" validate:"max=2000"`
}

// Service implements catalog operations.
type Service struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

func (s *Service) UpsertServer(ctx context.Context, in ServerInput) (model.RemoteServer, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Status == "" {
		in.Status = "active"
	}
	if err := validation.Struct(&in); err != nil {
		return model.RemoteServer{}, err
	}
	row, err := s.store.UpsertRemoteServer(ctx, database.UpsertRemoteServerParams{
		ID:          uuid.New(),
		Name:        in.Name,
		Url:         in.URL,
		Transport:   in.Transport,
		AuthType:    in.AuthType,
		Status:      in.Status,
		Description: in.Description,
	})
	if err != nil {
		return model.RemoteServer{}, fmt.Errorf("upsert remote server %q: %w", in.Name, err)
	}
	s.logger.Info("Remote server saved", "id", row.ID, "name", row.Name)
	return serverFromRow(row), nil
}

func (s *Service) ListServers(ctx context.Context) ([]model.RemoteServer, error) {
	rows, err := s.store.ListRemoteServers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list remote servers: %w", err)
	}
	out := make([]model.RemoteServer, len(rows))
	for i, r := range rows {
		out[i] = serverFromRow(r)
	}
	return out, nil
}

func (s *Service) GetServer(ctx context.Context, rawID string) (model.RemoteServer, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return model.RemoteServer{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidIdentifier, rawID)
	}
	row, err := s.store.GetRemoteServer(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.RemoteServer{}, fmt.Errorf("remote server %s: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return model.RemoteServer{}, fmt.Errorf("get remote server %s: %w", id, err)
	}
	return serverFromRow(row), nil
}

func (s *Service) UpsertClient(ctx context.Context, in ClientInput) (model.Client, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Status == "" {
		in.Status = "active"
	}
	if in.Platforms == nil {
		in.Platforms = []string{}
	}
	if err := validation.Struct(&in); err != nil {
		return model.Client{}, err
	}
	row, err := s.store.UpsertClient(ctx, database.UpsertClientParams{
		ID:          uuid.New(),
		Name:        in.Name,
		Homepage:    in.Homepage,
		Platforms:   in.Platforms,
		Status:      in.Status,
		Description: in.Description,
	})
	if err != nil {
		return model.Client{}, fmt.Errorf("upsert client %q: %w", in.Name, err)
	}
	s.logger.Info("Client saved", "id", row.ID, "name", row.Name)
	return clientFromRow(row), nil
}

func (s *Service) ListClients(ctx context.Context) ([]model.Client, error) {
	rows, err := s.store.ListClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	out := make([]model.Client, len(rows))
	for i, r := range rows {
		out[i] = clientFromRow(r)
	}
	return out, nil
}

// CreateSubmission records a pending community submission.
func (s *Service) CreateSubmission(ctx context.Context, in SubmissionInput) (model.Submission, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.SubmitterEmail = strings.TrimSpace(in.SubmitterEmail)
	if err := validation.Struct(&in); err != nil {
		return model.Submission{}, err
	}
	row, err := s.store.CreateSubmission(ctx, database.CreateSubmissionParams{
		ID:             uuid.New(),
		Kind:           in.Kind,
		Name:           in.Name,
		Url:            in.URL,
		SubmitterEmail: in.SubmitterEmail,
		Notes:          in.Notes,
	})
	if err != nil {
		return model.Submission{}, fmt.Errorf("create submission: %w", err)
	}
	s.logger.Info("Submission received", "id", row.ID, "kind", row.Kind, "name", row.Name)
	return submissionFromRow(row), nil
}

// ListSubmissions returns submissions in the given state, newest first.
func (s *Service) ListSubmissions(ctx context.Context, status model.SubmissionStatus) ([]model.Submission, error) {
	rows, err := s.store.ListSubmissionsByStatus(ctx, string(status))
	if err != nil {
		return nil, fmt.Errorf("list %s submissions: %w", status, err)
	}
	out := make([]model.Submission, len(rows))
	for i, r := range rows {
		out[i] = submissionFromRow(r)
	}
	return out, nil
}

// ListPublicSubmissions returns approved submissions without submitter contact details.
func (s *Service) ListPublicSubmissions(ctx context.Context) ([]model.Submission, error) {
	subs, err := s.ListSubmissions(ctx, model.SubmissionApproved)
	if err != nil {
		return nil, err
	}
	for i := range subs {
		subs[i].SubmitterEmail = ""
		subs[i].Notes = ""
	}
	return subs, nil
}

func (s *Service) ApproveSubmission(ctx context.Context, rawID string) (model.Submission, error) {
	return s.transition(ctx, rawID, model.SubmissionApproved, "")
}

func (s *Service) RejectSubmission(ctx context.Context, rawID, reason string) (model.Submission, error) {
	return s.transition(ctx, rawID, model.SubmissionRejected, strings.TrimSpace(reason))
}

func (s *Service) transition(ctx context.Context, rawID string, next model.SubmissionStatus, reason string) (model.Submission, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return model.Submission{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidIdentifier, rawID)
	}
	row, err := s.store.GetSubmission(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Submission{}, fmt.Errorf("submission %s: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return model.Submission{}, fmt.Errorf("get submission %s: %w", id, err)
	}

	sub := submissionFromRow(row)
	if err := sub.Transition(next, s.now(), reason); err != nil {
		return model.Submission{}, err
	}

	updated, err := s.store.UpdateSubmissionStatus(ctx, database.UpdateSubmissionStatusParams{
		ID:              id,
		Status:          string(sub.Status),
		ApprovedAt:      timestamptz(sub.ApprovedAt),
		RejectedAt:      timestamptz(sub.RejectedAt),
		RejectionReason: sub.RejectionReason,
	})
	if errors.Is(err, pgx.ErrNoRows) {
		// Someone else moderated it between the read and the write.
		return model.Submission{}, fmt.Errorf("%w: submission %s is no longer pending", apperrors.ErrInvalidTransition, id)
	}
	if err != nil {
		return model.Submission{}, fmt.Errorf("update submission %s: %w", id, err)
	}
	s.logger.Info("Submission moderated", "id", id, "status", sub.Status)
	return submissionFromRow(updated), nil
}

func timestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}

func timePtr(ts pgtype.Timestamptz) *time.Time {
	if !ts.Valid {
		return nil
	}
	t := ts.Time
	return &t
}

func serverFromRow(r database.RemoteServer) model.RemoteServer {
	return model.RemoteServer{
		ID:          r.ID.String(),
		Name:        r.Name,
		URL:         r.Url,
		Transport:   r.Transport,
		AuthType:    r.AuthType,
		Status:      r.Status,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func clientFromRow(r database.Client) model.Client {
	platforms := r.Platforms
	if platforms == nil {
		platforms = []string{}
	}
	return model.Client{
		ID:          r.ID.String(),
		Name:        r.Name,
		Homepage:    r.Homepage,
		Platforms:   platforms,
		Status:      r.Status,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func submissionFromRow(r database.Submission) model.Submission {
	return model.Submission{
		ID:              r.ID.String(),
		Kind:            r.Kind,
		Name:            r.Name,
		URL:             r.Url,
		SubmitterEmail:  r.SubmitterEmail,
		Notes:           r.Notes,
		Status:          model.SubmissionStatus(r.Status),
		ApprovedAt:      timePtr(r.ApprovedAt),
		RejectedAt:      timePtr(r.RejectedAt),
		RejectionReason: r.RejectionReason,
		CreatedAt:       r.CreatedAt,
	}
}
