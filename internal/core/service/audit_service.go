package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/opsdesk/console/internal/api/metrics"
	"github.com/opsdesk/console/internal/core/domain"
	"github.com/opsdesk/console/internal/core/ports"
)

// ReplayChecker abstracts the idempotency store (Redis) used to drop
// re-delivered audit entries.
type ReplayChecker interface {
	IsDuplicate(ctx context.Context, username string, kind domain.AuthEventKind, ts time.Time) (bool, error)
	Mark(ctx context.Context, username string, kind domain.AuthEventKind, ts time.Time) error
}

type auditService struct {
	repo   ports.AuditRepository
	replay ReplayChecker
	log    zerolog.Logger
}

// NewAuditService returns an AuditService implementation.
func NewAuditService(repo ports.AuditRepository, replay ReplayChecker, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, replay: replay, log: log}
}

// Process deduplicates and persists a single auth trail entry.
func (s *auditService) Process(ctx context.Context, in ports.AuditInput) error {
	isDup, err := s.replay.IsDuplicate(ctx, in.Username, in.Kind, in.Timestamp)
	if err != nil {
		s.log.Warn().Err(err).Str("username", in.Username).Msg("replay check failed, recording anyway")
	} else if isDup {
		metrics.AuditDedupTotal.WithLabelValues("hit").Inc()
		s.log.Debug().Str("username", in.Username).Str("kind", string(in.Kind)).Msg("duplicate audit entry skipped")
		return nil
	}
	metrics.AuditDedupTotal.WithLabelValues("miss").Inc()

	if markErr := s.replay.Mark(ctx, in.Username, in.Kind, in.Timestamp); markErr != nil {
		s.log.Warn().Err(markErr).Str("username", in.Username).Msg("failed to set replay key")
	}

	event := &domain.AuthEvent{
		ID:        uuid.NewString(),
		Username:  in.Username,
		Kind:      in.Kind,
		At:        in.Timestamp,
		RemoteIP:  in.RemoteIP,
		UserAgent: in.UserAgent,
	}
	if err := s.repo.Insert(ctx, event); err != nil {
		metrics.AuditErrorsTotal.WithLabelValues("insert_failed").Inc()
		return fmt.Errorf("record auth event: %w", err)
	}

	metrics.AuditEventsTotal.WithLabelValues(string(in.Kind)).Inc()
	s.log.Info().
		Str("username", in.Username).
		Str("kind", string(in.Kind)).
		Str("remote_ip", in.RemoteIP).
		Msg("auth event recorded")

	return nil
}
