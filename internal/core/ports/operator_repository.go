package ports

import (
	"context"

	"github.com/opsdesk/console/internal/core/domain"
)

// OperatorRepository defines the interface for operator account persistence.
type OperatorRepository interface {
	Create(ctx context.Context, op *domain.Operator) (*domain.Operator, error)
	FindByUsername(ctx context.Context, username string) (*domain.Operator, error)
}
