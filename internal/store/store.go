// Package store archives completed training sessions.
package store

import (
	"context"

	"github.com/ashureev/salestwin/internal/domain"
)

// Repository persists completed training sessions.
type Repository interface {
	// ArchiveSession stores a completed session. Archiving the same id
	// twice keeps the latest copy.
	ArchiveSession(ctx context.Context, session domain.TrainingSession) error

	// GetSession retrieves a session by id. It returns nil, nil when absent.
	GetSession(ctx context.Context, id string) (*domain.TrainingSession, error)

	// ListSessions returns every archived session in archive order.
	ListSessions(ctx context.Context) ([]domain.TrainingSession, error)

	// ListUserSessions returns the sessions of one demo user in archive order.
	ListUserSessions(ctx context.Context, userID string) ([]domain.TrainingSession, error)

	// Ping verifies database connectivity and returns an error if the database is unreachable.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
