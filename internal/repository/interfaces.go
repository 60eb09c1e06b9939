package repository

import (
	"context"
	"errors"

	"github.com/RMahshie/specplot/pkg/models"
)

// ErrSessionNotFound is returned when no session exists under an ID
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository defines the interface for session data operations
type SessionRepository interface {
	Create(ctx context.Context) (*models.Session, error)
	Get(ctx context.Context, id string) (*models.Session, error)
	ReplaceTables(ctx context.Context, id string, tables []models.NamedTable) (*models.Session, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*models.Session, error)
}
