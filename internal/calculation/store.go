package calculation

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"calctrack/internal/calc"
)

// ErrNotFound is returned when a calculation does not exist.
var ErrNotFound = errors.New("calculation not found")

// Store is the persistence boundary for calculations. The Postgres
// implementation is authoritative; tests substitute an in-memory fake.
type Store interface {
	Create(ctx context.Context, op calc.Operation, inputs []float64, result float64) (*Calculation, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Calculation, error)
	FindAll(ctx context.Context, limit, offset int32) ([]Calculation, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id uuid.UUID, op calc.Operation, inputs []float64, result float64) (*Calculation, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Cache is the optional read-through cache in front of the store. A nil
// Cache disables caching entirely.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
	DeletePattern(ctx context.Context, pattern string) error
}
