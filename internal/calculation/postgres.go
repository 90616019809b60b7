package calculation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"calctrack/internal/calc"
)

// PostgresStore implements Store on a pgx connection pool. Schema lives in
// db/schema.sql.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// Compile-time interface check.
var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a Store backed by the given pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const calculationColumns = "id, type, inputs, result, created_at, updated_at"

func scanCalculation(row pgx.Row) (*Calculation, error) {
	var (
		c  Calculation
		id pgtype.UUID
		op string
	)
	if err := row.Scan(&id, &op, &c.Inputs, &c.Result, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.ID = uuid.UUID(id.Bytes)
	c.Type = calc.Operation(op)
	return &c, nil
}

func (s *PostgresStore) Create(ctx context.Context, op calc.Operation, inputs []float64, result float64) (*Calculation, error) {
	id := uuid.New()
	row := s.pool.QueryRow(ctx,
		`INSERT INTO calculations (id, type, inputs, result)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+calculationColumns,
		pgtype.UUID{Bytes: id, Valid: true}, string(op), inputs, result,
	)
	return scanCalculation(row)
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*Calculation, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+calculationColumns+` FROM calculations WHERE id = $1`,
		pgtype.UUID{Bytes: id, Valid: true},
	)
	c, err := scanCalculation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *PostgresStore) FindAll(ctx context.Context, limit, offset int32) ([]Calculation, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+calculationColumns+` FROM calculations
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var calculations []Calculation
	for rows.Next() {
		c, err := scanCalculation(rows)
		if err != nil {
			return nil, err
		}
		calculations = append(calculations, *c)
	}
	return calculations, rows.Err()
}

func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var total int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM calculations`).Scan(&total)
	return total, err
}

func (s *PostgresStore) Update(ctx context.Context, id uuid.UUID, op calc.Operation, inputs []float64, result float64) (*Calculation, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE calculations
		 SET type = $2, inputs = $3, result = $4, updated_at = now()
		 WHERE id = $1
		 RETURNING `+calculationColumns,
		pgtype.UUID{Bytes: id, Valid: true}, string(op), inputs, result,
	)
	c, err := scanCalculation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM calculations WHERE id = $1`,
		pgtype.UUID{Bytes: id, Valid: true},
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
