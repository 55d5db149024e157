package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/boxing/internal/game/boxer"
)

// ErrBoxerNotFound is returned when a boxer lookup yields no results.
var ErrBoxerNotFound = errors.New("boxer not found")

// ErrBoxerExists is returned when creating a boxer whose name is already stored.
var ErrBoxerExists = errors.New("boxer already exists")

const boxerColumns = `id, name, weight, height, reach, age, weight_class,
	       fights, wins, created_at, updated_at`

// BoxerRepository provides boxer persistence operations.
type BoxerRepository struct {
	db *pgxpool.Pool
}

// NewBoxerRepository creates a BoxerRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewBoxerRepository(db *pgxpool.Pool) *BoxerRepository {
	return &BoxerRepository{db: db}
}

// Create inserts a new boxer and returns it with ID and timestamps set.
//
// Precondition: b must be non-nil.
// Postcondition: Returns the stored boxer with zero stats and its weight class
// derived from weight, an error wrapping boxer.ErrInvalidArgument, or
// ErrBoxerExists on a duplicate name.
func (r *BoxerRepository) Create(ctx context.Context, b *boxer.Boxer) (*boxer.Boxer, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	wc, err := boxer.WeightClassFor(b.Weight)
	if err != nil {
		return nil, err
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO boxers (name, weight, height, reach, age, weight_class)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+boxerColumns,
		b.Name, b.Weight, b.Height, b.Reach, b.Age, string(wc),
	)
	out, err := scanBoxer(row)
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: %s", ErrBoxerExists, b.Name)
		}
		return nil, fmt.Errorf("inserting boxer: %w", err)
	}
	return out, nil
}

// GetByID retrieves a boxer by its primary key.
//
// Postcondition: Returns the Boxer or ErrBoxerNotFound.
func (r *BoxerRepository) GetByID(ctx context.Context, id int64) (*boxer.Boxer, error) {
	b, err := scanBoxer(r.db.QueryRow(ctx, `SELECT `+boxerColumns+` FROM boxers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBoxerNotFound
		}
		return nil, fmt.Errorf("querying boxer: %w", err)
	}
	return b, nil
}

// GetByName retrieves a boxer by its unique name.
//
// Postcondition: Returns the Boxer or ErrBoxerNotFound.
func (r *BoxerRepository) GetByName(ctx context.Context, name string) (*boxer.Boxer, error) {
	b, err := scanBoxer(r.db.QueryRow(ctx, `SELECT `+boxerColumns+` FROM boxers WHERE name = $1`, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBoxerNotFound
		}
		return nil, fmt.Errorf("querying boxer by name: %w", err)
	}
	return b, nil
}

// Delete removes the boxer with the given ID.
//
// Postcondition: Returns nil on success, ErrBoxerNotFound if no row was deleted.
func (r *BoxerRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM boxers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting boxer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBoxerNotFound
	}
	return nil
}

// UpdateStats records one fight result for the boxer with the given ID.
// The row is locked for the duration of the read-modify-write.
//
// Precondition: result must be boxer.ResultWin or boxer.ResultLoss.
// Postcondition: fights is incremented, and wins too on a win; wins <= fights holds.
// Returns an error wrapping boxer.ErrInvalidArgument for an unknown result and
// ErrBoxerNotFound when no such boxer exists.
func (r *BoxerRepository) UpdateStats(ctx context.Context, id int64, result boxer.Result) error {
	if !result.Valid() {
		return fmt.Errorf("%w: result must be 'win' or 'loss', got %q", boxer.ErrInvalidArgument, string(result))
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	b, err := scanBoxer(tx.QueryRow(ctx, `SELECT `+boxerColumns+` FROM boxers WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrBoxerNotFound
		}
		return fmt.Errorf("locking boxer: %w", err)
	}
	if err := b.Record(result); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
		UPDATE boxers SET fights = $2, wins = $3, updated_at = NOW()
		WHERE id = $1`,
		id, b.Fights, b.Wins,
	); err != nil {
		return fmt.Errorf("updating boxer stats: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing stats: %w", err)
	}
	return nil
}

// Leaderboard returns every boxer with at least one fight, ranked by key.
//
// Precondition: key must be a valid boxer.SortKey.
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *BoxerRepository) Leaderboard(ctx context.Context, key boxer.SortKey) ([]boxer.Standing, error) {
	if _, err := boxer.ParseSortKey(string(key)); err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, `SELECT `+boxerColumns+` FROM boxers WHERE fights > 0 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing boxers: %w", err)
	}
	defer rows.Close()

	boxers := make([]*boxer.Boxer, 0)
	for rows.Next() {
		b, err := scanBoxer(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning boxer row: %w", err)
		}
		boxers = append(boxers, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating boxer rows: %w", err)
	}
	return boxer.Rank(boxers, key), nil
}

func scanBoxer(row pgx.Row) (*boxer.Boxer, error) {
	var (
		b  boxer.Boxer
		wc string
	)
	if err := row.Scan(
		&b.ID, &b.Name, &b.Weight, &b.Height, &b.Reach, &b.Age, &wc,
		&b.Fights, &b.Wins, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	b.WeightClass = boxer.WeightClass(wc)
	return &b, nil
}

// isDuplicateKeyError checks for SQLSTATE 23505 (unique_violation).
func isDuplicateKeyError(err error) bool {
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}
