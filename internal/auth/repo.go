package auth

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clientdesk/clientdesk/internal/platform/db"
	"github.com/clientdesk/clientdesk/internal/shared"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	Create(ctx context.Context, username, passwordHash string) (int64, error)
}

// NewRepository picks the implementation matching the store's backend.
func NewRepository(store *db.Store) Repository {
	if store.Backend == db.BackendPostgres {
		return &pgRepository{pool: store.Pool}
	}
	return &sqliteRepository{db: store.SQL}
}

type pgRepository struct {
	pool *pgxpool.Pool
}

func (r *pgRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	row := r.pool.QueryRow(ctx,
		"SELECT id, username, password_hash, created_at, updated_at FROM users WHERE username = $1", username)
	return scanPGUser(row)
}

func (r *pgRepository) FindByID(ctx context.Context, id int64) (*User, error) {
	row := r.pool.QueryRow(ctx,
		"SELECT id, username, password_hash, created_at, updated_at FROM users WHERE id = $1", id)
	return scanPGUser(row)
}

func (r *pgRepository) Create(ctx context.Context, username, passwordHash string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		"INSERT INTO users (username, password_hash) VALUES ($1, $2) RETURNING id",
		username, passwordHash).Scan(&id)
	if err != nil {
		return 0, shared.ClassifyDBError(err)
	}
	return id, nil
}

func scanPGUser(row pgx.Row) (*User, error) {
	var u User
	var createdAt, updatedAt pgtype.Timestamptz
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, shared.ClassifyDBError(err)
	}
	u.CreatedAt = createdAt.Time
	u.UpdatedAt = updatedAt.Time
	return &u, nil
}

type sqliteRepository struct {
	db *sql.DB
}

func (r *sqliteRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, username, password_hash FROM users WHERE username = ?", username)
	return scanSQLiteUser(row)
}

func (r *sqliteRepository) FindByID(ctx context.Context, id int64) (*User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, username, password_hash FROM users WHERE id = ?", id)
	return scanSQLiteUser(row)
}

func (r *sqliteRepository) Create(ctx context.Context, username, passwordHash string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (username, password_hash) VALUES (?, ?)", username, passwordHash)
	if err != nil {
		return 0, shared.ClassifyDBError(err)
	}
	return res.LastInsertId()
}

func scanSQLiteUser(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, shared.ClassifyDBError(err)
	}
	return &u, nil
}
