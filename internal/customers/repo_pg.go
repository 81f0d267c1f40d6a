package customers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clientdesk/clientdesk/internal/shared"
)

const pgCustomerColumns = "id, name, email, phone, amount_due, payment_status, notes, due_date, created_at, updated_at"

type pgRepository struct {
	pool *pgxpool.Pool
}

func (r *pgRepository) List(ctx context.Context, filters ListFilters) ([]Customer, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("payment_status = $%d", argPos))
		args = append(args, string(filters.Status))
		argPos++
	}
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		conditions = append(conditions, fmt.Sprintf(
			"(name ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d OR notes ILIKE $%d OR payment_status ILIKE $%d OR id::text ILIKE $%d OR amount_due::text ILIKE $%d)",
			argPos, argPos, argPos, argPos, argPos, argPos, argPos))
		args = append(args, pattern)
		argPos++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + conditions[0]
		for i := 1; i < len(conditions); i++ {
			whereClause += " AND " + conditions[i]
		}
	}

	query := fmt.Sprintf("SELECT %s FROM customers %s ORDER BY name ASC, id ASC", pgCustomerColumns, whereClause)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, shared.ClassifyDBError(err)
	}
	defer rows.Close()

	return scanPGCustomers(rows)
}

func (r *pgRepository) Get(ctx context.Context, id int64) (*Customer, error) {
	query := fmt.Sprintf("SELECT %s FROM customers WHERE id = $1", pgCustomerColumns)
	row := r.pool.QueryRow(ctx, query, id)
	c, err := scanPGCustomer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, shared.ClassifyDBError(err)
	}
	return c, nil
}

func (r *pgRepository) Create(ctx context.Context, c Customer) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO customers (name, email, phone, amount_due, payment_status, notes, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, c.Name, textOrNil(c.Email), textOrNil(c.Phone), c.AmountDue, string(c.Status), textOrNil(c.Notes), dateOrNil(c.DueDate)).Scan(&id)
	if err != nil {
		return 0, shared.ClassifyDBError(err)
	}
	return id, nil
}

func (r *pgRepository) Update(ctx context.Context, id int64, c Customer) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE customers
		SET name = $1, email = $2, phone = $3, amount_due = $4,
		    payment_status = $5, notes = $6, due_date = $7, updated_at = now()
		WHERE id = $8
	`, c.Name, textOrNil(c.Email), textOrNil(c.Phone), c.AmountDue, string(c.Status), textOrNil(c.Notes), dateOrNil(c.DueDate), id)
	if err != nil {
		return shared.ClassifyDBError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *pgRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM customers WHERE id = $1", id)
	if err != nil {
		return shared.ClassifyDBError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *pgRepository) Stats(ctx context.Context) (Stats, error) {
	stats := newStats()
	rows, err := r.pool.Query(ctx, `
		SELECT payment_status, COUNT(*), COALESCE(SUM(amount_due), 0)
		FROM customers
		GROUP BY payment_status
	`)
	if err != nil {
		return stats, shared.ClassifyDBError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		var sum float64
		if err := rows.Scan(&status, &count, &sum); err != nil {
			return stats, err
		}
		stats.CountByStatus[Status(status)] = count
		stats.TotalCustomers += count
		if Status(status) != StatusPaid {
			stats.TotalReceivable += sum
		}
	}
	return stats, rows.Err()
}

func (r *pgRepository) DueOn(ctx context.Context, day time.Time) ([]Customer, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM customers WHERE due_date = $1 AND payment_status <> $2 ORDER BY name ASC, id ASC",
		pgCustomerColumns)
	due := pgtype.Date{Time: day, Valid: true}
	rows, err := r.pool.Query(ctx, query, due, string(StatusPaid))
	if err != nil {
		return nil, shared.ClassifyDBError(err)
	}
	defer rows.Close()

	return scanPGCustomers(rows)
}

func scanPGCustomers(rows pgx.Rows) ([]Customer, error) {
	var out []Customer
	for rows.Next() {
		c, err := scanPGCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func scanPGCustomer(row pgx.Row) (*Customer, error) {
	var c Customer
	var status string
	var email, phone, notes pgtype.Text
	var dueDate pgtype.Date
	var createdAt, updatedAt pgtype.Timestamptz

	err := row.Scan(&c.ID, &c.Name, &email, &phone, &c.AmountDue, &status, &notes, &dueDate, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	c.Status = Status(status)
	if email.Valid {
		c.Email = &email.String
	}
	if phone.Valid {
		c.Phone = &phone.String
	}
	if notes.Valid {
		c.Notes = &notes.String
	}
	if dueDate.Valid {
		d := dueDate.Time
		c.DueDate = &d
	}
	if createdAt.Valid {
		c.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		c.UpdatedAt = updatedAt.Time
	}
	return &c, nil
}

func textOrNil(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func dateOrNil(t *time.Time) pgtype.Date {
	if t == nil {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: *t, Valid: true}
}
