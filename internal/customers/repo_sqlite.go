package customers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/clientdesk/clientdesk/internal/shared"
)

const sqliteCustomerColumns = "id, name, email, phone, amount_due, payment_status, notes, due_date, created_at, updated_at"

// sqliteDateLayout is how due dates are stored in the file-backed store.
const sqliteDateLayout = "2006-01-02"

type sqliteRepository struct {
	db *sql.DB
}

func (r *sqliteRepository) List(ctx context.Context, filters ListFilters) ([]Customer, error) {
	var conditions []string
	var args []interface{}

	if filters.Status != "" {
		conditions = append(conditions, "payment_status = ?")
		args = append(args, string(filters.Status))
	}
	if filters.Search != "" {
		// SQLite LIKE is case-insensitive for ASCII, matching the store's
		// default collation.
		pattern := "%" + filters.Search + "%"
		conditions = append(conditions,
			"(name LIKE ? OR email LIKE ? OR phone LIKE ? OR notes LIKE ? OR payment_status LIKE ? OR CAST(id AS TEXT) LIKE ? OR CAST(amount_due AS TEXT) LIKE ?)")
		for i := 0; i < 7; i++ {
			args = append(args, pattern)
		}
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + conditions[0]
		for i := 1; i < len(conditions); i++ {
			whereClause += " AND " + conditions[i]
		}
	}

	query := fmt.Sprintf("SELECT %s FROM customers %s ORDER BY name ASC, id ASC", sqliteCustomerColumns, whereClause)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, shared.ClassifyDBError(err)
	}
	defer rows.Close()

	return scanSQLiteCustomers(rows)
}

func (r *sqliteRepository) Get(ctx context.Context, id int64) (*Customer, error) {
	query := fmt.Sprintf("SELECT %s FROM customers WHERE id = ?", sqliteCustomerColumns)
	row := r.db.QueryRowContext(ctx, query, id)
	c, err := scanSQLiteCustomer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, shared.ClassifyDBError(err)
	}
	return c, nil
}

func (r *sqliteRepository) Create(ctx context.Context, c Customer) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO customers (name, email, phone, amount_due, payment_status, notes, due_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, c.Name, nullString(c.Email), nullString(c.Phone), c.AmountDue, string(c.Status), nullString(c.Notes), nullDate(c.DueDate))
	if err != nil {
		return 0, shared.ClassifyDBError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *sqliteRepository) Update(ctx context.Context, id int64, c Customer) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE customers
		SET name = ?, email = ?, phone = ?, amount_due = ?,
		    payment_status = ?, notes = ?, due_date = ?, updated_at = datetime('now')
		WHERE id = ?
	`, c.Name, nullString(c.Email), nullString(c.Phone), c.AmountDue, string(c.Status), nullString(c.Notes), nullDate(c.DueDate), id)
	if err != nil {
		return shared.ClassifyDBError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *sqliteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM customers WHERE id = ?", id)
	if err != nil {
		return shared.ClassifyDBError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *sqliteRepository) Stats(ctx context.Context) (Stats, error) {
	stats := newStats()
	rows, err := r.db.QueryContext(ctx, `
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

func (r *sqliteRepository) DueOn(ctx context.Context, day time.Time) ([]Customer, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM customers WHERE due_date = ? AND payment_status <> ? ORDER BY name ASC, id ASC",
		sqliteCustomerColumns)
	rows, err := r.db.QueryContext(ctx, query, day.Format(sqliteDateLayout), string(StatusPaid))
	if err != nil {
		return nil, shared.ClassifyDBError(err)
	}
	defer rows.Close()

	return scanSQLiteCustomers(rows)
}

func scanSQLiteCustomers(rows *sql.Rows) ([]Customer, error) {
	var out []Customer
	for rows.Next() {
		c, err := scanSQLiteCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSQLiteCustomer(row rowScanner) (*Customer, error) {
	var c Customer
	var status string
	var email, phone, notes, dueDate sql.NullString
	var createdAt, updatedAt string

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
	if dueDate.Valid && dueDate.String != "" {
		if d, err := time.Parse(sqliteDateLayout, dueDate.String); err == nil {
			c.DueDate = &d
		}
	}
	c.CreatedAt = parseSQLiteTime(createdAt)
	c.UpdatedAt = parseSQLiteTime(updatedAt)
	return &c, nil
}

func parseSQLiteTime(s string) time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullDate(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(sqliteDateLayout), Valid: true}
}
