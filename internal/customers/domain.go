package customers

import (
	"fmt"
	"time"

	"github.com/clientdesk/clientdesk/internal/shared"
)

// Status classifies a customer's billing state. Exactly one of the three
// enumerated values; no other value passes any write path.
type Status string

const (
	StatusToPay   Status = "To Pay"
	StatusPaid    Status = "Paid"
	StatusPartial Status = "Partial"
)

// StatusFilterAll is the list-page sentinel meaning "no status filter".
const StatusFilterAll = "All"

// AllStatuses returns the enumerated statuses in display order.
func AllStatuses() []Status {
	return []Status{StatusToPay, StatusPaid, StatusPartial}
}

// ParseStatus validates a raw status value.
func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusToPay, StatusPaid, StatusPartial:
		return Status(raw), nil
	}
	return "", fmt.Errorf("%w: unknown payment status %q", shared.ErrValidation, raw)
}

// Customer is a billable contact record.
type Customer struct {
	ID        int64
	Name      string
	Email     *string
	Phone     *string
	AmountDue float64
	Status    Status
	Notes     *string
	DueDate   *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ListFilters narrows the customer listing. A zero Status means all statuses;
// an empty Search applies no text filter.
type ListFilters struct {
	Status Status
	Search string
}

// Stats holds the dashboard aggregates. CountByStatus always carries an entry
// for each enumerated status, so sums over it equal TotalCustomers.
type Stats struct {
	TotalCustomers  int
	CountByStatus   map[Status]int
	TotalReceivable float64
}
