package customers

import (
	"context"
	"time"

	"github.com/clientdesk/clientdesk/internal/platform/db"
)

// Repository defines persistence operations for customer records. Writes are
// atomic per operation; the store owns all rows and every read reflects its
// current committed state.
type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Customer, error)
	Get(ctx context.Context, id int64) (*Customer, error)
	Create(ctx context.Context, c Customer) (int64, error)
	Update(ctx context.Context, id int64, c Customer) error
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (Stats, error)
	DueOn(ctx context.Context, day time.Time) ([]Customer, error)
}

// NewRepository picks the implementation matching the store's backend.
func NewRepository(store *db.Store) Repository {
	if store.Backend == db.BackendPostgres {
		return &pgRepository{pool: store.Pool}
	}
	return &sqliteRepository{db: store.SQL}
}

func newStats() Stats {
	counts := make(map[Status]int, 3)
	for _, st := range AllStatuses() {
		counts[st] = 0
	}
	return Stats{CountByStatus: counts}
}
