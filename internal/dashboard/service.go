package dashboard

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/clientdesk/clientdesk/internal/customers"
)

// Store is the subset of the customer repository the dashboard reads from.
type Store interface {
	Stats(ctx context.Context) (customers.Stats, error)
	DueOn(ctx context.Context, day time.Time) ([]customers.Customer, error)
}

// Summary is everything the dashboard page shows.
type Summary struct {
	customers.Stats
	DueToday []customers.Customer
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Summary gathers the billing counts and today's unpaid due list. The two
// reads are independent, so they run concurrently.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	var summary Summary

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := s.store.Stats(ctx)
		if err != nil {
			return fmt.Errorf("load stats: %w", err)
		}
		summary.Stats = stats
		return nil
	})
	g.Go(func() error {
		due, err := s.store.DueOn(ctx, time.Now())
		if err != nil {
			return fmt.Errorf("load due today: %w", err)
		}
		summary.DueToday = due
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &summary, nil
}
