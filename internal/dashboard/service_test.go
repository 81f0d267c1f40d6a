package dashboard_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clientdesk/clientdesk/internal/customers"
	"github.com/clientdesk/clientdesk/internal/dashboard"
	_ "github.com/clientdesk/clientdesk/testing"
)

type stubStore struct {
	stats    customers.Stats
	statsErr error
	due      []customers.Customer
	dueErr   error
}

func (s *stubStore) Stats(ctx context.Context) (customers.Stats, error) {
	return s.stats, s.statsErr
}

func (s *stubStore) DueOn(ctx context.Context, day time.Time) ([]customers.Customer, error) {
	return s.due, s.dueErr
}

func TestSummary(t *testing.T) {
	store := &stubStore{
		stats: customers.Stats{
			TotalCustomers: 3,
			CountByStatus: map[customers.Status]int{
				customers.StatusToPay:   1,
				customers.StatusPartial: 1,
				customers.StatusPaid:    1,
			},
			TotalReceivable: 150,
		},
		due: []customers.Customer{{ID: 1, Name: "Alice", Status: customers.StatusToPay}},
	}
	service := dashboard.NewService(store)

	summary, err := service.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalCustomers)
	assert.Equal(t, 150.0, summary.TotalReceivable)
	require.Len(t, summary.DueToday, 1)
	assert.Equal(t, "Alice", summary.DueToday[0].Name)

	total := 0
	for _, count := range summary.CountByStatus {
		total += count
	}
	assert.Equal(t, summary.TotalCustomers, total)
}

func TestSummaryPropagatesErrors(t *testing.T) {
	boom := errors.New("backend down")

	_, err := dashboard.NewService(&stubStore{statsErr: boom}).Summary(context.Background())
	assert.ErrorIs(t, err, boom)

	_, err = dashboard.NewService(&stubStore{dueErr: boom}).Summary(context.Background())
	assert.ErrorIs(t, err, boom)
}
