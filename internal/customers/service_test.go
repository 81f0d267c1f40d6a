package customers

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clientdesk/clientdesk/internal/shared"
)

type mockRepository struct {
	items       map[int64]*Customer
	nextID      int64
	lastFilters ListFilters
}

func newMockRepository() *mockRepository {
	return &mockRepository{items: make(map[int64]*Customer), nextID: 1}
}

func (m *mockRepository) List(ctx context.Context, filters ListFilters) ([]Customer, error) {
	m.lastFilters = filters
	var out []Customer
	for _, c := range m.items {
		if filters.Status != "" && c.Status != filters.Status {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (m *mockRepository) Get(ctx context.Context, id int64) (*Customer, error) {
	c, ok := m.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return c, nil
}

func (m *mockRepository) Create(ctx context.Context, c Customer) (int64, error) {
	id := m.nextID
	m.nextID++
	c.ID = id
	m.items[id] = &c
	return id, nil
}

func (m *mockRepository) Update(ctx context.Context, id int64, c Customer) error {
	if _, ok := m.items[id]; !ok {
		return shared.ErrNotFound
	}
	c.ID = id
	m.items[id] = &c
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *mockRepository) Stats(ctx context.Context) (Stats, error) {
	return newStats(), nil
}

func (m *mockRepository) DueOn(ctx context.Context, day time.Time) ([]Customer, error) {
	return nil, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestServiceListNormalizesStatusFilter(t *testing.T) {
	repo := newMockRepository()
	service := NewService(discardLogger(), repo)
	ctx := context.Background()

	_, err := service.List(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, Status(""), repo.lastFilters.Status)

	_, err = service.List(ctx, StatusFilterAll, "")
	require.NoError(t, err)
	assert.Equal(t, Status(""), repo.lastFilters.Status)

	_, err = service.List(ctx, "Paid", "")
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, repo.lastFilters.Status)

	// An unknown status behaves like "All" instead of matching nothing.
	_, err = service.List(ctx, "Overdue", "")
	require.NoError(t, err)
	assert.Equal(t, Status(""), repo.lastFilters.Status)
}

func TestServiceListTrimsSearch(t *testing.T) {
	repo := newMockRepository()
	service := NewService(discardLogger(), repo)

	_, err := service.List(context.Background(), "", "  alice  ")
	require.NoError(t, err)
	assert.Equal(t, "alice", repo.lastFilters.Search)
}

func TestServiceUpdateMissingCustomer(t *testing.T) {
	repo := newMockRepository()
	service := NewService(discardLogger(), repo)

	err := service.Update(context.Background(), 42, Customer{Name: "Ghost", Status: StatusToPay})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
