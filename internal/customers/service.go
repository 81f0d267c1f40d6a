package customers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

type Service struct {
	logger *slog.Logger
	repo   Repository
}

func NewService(logger *slog.Logger, repo Repository) *Service {
	return &Service{logger: logger, repo: repo}
}

// List resolves the raw filter values from the query string. An empty or
// "All" status means no status restriction; an unrecognized value is
// logged and treated the same way rather than returning an empty page.
func (s *Service) List(ctx context.Context, statusFilter, search string) ([]Customer, error) {
	filters := ListFilters{Search: strings.TrimSpace(search)}

	statusFilter = strings.TrimSpace(statusFilter)
	if statusFilter != "" && statusFilter != StatusFilterAll {
		status, err := ParseStatus(statusFilter)
		if err != nil {
			s.logger.Warn("unrecognized status filter, listing all", "status", statusFilter)
		} else {
			filters.Status = status
		}
	}

	customers, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Customer, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, c Customer) (int64, error) {
	id, err := s.repo.Create(ctx, c)
	if err != nil {
		return 0, fmt.Errorf("create customer: %w", err)
	}
	return id, nil
}

func (s *Service) Update(ctx context.Context, id int64, c Customer) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return fmt.Errorf("get customer: %w", err)
	}
	if err := s.repo.Update(ctx, id, c); err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	return nil
}

// ExportAll returns every customer in listing order for spreadsheet export.
func (s *Service) ExportAll(ctx context.Context) ([]Customer, error) {
	customers, err := s.repo.List(ctx, ListFilters{})
	if err != nil {
		return nil, fmt.Errorf("export customers: %w", err)
	}
	return customers, nil
}
