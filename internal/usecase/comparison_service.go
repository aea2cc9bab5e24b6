package usecase

import (
	"context"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pricelens/backend/internal/domain"
)

// ComparisonService runs one search across all configured retailers and
// assembles the comparison table.
type ComparisonService struct {
	resolver   *Resolver
	normalizer domain.QueryNormalizer
	retailers  []domain.Retailer
}

// NewComparisonService creates a comparison service. The normalizer is
// optional; pass nil to disable query normalization entirely.
func NewComparisonService(resolver *Resolver, normalizer domain.QueryNormalizer, retailers []domain.Retailer) *ComparisonService {
	return &ComparisonService{
		resolver:   resolver,
		normalizer: normalizer,
		retailers:  retailers,
	}
}

// Compare resolves the query against every configured retailer.
// Retailers are resolved concurrently, but rows land in configured retailer
// order by index, never in arrival order. A retailer that resolves nothing
// is reported in NotFound; it is not an error, even when all of them fail.
func (s *ComparisonService) Compare(ctx context.Context, query string, normalize bool) (*domain.CompareResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrInvalidRequest
	}

	if normalize && s.normalizer != nil {
		normalized := s.normalizer.Normalize(ctx, query)
		if normalized != query {
			log.Printf("[COMPARE] Normalized query %q -> %q", query, normalized)
		}
		query = normalized
	}

	resolved := make([]*domain.PriceRecord, len(s.retailers))

	g, gctx := errgroup.WithContext(ctx)
	for i, retailer := range s.retailers {
		g.Go(func() error {
			record, err := s.resolver.Resolve(gctx, query, retailer)
			if err != nil {
				// A miss on one retailer never interrupts the others, but
				// a cancelled context ends the whole comparison.
				return gctx.Err()
			}
			resolved[i] = record
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	response := &domain.CompareResponse{Query: query}
	for i, record := range resolved {
		if record == nil {
			response.NotFound = append(response.NotFound, retailerLabel(s.retailers[i]))
			continue
		}
		response.Rows = append(response.Rows, *record)
	}

	return response, nil
}

// Retailers returns the configured retailer list in comparison order
func (s *ComparisonService) Retailers() []domain.Retailer {
	return s.retailers
}

func retailerLabel(r domain.Retailer) string {
	if r.Label != "" {
		return r.Label
	}
	return PlatformLabel(r.Domain)
}
