package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/pricelens/backend/internal/domain"
)

// MockNormalizer is a mock implementation of domain.QueryNormalizer
type MockNormalizer struct {
	result string
	called bool
}

func (m *MockNormalizer) Normalize(ctx context.Context, query string) string {
	m.called = true
	if m.result != "" {
		return m.result
	}
	return query
}

func testRetailers() []domain.Retailer {
	return []domain.Retailer{
		{Domain: "amazon.com"},
		{Domain: "walmart.com"},
		{Domain: "ebay.com"},
	}
}

func shoppingDoc(title, price string) *domain.SearchResults {
	return &domain.SearchResults{
		ShoppingResults: []domain.ShoppingResult{{Title: title, Price: price}},
	}
}

func TestCompare_AllRetailersResolve(t *testing.T) {
	client := NewMockSearchClient()
	client.results["amazon.com"] = shoppingDoc("Amazon Mouse", "$19.99")
	client.results["walmart.com"] = shoppingDoc("Walmart Mouse", "$15.99")
	client.results["ebay.com"] = shoppingDoc("Ebay Mouse", "$12.99")

	service := NewComparisonService(NewResolver(client), nil, testRetailers())

	response, err := service.Compare(context.Background(), "wireless mouse", false)
	if err != nil {
		t.Fatalf("Compare() error = %v, want nil", err)
	}

	if len(response.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(response.Rows))
	}
	wantOrder := []string{"Amazon", "Walmart", "Ebay"}
	for i, want := range wantOrder {
		if response.Rows[i].Platform != want {
			t.Errorf("rows[%d].Platform = %q, want %q", i, response.Rows[i].Platform, want)
		}
	}
	if len(response.NotFound) != 0 {
		t.Errorf("NotFound = %v, want empty", response.NotFound)
	}
}

func TestCompare_PartialFailurePreservesOrder(t *testing.T) {
	// Amazon and eBay resolve, Walmart fails: the table is [Amazon, Ebay].
	client := NewMockSearchClient()
	client.results["amazon.com"] = shoppingDoc("Amazon Mouse", "$19.99")
	client.errSites["walmart.com"] = domain.ErrSearchAPIFailure
	client.results["ebay.com"] = shoppingDoc("Ebay Mouse", "$12.99")

	service := NewComparisonService(NewResolver(client), nil, testRetailers())

	response, err := service.Compare(context.Background(), "wireless mouse", false)
	if err != nil {
		t.Fatalf("Compare() error = %v, want nil", err)
	}

	if len(response.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(response.Rows))
	}
	if response.Rows[0].Platform != "Amazon" || response.Rows[1].Platform != "Ebay" {
		t.Errorf("row order = [%s, %s], want [Amazon, Ebay]",
			response.Rows[0].Platform, response.Rows[1].Platform)
	}
	if len(response.NotFound) != 1 || response.NotFound[0] != "Walmart" {
		t.Errorf("NotFound = %v, want [Walmart]", response.NotFound)
	}
}

func TestCompare_AllRetailersFailIsNotAnError(t *testing.T) {
	client := NewMockSearchClient()
	client.err = domain.ErrSearchAPIFailure

	service := NewComparisonService(NewResolver(client), nil, testRetailers())

	response, err := service.Compare(context.Background(), "wireless mouse", false)
	if err != nil {
		t.Fatalf("Compare() error = %v, want nil", err)
	}

	if len(response.Rows) != 0 {
		t.Errorf("rows = %d, want 0", len(response.Rows))
	}
	if len(response.NotFound) != 3 {
		t.Errorf("NotFound = %v, want all three platforms", response.NotFound)
	}
}

func TestCompare_EmptyQuery(t *testing.T) {
	service := NewComparisonService(NewResolver(NewMockSearchClient()), nil, testRetailers())

	for _, query := range []string{"", "   "} {
		_, err := service.Compare(context.Background(), query, false)
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("Compare(%q) err = %v, want ErrInvalidRequest", query, err)
		}
	}
}

func TestCompare_NormalizationApplied(t *testing.T) {
	client := NewMockSearchClient()
	client.results["amazon.com"] = shoppingDoc("Mouse", "$10.00")

	normalizer := &MockNormalizer{result: "Logitech wireless mouse"}
	service := NewComparisonService(NewResolver(client), normalizer, testRetailers())

	response, err := service.Compare(context.Background(), "logi mouse wrlss", true)
	if err != nil {
		t.Fatalf("Compare() error = %v, want nil", err)
	}

	if !normalizer.called {
		t.Errorf("normalizer was not invoked")
	}
	if response.Query != "Logitech wireless mouse" {
		t.Errorf("Query = %q, want the normalized query", response.Query)
	}
	for _, q := range client.queries() {
		if q != "Logitech wireless mouse" {
			t.Errorf("search query = %q, want normalized", q)
		}
	}
}

func TestCompare_NormalizationSkippedWhenDisabled(t *testing.T) {
	client := NewMockSearchClient()
	normalizer := &MockNormalizer{result: "should not be used"}
	service := NewComparisonService(NewResolver(client), normalizer, testRetailers())

	response, err := service.Compare(context.Background(), "wireless mouse", false)
	if err != nil {
		t.Fatalf("Compare() error = %v, want nil", err)
	}

	if normalizer.called {
		t.Errorf("normalizer invoked despite normalize=false")
	}
	if response.Query != "wireless mouse" {
		t.Errorf("Query = %q, want the original query", response.Query)
	}
}

func TestCompare_NilNormalizer(t *testing.T) {
	client := NewMockSearchClient()
	service := NewComparisonService(NewResolver(client), nil, testRetailers())

	// normalize=true with no normalizer configured falls through silently
	response, err := service.Compare(context.Background(), "wireless mouse", true)
	if err != nil {
		t.Fatalf("Compare() error = %v, want nil", err)
	}
	if response.Query != "wireless mouse" {
		t.Errorf("Query = %q, want the original query", response.Query)
	}
}

func TestCompare_SyntheticRetailers(t *testing.T) {
	// The resolver is domain-agnostic: any {label, domain} list works.
	client := NewMockSearchClient()
	client.results["shop.test"] = shoppingDoc("Test Widget", "$1.00")

	retailers := []domain.Retailer{{Label: "TestShop", Domain: "shop.test"}}
	service := NewComparisonService(NewResolver(client), nil, retailers)

	response, err := service.Compare(context.Background(), "widget", false)
	if err != nil {
		t.Fatalf("Compare() error = %v, want nil", err)
	}

	if len(response.Rows) != 1 || response.Rows[0].Platform != "TestShop" {
		t.Errorf("rows = %+v, want one TestShop row", response.Rows)
	}
}

func TestCompare_QueriesEveryRetailerConcurrently(t *testing.T) {
	// Retailer lookups run in parallel goroutines; every one must still be
	// issued and recorded exactly once.
	client := NewMockSearchClient()
	var retailers []domain.Retailer
	for i := 0; i < 8; i++ {
		domainName := fmt.Sprintf("shop%d.test", i)
		client.results[domainName] = shoppingDoc("Widget", "$1.00")
		retailers = append(retailers, domain.Retailer{Domain: domainName})
	}

	service := NewComparisonService(NewResolver(client), nil, retailers)

	response, err := service.Compare(context.Background(), "widget", false)
	if err != nil {
		t.Fatalf("Compare() error = %v, want nil", err)
	}

	if len(response.Rows) != len(retailers) {
		t.Errorf("rows = %d, want %d", len(response.Rows), len(retailers))
	}
	queries := client.queries()
	if len(queries) != len(retailers) {
		t.Fatalf("recorded queries = %d, want %d", len(queries), len(retailers))
	}
	for _, q := range queries {
		if q != "widget" {
			t.Errorf("search query = %q, want %q", q, "widget")
		}
	}
}

func TestCompare_CancelledContext(t *testing.T) {
	client := NewMockSearchClient()
	service := NewComparisonService(NewResolver(client), nil, testRetailers())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.Compare(ctx, "wireless mouse", false)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Compare() err = %v, want context.Canceled", err)
	}
}
