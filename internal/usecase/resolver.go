package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pricelens/backend/internal/domain"
)

// titleCaser capitalizes platform labels derived from retailer domains
var titleCaser = cases.Title(language.English)

// Resolver extracts a canonical price record for one retailer from the raw
// search document. Three extraction tiers are tried in strict order; the
// first that produces a record wins:
//
//  1. first shopping result, taken unconditionally
//  2. first organic result on the retailer domain whose rich snippet carries
//     a detected price
//  3. first organic result on the retailer domain, with no price data
type Resolver struct {
	searchClient domain.SearchClient
}

// NewResolver creates a new resolver backed by the given search client
func NewResolver(searchClient domain.SearchClient) *Resolver {
	return &Resolver{searchClient: searchClient}
}

// Resolve looks up one retailer's offer for the query.
// Every failure, transport errors included, maps to ErrRetailerNotFound so
// one retailer can never block the others.
func (r *Resolver) Resolve(ctx context.Context, query string, retailer domain.Retailer) (*domain.PriceRecord, error) {
	platform := retailer.Label
	if platform == "" {
		platform = PlatformLabel(retailer.Domain)
	}

	results, err := r.searchClient.Search(ctx, query, retailer.Domain)
	if err != nil {
		log.Printf("[RESOLVER] Search failed for %s: %v", retailer.Domain, err)
		return nil, fmt.Errorf("%w: %v", domain.ErrRetailerNotFound, err)
	}

	// Tier 1: shopping results. The first entry is taken as-is; shopping
	// results are already site-restricted by the query so no domain filter
	// is applied here.
	if len(results.ShoppingResults) > 0 {
		item := results.ShoppingResults[0]
		price := orNA(item.Price)
		shipping := orNA(item.Shipping)

		return &domain.PriceRecord{
			Platform:  platform,
			Title:     orNA(item.Title),
			Price:     price,
			Shipping:  shipping,
			TotalCost: DeriveTotalCost(price, shipping),
			URL:       orNA(item.Link),
		}, nil
	}

	// Tier 2: organic results with a detected rich-snippet price
	for _, result := range results.OrganicResults {
		if !strings.Contains(result.Link, retailer.Domain) {
			continue
		}

		price, shipping := snippetPrice(result)
		if price == domain.NotAvailable {
			continue
		}

		return &domain.PriceRecord{
			Platform:  platform,
			Title:     orNA(result.Title),
			Price:     price,
			Shipping:  shipping,
			TotalCost: DeriveTotalCost(price, shipping),
			URL:       result.Link,
		}, nil
	}

	// Tier 3: first organic result on the domain, priceless
	for _, result := range results.OrganicResults {
		if strings.Contains(result.Link, retailer.Domain) {
			return &domain.PriceRecord{
				Platform:  platform,
				Title:     orNA(result.Title),
				Price:     domain.NotAvailable,
				Shipping:  domain.NotAvailable,
				TotalCost: domain.NotAvailable,
				URL:       result.Link,
			}, nil
		}
	}

	return nil, domain.ErrRetailerNotFound
}

// snippetPrice derives display price and shipping strings from an organic
// result's detected extensions. A singular price wins over a range; either
// missing yields "N/A".
func snippetPrice(result domain.OrganicResult) (price, shipping string) {
	price = domain.NotAvailable
	shipping = domain.NotAvailable

	if result.RichSnippet == nil || result.RichSnippet.Bottom == nil {
		return price, shipping
	}
	detected := result.RichSnippet.Bottom.DetectedExtensions
	if detected == nil {
		return price, shipping
	}

	if detected.Price != nil {
		price = "$" + detected.Price.String()
	} else if detected.PriceFrom != nil && detected.PriceTo != nil {
		price = fmt.Sprintf("$%s - $%s", detected.PriceFrom.String(), detected.PriceTo.String())
	}

	if detected.Shipping != nil {
		shipping = "$" + detected.Shipping.String()
	}

	return price, shipping
}

// PlatformLabel derives the display label from a retailer domain by
// capitalizing the portion before the first dot ("amazon.com" -> "Amazon").
func PlatformLabel(site string) string {
	name, _, _ := strings.Cut(site, ".")
	return titleCaser.String(name)
}

// DeriveTotalCost sums a display price and shipping string into "$X.YY".
// An unparseable price (empty, "N/A", a range, garbage) is a hard failure
// yielding "N/A". Shipping only contributes when it contains "$"; a
// malformed dollar shipping is also a hard failure, while "N/A" or plain
// text shipping counts as zero.
func DeriveTotalCost(price, shipping string) string {
	priceVal, err := parseMoney(price)
	if err != nil {
		return domain.NotAvailable
	}

	shippingVal := decimal.Zero
	if strings.Contains(shipping, "$") {
		shippingVal, err = parseMoney(shipping)
		if err != nil {
			return domain.NotAvailable
		}
	}

	return "$" + priceVal.Add(shippingVal).StringFixed(2)
}

// parseMoney strips currency markers and thousands separators and parses
// the remainder as a decimal
func parseMoney(s string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(s, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	return decimal.NewFromString(strings.TrimSpace(cleaned))
}

// orNA substitutes the "N/A" sentinel for missing provider fields
func orNA(s string) string {
	if s == "" {
		return domain.NotAvailable
	}
	return s
}
