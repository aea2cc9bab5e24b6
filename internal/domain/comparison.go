package domain

// NotAvailable is the sentinel for any field the resolver could not populate.
const NotAvailable = "N/A"

// PriceRecord represents one retailer's resolved offer for a search query
type PriceRecord struct {
	Platform  string `json:"platform"`
	Title     string `json:"title"`
	Price     string `json:"price"`     // raw display form, e.g. "$19.99" or "$10 - $15"
	Shipping  string `json:"shipping"`  // same shape as Price
	TotalCost string `json:"totalCost"` // derived, "$X.YY" or "N/A"
	URL       string `json:"url"`
}

// Retailer identifies one site the comparison runs against
type Retailer struct {
	Label  string `json:"label" mapstructure:"label"`
	Domain string `json:"domain" mapstructure:"domain"`
}

// CompareRequest represents a price comparison search request
type CompareRequest struct {
	Query     string `json:"query" binding:"required"`
	Normalize bool   `json:"normalize,omitempty"`
}

// EditRequest carries user-edited price and shipping text for one table row.
// Arbitrary text is accepted; the total is rederived from whatever parses.
type EditRequest struct {
	Price    string `json:"price"`
	Shipping string `json:"shipping"`
}

// CompareResponse is the result of one search across all configured retailers
type CompareResponse struct {
	Query    string        `json:"query"`
	Rows     []PriceRecord `json:"rows"`
	NotFound []string      `json:"notFound,omitempty"` // platform labels that resolved nothing
}
