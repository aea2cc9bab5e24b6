package domain

import (
	"bytes"
	"encoding/json"
)

// SearchResults represents a raw result document from the search provider.
// Every key is optional at every level; the resolver must tolerate absence.
type SearchResults struct {
	ShoppingResults []ShoppingResult `json:"shopping_results,omitempty"`
	OrganicResults  []OrganicResult  `json:"organic_results,omitempty"`
}

// ShoppingResult is one entry from the provider's shopping block
type ShoppingResult struct {
	Title    string `json:"title,omitempty"`
	Price    string `json:"price,omitempty"`
	Shipping string `json:"shipping,omitempty"`
	Link     string `json:"link,omitempty"`
}

// OrganicResult is one entry from the provider's organic block
type OrganicResult struct {
	Title       string       `json:"title,omitempty"`
	Link        string       `json:"link,omitempty"`
	RichSnippet *RichSnippet `json:"rich_snippet,omitempty"`
}

// RichSnippet wraps the provider's optional rich-snippet block
type RichSnippet struct {
	Bottom *RichSnippetBlock `json:"bottom,omitempty"`
}

// RichSnippetBlock holds the detected extensions for a rich snippet
type RichSnippetBlock struct {
	DetectedExtensions *DetectedExtensions `json:"detected_extensions,omitempty"`
}

// DetectedExtensions carries the price and shipping hints the provider
// detected on the target page. Values arrive as JSON numbers or strings
// depending on the page, so they are modeled as PriceHint.
type DetectedExtensions struct {
	Price     *PriceHint `json:"price,omitempty"`
	PriceFrom *PriceHint `json:"price_from,omitempty"`
	PriceTo   *PriceHint `json:"price_to,omitempty"`
	Shipping  *PriceHint `json:"shipping,omitempty"`
}

// PriceHint is a provider value that may be a JSON number or a JSON string.
// The source lexeme is preserved so "15.99" renders as "15.99", not a
// reformatted float.
type PriceHint string

// UnmarshalJSON accepts both string and number encodings
func (p *PriceHint) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = PriceHint(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*p = PriceHint(n.String())
	return nil
}

func (p *PriceHint) String() string {
	if p == nil {
		return ""
	}
	return string(*p)
}
