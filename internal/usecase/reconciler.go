package usecase

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/pricelens/backend/internal/domain"
)

// exportColumns is the fixed CSV column order
var exportColumns = []string{"Platform", "Title", "Price", "Shipping", "Total Cost", "URL"}

// Reconciler owns one session's editable comparison table. It re-derives
// totals on every edit and round-trips rows to CSV. Row order is fixed at
// seed time: edits never add, remove, or reorder rows.
type Reconciler struct {
	table []domain.PriceRecord
	now   func() time.Time
}

// NewReconciler creates an empty reconciler
func NewReconciler() *Reconciler {
	return &Reconciler{now: time.Now}
}

// NewReconcilerFrom restores a reconciler around an existing table,
// e.g. one loaded from the session store
func NewReconcilerFrom(table []domain.PriceRecord) *Reconciler {
	r := NewReconciler()
	r.Seed(table)
	return r
}

// Seed replaces the table wholesale. Any prior rows are discarded; there is
// no merging with earlier searches.
func (r *Reconciler) Seed(records []domain.PriceRecord) {
	r.table = make([]domain.PriceRecord, len(records))
	copy(r.table, records)
}

// Edit replaces one row's price and shipping with user-supplied text and
// recomputes the total. Arbitrary text is accepted; whatever fails to parse
// simply derives an "N/A" total. Platform, title, and URL are read-only.
func (r *Reconciler) Edit(index int, edit domain.EditRequest) (*domain.PriceRecord, error) {
	if index < 0 || index >= len(r.table) {
		return nil, fmt.Errorf("%w: %d", domain.ErrRowOutOfRange, index)
	}

	row := &r.table[index]
	row.Price = edit.Price
	row.Shipping = edit.Shipping
	row.TotalCost = DeriveTotalCost(edit.Price, edit.Shipping)

	updated := *row
	return &updated, nil
}

// Export serializes the table to CSV with a second-resolution timestamped
// filename, e.g. "price_comparison_20260831_142557.csv"
func (r *Reconciler) Export() (string, []byte, error) {
	if len(r.table) == 0 {
		return "", nil, domain.ErrEmptyTable
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportColumns); err != nil {
		return "", nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range r.table {
		record := []string{row.Platform, row.Title, row.Price, row.Shipping, row.TotalCost, row.URL}
		if err := w.Write(record); err != nil {
			return "", nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", nil, fmt.Errorf("failed to flush CSV: %w", err)
	}

	filename := fmt.Sprintf("price_comparison_%s.csv", r.now().Format("20060102_150405"))
	return filename, buf.Bytes(), nil
}

// Reset clears the table to empty
func (r *Reconciler) Reset() {
	r.table = nil
}

// Records returns a copy of the current table rows in order
func (r *Reconciler) Records() []domain.PriceRecord {
	out := make([]domain.PriceRecord, len(r.table))
	copy(out, r.table)
	return out
}

// Len returns the current row count
func (r *Reconciler) Len() int {
	return len(r.table)
}
