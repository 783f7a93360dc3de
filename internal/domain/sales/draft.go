package sales

import (
	"sort"

	"github.com/fieldline/backend/internal/domain/catalog"
	"github.com/fieldline/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// LineState classifies a staged line item
type LineState string

const (
	LineEmpty        LineState = "EMPTY"
	LineNonMultiple  LineState = "NON_MULTIPLE"
	LineExceedsStock LineState = "EXCEEDS_STOCK"
	LineValid        LineState = "VALID"
)

// Reason returns the per-field message surfaced to the UI for an invalid
// state, empty for a valid line.
func (s LineState) Reason() string {
	switch s {
	case LineEmpty:
		return "required"
	case LineNonMultiple:
		return "incorrect value"
	case LineExceedsStock:
		return "unavailable stock"
	}
	return ""
}

// IsValid reports whether the line may be committed
func (s LineState) IsValid() bool {
	return s == LineValid
}

// ClassifyQuantity applies the line validation rules against the product the
// quantity was staged for. A quantity that is not a multiple of the lot size
// is invalid regardless of stock sufficiency.
func ClassifyQuantity(product catalog.Product, quantity int64) LineState {
	if quantity <= 0 {
		return LineEmpty
	}
	lot := product.LotSize
	if lot < 1 {
		lot = 1
	}
	if quantity%lot != 0 {
		return LineNonMultiple
	}
	if quantity > product.Stock {
		return LineExceedsStock
	}
	return LineValid
}

// DraftLine is one staged position of an in-progress order
type DraftLine struct {
	Product  catalog.Product `json:"product"`
	Quantity int64           `json:"quantity"`
	State    LineState       `json:"state"`
	Reason   string          `json:"reason,omitempty"`
	Amount   decimal.Decimal `json:"amount"`
}

// ValidationError rejects a commit attempt with no committable lines
type ValidationError struct {
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return e.Message
}

// ErrNoValidLines is returned by Commit when every staged line is invalid
var ErrNoValidLines = &ValidationError{Message: "no valid line items"}

// Draft is an in-progress order. Each staged line is validated and priced
// against the catalog snapshot the product was staged from; the stock check
// is advisory only, two devices can race against the same stock between
// catalog fetches.
type Draft struct {
	lines map[string]DraftLine
}

// NewDraft creates an empty draft
func NewDraft() *Draft {
	return &Draft{lines: make(map[string]DraftLine)}
}

// Stage validates and stores a line for the product, replacing any prior
// line for the same product. Invalid lines are kept so their state can be
// surfaced, they contribute nothing to the total and never block other lines.
func (d *Draft) Stage(product catalog.Product, quantity int64) DraftLine {
	state := ClassifyQuantity(product, quantity)
	amount := decimal.Zero
	if state.IsValid() {
		amount = product.UnitPrice.Mul(decimal.NewFromInt(quantity))
	}
	line := DraftLine{
		Product:  product,
		Quantity: quantity,
		State:    state,
		Reason:   state.Reason(),
		Amount:   amount,
	}
	d.lines[product.ID] = line
	return line
}

// Remove drops a staged line. Removing an unstaged product is a no-op.
func (d *Draft) Remove(productID string) {
	delete(d.lines, productID)
}

// Lines returns all staged lines ordered by product name
func (d *Draft) Lines() []DraftLine {
	lines := make([]DraftLine, 0, len(d.lines))
	for _, line := range d.lines {
		lines = append(lines, line)
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Product.Name != lines[j].Product.Name {
			return lines[i].Product.Name < lines[j].Product.Name
		}
		return lines[i].Product.ID < lines[j].Product.ID
	})
	return lines
}

// Total sums the amounts of valid lines only
func (d *Draft) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range d.lines {
		if line.State.IsValid() {
			total = total.Add(line.Amount)
		}
	}
	return total
}

// HasValidLines reports whether at least one line may be committed
func (d *Draft) HasValidLines() bool {
	for _, line := range d.lines {
		if line.State.IsValid() {
			return true
		}
	}
	return false
}

// Commit freezes the draft into a ledger order for the given client and
// salesman. Invalid lines are silently excluded; the total covers exactly
// the lines that were valid at commit time. Fails with ErrNoValidLines when
// nothing is committable.
func (d *Draft) Commit(clientID, salesmanID string) (*ledger.Order, error) {
	if !d.HasValidLines() {
		return nil, ErrNoValidLines
	}
	items := make([]ledger.LineItem, 0, len(d.lines))
	for _, line := range d.Lines() {
		if !line.State.IsValid() {
			continue
		}
		items = append(items, ledger.LineItem{
			ProductID: line.Product.ID,
			Quantity:  line.Quantity,
		})
	}
	return ledger.NewOrder(clientID, salesmanID, items, d.Total())
}
