// Package precision converts desired prices and quantities into values that
// are legal for a given trading pair. All arithmetic is decimal; binary
// floating point is never used because repeated division against increments
// as small as 1e-8 must not drift across rounding boundaries.
package precision

import (
	"fmt"

	"binance-trade-bot-go/internal/models"

	"github.com/shopspring/decimal"
)

func init() {
	// Quotients must stay exact well past the 8 fractional digits the
	// exchange uses. 38 digits mirrors the precision the rest of the
	// pipeline carries.
	if decimal.DivisionPrecision < 38 {
		decimal.DivisionPrecision = 38
	}
}

// Round returns the largest multiple of increment that is less than or equal
// to value. With roundUp set, the next multiple above that is returned
// instead. Both value and increment must be strictly positive.
func Round(value, increment decimal.Decimal, roundUp bool) (decimal.Decimal, error) {
	if !increment.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: increment %s is not positive", models.ErrPrecisionConfig, increment)
	}
	if !value.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: value %s is not positive", models.ErrPrecisionConfig, value)
	}

	steps := value.Div(increment).Floor()
	rounded := steps.Mul(increment)
	if roundUp {
		rounded = rounded.Add(increment)
	}
	return rounded, nil
}

// Rounder resolves per-symbol tick/step filters and applies Round. The filter
// set is supplied once from the exchange's trading rules and read-only after.
type Rounder struct {
	filters map[string]models.SymbolInfo
}

// NewRounder builds a Rounder from the trading rules of all known symbols.
func NewRounder(infos []models.SymbolInfo) *Rounder {
	filters := make(map[string]models.SymbolInfo, len(infos))
	for _, info := range infos {
		filters[info.Symbol] = info
	}
	return &Rounder{filters: filters}
}

// Info returns the trading rules for symbol, if known.
func (r *Rounder) Info(symbol string) (models.SymbolInfo, bool) {
	info, ok := r.filters[symbol]
	return info, ok
}

// Has reports whether usable tick and step filters exist for symbol.
func (r *Rounder) Has(symbol string) bool {
	info, ok := r.filters[symbol]
	return ok && info.TickSize.IsPositive() && info.StepSize.IsPositive()
}

// ValidPrice rounds a desired price down (or up) to the symbol's tick size.
func (r *Rounder) ValidPrice(symbol string, desired decimal.Decimal, roundUp bool) (decimal.Decimal, error) {
	info, ok := r.filters[symbol]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: no filters for %s", models.ErrPrecisionConfig, symbol)
	}
	price, err := Round(desired, info.TickSize, roundUp)
	if err != nil {
		return decimal.Zero, fmt.Errorf("price for %s: %w", symbol, err)
	}
	return price, nil
}

// ValidQuantity rounds a desired quantity down (or up) to the symbol's step size.
func (r *Rounder) ValidQuantity(symbol string, desired decimal.Decimal, roundUp bool) (decimal.Decimal, error) {
	info, ok := r.filters[symbol]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: no filters for %s", models.ErrPrecisionConfig, symbol)
	}
	qty, err := Round(desired, info.StepSize, roundUp)
	if err != nil {
		return decimal.Zero, fmt.Errorf("quantity for %s: %w", symbol, err)
	}
	return qty, nil
}
