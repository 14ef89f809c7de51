// Package backtest replays a strategy over historical bars, driving the
// trailing exit engine exactly as the live path would. The replay is
// single-threaded and strictly ordered, so identical inputs always produce
// identical results.
package backtest

import (
	"fmt"

	"binance-trade-bot-go/internal/models"
	"binance-trade-bot-go/internal/strategy"
	"binance-trade-bot-go/internal/trailing"

	"github.com/shopspring/decimal"
)

// Trade is one buy or sell event of the replay.
type Trade struct {
	Time  int64
	Price float64
}

// Outcome classification of a symbol's replay.
const (
	Profitable   = "profitable"
	Unprofitable = "unprofitable"
	BreakEven    = "break-even"
)

// SymbolResult aggregates one symbol's replay.
type SymbolResult struct {
	Symbol       string
	Strategy     string
	ReturnPct    float64 // realized return in percent
	StartBalance float64
	EndBalance   float64
	Buys         []Trade
	Sells        []Trade
	OpenPosition bool // entered but not closed before the data ended
}

// Classification buckets the realized return.
func (r *SymbolResult) Classification() string {
	switch {
	case r.ReturnPct > 0:
		return Profitable
	case r.ReturnPct < 0:
		return Unprofitable
	default:
		return BreakEven
	}
}

// Runner replays strategies over bar series with fixed trailing parameters.
type Runner struct {
	params          trailing.Params
	startingBalance float64
}

// NewRunner creates a Runner. startingBalance only scales the reported end
// balance; the return percentage is independent of it.
func NewRunner(params trailing.Params, startingBalance float64) *Runner {
	return &Runner{params: params, startingBalance: startingBalance}
}

// RunSymbol replays strategyName over bars. Entries are scanned up to the
// second-to-last bar; the engine never looks ahead of the index it is
// evaluating. Bars must be ascending by time.
func (r *Runner) RunSymbol(symbol, strategyName string, bars []models.Bar) (*SymbolResult, error) {
	strat, err := strategy.New(strategyName)
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(bars); i++ {
		if bars[i].Time <= bars[i-1].Time {
			return nil, fmt.Errorf("backtest %s: bars out of order at index %d", symbol, i)
		}
	}

	result := &SymbolResult{
		Symbol:       symbol,
		Strategy:     strat.Name(),
		StartBalance: r.startingBalance,
	}
	if len(bars) < 2 {
		result.EndBalance = r.startingBalance
		return result, nil
	}

	// The final bar is settlement-only: it is neither scanned for entries
	// nor fed into the exit engine.
	window := bars[:len(bars)-1]
	multiplier := decimal.NewFromInt(1)

	for i := 0; i < len(window); i++ {
		price, ok := strat.Evaluate(bars, i)
		if !ok {
			continue
		}

		entry := decimal.NewFromFloat(price)
		result.Buys = append(result.Buys, Trade{Time: bars[i].Time, Price: price})

		sim := trailing.Simulate(entry, i, window, r.params)
		if !sim.Closed {
			result.OpenPosition = true
			break
		}

		closePrice, _ := sim.ClosePrice.Float64()
		result.Sells = append(result.Sells, Trade{Time: bars[sim.CloseIndex].Time, Price: closePrice})
		multiplier = multiplier.Mul(sim.ClosePrice.Div(entry))
		i = sim.CloseIndex // resume scanning after the closing bar
	}

	returnPct, _ := multiplier.Sub(decimal.NewFromInt(1)).Mul(decimal.NewFromInt(100)).Float64()
	result.ReturnPct = returnPct
	endBalance, _ := decimal.NewFromFloat(r.startingBalance).Mul(multiplier).Float64()
	result.EndBalance = endBalance
	return result, nil
}
