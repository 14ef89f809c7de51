// Package trailing implements the ratcheting stop-loss/take-profit engine
// shared by the live trader and the backtester. The engine is a pure state
// machine over bars: it never touches the exchange or the database.
package trailing

import (
	"binance-trade-bot-go/internal/models"

	"github.com/shopspring/decimal"
)

// Params holds the four fractions that drive the ratchet. The initial pair
// applies until the first target hit, the incremental pair afterwards.
type Params struct {
	InitialStop     decimal.Decimal // s0, in (0, 1)
	InitialTarget   decimal.Decimal // t0, greater than 1
	IncrementStop   decimal.Decimal // s1, applied after each ratchet
	IncrementTarget decimal.Decimal // t1, applied after each ratchet
}

// ParamsFromConfig converts the configured float fractions into Params.
func ParamsFromConfig(cfg *models.Config) Params {
	return Params{
		InitialStop:     decimal.NewFromFloat(cfg.InitialStopLoss),
		InitialTarget:   decimal.NewFromFloat(cfg.InitialProfitTarget),
		IncrementStop:   decimal.NewFromFloat(cfg.IncrementalStopLoss),
		IncrementTarget: decimal.NewFromFloat(cfg.IncrementalProfitTarget),
	}
}

// State is the open-position state of the engine. ReferencePrice starts at
// the entry price and only ever rises; each ratchet multiplies it by the
// current target fraction and swaps in the incremental fractions.
type State struct {
	ReferencePrice decimal.Decimal
	StopFrac       decimal.Decimal
	TargetFrac     decimal.Decimal

	params Params
}

// NewState returns engine state for a position entered at entryPrice.
func NewState(entryPrice decimal.Decimal, p Params) *State {
	return &State{
		ReferencePrice: entryPrice,
		StopFrac:       p.InitialStop,
		TargetFrac:     p.InitialTarget,
		params:         p,
	}
}

// StopLevel returns the current stop floor, ReferencePrice * StopFrac.
func (s *State) StopLevel() decimal.Decimal {
	return s.ReferencePrice.Mul(s.StopFrac)
}

// TargetLevel returns the current ratchet trigger, ReferencePrice * TargetFrac.
func (s *State) TargetLevel() decimal.Decimal {
	return s.ReferencePrice.Mul(s.TargetFrac)
}

// Step feeds one bar into the engine. The stop check runs first: if the
// bar's low touches the stop floor the position closes at that floor and
// closed is true. Otherwise, if the bar's high reaches the target level the
// reference price ratchets up to it and the incremental fractions take over.
// A single bar can close or ratchet, never both.
func (s *State) Step(bar models.Bar) (closed bool, closePrice decimal.Decimal) {
	low := decimal.NewFromFloat(bar.Low)
	stop := s.StopLevel()
	if low.LessThanOrEqual(stop) {
		return true, stop
	}

	high := decimal.NewFromFloat(bar.High)
	target := s.TargetLevel()
	if high.GreaterThanOrEqual(target) {
		s.ReferencePrice = target
		s.StopFrac = s.params.IncrementStop
		s.TargetFrac = s.params.IncrementTarget
	}
	return false, decimal.Zero
}

// Result is the outcome of simulating a position over a bar series.
type Result struct {
	Closed     bool
	ClosePrice decimal.Decimal
	CloseIndex int // index of the closing bar, -1 when still open
}

// Simulate runs the engine for a position entered at bars[entryIndex] until
// it closes or the series ends. Exit checks begin two bars after the entry
// bar; the bar immediately after entry is never evaluated. This settlement
// delay is deliberate and ratchets do not reset it.
func Simulate(entryPrice decimal.Decimal, entryIndex int, bars []models.Bar, p Params) Result {
	st := NewState(entryPrice, p)
	for i := entryIndex + 2; i < len(bars); i++ {
		if closed, price := st.Step(bars[i]); closed {
			return Result{Closed: true, ClosePrice: price, CloseIndex: i}
		}
	}
	return Result{CloseIndex: -1}
}
