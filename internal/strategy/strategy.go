// Package strategy contains the entry-signal evaluators. Each strategy looks
// at a bar series at a single index and either suggests an entry price or
// reports no signal. Indicator columns are computed lazily through a shared
// cache, so evaluating many indexes over one series costs one computation
// per indicator.
package strategy

import (
	"fmt"
	"math"
	"sort"

	"binance-trade-bot-go/internal/indicators"
	"binance-trade-bot-go/internal/models"
)

// Strategy evaluates one bar index of a series for an entry signal.
type Strategy interface {
	// Name returns the registry key of this strategy.
	Name() string
	// Evaluate returns a suggested entry price for bars[i]. ok is false when
	// no signal fires or when the series is too short for the strategy's
	// lookback window.
	Evaluate(bars []models.Bar, i int) (price float64, ok bool)
}

var registry = map[string]func(cache *indicators.Cache) Strategy{
	"ma_simple":        func(c *indicators.Cache) Strategy { return &maSimple{cache: c} },
	"ma_crossover":     func(c *indicators.Cache) Strategy { return &maCrossover{cache: c} },
	"bollinger_simple": func(c *indicators.Cache) Strategy { return &bollingerSimple{cache: c} },
	"ichimoku_bullish": func(c *indicators.Cache) Strategy { return &ichimokuBullish{cache: c} },
}

// New returns the strategy registered under name, with a fresh indicator
// cache scoped to this instance.
func New(name string) (Strategy, error) {
	build, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("strategy: unknown strategy %q (known: %v)", name, Names())
	}
	return build(indicators.NewCache()), nil
}

// Names lists all registered strategy names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// maSimple fires when the close dips 4% below the 30-bar SMA.
type maSimple struct {
	cache *indicators.Cache
}

func (s *maSimple) Name() string { return "ma_simple" }

func (s *maSimple) Evaluate(bars []models.Bar, i int) (float64, bool) {
	if i < 0 || i >= len(bars) {
		return 0, false
	}
	sma := s.cache.SMA(bars, 30)
	if math.IsNaN(sma[i]) {
		return 0, false
	}
	buyPrice := 0.96 * sma[i]
	if buyPrice >= bars[i].Close {
		return math.Min(buyPrice, bars[i].High), true
	}
	return 0, false
}

// bollingerSimple fires when the close dips 2.5% below the 14-bar lower
// Bollinger band.
type bollingerSimple struct {
	cache *indicators.Cache
}

func (s *bollingerSimple) Name() string { return "bollinger_simple" }

func (s *bollingerSimple) Evaluate(bars []models.Bar, i int) (float64, bool) {
	if i < 0 || i >= len(bars) {
		return 0, false
	}
	lbb := s.cache.LowerBollinger(bars, 14)
	if math.IsNaN(lbb[i]) {
		return 0, false
	}
	buyPrice := 0.975 * lbb[i]
	if buyPrice >= bars[i].Close {
		return math.Min(buyPrice, bars[i].High), true
	}
	return 0, false
}

// maCrossover fires when the 50-bar EMA crosses above the 200-bar EMA
// between i-1 and i.
type maCrossover struct {
	cache *indicators.Cache
}

func (s *maCrossover) Name() string { return "ma_crossover" }

func (s *maCrossover) Evaluate(bars []models.Bar, i int) (float64, bool) {
	if i < 1 || i >= len(bars) {
		return 0, false
	}
	short := s.cache.EMA(bars, 50)
	long := s.cache.EMA(bars, 200)
	if math.IsNaN(short[i-1]) || math.IsNaN(long[i-1]) || math.IsNaN(short[i]) || math.IsNaN(long[i]) {
		return 0, false
	}
	if short[i-1] <= long[i-1] && short[i] > long[i] {
		return bars[i].Close, true
	}
	return 0, false
}

// ichimokuBullish fires when the close crosses above the conversion line
// while sitting above both leading spans of the cloud. All four cloud series
// must be available at both i-1 and i.
type ichimokuBullish struct {
	cache *indicators.Cache
}

func (s *ichimokuBullish) Name() string { return "ichimoku_bullish" }

func (s *ichimokuBullish) Evaluate(bars []models.Bar, i int) (float64, bool) {
	if i < 2 || i >= len(bars) {
		return 0, false
	}
	ich := s.cache.Ichimoku(bars)
	for _, series := range [][]float64{ich.Tenkansen, ich.Kijunsen, ich.SenkouA, ich.SenkouB} {
		if math.IsNaN(series[i-1]) || math.IsNaN(series[i]) {
			return 0, false
		}
	}
	if bars[i-1].Close < ich.Tenkansen[i-1] &&
		bars[i].Close > ich.Tenkansen[i] &&
		bars[i].Close > ich.SenkouA[i] &&
		bars[i].Close > ich.SenkouB[i] {
		return bars[i].Close, true
	}
	return 0, false
}
