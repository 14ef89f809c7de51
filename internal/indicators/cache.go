package indicators

import (
	"sync"

	"binance-trade-bot-go/internal/models"
)

type cacheKey struct {
	first  *models.Bar
	length int
	name   string
	period int
}

// maxCachedSeries bounds the memo maps. Live polling hands the cache a fresh
// bar slice every cycle, so superseded generations would otherwise accumulate
// without limit; once the bound is hit the cache starts over.
const maxCachedSeries = 64

// Cache memoizes derived series per bar slice. The key is the identity of the
// series (address of its first bar plus length), so repeated evaluations over
// the same slice compute each indicator once, and the caller's bars are never
// mutated. Safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	series   map[cacheKey][]float64
	ichimoku map[cacheKey]Ichimoku
}

func NewCache() *Cache {
	return &Cache{
		series:   make(map[cacheKey][]float64),
		ichimoku: make(map[cacheKey]Ichimoku),
	}
}

func (c *Cache) memo(bars []models.Bar, name string, period int, compute func() []float64) []float64 {
	if len(bars) == 0 {
		return nil
	}
	key := cacheKey{first: &bars[0], length: len(bars), name: name, period: period}

	c.mu.Lock()
	defer c.mu.Unlock()
	if vals, ok := c.series[key]; ok {
		return vals
	}
	if len(c.series) >= maxCachedSeries {
		c.series = make(map[cacheKey][]float64, maxCachedSeries)
	}
	vals := compute()
	c.series[key] = vals
	return vals
}

// SMA returns the memoized simple moving average of the closes of bars.
func (c *Cache) SMA(bars []models.Bar, period int) []float64 {
	return c.memo(bars, "sma", period, func() []float64 { return SMA(Closes(bars), period) })
}

// EMA returns the memoized exponential moving average of the closes of bars.
func (c *Cache) EMA(bars []models.Bar, period int) []float64 {
	return c.memo(bars, "ema", period, func() []float64 { return EMA(Closes(bars), period) })
}

// LowerBollinger returns the memoized lower Bollinger band of the closes of bars.
func (c *Cache) LowerBollinger(bars []models.Bar, period int) []float64 {
	return c.memo(bars, "lbb", period, func() []float64 { return LowerBollinger(Closes(bars), period) })
}

// Ichimoku returns the memoized Ichimoku cloud series for bars.
func (c *Cache) Ichimoku(bars []models.Bar) Ichimoku {
	if len(bars) == 0 {
		return Ichimoku{}
	}
	key := cacheKey{first: &bars[0], length: len(bars), name: "ichimoku"}

	c.mu.Lock()
	defer c.mu.Unlock()
	if ich, ok := c.ichimoku[key]; ok {
		return ich
	}
	if len(c.ichimoku) >= maxCachedSeries {
		c.ichimoku = make(map[cacheKey]Ichimoku, maxCachedSeries)
	}
	ich := IchimokuCloud(bars)
	c.ichimoku[key] = ich
	return ich
}
