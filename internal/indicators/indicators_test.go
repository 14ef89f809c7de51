package indicators

import (
	"math"
	"testing"

	"binance-trade-bot-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func barsFromCloses(closes ...float64) []models.Bar {
	bars := make([]models.Bar, len(closes))
	for i, c := range closes {
		bars[i] = models.Bar{Time: int64(i+1) * 60000, Open: c, High: c, Low: c, Close: c}
	}
	return bars
}

func TestSMA(t *testing.T) {
	got := SMA([]float64{1, 2, 3, 4, 5}, 3)
	require.Len(t, got, 5)
	assert.True(t, math.IsNaN(got[0]))
	assert.True(t, math.IsNaN(got[1]))
	assert.InDelta(t, 2.0, got[2], 1e-9)
	assert.InDelta(t, 3.0, got[3], 1e-9)
	assert.InDelta(t, 4.0, got[4], 1e-9)
}

func TestSMAInsufficientHistory(t *testing.T) {
	got := SMA([]float64{1, 2}, 3)
	for _, v := range got {
		assert.True(t, math.IsNaN(v))
	}
}

func TestEMASeededWithSMA(t *testing.T) {
	got := EMA([]float64{2, 4, 6, 8}, 3)
	require.Len(t, got, 4)
	assert.True(t, math.IsNaN(got[1]))
	assert.InDelta(t, 4.0, got[2], 1e-9) // seed = mean of first 3
	// k = 2/(3+1) = 0.5 → 0.5*8 + 0.5*4
	assert.InDelta(t, 6.0, got[3], 1e-9)
}

func TestLowerBollingerBelowSMA(t *testing.T) {
	values := []float64{10, 12, 11, 13, 12, 14, 13, 15, 14, 16, 15, 17, 16, 18}
	lbb := LowerBollinger(values, 14)
	sma := SMA(values, 14)
	require.False(t, math.IsNaN(lbb[13]))
	assert.Less(t, lbb[13], sma[13])

	ubb := UpperBollinger(values, 14)
	assert.Greater(t, ubb[13], sma[13])
}

func TestIchimokuShifts(t *testing.T) {
	bars := make([]models.Bar, 120)
	for i := range bars {
		price := 100 + float64(i)
		bars[i] = models.Bar{Time: int64(i+1) * 60000, High: price + 1, Low: price - 1, Close: price}
	}
	ich := IchimokuCloud(bars)

	require.Len(t, ich.Tenkansen, 120)
	assert.True(t, math.IsNaN(ich.Tenkansen[7]))
	assert.False(t, math.IsNaN(ich.Tenkansen[8]))

	// senkou A is the (tenkan+kijun)/2 value from 26 bars earlier
	assert.Equal(t, (ich.Tenkansen[34]+ich.Kijunsen[34])/2, ich.SenkouA[60])
	assert.False(t, math.IsNaN(ich.SenkouB[104]))
	assert.Equal(t, bars[56].Close, ich.ChikouSpan[30])
}

func TestCacheMemoizesPerSeries(t *testing.T) {
	cache := NewCache()
	bars := barsFromCloses(1, 2, 3, 4, 5, 6)

	first := cache.SMA(bars, 3)
	second := cache.SMA(bars, 3)
	require.Len(t, first, 6)
	// same slice identity proves the computation ran once
	assert.Equal(t, &first[0], &second[0])

	other := cache.SMA(bars, 4)
	assert.NotEqual(t, &first[0], &other[0], "different params must not share a cache entry")

	otherSeries := barsFromCloses(1, 2, 3, 4, 5, 6)
	third := cache.SMA(otherSeries, 3)
	assert.NotEqual(t, &first[0], &third[0], "different series must not share a cache entry")
}

func TestCacheStaysBoundedAcrossGenerations(t *testing.T) {
	cache := NewCache()

	// every poll cycle fetches a fresh bar slice, producing a new cache key
	for i := 0; i < 500; i++ {
		bars := barsFromCloses(1, 2, 3, 4, 5, 6)
		cache.SMA(bars, 3)
		cache.Ichimoku(bars)
	}

	assert.LessOrEqual(t, len(cache.series), maxCachedSeries)
	assert.LessOrEqual(t, len(cache.ichimoku), maxCachedSeries)
}
