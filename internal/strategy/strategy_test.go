package strategy

import (
	"testing"

	"binance-trade-bot-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatBars(n int, price float64) []models.Bar {
	bars := make([]models.Bar, n)
	for i := range bars {
		bars[i] = models.Bar{Time: int64(i+1) * 60000, Open: price, High: price, Low: price, Close: price}
	}
	return bars
}

func TestNewUnknownStrategy(t *testing.T) {
	_, err := New("does_not_exist")
	assert.Error(t, err)
}

func TestNamesSorted(t *testing.T) {
	assert.Equal(t, []string{"bollinger_simple", "ichimoku_bullish", "ma_crossover", "ma_simple"}, Names())
}

func TestMASimpleFiresOnDip(t *testing.T) {
	strat, err := New("ma_simple")
	require.NoError(t, err)

	bars := flatBars(31, 100)
	// final bar dips well below 0.96 * sma30
	bars[30].Close = 90
	bars[30].High = 91
	bars[30].Low = 89

	price, ok := strat.Evaluate(bars, 30)
	require.True(t, ok)
	// buy price capped by the bar's high
	assert.InDelta(t, 91.0, price, 1e-9)
}

func TestMASimpleNoSignalWithoutDip(t *testing.T) {
	strat, err := New("ma_simple")
	require.NoError(t, err)

	bars := flatBars(40, 100)
	_, ok := strat.Evaluate(bars, 39)
	assert.False(t, ok)
}

func TestMASimpleInsufficientHistory(t *testing.T) {
	strat, err := New("ma_simple")
	require.NoError(t, err)

	bars := flatBars(10, 100)
	_, ok := strat.Evaluate(bars, 9)
	assert.False(t, ok, "lookback shorter than 30 bars must yield no signal, not an error")
}

func TestBollingerSimpleFiresOnDip(t *testing.T) {
	strat, err := New("bollinger_simple")
	require.NoError(t, err)

	closes := []float64{10, 12, 11, 13, 12, 14, 13, 15, 14, 16, 15, 17, 16, 18, 2}
	bars := make([]models.Bar, len(closes))
	for i, c := range closes {
		bars[i] = models.Bar{Time: int64(i+1) * 60000, Open: c, High: c + 0.5, Low: c - 0.5, Close: c}
	}

	price, ok := strat.Evaluate(bars, len(bars)-1)
	require.True(t, ok)
	assert.Greater(t, price, 0.0)
}

func TestMACrossoverDetectsCross(t *testing.T) {
	strat, err := New("ma_crossover")
	require.NoError(t, err)

	// long downtrend keeps ema50 below ema200, then a sharp rally crosses it
	bars := make([]models.Bar, 290)
	for i := range bars {
		price := 300 - float64(i)/2 // slow decline
		if i >= 230 {
			price = 185 + float64(i-230)*6 // sharp rally
		}
		bars[i] = models.Bar{Time: int64(i+1) * 60000, Open: price, High: price, Low: price, Close: price}
	}

	fired := false
	for i := 200; i < len(bars); i++ {
		if price, ok := strat.Evaluate(bars, i); ok {
			fired = true
			assert.Equal(t, bars[i].Close, price)
			// the previous index must not have been a cross yet
			_, prevOK := strat.Evaluate(bars, i-1)
			assert.False(t, prevOK)
			break
		}
	}
	assert.True(t, fired, "rally should produce exactly one crossover signal")
}

func TestMACrossoverInsufficientHistory(t *testing.T) {
	strat, err := New("ma_crossover")
	require.NoError(t, err)

	bars := flatBars(100, 100)
	_, ok := strat.Evaluate(bars, 99)
	assert.False(t, ok)
}

func TestIchimokuBullishRequiresAllSeries(t *testing.T) {
	strat, err := New("ichimoku_bullish")
	require.NoError(t, err)

	// senkou B needs 52+52 bars of history; anything shorter is no-signal
	bars := flatBars(60, 100)
	_, ok := strat.Evaluate(bars, 59)
	assert.False(t, ok)
}

func TestIchimokuBullishFiresOnBreakout(t *testing.T) {
	strat, err := New("ichimoku_bullish")
	require.NoError(t, err)

	bars := make([]models.Bar, 160)
	for i := range bars {
		price := 100.0
		switch {
		case i == 158:
			price = 95 // dip below the conversion line
		case i == 159:
			price = 130 // breakout above line and cloud
		}
		bars[i] = models.Bar{Time: int64(i+1) * 60000, Open: price, High: price + 1, Low: price - 1, Close: price}
	}

	price, ok := strat.Evaluate(bars, 159)
	require.True(t, ok)
	assert.Equal(t, 130.0, price)
}
