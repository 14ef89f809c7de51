package reporter

import (
	"bytes"
	"testing"

	"binance-trade-bot-go/internal/backtest"

	"github.com/stretchr/testify/assert"
)

func TestPrintResultsIncludesTradeAggregates(t *testing.T) {
	results := []*backtest.SymbolResult{
		{
			Symbol: "BTCUSDT", Strategy: "ma_simple",
			ReturnPct: 5.0, StartBalance: 100, EndBalance: 105,
			Buys:  []backtest.Trade{{Time: 60000, Price: 100}, {Time: 180000, Price: 100}},
			Sells: []backtest.Trade{{Time: 120000, Price: 110}, {Time: 240000, Price: 95}},
		},
		{
			Symbol: "ETHUSDT", Strategy: "ma_simple",
			ReturnPct: -2.0, StartBalance: 100, EndBalance: 98,
			Buys:  []backtest.Trade{{Time: 60000, Price: 50}},
			Sells: []backtest.Trade{{Time: 120000, Price: 49}},
		},
	}

	var buf bytes.Buffer
	PrintResults(&buf, results)
	out := buf.String()

	// StyleLight upper-cases footer text
	assert.Contains(t, out, "1 UP / 1 DOWN / 0 FLAT")
	assert.Contains(t, out, "3 TRADES")
	assert.Contains(t, out, "BEST +10.00%")
	assert.Contains(t, out, "WORST -5.00%")
}

func TestPrintResultsNoTradesOmitsAggregates(t *testing.T) {
	results := []*backtest.SymbolResult{
		{Symbol: "BTCUSDT", Strategy: "ma_simple", StartBalance: 100, EndBalance: 100},
	}

	var buf bytes.Buffer
	PrintResults(&buf, results)

	assert.NotContains(t, buf.String(), "TRADES")
	assert.Contains(t, buf.String(), "1 SYMBOLS")
}
