// Package reporter renders backtest results for the operator.
package reporter

import (
	"fmt"
	"io"
	"math"
	"time"

	"binance-trade-bot-go/internal/backtest"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// PrintResults renders one row per symbol plus an aggregate footer.
func PrintResults(w io.Writer, results []*backtest.SymbolResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Symbol", "Strategy", "Trades", "Return %", "End Balance", "Outcome"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Return %", Align: text.AlignRight},
		{Name: "End Balance", Align: text.AlignRight},
		{Name: "Trades", Align: text.AlignRight},
	})

	var profitable, unprofitable, breakEven, totalTrades int
	best, worst := math.Inf(-1), math.Inf(1)
	for _, r := range results {
		outcome := r.Classification()
		switch outcome {
		case backtest.Profitable:
			profitable++
		case backtest.Unprofitable:
			unprofitable++
		default:
			breakEven++
		}
		for i, sell := range r.Sells {
			pct := (sell.Price/r.Buys[i].Price - 1) * 100
			totalTrades++
			if pct > best {
				best = pct
			}
			if pct < worst {
				worst = pct
			}
		}
		if r.OpenPosition {
			outcome += " (open)"
		}
		t.AppendRow(table.Row{
			r.Symbol,
			r.Strategy,
			len(r.Sells),
			fmt.Sprintf("%.2f", r.ReturnPct),
			fmt.Sprintf("%.2f", r.EndBalance),
			outcome,
		})
	}
	t.AppendFooter(table.Row{
		"", "",
		fmt.Sprintf("%d symbols", len(results)), "",
		"",
		fmt.Sprintf("%d up / %d down / %d flat", profitable, unprofitable, breakEven),
	})
	if totalTrades > 0 {
		t.AppendFooter(table.Row{
			"", "",
			fmt.Sprintf("%d trades", totalTrades), "",
			"",
			fmt.Sprintf("best %+.2f%% / worst %+.2f%%", best, worst),
		})
	}
	t.Render()
}

// PrintTrades renders the ordered buy/sell events of one symbol's replay.
func PrintTrades(w io.Writer, r *backtest.SymbolResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(fmt.Sprintf("%s / %s", r.Symbol, r.Strategy))
	t.AppendHeader(table.Row{"#", "Buy Time", "Buy Price", "Sell Time", "Sell Price", "Trade %"})

	for i, buy := range r.Buys {
		row := table.Row{i + 1, formatTime(buy.Time), fmt.Sprintf("%.8f", buy.Price)}
		if i < len(r.Sells) {
			sell := r.Sells[i]
			tradePct := (sell.Price/buy.Price - 1) * 100
			row = append(row, formatTime(sell.Time), fmt.Sprintf("%.8f", sell.Price), fmt.Sprintf("%.2f", tradePct))
		} else {
			row = append(row, "-", "-", "open")
		}
		t.AppendRow(row)
	}
	t.Render()
}

func formatTime(unixMilli int64) string {
	return time.UnixMilli(unixMilli).UTC().Format("2006-01-02 15:04")
}
