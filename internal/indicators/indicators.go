// Package indicators computes derived price series over a bar sequence.
// Positions without enough history hold NaN so callers can distinguish
// "not yet computable" from a real value.
package indicators

import (
	"math"

	"binance-trade-bot-go/internal/models"
)

// Closes extracts the close column of a bar series.
func Closes(bars []models.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// SMA returns the simple moving average of values over period.
func SMA(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period <= 0 || len(values) < period {
		return out
	}

	var sum float64
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// EMA returns the exponential moving average of values over period, seeded
// with the SMA of the first period values.
func EMA(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period <= 0 || len(values) < period {
		return out
	}

	var seed float64
	for _, v := range values[:period] {
		seed += v
	}
	seed /= float64(period)
	out[period-1] = seed

	k := 2.0 / float64(period+1)
	prev := seed
	for i := period; i < len(values); i++ {
		prev = (values[i]-prev)*k + prev
		out[i] = prev
	}
	return out
}

// LowerBollinger returns the lower Bollinger band: SMA minus two standard
// deviations over the same window.
func LowerBollinger(values []float64, period int) []float64 {
	return bollinger(values, period, -2.0)
}

// UpperBollinger returns the upper Bollinger band.
func UpperBollinger(values []float64, period int) []float64 {
	return bollinger(values, period, 2.0)
}

func bollinger(values []float64, period int, deviations float64) []float64 {
	out := nanSlice(len(values))
	if period <= 0 || len(values) < period {
		return out
	}

	sma := SMA(values, period)
	for i := period - 1; i < len(values); i++ {
		mean := sma[i]
		var variance float64
		for _, v := range values[i-period+1 : i+1] {
			d := v - mean
			variance += d * d
		}
		std := math.Sqrt(variance / float64(period))
		out[i] = mean + deviations*std
	}
	return out
}

// Ichimoku holds the derived series of the Ichimoku cloud.
type Ichimoku struct {
	Tenkansen  []float64 // conversion line: 9-period midpoint
	Kijunsen   []float64 // base line: 26-period midpoint
	SenkouA    []float64 // leading span A, plotted 26 periods ahead
	SenkouB    []float64 // leading span B, plotted 52 periods ahead
	ChikouSpan []float64 // lagging span: close shifted 26 periods back
}

// IchimokuCloud computes all Ichimoku components over the bar series.
func IchimokuCloud(bars []models.Bar) Ichimoku {
	n := len(bars)
	ich := Ichimoku{
		Tenkansen:  rollingMidpoint(bars, 9),
		Kijunsen:   rollingMidpoint(bars, 26),
		SenkouA:    nanSlice(n),
		SenkouB:    nanSlice(n),
		ChikouSpan: nanSlice(n),
	}

	for i := 26; i < n; i++ {
		t, k := ich.Tenkansen[i-26], ich.Kijunsen[i-26]
		if !math.IsNaN(t) && !math.IsNaN(k) {
			ich.SenkouA[i] = (t + k) / 2
		}
	}

	mid52 := rollingMidpoint(bars, 52)
	for i := 52; i < n; i++ {
		ich.SenkouB[i] = mid52[i-52]
	}

	for i := 0; i+26 < n; i++ {
		ich.ChikouSpan[i] = bars[i+26].Close
	}
	return ich
}

// rollingMidpoint returns (rolling max high + rolling min low) / 2 over period.
func rollingMidpoint(bars []models.Bar, period int) []float64 {
	out := nanSlice(len(bars))
	if period <= 0 || len(bars) < period {
		return out
	}
	for i := period - 1; i < len(bars); i++ {
		hi := math.Inf(-1)
		lo := math.Inf(1)
		for _, b := range bars[i-period+1 : i+1] {
			hi = math.Max(hi, b.High)
			lo = math.Min(lo, b.Low)
		}
		out[i] = (hi + lo) / 2
	}
	return out
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
