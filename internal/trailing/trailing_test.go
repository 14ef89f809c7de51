package trailing

import (
	"testing"

	"binance-trade-bot-go/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParams() Params {
	return Params{
		InitialStop:     decimal.NewFromFloat(0.9),
		InitialTarget:   decimal.NewFromFloat(1.05),
		IncrementStop:   decimal.NewFromFloat(0.975),
		IncrementTarget: decimal.NewFromFloat(1.04),
	}
}

// bars builds a series where only lows and highs matter. Times ascend.
func bars(lowHigh ...[2]float64) []models.Bar {
	out := make([]models.Bar, len(lowHigh))
	for i, lh := range lowHigh {
		out[i] = models.Bar{Time: int64(i+1) * 60000, Low: lh[0], High: lh[1], Open: lh[0], Close: lh[1]}
	}
	return out
}

func TestStepNoActionStaysOpen(t *testing.T) {
	st := NewState(decimal.NewFromInt(100), testParams())

	for _, b := range bars([2]float64{95, 102}, [2]float64{96, 103}) {
		closed, _ := st.Step(b)
		assert.False(t, closed)
	}
	assert.True(t, st.ReferencePrice.Equal(decimal.NewFromInt(100)))
	assert.True(t, st.StopFrac.Equal(decimal.NewFromFloat(0.9)))
}

func TestStepClosesAtStopFloor(t *testing.T) {
	st := NewState(decimal.NewFromInt(100), testParams())

	closed, price := st.Step(models.Bar{Low: 89, High: 101})
	require.True(t, closed)
	// 收盘价是止损线本身，收益率 = 0.90/1.00 - 1 = -10%
	assert.True(t, price.Equal(decimal.NewFromInt(90)), "got %s", price)
}

func TestStepRatchetsOnTarget(t *testing.T) {
	st := NewState(decimal.NewFromInt(100), testParams())

	closed, _ := st.Step(models.Bar{Low: 99, High: 106})
	require.False(t, closed)
	assert.True(t, st.ReferencePrice.Equal(decimal.NewFromInt(105)), "got %s", st.ReferencePrice)
	assert.True(t, st.StopFrac.Equal(decimal.NewFromFloat(0.975)))
	assert.True(t, st.TargetFrac.Equal(decimal.NewFromFloat(1.04)))

	// 后续K线以新的止损线 105*0.975 为准
	closed, price := st.Step(models.Bar{Low: 102, High: 104})
	require.True(t, closed)
	assert.True(t, price.Equal(decimal.NewFromFloat(102.375)), "got %s", price)
}

func TestStopCheckedBeforeTarget(t *testing.T) {
	st := NewState(decimal.NewFromInt(100), testParams())

	// 同一根K线同时触及止损和目标时，先检查止损，不会棘轮。
	closed, price := st.Step(models.Bar{Low: 89, High: 106})
	require.True(t, closed)
	assert.True(t, price.Equal(decimal.NewFromInt(90)))
}

func TestRatchetMonotonicReferences(t *testing.T) {
	p := testParams()
	st := NewState(decimal.NewFromInt(100), p)

	prev := st.ReferencePrice
	for i := 0; i < 5; i++ {
		high, _ := st.TargetLevel().Float64()
		closed, _ := st.Step(models.Bar{Low: high - 1, High: high + 1})
		require.False(t, closed)
		assert.True(t, st.ReferencePrice.GreaterThan(prev), "reference must strictly increase")
		prev = st.ReferencePrice

		// fracs only ever hold the initial or the incremental pair
		assert.True(t, st.StopFrac.Equal(p.IncrementStop))
		assert.True(t, st.TargetFrac.Equal(p.IncrementTarget))
	}
}

func TestSimulateSettlementDelayIsExact(t *testing.T) {
	// entry at index 0; the bar at index 1 crashes through the stop but must
	// not be evaluated. The first evaluated bar is index 2.
	series := bars(
		[2]float64{100, 100}, // entry bar
		[2]float64{10, 100},  // ignored: inside settlement delay
		[2]float64{95, 102},
		[2]float64{96, 103},
	)
	res := Simulate(decimal.NewFromInt(100), 0, series, testParams())
	assert.False(t, res.Closed)
	assert.Equal(t, -1, res.CloseIndex)
}

func TestSimulateClosesAndReportsIndex(t *testing.T) {
	series := bars(
		[2]float64{100, 100}, // entry bar
		[2]float64{99, 101},
		[2]float64{95, 102},
		[2]float64{89, 101}, // low 89 <= 90
	)
	res := Simulate(decimal.NewFromInt(100), 0, series, testParams())
	require.True(t, res.Closed)
	assert.Equal(t, 3, res.CloseIndex)
	assert.True(t, res.ClosePrice.Equal(decimal.NewFromInt(90)))
}

func TestSimulateRatchetDoesNotResetDelay(t *testing.T) {
	// The ratchet at index 2 swaps fracs immediately: index 3 is already
	// evaluated against the raised floor.
	series := bars(
		[2]float64{100, 100}, // entry bar
		[2]float64{99, 101},
		[2]float64{99, 106},  // ratchet to 105
		[2]float64{102, 104}, // low 102 <= 105*0.975
	)
	res := Simulate(decimal.NewFromInt(100), 0, series, testParams())
	require.True(t, res.Closed)
	assert.Equal(t, 3, res.CloseIndex)
	assert.True(t, res.ClosePrice.Equal(decimal.NewFromFloat(102.375)), "got %s", res.ClosePrice)
}

func TestSimulateRunsOutOfData(t *testing.T) {
	series := bars([2]float64{100, 100}, [2]float64{99, 101})
	res := Simulate(decimal.NewFromInt(100), 0, series, testParams())
	assert.False(t, res.Closed)
}
