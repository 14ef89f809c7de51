package persistence

import (
	"testing"

	"binance-trade-bot-go/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) Repository {
	t.Helper()
	repo, err := NewBadgerRepository(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestBotRoundTrip(t *testing.T) {
	repo := newTestRepo(t)

	bot := &models.Bot{
		ID:              "bot-1",
		Name:            "dip buyer",
		StrategyName:    "ma_simple",
		Interval:        "1h",
		PollIntervalSec: 10,
		TradeAllocation: decimal.NewFromFloat(0.25),
		ProfitTarget:    decimal.NewFromFloat(1.06),
	}
	require.NoError(t, repo.SaveBot(bot))

	got, err := repo.GetBot("bot-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, bot.Name, got.Name)
	assert.True(t, got.TradeAllocation.Equal(bot.TradeAllocation))

	all, err := repo.GetAllBots()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGetBotMissingReturnsNilNil(t *testing.T) {
	repo := newTestRepo(t)

	got, err := repo.GetBot("nope")
	require.NoError(t, err)
	assert.Nil(t, got)

	pair, err := repo.GetPair("nope", "BTCUSDT")
	require.NoError(t, err)
	assert.Nil(t, pair)

	order, err := repo.GetOrder("nope")
	require.NoError(t, err)
	assert.Nil(t, order)
}

func TestPairRoundTrip(t *testing.T) {
	repo := newTestRepo(t)

	pair := &models.TradingPair{
		ID:         "pair-1",
		BotID:      "bot-1",
		Symbol:     "ETHUSDT",
		IsActive:   true,
		ProfitLoss: decimal.NewFromInt(1),
	}
	require.NoError(t, repo.SavePair(pair))

	pair.IsActive = false
	pair.CurrentOrderID = "order-1"
	require.NoError(t, repo.UpdatePair(pair))

	got, err := repo.GetPair("bot-1", "ETHUSDT")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.IsActive)
	assert.Equal(t, "order-1", got.CurrentOrderID)

	pairs, err := repo.GetPairsOfBot("bot-1")
	require.NoError(t, err)
	assert.Len(t, pairs, 1)

	none, err := repo.GetPairsOfBot("bot-2")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestOpenOrdersFilter(t *testing.T) {
	repo := newTestRepo(t)

	open := &models.Order{
		ID: "o-open", BotID: "bot-1", Symbol: "BTCUSDT",
		Side: models.SideBuy, Status: models.OrderStatusNew,
		Price:            decimal.NewFromInt(100),
		OriginalQuantity: decimal.NewFromInt(1),
		IsEntryOrder:     true,
	}
	closed := &models.Order{
		ID: "o-closed", BotID: "bot-1", Symbol: "BTCUSDT",
		Side: models.SideSell, Status: models.OrderStatusFilled,
		Price:            decimal.NewFromInt(105),
		OriginalQuantity: decimal.NewFromInt(1),
		IsClosed:         true,
	}
	otherBot := &models.Order{
		ID: "o-other", BotID: "bot-2", Symbol: "BTCUSDT",
		Side: models.SideBuy, Status: models.OrderStatusNew,
		Price:            decimal.NewFromInt(100),
		OriginalQuantity: decimal.NewFromInt(1),
	}
	for _, o := range []*models.Order{open, closed, otherBot} {
		require.NoError(t, repo.SaveOrder(o))
	}

	orders, err := repo.GetOpenOrdersOfBot("bot-1")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "o-open", orders[0].ID)
}

func TestSaveOrderRejectsColonInID(t *testing.T) {
	repo := newTestRepo(t)
	err := repo.SaveOrder(&models.Order{ID: "bad:id"})
	assert.Error(t, err)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("postgres", "dsn")
	assert.Error(t, err)
}

func TestGetActivePairsOfBot(t *testing.T) {
	repo := newTestRepo(t)

	active := &models.TradingPair{
		ID: "pair-1", BotID: "bot-1", Symbol: "BTCUSDT",
		IsActive: true, ProfitLoss: decimal.NewFromInt(1),
	}
	inactive := &models.TradingPair{
		ID: "pair-2", BotID: "bot-1", Symbol: "ETHUSDT",
		IsActive: false, CurrentOrderID: "order-1", ProfitLoss: decimal.NewFromInt(1),
	}
	require.NoError(t, repo.SavePair(active))
	require.NoError(t, repo.SavePair(inactive))

	pairs, err := repo.GetActivePairsOfBot("bot-1")
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "BTCUSDT", pairs[0].Symbol)

	none, err := repo.GetActivePairsOfBot("bot-2")
	require.NoError(t, err)
	assert.Empty(t, none)
}
