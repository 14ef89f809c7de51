// Package trader runs the live order lifecycle: it polls each trading pair,
// asks the strategy for entry signals, submits entry orders, follows open
// orders to their fills, and submits take-profit exits. Every state
// transition is persisted synchronously before the cycle moves on, so a
// filled order is never left unrecorded.
package trader

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"binance-trade-bot-go/internal/exchange"
	"binance-trade-bot-go/internal/logger"
	"binance-trade-bot-go/internal/metrics"
	"binance-trade-bot-go/internal/models"
	"binance-trade-bot-go/internal/persistence"
	"binance-trade-bot-go/internal/precision"
	"binance-trade-bot-go/internal/strategy"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// 入场价相对最新收盘价的安全折扣。
	entryDiscount = 0.99

	balanceFetchAttempts = 15
	balanceFetchBackoff  = time.Second
)

// Trader 驱动所有机器人的轮询循环。
type Trader struct {
	cfg     *models.Config
	repo    persistence.Repository
	gateway exchange.Gateway
	rounder *precision.Rounder
	feed    *exchange.PriceFeed

	stratMu    sync.Mutex
	strategies map[string]strategy.Strategy // keyed by bot id

	balanceMu     sync.RWMutex
	balances      map[string]models.Balance
	balancesStale atomic.Bool
}

// New creates a Trader. The rounder is populated during Run from the
// exchange's trading rules.
func New(cfg *models.Config, repo persistence.Repository, gateway exchange.Gateway) *Trader {
	t := &Trader{
		cfg:        cfg,
		repo:       repo,
		gateway:    gateway,
		strategies: make(map[string]strategy.Strategy),
		balances:   make(map[string]models.Balance),
	}
	t.balancesStale.Store(true)
	return t
}

// SetPriceFeed attaches an optional live price feed used for diagnostics.
func (t *Trader) SetPriceFeed(feed *exchange.PriceFeed) {
	t.feed = feed
}

// SetRounder injects symbol filters directly. Run overwrites this with the
// exchange's trading rules; tests use it to skip the network.
func (t *Trader) SetRounder(r *precision.Rounder) {
	t.rounder = r
}

// CreateBot 根据配置创建一个新机器人及其全部交易对。
func (t *Trader) CreateBot(ctx context.Context) (*models.Bot, error) {
	if t.cfg.BotName == "" {
		return nil, fmt.Errorf("create bot: bot_name is empty")
	}
	if _, err := strategy.New(t.cfg.StrategyName); err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	if !models.ValidInterval(t.cfg.Interval) {
		return nil, fmt.Errorf("create bot: invalid interval %q", t.cfg.Interval)
	}
	allocation := decimal.NewFromFloat(t.cfg.TradeAllocation)
	if !allocation.IsPositive() || allocation.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("create bot: trade_allocation %s must be in (0, 1]", allocation)
	}
	profitTarget := decimal.NewFromFloat(t.cfg.ProfitTarget)
	if profitTarget.LessThanOrEqual(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("create bot: profit_target %s must be greater than 1", profitTarget)
	}

	symbols := t.cfg.Symbols
	if len(symbols) == 0 {
		infos, err := t.gateway.ListTradableSymbols(ctx, t.cfg.QuoteAssets)
		if err != nil {
			return nil, fmt.Errorf("create bot: list tradable symbols: %w", err)
		}
		for _, info := range infos {
			symbols = append(symbols, info.Symbol)
		}
	}
	if len(symbols) == 0 {
		return nil, fmt.Errorf("create bot: no tradable symbols for quote assets %v", t.cfg.QuoteAssets)
	}

	bot := &models.Bot{
		ID:              uuid.NewString(),
		Name:            t.cfg.BotName,
		StrategyName:    t.cfg.StrategyName,
		Interval:        t.cfg.Interval,
		PollIntervalSec: t.cfg.PollIntervalSec,
		TradeAllocation: allocation,
		ProfitTarget:    profitTarget,
		TestMode:        t.cfg.TestMode,
	}
	if err := t.repo.SaveBot(bot); err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	for _, symbol := range symbols {
		pair := &models.TradingPair{
			ID:         uuid.NewString(),
			BotID:      bot.ID,
			Symbol:     symbol,
			IsActive:   true,
			ProfitLoss: decimal.NewFromInt(1),
		}
		if err := t.repo.SavePair(pair); err != nil {
			return nil, fmt.Errorf("create bot: save pair %s: %w", symbol, err)
		}
	}

	logger.S().Infow("机器人创建完成",
		"bot", bot.Name, "id", bot.ID, "strategy", bot.StrategyName, "pairs", len(symbols))
	return bot, nil
}

// LoadBots returns all persisted bots, creating one from the config when the
// store is empty.
func (t *Trader) LoadBots(ctx context.Context) ([]*models.Bot, error) {
	bots, err := t.repo.GetAllBots()
	if err != nil {
		return nil, fmt.Errorf("load bots: %w", err)
	}
	if len(bots) == 0 {
		bot, err := t.CreateBot(ctx)
		if err != nil {
			return nil, err
		}
		bots = append(bots, bot)
	}
	return bots, nil
}

// Run 执行轮询主循环，直到ctx取消或出现不可恢复的错误。
func (t *Trader) Run(ctx context.Context) error {
	infos, err := t.gateway.ListTradableSymbols(ctx, t.cfg.QuoteAssets)
	if err != nil {
		return fmt.Errorf("load trading rules: %w", err)
	}
	t.rounder = precision.NewRounder(infos)

	bots, err := t.LoadBots(ctx)
	if err != nil {
		return err
	}

	pollInterval := time.Duration(t.cfg.PollIntervalSec) * time.Second
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	logger.S().Infow("轮询循环启动", "bots", len(bots), "interval", pollInterval)
	for {
		if err := t.runCycle(ctx, bots); err != nil {
			return err
		}
		metrics.PollCycles.Inc()

		select {
		case <-ctx.Done():
			logger.S().Info("轮询循环停止")
			return nil
		case <-ticker.C:
		}
	}
}

// runCycle runs one full poll: refresh balances if stale, then the entry
// phase across all active pairs, then the exit phase across all open orders.
// Each phase fans out through its own bounded worker pool and joins before
// the next phase starts.
func (t *Trader) runCycle(ctx context.Context, bots []*models.Bot) error {
	if t.balancesStale.Load() {
		if err := t.refreshBalances(ctx); err != nil {
			return err
		}
	}

	var activePairs, openOrders int
	for _, bot := range bots {
		strat, err := t.strategyFor(bot)
		if err != nil {
			logger.S().Errorw("机器人策略无效，跳过", "bot", bot.Name, "error", err)
			continue
		}

		pairs, err := t.repo.GetActivePairsOfBot(bot.ID)
		if err != nil {
			return fmt.Errorf("load active pairs of bot %s: %w", bot.ID, err)
		}
		activePairs += len(pairs)

		sem := make(chan struct{}, t.cfg.EntryWorkers)
		var wg sync.WaitGroup
		for _, pair := range pairs {
			wg.Add(1)
			sem <- struct{}{}
			go func(p *models.TradingPair) {
				defer wg.Done()
				defer func() { <-sem }()
				if err := t.checkEntry(ctx, bot, strat, p); err != nil {
					t.reportCheckErr("entry", p.Symbol, err)
				}
			}(pair)
		}
		wg.Wait()

		orders, err := t.repo.GetOpenOrdersOfBot(bot.ID)
		if err != nil {
			return fmt.Errorf("load open orders of bot %s: %w", bot.ID, err)
		}
		openOrders += len(orders)

		sem = make(chan struct{}, t.cfg.ExitWorkers)
		for _, order := range orders {
			wg.Add(1)
			sem <- struct{}{}
			go func(o *models.Order) {
				defer wg.Done()
				defer func() { <-sem }()
				if err := t.checkExit(ctx, bot, o); err != nil {
					t.reportCheckErr("exit", o.Symbol, err)
				}
			}(order)
		}
		wg.Wait()
	}

	metrics.ActivePairs.Set(float64(activePairs))
	metrics.OpenOrders.Set(float64(openOrders))
	return nil
}

func (t *Trader) strategyFor(bot *models.Bot) (strategy.Strategy, error) {
	t.stratMu.Lock()
	defer t.stratMu.Unlock()
	if strat, ok := t.strategies[bot.ID]; ok {
		return strat, nil
	}
	strat, err := strategy.New(bot.StrategyName)
	if err != nil {
		return nil, err
	}
	t.strategies[bot.ID] = strat
	return strat, nil
}

// refreshBalances 重新拉取账户余额，失败时固定间隔重试，重试耗尽则中止整个运行。
func (t *Trader) refreshBalances(ctx context.Context) error {
	var lastErr error
	for attempt := 1; attempt <= balanceFetchAttempts; attempt++ {
		balances, err := t.gateway.FetchBalances(ctx)
		if err == nil {
			funded := 0
			for _, b := range balances {
				if b.Free.IsPositive() || b.Locked.IsPositive() {
					funded++
				}
			}
			t.balanceMu.Lock()
			t.balances = balances
			t.balanceMu.Unlock()
			t.balancesStale.Store(false)
			metrics.BalanceRefreshes.Inc()
			logger.S().Debugw("账户余额已刷新", "assets", len(balances), "funded", funded)
			return nil
		}
		lastErr = err
		logger.S().Warnw("获取账户余额失败，即将重试",
			"attempt", attempt, "max", balanceFetchAttempts, "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(balanceFetchBackoff):
		}
	}
	return fmt.Errorf("refresh balances: %d attempts exhausted: %w", balanceFetchAttempts, lastErr)
}

// markBalancesStale flags the cached balances for refresh on the next cycle.
// Safe and idempotent to call from concurrent tasks.
func (t *Trader) markBalancesStale() {
	t.balancesStale.Store(true)
}

func (t *Trader) freeBalance(asset string) decimal.Decimal {
	t.balanceMu.RLock()
	defer t.balanceMu.RUnlock()
	return t.balances[asset].Free
}

// checkEntry evaluates the strategy on the pair's freshest bars and, on a
// signal, submits a discounted limit buy for the configured allocation of
// the free quote balance. Only callable while the pair is active.
func (t *Trader) checkEntry(ctx context.Context, bot *models.Bot, strat strategy.Strategy, pair *models.TradingPair) error {
	if !t.rounder.Has(pair.Symbol) {
		return fmt.Errorf("%w: %s", models.ErrPrecisionConfig, pair.Symbol)
	}

	bars, err := t.gateway.FetchBars(ctx, pair.Symbol, bot.Interval, t.cfg.BarLookback, time.Time{})
	if err != nil {
		return fmt.Errorf("fetch bars for %s: %w", pair.Symbol, err)
	}
	if len(bars) == 0 {
		return fmt.Errorf("%w: %s returned no bars", models.ErrDataGap, pair.Symbol)
	}

	signalPrice, ok := strat.Evaluate(bars, len(bars)-1)
	if !ok {
		return nil
	}

	info, _ := t.rounder.Info(pair.Symbol)
	free := t.freeBalance(info.QuoteAsset)
	spend := free.Mul(bot.TradeAllocation)
	if !spend.IsPositive() {
		logger.S().Debugw("可用余额不足，跳过入场", "symbol", pair.Symbol, "quote", info.QuoteAsset)
		return nil
	}

	lastClose := decimal.NewFromFloat(bars[len(bars)-1].Close)
	desired := decimal.Min(decimal.NewFromFloat(signalPrice), lastClose).
		Mul(decimal.NewFromFloat(entryDiscount))
	limitPrice, err := t.rounder.ValidPrice(pair.Symbol, desired, false)
	if err != nil {
		return err
	}
	if !limitPrice.IsPositive() {
		logger.S().Debugw("入场价不足一个最小跳动价位，跳过入场", "symbol", pair.Symbol, "desired", desired)
		return nil
	}
	quantity, err := t.rounder.ValidQuantity(pair.Symbol, spend.Div(limitPrice), false)
	if err != nil {
		return err
	}
	if !quantity.IsPositive() {
		logger.S().Debugw("下单数量不足一个最小步长，跳过入场", "symbol", pair.Symbol)
		return nil
	}

	// 预估的止盈价记录在入场订单上，成交后会按实际成交价重算。
	projectedTP, err := t.rounder.ValidPrice(pair.Symbol, limitPrice.Mul(bot.ProfitTarget), true)
	if err != nil {
		return err
	}

	spec := models.OrderSpec{
		Symbol:        pair.Symbol,
		Side:          models.SideBuy,
		Type:          models.OrderTypeLimit,
		TimeInForce:   models.TimeInForceGTC,
		Price:         limitPrice,
		Quantity:      quantity,
		ClientOrderID: NewClientOrderID(),
		Test:          bot.TestMode,
	}
	order, err := t.gateway.SubmitOrder(ctx, spec)
	if err != nil {
		return fmt.Errorf("submit entry for %s: %w", pair.Symbol, err)
	}

	order.BotID = bot.ID
	order.IsEntryOrder = true
	order.TakeProfitPrice = projectedTP
	if err := t.repo.SaveOrder(order); err != nil {
		// The exchange accepted the order; losing its record is the one
		// failure mode that may not pass silently.
		logger.S().Errorw("入场订单已被交易所接受但本地保存失败",
			"symbol", pair.Symbol, "order", order.ID, "error", err)
		return fmt.Errorf("persist entry order %s: %w", order.ID, err)
	}

	pair.IsActive = false
	pair.CurrentOrderID = order.ID
	if err := t.repo.UpdatePair(pair); err != nil {
		return fmt.Errorf("persist pair %s: %w", pair.Symbol, err)
	}

	t.markBalancesStale()
	metrics.OrdersSubmitted.WithLabelValues(models.SideBuy).Inc()
	logger.S().Infow("已提交入场订单",
		"bot", bot.Name, "symbol", pair.Symbol, "price", limitPrice, "quantity", quantity, "order", order.ID)
	return nil
}

// checkExit polls one open order. A filled entry produces the take-profit
// sell; a filled exit completes the cycle and reactivates the pair. Any
// non-terminal status is a no-op until the next poll.
func (t *Trader) checkExit(ctx context.Context, bot *models.Bot, order *models.Order) error {
	pair, err := t.repo.GetPair(order.BotID, order.Symbol)
	if err != nil {
		return fmt.Errorf("load pair for order %s: %w", order.ID, err)
	}
	if pair == nil {
		return fmt.Errorf("order %s references unknown pair %s", order.ID, order.Symbol)
	}
	if pair.CurrentOrderID != order.ID {
		cur, err := t.repo.GetOrder(pair.CurrentOrderID)
		if err != nil {
			return fmt.Errorf("load current order of pair %s: %w", pair.Symbol, err)
		}
		if cur != nil && cur.IsOpen() {
			logger.S().Warnw("订单不是交易对的当前订单，跳过处理",
				"symbol", order.Symbol, "order", order.ID, "current", pair.CurrentOrderID)
			return nil
		}
		// 当前订单已关闭或不存在，说明上一轮的簿记被打断。把指针修复到
		// 这张仍然打开的订单上，再继续正常处理。
		logger.S().Warnw("交易对的当前订单已失效，修复为仍打开的订单",
			"symbol", order.Symbol, "order", order.ID, "stale", pair.CurrentOrderID)
		pair.IsActive = false
		pair.CurrentOrderID = order.ID
		if err := t.repo.UpdatePair(pair); err != nil {
			return fmt.Errorf("persist pair %s: %w", pair.Symbol, err)
		}
	}

	var latest *models.Order
	if bot.TestMode {
		// 测试模式订单不存在于交易所，按限价立即成交模拟。
		latest = &models.Order{
			ID:               order.ID,
			Symbol:           order.Symbol,
			Price:            order.Price,
			OriginalQuantity: order.OriginalQuantity,
			ExecutedQuantity: order.OriginalQuantity,
			Status:           models.OrderStatusFilled,
		}
	} else {
		latest, err = t.gateway.FetchOrderStatus(ctx, order.Symbol, order.ID)
		if err != nil {
			return fmt.Errorf("poll order %s: %w", order.ID, err)
		}
	}

	switch latest.Status {
	case models.OrderStatusFilled:
		if order.IsEntryOrder {
			return t.submitExit(ctx, bot, pair, order, latest)
		}
		return t.completeCycle(bot, pair, order, latest)
	case models.OrderStatusCancelled, models.OrderStatusRejected, models.OrderStatusExpired:
		return t.abandonOrder(pair, order, latest.Status)
	default:
		// NEW / PARTIALLY_FILLED / PENDING_CANCEL: keep polling.
		return nil
	}
}

// submitExit places the take-profit sell for a filled entry order. If the
// sell submission fails the entry stays open, so the next cycle detects the
// missing exit and resubmits.
func (t *Trader) submitExit(ctx context.Context, bot *models.Bot, pair *models.TradingPair, entry, latest *models.Order) error {
	if entry.ClosingOrderID != "" {
		// The exit was recorded on an earlier cycle but the entry's closing
		// bookkeeping did not land. Finish it now.
		return t.adoptExit(pair, entry, entry.ClosingOrderID)
	}

	// 崩溃恢复：上一轮可能已保存止盈订单但未来得及关闭入场订单，
	// 此时绝不能再提交第二张卖单。
	open, err := t.repo.GetOpenOrdersOfBot(bot.ID)
	if err != nil {
		return fmt.Errorf("load open orders of bot %s: %w", bot.ID, err)
	}
	for _, o := range open {
		if o.Symbol == entry.Symbol && !o.IsEntryOrder {
			logger.S().Warnw("发现已保存的止盈订单，恢复关联",
				"symbol", entry.Symbol, "entry", entry.ID, "exit", o.ID)
			return t.adoptExit(pair, entry, o.ID)
		}
	}

	fillPrice := latest.Price
	if !fillPrice.IsPositive() {
		fillPrice = entry.Price
	}

	takeProfit, err := t.rounder.ValidPrice(entry.Symbol, fillPrice.Mul(bot.ProfitTarget), true)
	if err != nil {
		return err
	}
	quantity, err := t.rounder.ValidQuantity(entry.Symbol, latest.ExecutedQuantity, false)
	if err != nil {
		return err
	}
	if !quantity.IsPositive() {
		return fmt.Errorf("%w: filled quantity %s of %s below one step",
			models.ErrPrecisionConfig, latest.ExecutedQuantity, entry.Symbol)
	}

	spec := models.OrderSpec{
		Symbol:        entry.Symbol,
		Side:          models.SideSell,
		Type:          models.OrderTypeLimit,
		TimeInForce:   models.TimeInForceGTC,
		Price:         takeProfit,
		Quantity:      quantity,
		ClientOrderID: NewClientOrderID(),
		Test:          bot.TestMode,
	}
	exit, err := t.gateway.SubmitOrder(ctx, spec)
	if err != nil {
		return fmt.Errorf("submit exit for %s: %w", entry.Symbol, err)
	}

	exit.BotID = bot.ID
	exit.TakeProfitPrice = takeProfit
	exit.EntryPrice = fillPrice
	if err := t.repo.SaveOrder(exit); err != nil {
		logger.S().Errorw("离场订单已被交易所接受但本地保存失败",
			"symbol", entry.Symbol, "order", exit.ID, "error", err)
		return fmt.Errorf("persist exit order %s: %w", exit.ID, err)
	}

	entry.IsClosed = true
	entry.Status = models.OrderStatusFilled
	entry.ExecutedQuantity = latest.ExecutedQuantity
	entry.ClosingOrderID = exit.ID
	if err := t.repo.UpdateOrder(entry); err != nil {
		return fmt.Errorf("persist entry order %s: %w", entry.ID, err)
	}

	pair.CurrentOrderID = exit.ID
	if err := t.repo.UpdatePair(pair); err != nil {
		return fmt.Errorf("persist pair %s: %w", pair.Symbol, err)
	}

	t.markBalancesStale()
	metrics.OrdersFilled.WithLabelValues(models.SideBuy).Inc()
	metrics.OrdersSubmitted.WithLabelValues(models.SideSell).Inc()
	logger.S().Infow("入场已成交，止盈订单已提交",
		"bot", bot.Name, "symbol", entry.Symbol, "fill", fillPrice, "take_profit", takeProfit, "order", exit.ID)
	return nil
}

// adoptExit attaches an already-persisted exit order to its entry and pair.
// Idempotent, so interrupted bookkeeping can be replayed on any later cycle.
func (t *Trader) adoptExit(pair *models.TradingPair, entry *models.Order, exitID string) error {
	entry.IsClosed = true
	entry.Status = models.OrderStatusFilled
	entry.ClosingOrderID = exitID
	if err := t.repo.UpdateOrder(entry); err != nil {
		return fmt.Errorf("persist entry order %s: %w", entry.ID, err)
	}
	pair.CurrentOrderID = exitID
	if err := t.repo.UpdatePair(pair); err != nil {
		return fmt.Errorf("persist pair %s: %w", pair.Symbol, err)
	}
	return nil
}

// completeCycle closes a filled exit order and reactivates its pair.
func (t *Trader) completeCycle(bot *models.Bot, pair *models.TradingPair, exit, latest *models.Order) error {
	fillPrice := latest.Price
	if !fillPrice.IsPositive() {
		fillPrice = exit.Price
	}

	exit.IsClosed = true
	exit.Status = models.OrderStatusFilled
	exit.ExecutedQuantity = latest.ExecutedQuantity
	if err := t.repo.UpdateOrder(exit); err != nil {
		return fmt.Errorf("persist exit order %s: %w", exit.ID, err)
	}

	if exit.EntryPrice.IsPositive() {
		pair.ProfitLoss = pair.ProfitLoss.Mul(fillPrice.Div(exit.EntryPrice))
	}
	pair.IsActive = true
	pair.CurrentOrderID = ""
	if err := t.repo.UpdatePair(pair); err != nil {
		return fmt.Errorf("persist pair %s: %w", pair.Symbol, err)
	}

	t.markBalancesStale()
	metrics.OrdersFilled.WithLabelValues(models.SideSell).Inc()

	fields := []interface{}{
		"bot", bot.Name, "symbol", pair.Symbol, "fill", fillPrice, "profit_loss", pair.ProfitLoss,
	}
	if t.feed != nil {
		if price, _, ok := t.feed.Price(pair.Symbol); ok {
			fields = append(fields, "market_price", price)
		}
	}
	logger.S().Infow("止盈已成交，交易周期完成", fields...)
	return nil
}

// abandonOrder closes an order the exchange reports as cancelled, rejected,
// or expired, and makes the pair eligible for a new entry.
func (t *Trader) abandonOrder(pair *models.TradingPair, order *models.Order, status string) error {
	order.IsClosed = true
	order.Status = status
	if err := t.repo.UpdateOrder(order); err != nil {
		return fmt.Errorf("persist order %s: %w", order.ID, err)
	}

	if !order.IsEntryOrder {
		// An externally cancelled exit leaves the acquired base asset
		// unmanaged; the operator removed the order deliberately.
		logger.S().Warnw("止盈订单在交易所被取消，持仓不再被跟踪",
			"symbol", order.Symbol, "order", order.ID, "status", status)
	}

	pair.IsActive = true
	pair.CurrentOrderID = ""
	if err := t.repo.UpdatePair(pair); err != nil {
		return fmt.Errorf("persist pair %s: %w", pair.Symbol, err)
	}
	t.markBalancesStale()
	return nil
}

// reportCheckErr classifies a per-pair failure. Failures are isolated: they
// are logged and counted, and the pair is retried on the next cycle.
func (t *Trader) reportCheckErr(phase, symbol string, err error) {
	switch {
	case errors.Is(err, models.ErrDataGap):
		logger.S().Debugw("K线历史不足，跳过本轮检查", "phase", phase, "symbol", symbol, "error", err)
	case errors.Is(err, models.ErrPrecisionConfig):
		metrics.OrderErrors.WithLabelValues("precision").Inc()
		logger.S().Warnw("交易对过滤器缺失或无效", "phase", phase, "symbol", symbol, "error", err)
	case models.IsExchangeRejection(err):
		metrics.OrderErrors.WithLabelValues("rejected").Inc()
		logger.S().Warnw("交易所拒绝了请求", "phase", phase, "symbol", symbol, "error", err)
	case models.IsTransient(err):
		metrics.OrderErrors.WithLabelValues("transient").Inc()
		logger.S().Warnw("网络瞬时故障，下一轮重试", "phase", phase, "symbol", symbol, "error", err)
	default:
		metrics.OrderErrors.WithLabelValues("other").Inc()
		logger.S().Errorw("检查失败", "phase", phase, "symbol", symbol, "error", err)
	}
}
