package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// 订单状态常量，与币安现货API返回的status字段一一对应。
const (
	OrderStatusNew             = "NEW"
	OrderStatusPartiallyFilled = "PARTIALLY_FILLED"
	OrderStatusFilled          = "FILLED"
	OrderStatusCancelled       = "CANCELLED"
	OrderStatusPendingCancel   = "PENDING_CANCEL"
	OrderStatusRejected        = "REJECTED"
	OrderStatusExpired         = "EXPIRED"
)

const (
	SideBuy  = "BUY"
	SideSell = "SELL"

	OrderTypeLimit  = "LIMIT"
	OrderTypeMarket = "MARKET"

	TimeInForceGTC = "GTC"
)

// KlineIntervals 列出交易所支持的全部K线周期。
var KlineIntervals = []string{
	"1m", "3m", "5m", "15m", "30m",
	"1h", "2h", "4h", "6h", "8h", "12h",
	"1d", "3d", "1w", "1M",
}

// ValidInterval reports whether the given interval is supported by the exchange.
func ValidInterval(interval string) bool {
	for _, iv := range KlineIntervals {
		if iv == interval {
			return true
		}
	}
	return false
}

// Bot 是一个交易机器人的完整定义。创建后除显式重新配置外不可变。
type Bot struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	StrategyName    string          `json:"strategy_name"`
	Interval        string          `json:"interval"`
	PollIntervalSec int             `json:"poll_interval_sec"`
	TradeAllocation decimal.Decimal `json:"trade_allocation"` // fraction of free quote balance, in (0, 1]
	ProfitTarget    decimal.Decimal `json:"profit_target"`    // take-profit multiplier, > 1
	TestMode        bool            `json:"test_mode"`        // route orders to the exchange test endpoint
}

// TradingPair tracks one symbol owned by one bot. IsActive is true exactly
// while the pair holds no open order and is eligible for a new entry.
type TradingPair struct {
	ID             string          `json:"id"`
	BotID          string          `json:"bot_id"`
	Symbol         string          `json:"symbol"`
	IsActive       bool            `json:"is_active"`
	CurrentOrderID string          `json:"current_order_id"`
	ProfitLoss     decimal.Decimal `json:"profit_loss"` // cumulative multiplier across completed cycles
}

// Order 记录机器人提交过的每一笔订单。订单只会被标记关闭，永远不会被删除。
type Order struct {
	ID               string          `json:"id"` // caller-generated client order id
	BotID            string          `json:"bot_id"`
	Symbol           string          `json:"symbol"`
	Time             int64           `json:"time"` // exchange transact time, unix ms
	Side             string          `json:"side"`
	Price            decimal.Decimal `json:"price"`
	OriginalQuantity decimal.Decimal `json:"original_quantity"`
	ExecutedQuantity decimal.Decimal `json:"executed_quantity"`
	TakeProfitPrice  decimal.Decimal `json:"take_profit_price"`
	EntryPrice       decimal.Decimal `json:"entry_price"` // on exit orders: fill price of the entry being closed
	Status           string          `json:"status"`
	IsEntryOrder     bool            `json:"is_entry_order"`
	IsClosed         bool            `json:"is_closed"`
	ClosingOrderID   string          `json:"closing_order_id"`
}

// IsOpen reports whether the order still needs to be polled for fills.
func (o *Order) IsOpen() bool {
	return !o.IsClosed
}

// OrderSpec 是提交订单所需的全部字段，经过强类型校验后才发往交易所。
type OrderSpec struct {
	Symbol        string
	Side          string
	Type          string
	TimeInForce   string
	Price         decimal.Decimal
	Quantity      decimal.Decimal
	ClientOrderID string
	Test          bool
}

// Validate checks the spec before it is sent anywhere near the exchange.
func (s OrderSpec) Validate() error {
	if s.Symbol == "" {
		return fmt.Errorf("order spec: symbol is empty")
	}
	if s.Side != SideBuy && s.Side != SideSell {
		return fmt.Errorf("order spec: invalid side %q", s.Side)
	}
	if s.Type != OrderTypeLimit && s.Type != OrderTypeMarket {
		return fmt.Errorf("order spec: invalid type %q", s.Type)
	}
	if s.ClientOrderID == "" {
		return fmt.Errorf("order spec: client order id is empty")
	}
	if !s.Quantity.IsPositive() {
		return fmt.Errorf("order spec: quantity %s is not positive", s.Quantity)
	}
	if s.Type == OrderTypeLimit && !s.Price.IsPositive() {
		return fmt.Errorf("order spec: limit price %s is not positive", s.Price)
	}
	return nil
}

// Bar 是一根K线 (OHLCV)。
type Bar struct {
	Time   int64   `json:"time"` // open time, unix ms
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// Date returns the bar's open time as time.Time.
func (b Bar) Date() time.Time {
	return time.UnixMilli(b.Time)
}

// SymbolInfo holds the trading rules of one symbol as reported by the
// exchange's trading-rules metadata. Consumed read-only.
type SymbolInfo struct {
	Symbol     string          `json:"symbol"`
	BaseAsset  string          `json:"base_asset"`
	QuoteAsset string          `json:"quote_asset"`
	TickSize   decimal.Decimal `json:"tick_size"` // minimum price increment
	StepSize   decimal.Decimal `json:"step_size"` // minimum quantity increment
}

// Balance 是某一资产的账户余额。
type Balance struct {
	Asset  string          `json:"asset"`
	Free   decimal.Decimal `json:"free"`
	Locked decimal.Decimal `json:"locked"`
}

// LogConfig 定义了日志相关的配置
type LogConfig struct {
	Level      string `json:"level"`       // 日志级别, e.g., "debug", "info", "warn", "error"
	Output     string `json:"output"`      // 输出模式: "console", "file", "both"
	File       string `json:"file"`        // 日志文件路径
	MaxSize    int    `json:"max_size"`    // 单个日志文件的最大大小 (MB)
	MaxBackups int    `json:"max_backups"` // 保留的旧日志文件最大数量
	MaxAge     int    `json:"max_age"`     // 旧日志文件的最大保留天数
	Compress   bool   `json:"compress"`    // 是否压缩旧日志文件
}
