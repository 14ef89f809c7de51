package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"binance-trade-bot-go/internal/logger"

	"github.com/gorilla/websocket"
)

// PriceFeed 通过组合流订阅多个交易对的实时成交价，供交易循环随时查询。
// 连接断开后自动重连，期间旧价格保留并标记时间戳。
type PriceFeed struct {
	baseURL string
	symbols []string

	mu      sync.RWMutex
	prices  map[string]float64
	updated map[string]time.Time
	conn    *websocket.Conn
}

// NewPriceFeed creates a feed for symbols against the given websocket base
// URL (e.g. wss://stream.binance.com:9443).
func NewPriceFeed(baseURL string, symbols []string) *PriceFeed {
	return &PriceFeed{
		baseURL: baseURL,
		symbols: symbols,
		prices:  make(map[string]float64, len(symbols)),
		updated: make(map[string]time.Time, len(symbols)),
	}
}

// Price returns the most recent trade price for symbol and when it was seen.
func (f *PriceFeed) Price(symbol string) (price float64, at time.Time, ok bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	price, ok = f.prices[symbol]
	return price, f.updated[symbol], ok
}

// Run 是一个守护循环，负责维持连接和重连，直到ctx取消。
func (f *PriceFeed) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			logger.S().Info("价格流循环已停止")
			return
		default:
			if err := f.connect(); err != nil {
				logger.S().Warnw("价格流连接失败，5秒后重试", "error", err)
				if !sleepCtx(ctx, 5*time.Second) {
					return
				}
				continue
			}

			logger.S().Infow("价格流连接成功", "symbols", len(f.symbols))
			if err := f.readLoop(ctx); err != nil {
				logger.S().Warnw("价格流读取中断", "error", err)
			}
			f.mu.Lock()
			if f.conn != nil {
				f.conn.Close()
				f.conn = nil
			}
			f.mu.Unlock()
			if ctx.Err() != nil {
				return
			}
			if !sleepCtx(ctx, 5*time.Second) {
				return
			}
		}
	}
}

func (f *PriceFeed) connect() error {
	streams := make([]string, len(f.symbols))
	for i, s := range f.symbols {
		streams[i] = strings.ToLower(s) + "@aggTrade"
	}
	wsURL := fmt.Sprintf("%s/stream?streams=%s", f.baseURL, strings.Join(streams, "/"))

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return fmt.Errorf("WebSocket连接失败: %w", err)
	}
	f.mu.Lock()
	f.conn = conn
	f.mu.Unlock()
	return nil
}

// readLoop 为一个已建立的连接处理消息，并实现心跳机制。
func (f *PriceFeed) readLoop(ctx context.Context) error {
	const (
		pongWait   = 60 * time.Second
		pingPeriod = (pongWait * 9) / 10 // must be less than pongWait
	)

	conn := f.conn
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	// 服务端也会主动Ping，回Pong的同时延长读取超时。
	conn.SetPingHandler(func(payload string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return conn.WriteControl(websocket.PongMessage, []byte(payload), time.Now().Add(10*time.Second))
	})

	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-pingTicker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(10*time.Second)); err != nil {
					return
				}
			case <-ctx.Done():
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				conn.Close()
				return
			case <-done:
				return
			}
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("读取消息失败: %w", err)
		}

		var envelope struct {
			Data struct {
				Symbol string      `json:"s"`
				Price  json.Number `json:"p"`
			} `json:"data"`
		}
		if err := json.Unmarshal(message, &envelope); err != nil {
			logger.S().Debugw("解析价格信息失败", "error", err)
			continue
		}
		price, err := envelope.Data.Price.Float64()
		if err != nil || envelope.Data.Symbol == "" {
			continue
		}

		f.mu.Lock()
		f.prices[envelope.Data.Symbol] = price
		f.updated[envelope.Data.Symbol] = time.Now()
		f.mu.Unlock()
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
