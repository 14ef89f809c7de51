package exchange

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"binance-trade-bot-go/internal/logger"
	"binance-trade-bot-go/internal/models"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
	"github.com/shopspring/decimal"
)

// klinePageLimit 是交易所单次K线请求允许的最大数量。
const klinePageLimit = 1000

// BinanceGateway 基于币安现货API实现 Gateway 接口。
type BinanceGateway struct {
	client *binance.Client
}

// NewBinanceGateway 创建现货网关。testnet 为 true 时连接币安测试网。
func NewBinanceGateway(apiKey, secretKey string, testnet bool) *BinanceGateway {
	binance.UseTestnet = testnet
	return &BinanceGateway{client: binance.NewClient(apiKey, secretKey)}
}

// wrapErr converts the SDK's API error into the local error type so callers
// can classify rejections with errors.As, and leaves everything else intact.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		return &models.Error{Code: int(apiErr.Code), Msg: apiErr.Message}
	}
	return err
}

func (g *BinanceGateway) ListTradableSymbols(ctx context.Context, quoteAssets []string) ([]models.SymbolInfo, error) {
	info, err := g.client.NewExchangeInfoService().Do(ctx)
	if err != nil {
		return nil, wrapErr(err)
	}

	wantQuote := make(map[string]bool, len(quoteAssets))
	for _, q := range quoteAssets {
		wantQuote[q] = true
	}

	var out []models.SymbolInfo
	for _, s := range info.Symbols {
		if s.Status != "TRADING" || !s.IsSpotTradingAllowed {
			continue
		}
		if len(wantQuote) > 0 && !wantQuote[s.QuoteAsset] {
			continue
		}

		priceFilter := s.PriceFilter()
		lotFilter := s.LotSizeFilter()
		if priceFilter == nil || lotFilter == nil {
			logger.S().Warnw("交易对缺少价格或数量过滤器，跳过", "symbol", s.Symbol)
			continue
		}
		tick, err := decimal.NewFromString(priceFilter.TickSize)
		if err != nil {
			return nil, fmt.Errorf("parse tick size for %s: %w", s.Symbol, err)
		}
		step, err := decimal.NewFromString(lotFilter.StepSize)
		if err != nil {
			return nil, fmt.Errorf("parse step size for %s: %w", s.Symbol, err)
		}

		out = append(out, models.SymbolInfo{
			Symbol:     s.Symbol,
			BaseAsset:  s.BaseAsset,
			QuoteAsset: s.QuoteAsset,
			TickSize:   tick,
			StepSize:   step,
		})
	}
	return out, nil
}

func (g *BinanceGateway) FetchBars(ctx context.Context, symbol, interval string, limit int, endTime time.Time) ([]models.Bar, error) {
	if !models.ValidInterval(interval) {
		return nil, fmt.Errorf("fetch bars: invalid interval %q", interval)
	}

	// 交易所的endTime是闭区间，减1毫秒换成开区间语义。
	var end int64
	if !endTime.IsZero() {
		end = endTime.UnixMilli() - 1
	}

	// 超过单页上限时从末尾往前逐页拉取，再保持升序拼接。
	var pages [][]models.Bar
	remaining := limit
	total := 0
	for remaining > 0 {
		pageSize := remaining
		if pageSize > klinePageLimit {
			pageSize = klinePageLimit
		}

		svc := g.client.NewKlinesService().Symbol(symbol).Interval(interval).Limit(pageSize)
		if end > 0 {
			svc = svc.EndTime(end)
		}
		klines, err := svc.Do(ctx)
		if err != nil {
			return nil, wrapErr(err)
		}
		if len(klines) == 0 {
			break
		}

		page := make([]models.Bar, 0, len(klines))
		for _, k := range klines {
			bar, err := barFromKline(k)
			if err != nil {
				return nil, fmt.Errorf("parse kline for %s: %w", symbol, err)
			}
			page = append(page, bar)
		}
		pages = append(pages, page)
		total += len(page)
		remaining -= len(page)

		if len(klines) < pageSize {
			break // history exhausted
		}
		end = klines[0].OpenTime - 1
	}

	bars := make([]models.Bar, 0, total)
	for i := len(pages) - 1; i >= 0; i-- {
		bars = append(bars, pages[i]...)
	}
	return bars, nil
}

func barFromKline(k *binance.Kline) (models.Bar, error) {
	open, err := strconv.ParseFloat(k.Open, 64)
	if err != nil {
		return models.Bar{}, err
	}
	high, err := strconv.ParseFloat(k.High, 64)
	if err != nil {
		return models.Bar{}, err
	}
	low, err := strconv.ParseFloat(k.Low, 64)
	if err != nil {
		return models.Bar{}, err
	}
	closePrice, err := strconv.ParseFloat(k.Close, 64)
	if err != nil {
		return models.Bar{}, err
	}
	volume, err := strconv.ParseFloat(k.Volume, 64)
	if err != nil {
		return models.Bar{}, err
	}
	return models.Bar{
		Time:   k.OpenTime,
		Open:   open,
		High:   high,
		Low:    low,
		Close:  closePrice,
		Volume: volume,
	}, nil
}

func (g *BinanceGateway) FetchBalances(ctx context.Context) (map[string]models.Balance, error) {
	account, err := g.client.NewGetAccountService().Do(ctx)
	if err != nil {
		return nil, wrapErr(err)
	}

	balances := make(map[string]models.Balance, len(account.Balances))
	for _, b := range account.Balances {
		free, err := decimal.NewFromString(b.Free)
		if err != nil {
			return nil, fmt.Errorf("parse free balance of %s: %w", b.Asset, err)
		}
		locked, err := decimal.NewFromString(b.Locked)
		if err != nil {
			return nil, fmt.Errorf("parse locked balance of %s: %w", b.Asset, err)
		}
		balances[b.Asset] = models.Balance{Asset: b.Asset, Free: free, Locked: locked}
	}
	return balances, nil
}

func (g *BinanceGateway) SubmitOrder(ctx context.Context, spec models.OrderSpec) (*models.Order, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	svc := g.client.NewCreateOrderService().
		Symbol(spec.Symbol).
		Side(binance.SideType(spec.Side)).
		Type(binance.OrderType(spec.Type)).
		Quantity(spec.Quantity.String()).
		NewClientOrderID(spec.ClientOrderID)
	if spec.Type == models.OrderTypeLimit {
		svc = svc.TimeInForce(binance.TimeInForceType(spec.TimeInForce)).Price(spec.Price.String())
	}

	if spec.Test {
		// 测试模式只做参数校验，本地合成一个NEW状态的订单。
		if err := svc.Test(ctx); err != nil {
			return nil, wrapErr(err)
		}
		return &models.Order{
			ID:               spec.ClientOrderID,
			Symbol:           spec.Symbol,
			Time:             time.Now().UnixMilli(),
			Side:             spec.Side,
			Price:            spec.Price,
			OriginalQuantity: spec.Quantity,
			Status:           models.OrderStatusNew,
		}, nil
	}

	resp, err := svc.Do(ctx)
	if err != nil {
		return nil, wrapErr(err)
	}

	price, err := decimal.NewFromString(resp.Price)
	if err != nil {
		return nil, fmt.Errorf("parse order price: %w", err)
	}
	origQty, err := decimal.NewFromString(resp.OrigQuantity)
	if err != nil {
		return nil, fmt.Errorf("parse order quantity: %w", err)
	}
	execQty, err := decimal.NewFromString(resp.ExecutedQuantity)
	if err != nil {
		return nil, fmt.Errorf("parse executed quantity: %w", err)
	}

	return &models.Order{
		ID:               resp.ClientOrderID,
		Symbol:           resp.Symbol,
		Time:             resp.TransactTime,
		Side:             spec.Side,
		Price:            price,
		OriginalQuantity: origQty,
		ExecutedQuantity: execQty,
		Status:           string(resp.Status),
	}, nil
}

func (g *BinanceGateway) FetchOrderStatus(ctx context.Context, symbol, clientOrderID string) (*models.Order, error) {
	resp, err := g.client.NewGetOrderService().
		Symbol(symbol).
		OrigClientOrderID(clientOrderID).
		Do(ctx)
	if err != nil {
		return nil, wrapErr(err)
	}

	price, err := decimal.NewFromString(resp.Price)
	if err != nil {
		return nil, fmt.Errorf("parse order price: %w", err)
	}
	origQty, err := decimal.NewFromString(resp.OrigQuantity)
	if err != nil {
		return nil, fmt.Errorf("parse order quantity: %w", err)
	}
	execQty, err := decimal.NewFromString(resp.ExecutedQuantity)
	if err != nil {
		return nil, fmt.Errorf("parse executed quantity: %w", err)
	}

	return &models.Order{
		ID:               resp.ClientOrderID,
		Symbol:           resp.Symbol,
		Time:             resp.Time,
		Side:             string(resp.Side),
		Price:            price,
		OriginalQuantity: origQty,
		ExecutedQuantity: execQty,
		Status:           string(resp.Status),
	}, nil
}
