package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"binance-trade-bot-go/internal/backtest"
	"binance-trade-bot-go/internal/config"
	"binance-trade-bot-go/internal/downloader"
	"binance-trade-bot-go/internal/exchange"
	"binance-trade-bot-go/internal/logger"
	"binance-trade-bot-go/internal/metrics"
	"binance-trade-bot-go/internal/models"
	"binance-trade-bot-go/internal/persistence"
	"binance-trade-bot-go/internal/reporter"
	"binance-trade-bot-go/internal/trader"
	"binance-trade-bot-go/internal/trailing"

	"github.com/joho/godotenv"
)

const (
	defaultLiveWSURL    = "wss://stream.binance.com:9443"
	defaultTestnetWSURL = "wss://testnet.binance.vision"
)

func main() {
	// --- 命令行参数定义 ---
	configPath := flag.String("config", "config.json", "path to the config file")
	mode := flag.String("mode", "live", "running mode: live or backtest")
	dataPath := flag.String("data", "", "path to historical data file for backtesting")
	symbols := flag.String("symbol", "", "comma-separated symbols to backtest (e.g., BTCUSDT,ETHUSDT)")
	startDate := flag.String("start", "", "start date for backtesting (YYYY-MM-DD)")
	endDate := flag.String("end", "", "end date for backtesting (YYYY-MM-DD)")
	showTrades := flag.Bool("trades", false, "print every buy/sell of the backtest")
	flag.Parse()

	// 先用默认配置初始化日志，加载配置文件后再重新初始化。
	logger.InitLogger(models.LogConfig{Level: "info", Output: "console"})

	if err := godotenv.Load(); err != nil {
		logger.S().Info("未找到 .env 文件，将从系统环境变量中读取。")
	} else {
		logger.S().Info("成功从 .env 文件加载配置。")
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.S().Fatalf("无法加载配置文件: %v", err)
	}

	logger.InitLogger(cfg.LogConfig)
	defer logger.S().Sync()

	switch *mode {
	case "live":
		runLiveMode(cfg)
	case "backtest":
		if err := runBacktestMode(cfg, *dataPath, *symbols, *startDate, *endDate, *showTrades); err != nil {
			logger.S().Fatal(err)
		}
	default:
		logger.S().Fatalf("未知的运行模式: %s。请选择 'live' 或 'backtest'。", *mode)
	}
}

// runLiveMode 运行实时交易机器人
func runLiveMode(cfg *models.Config) {
	logger.S().Info("--- 启动实时交易模式 ---")

	apiKey := os.Getenv("BINANCE_API_KEY")
	secretKey := os.Getenv("BINANCE_SECRET_KEY")
	if apiKey == "" || secretKey == "" {
		logger.S().Fatal("错误：BINANCE_API_KEY 和 BINANCE_SECRET_KEY 环境变量必须被设置。")
	}

	repo, err := persistence.Open(cfg.DBDriver, cfg.DBPath)
	if err != nil {
		logger.S().Fatalf("无法打开数据库: %v", err)
	}
	defer repo.Close()

	gateway := exchange.NewBinanceGateway(apiKey, secretKey, cfg.IsTestnet)
	t := trader.New(cfg, repo, gateway)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Ctrl+C / SIGTERM 触发优雅停机，等待本轮检查结束。
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.S().Infow("收到退出信号，开始优雅停机", "signal", sig)
		cancel()
	}()

	if len(cfg.Symbols) > 0 {
		wsURL := cfg.LiveWSURL
		if wsURL == "" {
			wsURL = defaultLiveWSURL
		}
		if cfg.IsTestnet {
			wsURL = cfg.TestnetWSURL
			if wsURL == "" {
				wsURL = defaultTestnetWSURL
			}
		}
		feed := exchange.NewPriceFeed(wsURL, cfg.Symbols)
		go feed.Run(ctx)
		t.SetPriceFeed(feed)
	}

	metrics.Serve(cfg.MetricsListen)

	if err := t.Run(ctx); err != nil {
		logger.S().Fatalf("交易循环异常退出: %v", err)
	}
	logger.S().Info("实时交易模式已退出")
}

// runBacktestMode 对一个或多个交易对执行回测并输出报告。
func runBacktestMode(cfg *models.Config, dataPath, symbols, startDate, endDate string, showTrades bool) error {
	logger.S().Info("--- 启动回测模式 ---")

	if cfg.StrategyName == "" {
		return fmt.Errorf("回测模式需要在配置中指定 strategy_name")
	}
	interval := cfg.Interval
	if interval == "" {
		interval = "1h"
	}

	sources, err := resolveDataSources(dataPath, symbols, interval, startDate, endDate)
	if err != nil {
		return err
	}

	runner := backtest.NewRunner(trailing.ParamsFromConfig(cfg), cfg.StartingBalance)

	var results []*backtest.SymbolResult
	for symbol, path := range sources {
		bars, err := downloader.LoadKlines(path)
		if err != nil {
			return fmt.Errorf("加载 %s 的K线数据失败: %w", symbol, err)
		}
		result, err := runner.RunSymbol(symbol, cfg.StrategyName, bars)
		if err != nil {
			return err
		}
		results = append(results, result)

		if showTrades {
			reporter.PrintTrades(os.Stdout, result)
		}
	}

	reporter.PrintResults(os.Stdout, results)
	return nil
}

// resolveDataSources 返回 symbol -> CSV路径 的映射，必要时先下载数据。
func resolveDataSources(dataPath, symbols, interval, startDate, endDate string) (map[string]string, error) {
	if dataPath != "" {
		return map[string]string{extractSymbolFromPath(dataPath): dataPath}, nil
	}
	if symbols == "" || startDate == "" || endDate == "" {
		return nil, fmt.Errorf("回测模式需要通过 --data 或 --symbol/start/end 参数指定数据源")
	}

	startTime, err1 := time.Parse("2006-01-02", startDate)
	endTime, err2 := time.Parse("2006-01-02", endDate)
	if err1 != nil || err2 != nil {
		return nil, fmt.Errorf("日期格式错误，请使用 YYYY-MM-DD 格式。start: %v, end: %v", err1, err2)
	}

	d := downloader.NewKlineDownloader()
	sources := make(map[string]string)
	for _, symbol := range strings.Split(symbols, ",") {
		symbol = strings.TrimSpace(strings.ToUpper(symbol))
		if symbol == "" {
			continue
		}
		fileName := fmt.Sprintf("data/%s-%s-%s-%s.csv", symbol, interval, startDate, endDate)
		if err := d.DownloadKlines(context.Background(), symbol, interval, fileName, startTime, endTime); err != nil {
			return nil, fmt.Errorf("下载 %s 数据失败: %w", symbol, err)
		}
		sources[symbol] = fileName
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("没有可回测的交易对")
	}
	return sources, nil
}

// extractSymbolFromPath 从数据文件路径中提取交易对名称
// 例如: "data/BNBUSDT-1h-2025-03-15-2025-06-15.csv" -> "BNBUSDT"
func extractSymbolFromPath(path string) string {
	name := strings.TrimSuffix(path, ".csv")
	parts := strings.Split(name, "/")
	fileName := parts[len(parts)-1]

	symbolParts := strings.Split(fileName, "-")
	if len(symbolParts) > 0 {
		return symbolParts[0]
	}
	return ""
}
