package models

// Config 结构体定义了机器人的所有配置参数
type Config struct {
	IsTestnet     bool   `json:"is_testnet"`      // 是否使用测试网
	DBDriver      string `json:"db_driver"`       // "badger" 或 "sqlite"
	DBPath        string `json:"db_path"`         // 数据库文件路径
	LiveWSURL     string `json:"live_ws_url"`     // WebSocket基础地址
	TestnetWSURL  string `json:"testnet_ws_url"`  //
	MetricsListen string `json:"metrics_listen"`  // Prometheus /metrics 监听地址，留空则不启用
	BarLookback   int    `json:"bar_lookback"`    // 每次信号检查拉取的K线数量
	EntryWorkers  int    `json:"entry_workers"`   // 入场检查并发度
	ExitWorkers   int    `json:"exit_workers"`    // 离场检查并发度

	// 机器人定义，首次启动时用于创建Bot及其交易对
	BotName         string   `json:"bot_name"`
	StrategyName    string   `json:"strategy_name"`
	Interval        string   `json:"interval"`
	PollIntervalSec int      `json:"poll_interval_sec"`
	TradeAllocation float64  `json:"trade_allocation"`
	ProfitTarget    float64  `json:"profit_target"`
	TestMode        bool     `json:"test_mode"`
	QuoteAssets     []string `json:"quote_assets"`
	Symbols         []string `json:"symbols"`

	// 回测引擎特定配置（追踪止盈止损参数）
	InitialStopLoss         float64 `json:"initial_stop_loss"`
	InitialProfitTarget     float64 `json:"initial_profit_target"`
	IncrementalStopLoss     float64 `json:"incremental_stop_loss"`
	IncrementalProfitTarget float64 `json:"incremental_profit_target"`
	StartingBalance         float64 `json:"starting_balance"`

	LogConfig LogConfig `json:"log"`
}
