package config

import (
	"encoding/json"
	"fmt"
	"os"

	"binance-trade-bot-go/internal/models"
)

// LoadConfig 从指定路径加载JSON配置文件并解析到Config结构体中
func LoadConfig(path string) (*models.Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	cfg := &models.Config{}
	if err := decoder.Decode(cfg); err != nil {
		return nil, err
	}

	applyDefaults(cfg)
	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyDefaults(cfg *models.Config) {
	if cfg.DBDriver == "" {
		cfg.DBDriver = "badger"
	}
	if cfg.BarLookback <= 0 {
		cfg.BarLookback = 250
	}
	if cfg.EntryWorkers <= 0 {
		cfg.EntryWorkers = 4
	}
	if cfg.ExitWorkers <= 0 {
		cfg.ExitWorkers = 4
	}
	if cfg.PollIntervalSec <= 0 {
		cfg.PollIntervalSec = 10
	}
	if cfg.InitialStopLoss == 0 {
		cfg.InitialStopLoss = 0.85
	}
	if cfg.InitialProfitTarget == 0 {
		cfg.InitialProfitTarget = 1.045
	}
	if cfg.IncrementalStopLoss == 0 {
		cfg.IncrementalStopLoss = 0.975
	}
	if cfg.IncrementalProfitTarget == 0 {
		cfg.IncrementalProfitTarget = 1.04
	}
	if cfg.StartingBalance == 0 {
		cfg.StartingBalance = 100
	}
}

func validate(cfg *models.Config) error {
	if cfg.Interval != "" && !models.ValidInterval(cfg.Interval) {
		return fmt.Errorf("config: %q is not a valid kline interval", cfg.Interval)
	}
	if cfg.TradeAllocation < 0 || cfg.TradeAllocation > 1 {
		return fmt.Errorf("config: trade_allocation %f must be in (0, 1]", cfg.TradeAllocation)
	}
	if cfg.ProfitTarget != 0 && cfg.ProfitTarget <= 1 {
		return fmt.Errorf("config: profit_target %f must be greater than 1", cfg.ProfitTarget)
	}
	if cfg.InitialStopLoss <= 0 || cfg.InitialStopLoss >= 1 {
		return fmt.Errorf("config: initial_stop_loss %f must be in (0, 1)", cfg.InitialStopLoss)
	}
	if cfg.InitialProfitTarget <= 1 {
		return fmt.Errorf("config: initial_profit_target %f must be greater than 1", cfg.InitialProfitTarget)
	}
	if cfg.DBDriver != "badger" && cfg.DBDriver != "sqlite" {
		return fmt.Errorf("config: unknown db_driver %q", cfg.DBDriver)
	}
	return nil
}
