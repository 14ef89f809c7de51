package persistence

import (
	"database/sql"
	"errors"
	"fmt"

	"binance-trade-bot-go/internal/models"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/shopspring/decimal"
)

// sqliteRepository is the SQLite implementation of the Repository.
// Decimal columns are stored as TEXT so values round-trip exactly.
type sqliteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens (and if needed initializes) a SQLite database.
func NewSQLiteRepository(dataSourceName string) (Repository, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err = createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return &sqliteRepository{db: db}, nil
}

func createTables(db *sql.DB) error {
	createBotsTableSQL := `
	CREATE TABLE IF NOT EXISTS bots (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		strategy_name TEXT NOT NULL,
		interval TEXT NOT NULL,
		poll_interval_sec INTEGER NOT NULL,
		trade_allocation TEXT NOT NULL,
		profit_target TEXT NOT NULL,
		test_mode BOOLEAN NOT NULL
	);`
	if _, err := db.Exec(createBotsTableSQL); err != nil {
		return err
	}

	createPairsTableSQL := `
	CREATE TABLE IF NOT EXISTS pairs (
		id TEXT PRIMARY KEY,
		bot_id TEXT NOT NULL,
		symbol TEXT NOT NULL,
		is_active BOOLEAN NOT NULL,
		current_order_id TEXT,
		profit_loss TEXT NOT NULL,
		UNIQUE (bot_id, symbol)
	);`
	if _, err := db.Exec(createPairsTableSQL); err != nil {
		return err
	}

	createOrdersTableSQL := `
	CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		bot_id TEXT NOT NULL,
		symbol TEXT NOT NULL,
		time INTEGER NOT NULL,
		side TEXT NOT NULL,
		price TEXT NOT NULL,
		original_quantity TEXT NOT NULL,
		executed_quantity TEXT NOT NULL,
		take_profit_price TEXT NOT NULL,
		entry_price TEXT NOT NULL,
		status TEXT NOT NULL,
		is_entry_order BOOLEAN NOT NULL,
		is_closed BOOLEAN NOT NULL,
		closing_order_id TEXT
	);`
	if _, err := db.Exec(createOrdersTableSQL); err != nil {
		return err
	}
	return nil
}

func (r *sqliteRepository) SaveBot(bot *models.Bot) error {
	_, err := r.db.Exec(`
	INSERT OR REPLACE INTO bots (id, name, strategy_name, interval, poll_interval_sec, trade_allocation, profit_target, test_mode)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		bot.ID, bot.Name, bot.StrategyName, bot.Interval, bot.PollIntervalSec,
		bot.TradeAllocation.String(), bot.ProfitTarget.String(), bot.TestMode,
	)
	if err != nil {
		return fmt.Errorf("failed to save bot %s: %w", bot.ID, err)
	}
	return nil
}

func (r *sqliteRepository) GetBot(id string) (*models.Bot, error) {
	row := r.db.QueryRow(`
	SELECT id, name, strategy_name, interval, poll_interval_sec, trade_allocation, profit_target, test_mode
	FROM bots WHERE id = ?`, id)
	bot, err := scanBot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return bot, err
}

func (r *sqliteRepository) GetAllBots() ([]*models.Bot, error) {
	rows, err := r.db.Query(`
	SELECT id, name, strategy_name, interval, poll_interval_sec, trade_allocation, profit_target, test_mode
	FROM bots`)
	if err != nil {
		return nil, fmt.Errorf("failed to query bots: %w", err)
	}
	defer rows.Close()

	var bots []*models.Bot
	for rows.Next() {
		bot, err := scanBot(rows)
		if err != nil {
			return nil, err
		}
		bots = append(bots, bot)
	}
	return bots, rows.Err()
}

func (r *sqliteRepository) SavePair(pair *models.TradingPair) error {
	_, err := r.db.Exec(`
	INSERT OR REPLACE INTO pairs (id, bot_id, symbol, is_active, current_order_id, profit_loss)
	VALUES (?, ?, ?, ?, ?, ?)`,
		pair.ID, pair.BotID, pair.Symbol, pair.IsActive, pair.CurrentOrderID, pair.ProfitLoss.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to save pair %s/%s: %w", pair.BotID, pair.Symbol, err)
	}
	return nil
}

func (r *sqliteRepository) UpdatePair(pair *models.TradingPair) error {
	return r.SavePair(pair)
}

func (r *sqliteRepository) GetPair(botID, symbol string) (*models.TradingPair, error) {
	row := r.db.QueryRow(`
	SELECT id, bot_id, symbol, is_active, current_order_id, profit_loss
	FROM pairs WHERE bot_id = ? AND symbol = ?`, botID, symbol)
	pair, err := scanPair(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return pair, err
}

func (r *sqliteRepository) GetPairsOfBot(botID string) ([]*models.TradingPair, error) {
	rows, err := r.db.Query(`
	SELECT id, bot_id, symbol, is_active, current_order_id, profit_loss
	FROM pairs WHERE bot_id = ?`, botID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pairs: %w", err)
	}
	defer rows.Close()

	var pairs []*models.TradingPair
	for rows.Next() {
		pair, err := scanPair(rows)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, pair)
	}
	return pairs, rows.Err()
}

func (r *sqliteRepository) GetActivePairsOfBot(botID string) ([]*models.TradingPair, error) {
	rows, err := r.db.Query(`
	SELECT id, bot_id, symbol, is_active, current_order_id, profit_loss
	FROM pairs WHERE bot_id = ? AND is_active = 1`, botID)
	if err != nil {
		return nil, fmt.Errorf("failed to query active pairs: %w", err)
	}
	defer rows.Close()

	var pairs []*models.TradingPair
	for rows.Next() {
		pair, err := scanPair(rows)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, pair)
	}
	return pairs, rows.Err()
}

func (r *sqliteRepository) SaveOrder(order *models.Order) error {
	_, err := r.db.Exec(`
	INSERT OR REPLACE INTO orders (id, bot_id, symbol, time, side, price, original_quantity, executed_quantity,
		take_profit_price, entry_price, status, is_entry_order, is_closed, closing_order_id)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID, order.BotID, order.Symbol, order.Time, order.Side,
		order.Price.String(), order.OriginalQuantity.String(), order.ExecutedQuantity.String(),
		order.TakeProfitPrice.String(), order.EntryPrice.String(),
		order.Status, order.IsEntryOrder, order.IsClosed, order.ClosingOrderID,
	)
	if err != nil {
		return fmt.Errorf("failed to save order %s: %w", order.ID, err)
	}
	return nil
}

func (r *sqliteRepository) UpdateOrder(order *models.Order) error {
	return r.SaveOrder(order)
}

func (r *sqliteRepository) GetOrder(id string) (*models.Order, error) {
	row := r.db.QueryRow(`
	SELECT id, bot_id, symbol, time, side, price, original_quantity, executed_quantity,
		take_profit_price, entry_price, status, is_entry_order, is_closed, closing_order_id
	FROM orders WHERE id = ?`, id)
	order, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return order, err
}

func (r *sqliteRepository) GetOpenOrdersOfBot(botID string) ([]*models.Order, error) {
	rows, err := r.db.Query(`
	SELECT id, bot_id, symbol, time, side, price, original_quantity, executed_quantity,
		take_profit_price, entry_price, status, is_entry_order, is_closed, closing_order_id
	FROM orders WHERE bot_id = ? AND is_closed = 0`, botID)
	if err != nil {
		return nil, fmt.Errorf("failed to query open orders: %w", err)
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (r *sqliteRepository) Close() error {
	return r.db.Close()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanBot(s scanner) (*models.Bot, error) {
	var bot models.Bot
	var allocation, target string
	if err := s.Scan(&bot.ID, &bot.Name, &bot.StrategyName, &bot.Interval,
		&bot.PollIntervalSec, &allocation, &target, &bot.TestMode); err != nil {
		return nil, err
	}
	var err error
	if bot.TradeAllocation, err = decimal.NewFromString(allocation); err != nil {
		return nil, fmt.Errorf("failed to parse trade_allocation: %w", err)
	}
	if bot.ProfitTarget, err = decimal.NewFromString(target); err != nil {
		return nil, fmt.Errorf("failed to parse profit_target: %w", err)
	}
	return &bot, nil
}

func scanPair(s scanner) (*models.TradingPair, error) {
	var pair models.TradingPair
	var profitLoss string
	if err := s.Scan(&pair.ID, &pair.BotID, &pair.Symbol, &pair.IsActive,
		&pair.CurrentOrderID, &profitLoss); err != nil {
		return nil, err
	}
	var err error
	if pair.ProfitLoss, err = decimal.NewFromString(profitLoss); err != nil {
		return nil, fmt.Errorf("failed to parse profit_loss: %w", err)
	}
	return &pair, nil
}

func scanOrder(s scanner) (*models.Order, error) {
	var order models.Order
	var price, origQty, execQty, tpPrice, entryPrice string
	if err := s.Scan(&order.ID, &order.BotID, &order.Symbol, &order.Time, &order.Side,
		&price, &origQty, &execQty, &tpPrice, &entryPrice,
		&order.Status, &order.IsEntryOrder, &order.IsClosed, &order.ClosingOrderID); err != nil {
		return nil, err
	}
	var err error
	if order.Price, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("failed to parse price: %w", err)
	}
	if order.OriginalQuantity, err = decimal.NewFromString(origQty); err != nil {
		return nil, fmt.Errorf("failed to parse original_quantity: %w", err)
	}
	if order.ExecutedQuantity, err = decimal.NewFromString(execQty); err != nil {
		return nil, fmt.Errorf("failed to parse executed_quantity: %w", err)
	}
	if order.TakeProfitPrice, err = decimal.NewFromString(tpPrice); err != nil {
		return nil, fmt.Errorf("failed to parse take_profit_price: %w", err)
	}
	if order.EntryPrice, err = decimal.NewFromString(entryPrice); err != nil {
		return nil, fmt.Errorf("failed to parse entry_price: %w", err)
	}
	return &order, nil
}
