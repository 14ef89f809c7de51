// Package persistence durably records bots, trading pairs, and orders.
// Two backends are provided: BadgerDB (default) and SQLite, selected by
// the db_driver config key.
package persistence

import (
	"fmt"

	"binance-trade-bot-go/internal/models"
)

// Repository abstracts the underlying storage mechanism from the rest of
// the application. All Get methods return (nil, nil) when the record does
// not exist; an error always means the lookup itself failed.
type Repository interface {
	SaveBot(bot *models.Bot) error
	GetBot(id string) (*models.Bot, error)
	GetAllBots() ([]*models.Bot, error)

	SavePair(pair *models.TradingPair) error
	UpdatePair(pair *models.TradingPair) error
	GetPair(botID, symbol string) (*models.TradingPair, error)
	GetPairsOfBot(botID string) ([]*models.TradingPair, error)
	GetActivePairsOfBot(botID string) ([]*models.TradingPair, error)

	SaveOrder(order *models.Order) error
	UpdateOrder(order *models.Order) error
	GetOrder(id string) (*models.Order, error)
	GetOpenOrdersOfBot(botID string) ([]*models.Order, error)

	// Close gracefully closes the connection to the database.
	Close() error
}

// Open returns a repository for the configured driver.
func Open(driver, path string) (Repository, error) {
	switch driver {
	case "badger":
		return NewBadgerRepository(path)
	case "sqlite":
		return NewSQLiteRepository(path)
	default:
		return nil, fmt.Errorf("persistence: unknown driver %q", driver)
	}
}
