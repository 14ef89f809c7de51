package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"binance-trade-bot-go/internal/models"

	"github.com/dgraph-io/badger/v3"
)

// badgerRepository is the BadgerDB implementation of the Repository.
// Records are stored as JSON values under typed key prefixes:
// bot:<id>, pair:<botID>:<symbol>, order:<id>.
type badgerRepository struct {
	db *badger.DB
}

// NewBadgerRepository creates a repository backed by a BadgerDB database at dbPath.
func NewBadgerRepository(dbPath string) (Repository, error) {
	opts := badger.DefaultOptions(dbPath)
	// Badger's own logging is disabled to keep the app's logs clean.
	// Errors are still returned from DB operations.
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &badgerRepository{db: db}, nil
}

func botKey(id string) []byte             { return []byte("bot:" + id) }
func pairKey(botID, symbol string) []byte { return []byte("pair:" + botID + ":" + symbol) }
func orderKey(id string) []byte           { return []byte("order:" + id) }

func (r *badgerRepository) set(key []byte, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// get unmarshals the value at key into out. Missing keys report found=false
// with a nil error, following the repository's (nil, nil) convention.
func (r *badgerRepository) get(key []byte, out interface{}) (found bool, err error) {
	err = r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, out)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// scanPrefix invokes fn with the raw value of every key under prefix.
func (r *badgerRepository) scanPrefix(prefix []byte, fn func(val []byte) error) error {
	return r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := it.Item().Value(fn); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *badgerRepository) SaveBot(bot *models.Bot) error {
	return r.set(botKey(bot.ID), bot)
}

func (r *badgerRepository) GetBot(id string) (*models.Bot, error) {
	var bot models.Bot
	found, err := r.get(botKey(id), &bot)
	if err != nil || !found {
		return nil, err
	}
	return &bot, nil
}

func (r *badgerRepository) GetAllBots() ([]*models.Bot, error) {
	var bots []*models.Bot
	err := r.scanPrefix([]byte("bot:"), func(val []byte) error {
		var bot models.Bot
		if err := json.Unmarshal(val, &bot); err != nil {
			return err
		}
		bots = append(bots, &bot)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan bots: %w", err)
	}
	return bots, nil
}

func (r *badgerRepository) SavePair(pair *models.TradingPair) error {
	return r.set(pairKey(pair.BotID, pair.Symbol), pair)
}

func (r *badgerRepository) UpdatePair(pair *models.TradingPair) error {
	return r.SavePair(pair)
}

func (r *badgerRepository) GetPair(botID, symbol string) (*models.TradingPair, error) {
	var pair models.TradingPair
	found, err := r.get(pairKey(botID, symbol), &pair)
	if err != nil || !found {
		return nil, err
	}
	return &pair, nil
}

func (r *badgerRepository) GetPairsOfBot(botID string) ([]*models.TradingPair, error) {
	prefix := []byte("pair:" + botID + ":")
	var pairs []*models.TradingPair
	err := r.scanPrefix(prefix, func(val []byte) error {
		var pair models.TradingPair
		if err := json.Unmarshal(val, &pair); err != nil {
			return err
		}
		pairs = append(pairs, &pair)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan pairs of bot %s: %w", botID, err)
	}
	return pairs, nil
}

func (r *badgerRepository) GetActivePairsOfBot(botID string) ([]*models.TradingPair, error) {
	pairs, err := r.GetPairsOfBot(botID)
	if err != nil {
		return nil, err
	}
	var active []*models.TradingPair
	for _, pair := range pairs {
		if pair.IsActive {
			active = append(active, pair)
		}
	}
	return active, nil
}

func (r *badgerRepository) SaveOrder(order *models.Order) error {
	if strings.Contains(order.ID, ":") {
		return fmt.Errorf("order id %q must not contain ':'", order.ID)
	}
	return r.set(orderKey(order.ID), order)
}

func (r *badgerRepository) UpdateOrder(order *models.Order) error {
	return r.set(orderKey(order.ID), order)
}

func (r *badgerRepository) GetOrder(id string) (*models.Order, error) {
	var order models.Order
	found, err := r.get(orderKey(id), &order)
	if err != nil || !found {
		return nil, err
	}
	return &order, nil
}

func (r *badgerRepository) GetOpenOrdersOfBot(botID string) ([]*models.Order, error) {
	var orders []*models.Order
	err := r.scanPrefix([]byte("order:"), func(val []byte) error {
		var order models.Order
		if err := json.Unmarshal(val, &order); err != nil {
			return err
		}
		if order.BotID == botID && order.IsOpen() {
			orders = append(orders, &order)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan open orders of bot %s: %w", botID, err)
	}
	return orders, nil
}

func (r *badgerRepository) Close() error {
	return r.db.Close()
}
