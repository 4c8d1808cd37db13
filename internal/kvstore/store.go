// Package kvstore is the device-local progress store: one JSON value per
// "<deviceID>:<itemID>" key, with next_review_at kept in its own column so
// due cards can be scanned without decoding every value.
package kvstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go_voca_srs/internal/model"
	"go_voca_srs/internal/srs"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS progress_kv (
	kv_key         VARCHAR(128) PRIMARY KEY,
	device_id      VARCHAR(36)  NOT NULL,
	item_id        VARCHAR(64)  NOT NULL,
	value          TEXT         NOT NULL,
	next_review_at BIGINT       NOT NULL,
	updated_at     BIGINT       NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_progress_kv_next_review ON progress_kv (device_id, next_review_at);
`

const upsertQuery = `
INSERT INTO progress_kv (kv_key, device_id, item_id, value, next_review_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (kv_key) DO UPDATE SET
	value = excluded.value,
	next_review_at = excluded.next_review_at,
	updated_at = excluded.updated_at`

// Store keeps review cards of device learners. It satisfies repository.ProgressStore.
type Store struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// Open connects with driver "sqlite3" or "postgres" and creates the schema.
func Open(driver, dsn string, logger *slog.Logger) (*Store, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("kvstore: connect %s: %w", driver, err)
	}
	if driver == "sqlite3" {
		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}
	s, err := New(db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing connection and creates the schema.
func New(db *sqlx.DB, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("kvstore: create schema: %w", err)
	}
	logger.Info("Device progress store ready", slog.String("driver", db.DriverName()))
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Key returns the storage key of a device's card.
func Key(deviceID uuid.UUID, itemID string) string {
	return deviceID.String() + ":" + itemID
}

func (s *Store) Get(ctx context.Context, deviceID uuid.UUID, itemID string) (*srs.ReviewCard, error) {
	card, err := s.get(ctx, s.db, deviceID, itemID, false)
	if err != nil {
		return nil, err
	}
	return card, nil
}

func (s *Store) Put(ctx context.Context, deviceID uuid.UUID, card srs.ReviewCard) error {
	if err := s.put(ctx, s.db, deviceID, card); err != nil {
		s.logger.ErrorContext(ctx, "Error writing device card", "error", err, "device_id", deviceID.String(), "item_id", card.ItemID)
		return fmt.Errorf("kvstore.Put: %w", err)
	}
	return nil
}

func (s *Store) PutMany(ctx context.Context, deviceID uuid.UUID, cards []srs.ReviewCard) error {
	if len(cards) == 0 {
		return nil
	}
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, c := range cards {
			if err := s.put(ctx, tx, deviceID, c); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Error writing device cards", "error", err, "device_id", deviceID.String(), "count", len(cards))
		return fmt.Errorf("kvstore.PutMany: %w", err)
	}
	return nil
}

func (s *Store) ScanDue(ctx context.Context, deviceID uuid.UUID, now time.Time) ([]srs.ReviewCard, error) {
	q := s.db.Rebind(`SELECT value FROM progress_kv WHERE device_id = ? AND next_review_at <= ? ORDER BY next_review_at ASC`)
	var values []string
	if err := s.db.SelectContext(ctx, &values, q, deviceID.String(), model.NormalizeTime(now).UnixMilli()); err != nil {
		return nil, fmt.Errorf("kvstore.ScanDue: %w", err)
	}
	return decodeAll(values)
}

func (s *Store) List(ctx context.Context, deviceID uuid.UUID) ([]srs.ReviewCard, error) {
	q := s.db.Rebind(`SELECT value FROM progress_kv WHERE device_id = ? ORDER BY item_id ASC`)
	var values []string
	if err := s.db.SelectContext(ctx, &values, q, deviceID.String()); err != nil {
		return nil, fmt.Errorf("kvstore.List: %w", err)
	}
	return decodeAll(values)
}

// Update runs read-modify-write of one card inside a transaction.
// fn receives nil when the device has no card for itemID yet.
func (s *Store) Update(ctx context.Context, deviceID uuid.UUID, itemID string, fn func(*srs.ReviewCard) (srs.ReviewCard, error)) (srs.ReviewCard, error) {
	var updated srs.ReviewCard
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		current, err := s.get(ctx, tx, deviceID, itemID, true)
		if err != nil && !errors.Is(err, model.ErrNotFound) {
			return err
		}
		next, err := fn(current)
		if err != nil {
			return err
		}
		next.ItemID = itemID
		if err := s.put(ctx, tx, deviceID, next); err != nil {
			return fmt.Errorf("kvstore.Update: %w", err)
		}
		updated = model.NormalizeCard(next)
		return nil
	})
	if err != nil {
		return srs.ReviewCard{}, err
	}
	return updated, nil
}

type queryer interface {
	sqlx.QueryerContext
	sqlx.ExecerContext
	Rebind(string) string
}

func (s *Store) get(ctx context.Context, q queryer, deviceID uuid.UUID, itemID string, forUpdate bool) (*srs.ReviewCard, error) {
	query := `SELECT value FROM progress_kv WHERE kv_key = ?`
	if forUpdate && s.db.DriverName() == "postgres" {
		query += ` FOR UPDATE`
	}
	var value string
	err := sqlx.GetContext(ctx, q, &value, q.Rebind(query), Key(deviceID, itemID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("kvstore.Get: %w", err)
	}
	card, err := decode(value)
	if err != nil {
		return nil, fmt.Errorf("kvstore.Get: %w", err)
	}
	return &card, nil
}

func (s *Store) put(ctx context.Context, q queryer, deviceID uuid.UUID, card srs.ReviewCard) error {
	card = model.NormalizeCard(card)
	value, err := json.Marshal(card)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx, q.Rebind(upsertQuery),
		Key(deviceID, card.ItemID),
		deviceID.String(),
		card.ItemID,
		string(value),
		card.NextReviewAt.UnixMilli(),
		time.Now().UnixMilli(),
	)
	return err
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.ErrorContext(ctx, "Error rolling back device store transaction", "error", rbErr)
		}
		return err
	}
	return tx.Commit()
}

func decode(value string) (srs.ReviewCard, error) {
	var card srs.ReviewCard
	if err := json.Unmarshal([]byte(value), &card); err != nil {
		return srs.ReviewCard{}, fmt.Errorf("decode card: %w", err)
	}
	return model.NormalizeCard(card), nil
}

func decodeAll(values []string) ([]srs.ReviewCard, error) {
	cards := make([]srs.ReviewCard, 0, len(values))
	for _, v := range values {
		c, err := decode(v)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}
