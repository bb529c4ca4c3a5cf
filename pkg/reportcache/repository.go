package reportcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jiraassist/dashboard/pkg/user"
	log "github.com/sirupsen/logrus"
)

// Repository is a Cache persisted in the report_cache table, one row per user and slot.
type Repository[T any] struct {
	db   *pgxpool.Pool
	slot string
}

func NewRepository[T any](db *pgxpool.Pool) *Repository[T] {
	return &Repository[T]{db: db, slot: LastViewedSlot}
}

func (r *Repository[T]) Save(ctx context.Context, value T) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("unable to encode %s: %w", r.slot, err)
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO report_cache (user_id, slot, payload, updated_at) VALUES ($1, $2, $3, now())
			ON CONFLICT (user_id, slot) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`,
		userId, r.slot, payload)
	if err != nil {
		err := fmt.Errorf("could not store %s: %w", r.slot, err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *Repository[T]) Restore(ctx context.Context) (T, bool, error) {
	var value T
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return value, false, fmt.Errorf("failed to get current user: %w", err)
	}

	var payload []byte
	err = r.db.QueryRow(ctx, "SELECT payload FROM report_cache WHERE user_id = $1 AND slot = $2", userId, r.slot).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return value, false, nil
	}
	if err != nil {
		err := fmt.Errorf("could not read %s: %w", r.slot, err)
		log.Error(err)
		return value, false, err
	}
	if err := json.Unmarshal(payload, &value); err != nil {
		return value, false, fmt.Errorf("unable to decode %s: %w", r.slot, err)
	}
	return value, true, nil
}
