package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

var ErrMatchNotFound = errors.New("match not found")

type MatchRepository interface {
	CreateOrUpdate(ctx context.Context, match *entity.Match) error
	GetByID(ctx context.Context, id string) (*entity.Match, error)
	DeleteByID(ctx context.Context, id string) error

	// Update loads the match, applies fn and stores the result atomically.
	// Nothing is written when fn returns an error.
	Update(ctx context.Context, id string, fn func(match *entity.Match) error) (*entity.Match, error)
}

type dbMatch struct {
	client  *redis.Client
	ttl     time.Duration
	retries int
}

// NewMatchRepository stores matches as JSON under "match:<id>". A zero ttl
// keeps keys forever; retries bounds how often Update re-runs after a
// concurrent write.
func NewMatchRepository(client *redis.Client, ttl time.Duration, retries int) MatchRepository {
	if retries < 1 {
		retries = 1
	}

	return &dbMatch{
		client:  client,
		ttl:     ttl,
		retries: retries,
	}
}

func matchKey(id string) string {
	return "match:" + id
}

func (that *dbMatch) CreateOrUpdate(ctx context.Context, match *entity.Match) error {
	matchJSON, err := json.Marshal(match)
	if err != nil {
		return fmt.Errorf("could not marshal match: %w", err)
	}

	err = that.client.Set(ctx, matchKey(match.ID), matchJSON, that.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set match: %w", err)
	}

	return nil
}

func (that *dbMatch) GetByID(ctx context.Context, id string) (*entity.Match, error) {
	return getMatch(ctx, that.client, id)
}

func (that *dbMatch) DeleteByID(ctx context.Context, id string) error {
	deleted, err := that.client.Del(ctx, matchKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete match by ID: %w", err)
	}

	if deleted == 0 {
		return ErrMatchNotFound
	}

	return nil
}

func (that *dbMatch) Update(ctx context.Context, id string, fn func(match *entity.Match) error) (*entity.Match, error) {
	key := matchKey(id)

	var updated *entity.Match
	txf := func(tx *redis.Tx) error {
		match, err := getMatch(ctx, tx, id)
		if err != nil {
			return err
		}

		if err = fn(match); err != nil {
			return err
		}

		matchJSON, err := json.Marshal(match)
		if err != nil {
			return fmt.Errorf("could not marshal match: %w", err)
		}

		// EXEC fails with redis.TxFailedErr if the key changed since WATCH.
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, matchJSON, that.ttl)
			return nil
		})
		if err != nil {
			return err
		}

		updated = match

		return nil
	}

	for range that.retries {
		err := that.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("failed to update match: %w", err)
		}

		return updated, nil
	}

	return nil, fmt.Errorf("%w: %s", apperror.ErrConcurrentUpdate, id)
}

// getter is satisfied by both *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func getMatch(ctx context.Context, client getter, id string) (*entity.Match, error) {
	response, err := client.Get(ctx, matchKey(id)).Result()

	if errors.Is(err, redis.Nil) {
		return nil, ErrMatchNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get match by ID: %w", err)
	}

	var existingMatch entity.Match
	if err = json.Unmarshal([]byte(response), &existingMatch); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match: %w", err)
	}

	if existingMatch.Game == nil {
		return nil, fmt.Errorf("failed to load match %s: %w", id, entity.ErrMissingGame)
	}

	return &existingMatch, nil
}
