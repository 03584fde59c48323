package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solo/internal/repository/storage"
)

type StatsRepository interface {
	Get(ctx context.Context) (*entity.Stats, error)
	Save(ctx context.Context, stats *entity.Stats) error
	Reset(ctx context.Context) error
}

type dbStats struct {
	store keyValueStore
}

func NewStatsRepository(store keyValueStore) StatsRepository {
	return &dbStats{
		store: store,
	}
}

func (that *dbStats) Get(ctx context.Context) (*entity.Stats, error) {
	var stats entity.Stats

	err := that.store.GetJSON(ctx, statsKey, &stats)
	if errors.Is(err, storage.ErrNotFound) {
		return entity.NewStats(), nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	if stats.PlayerStats == nil {
		stats.PlayerStats = make(map[string]*entity.PlayerStats)
	}

	return &stats, nil
}

func (that *dbStats) Save(ctx context.Context, stats *entity.Stats) error {
	if err := that.store.SetJSON(ctx, statsKey, stats); err != nil {
		return fmt.Errorf("failed to save stats: %w", err)
	}

	return nil
}

func (that *dbStats) Reset(ctx context.Context) error {
	if err := that.store.Remove(ctx, statsKey); err != nil {
		return fmt.Errorf("failed to reset stats: %w", err)
	}

	return nil
}
