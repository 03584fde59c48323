package repository

import "context"

const (
	sessionKey = "tic-tac-toe-store"
	statsKey   = "game-stats-store"
)

type keyValueStore interface {
	GetJSON(ctx context.Context, key string, dst any) error
	SetJSON(ctx context.Context, key string, value any) error
	Remove(ctx context.Context, key string) error
}
