package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solo/internal/repository/storage"
)

type SessionRepository interface {
	Get(ctx context.Context) (*entity.Session, error)
	Save(ctx context.Context, session *entity.Session) error
	Delete(ctx context.Context) error
}

type dbSession struct {
	store keyValueStore
}

func NewSessionRepository(store keyValueStore) SessionRepository {
	return &dbSession{
		store: store,
	}
}

// Get - a session that was never saved reads as a fresh one.
func (that *dbSession) Get(ctx context.Context) (*entity.Session, error) {
	var session entity.Session

	err := that.store.GetJSON(ctx, sessionKey, &session)
	if errors.Is(err, storage.ErrNotFound) {
		return entity.NewSession(), nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	session.Normalize()

	return &session, nil
}

func (that *dbSession) Save(ctx context.Context, session *entity.Session) error {
	if err := that.store.SetJSON(ctx, sessionKey, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

func (that *dbSession) Delete(ctx context.Context) error {
	if err := that.store.Remove(ctx, sessionKey); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}
