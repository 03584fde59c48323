package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rocketscienceinc/tictactoe-solo/internal/config"
	"github.com/rocketscienceinc/tictactoe-solo/internal/repository"
	"github.com/rocketscienceinc/tictactoe-solo/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-solo/internal/service"
	"github.com/rocketscienceinc/tictactoe-solo/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-solo/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-solo/transport/rest"
	"github.com/rocketscienceinc/tictactoe-solo/transport/websocket"
)

var (
	ErrAddrNotFound   = errors.New("redis address string is empty")
	ErrUnknownStorage = errors.New("unknown storage driver")
)

type keyValueStore interface {
	GetJSON(ctx context.Context, key string, dst any) error
	SetJSON(ctx context.Context, key string, value any) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	store, err := openStorage(ctx, log, conf)
	if err != nil {
		return err
	}

	defer func() {
		if err = store.Close(); err != nil {
			log.Error("could not close storage", "error", err)
		}
	}()

	seed := conf.Game.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	selector := tictactoe.NewMoveSelector(rand.NewSource(seed))

	sessionRepo := repository.NewSessionRepository(store)
	statsRepo := repository.NewStatsRepository(store)
	botService := service.NewBotService(logger, selector)
	gameManager := usecase.NewGameManager(logger, sessionRepo, statsRepo, botService, service.NewStatsService())

	wsServer := websocket.New(logger, gameManager, conf.Game.ThinkingDelay)
	router := rest.NewRouter(rest.NewHandlers(logger, gameManager, selector), wsServer)

	log.Info("Starting HTTP server", "port", conf.HTTPPort, "storage", conf.Storage.Driver)

	if err = rest.Start(ctx, logger, conf.HTTPPort, router); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	log.Info("Application context canceled, shutting down")

	return nil
}

func openStorage(ctx context.Context, log *slog.Logger, conf *config.Config) (keyValueStore, error) {
	switch conf.Storage.Driver {
	case config.StorageMemory:
		log.Warn("using in-memory storage, state is lost on restart")

		return storage.NewMemoryStorage(), nil
	case config.StorageRedis:
		if conf.Redis.Host == "" || conf.Redis.Port == "" {
			return nil, ErrAddrNotFound
		}

		redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr(), conf.Redis.Prefix)
		if err != nil {
			return nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		return redisStorage, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStorage, conf.Storage.Driver)
	}
}
