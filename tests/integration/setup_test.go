package integration

import (
	"context"
	"net/http"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	adaptershttp "github.com/leos/gowallet/internal/adapter/http"
	"github.com/leos/gowallet/internal/adapter/http/handler"
	"github.com/leos/gowallet/internal/adapter/repository/postgres"
	redisrepo "github.com/leos/gowallet/internal/adapter/repository/redis"
	infraredis "github.com/leos/gowallet/internal/infrastructure/redis"
	"github.com/leos/gowallet/internal/usecase"
	"github.com/leos/gowallet/tests/testutil"
)

// testEnv wires the full stack against real Postgres and Redis instances.
type testEnv struct {
	DB       *testutil.TestDB
	Redis    *redis.Client
	WalletUC *usecase.WalletUseCase
	TxUC     *usecase.TransactionUseCase
	Router   http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	t.Cleanup(testDB.Cleanup)
	testDB.TruncateAll(ctx)

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	redisClient, err := infraredis.NewClient(ctx, redisURL)
	if err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}
	t.Cleanup(func() { _ = redisClient.Close() })

	pool := testDB.Pool
	logger := zerolog.Nop()

	walletRepo := postgres.NewWalletRepository(pool)
	txRepo := postgres.NewTransactionRepository(pool)
	txManager := postgres.NewTxManager(pool)
	idGen := postgres.NewULIDGenerator()
	retrier := postgres.NewRetrier(nil, logger)
	cache := redisrepo.NewCache(redisClient)

	walletUC := usecase.NewWalletUseCase(walletRepo, cache, nil, logger)
	txUC := usecase.NewTransactionUseCase(txManager, walletRepo, txRepo, idGen, retrier, cache, nil, logger)

	router := adaptershttp.NewRouter(adaptershttp.RouterConfig{
		WalletHandler:      handler.NewWalletHandler(walletUC, txUC),
		TransactionHandler: handler.NewTransactionHandler(txUC),
		HealthHandler:      handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore:   redisrepo.NewIdempotencyStore(redisClient),
		Logger:             logger,
	})

	return &testEnv{
		DB:       testDB,
		Redis:    redisClient,
		WalletUC: walletUC,
		TxUC:     txUC,
		Router:   router,
	}
}
