package cli

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"quiz-reply-service/internal/app"
	"quiz-reply-service/internal/config"
	"quiz-reply-service/internal/infra/file"
	"quiz-reply-service/internal/infra/memory"
	pgstore "quiz-reply-service/internal/infra/postgres"
	redisstore "quiz-reply-service/internal/infra/redis"
)

// deps holds the clients opened for one command run.
type deps struct {
	service  *app.ChatService
	sessions app.SessionRepository
	closers  []func()
}

func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

func openBun(url string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(url)))
	return bun.NewDB(sqldb, pgdialect.New())
}

// buildService assembles the chat service from config: bank loader, bank cache and session store.
func buildService(ctx context.Context, cfg config.Config) (*deps, error) {
	d := &deps{}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		d.closers = append(d.closers, func() { _ = redisClient.Close() })
	}

	var loader memory.BankLoader = memory.NewStaticBankLoader(sampleBanks())
	switch {
	case cfg.Postgres.URL != "":
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		d.closers = append(d.closers, pool.Close)
		loader = pgstore.NewBankLoader(pool)
	case cfg.Quiz.BankDir != "":
		loader = file.NewBankLoader(cfg.Quiz.BankDir)
	}

	bankTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var banks app.BankRepository
	if redisClient != nil {
		banks = redisstore.NewBankRepository(redisClient, loader, bankTTL)
	} else {
		banks = memory.NewBankRepository(loader, bankTTL)
	}

	sessionTTL := config.TTLDuration(cfg.Session.TTL, 24*time.Hour)
	switch cfg.Session.Backend {
	case config.BackendRedis:
		d.sessions = redisstore.NewSessionStore(redisClient, sessionTTL)
	case config.BackendPostgres:
		db := openBun(cfg.Postgres.URL)
		d.closers = append(d.closers, func() { _ = db.Close() })
		d.sessions = pgstore.NewSessionStore(db)
	default:
		d.sessions = memory.NewSessionStore()
	}

	policy, err := app.ParseStartPolicy(cfg.Quiz.StartPolicy)
	if err != nil {
		d.Close()
		return nil, err
	}
	d.service = app.NewChatService(d.sessions, banks, cfg.Quiz.BankID,
		app.WithWelcome(cfg.Quiz.Welcome),
		app.WithStartPolicy(policy),
	)
	return d, nil
}
