package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jayramgit94/AirBnb-DB-project/internal/api/middleware"
	"github.com/jayramgit94/AirBnb-DB-project/internal/auth"
	"github.com/jayramgit94/AirBnb-DB-project/internal/config"
	"github.com/jayramgit94/AirBnb-DB-project/internal/events"
	natsevents "github.com/jayramgit94/AirBnb-DB-project/internal/events/nats"
	"github.com/jayramgit94/AirBnb-DB-project/internal/events/rabbitmq"
	"github.com/jayramgit94/AirBnb-DB-project/internal/listing"
	"github.com/jayramgit94/AirBnb-DB-project/internal/media"
	"github.com/jayramgit94/AirBnb-DB-project/internal/storage/memory"
	"github.com/jayramgit94/AirBnb-DB-project/internal/storage/mongo"
	"github.com/jayramgit94/AirBnb-DB-project/internal/storage/postgres"
	"github.com/jayramgit94/AirBnb-DB-project/internal/storage/redis"
	"github.com/jayramgit94/AirBnb-DB-project/internal/storage/sqlite"
	"github.com/jayramgit94/AirBnb-DB-project/internal/web"
)

// ReadyCheck reports whether one backing service is reachable
type ReadyCheck func(ctx context.Context) error

// App holds all application dependencies
type App struct {
	Config      *config.Config
	Listings    *listing.Service
	Auth        *auth.Service
	Renderer    *web.Renderer
	RateCounter middleware.Counter

	// ReadyChecks are run by GET /ready, keyed by backend name
	ReadyChecks map[string]ReadyCheck

	logger  *slog.Logger
	mongo   *mongo.DB
	redis   *goredis.Client
	closers []func(context.Context) error
}

// NewApp creates a new application instance with all dependencies wired
// according to cfg. On error every connection opened so far is closed.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *App, err error) {
	if logger == nil {
		logger = slog.Default()
	}
	app := &App{
		Config:      cfg,
		ReadyChecks: make(map[string]ReadyCheck),
		logger:      logger,
	}
	defer func() {
		if err != nil {
			_ = app.Close(context.WithoutCancel(ctx))
		}
	}()

	var (
		listings listing.Repository
		users    auth.UserRepository
	)
	switch cfg.Store {
	case "mongo":
		if app.mongo, err = app.connectMongo(ctx); err != nil {
			return nil, err
		}
		guard := mongo.NewGuard(logger)
		listings = mongo.NewListingStore(app.mongo, guard)
		users = mongo.NewUserStore(app.mongo, guard)
	default:
		listings = memory.NewListingStore()
		users = memory.NewUserStore()
	}

	sessions, err := app.sessionStore(ctx)
	if err != nil {
		return nil, err
	}

	if app.RateCounter, err = app.rateCounter(ctx); err != nil {
		return nil, err
	}

	publisher, err := app.publisher()
	if err != nil {
		return nil, err
	}

	opts := []listing.Option{
		listing.WithPublisher(publisher),
		listing.WithPlaceholderImage(cfg.PlaceholderImageURL),
	}
	if cfg.PhotoUploadsEnabled() {
		photos, err := media.NewMinIOStore(ctx, media.MinIOConfig{
			Endpoint:  cfg.MinIOEndpoint,
			AccessKey: cfg.MinIOAccessKey,
			SecretKey: cfg.MinIOSecretKey,
			Bucket:    cfg.MinIOBucket,
			UseSSL:    cfg.MinIOUseSSL,
			PublicURL: cfg.MinIOPublicURL,
		})
		if err != nil {
			return nil, fmt.Errorf("init photo store: %w", err)
		}
		opts = append(opts, listing.WithPhotoStore(photos))
	}

	app.Listings = listing.NewService(listings, opts...)
	app.Auth = auth.NewService(users, sessions, cfg.SessionMaxAge)

	if app.Renderer, err = web.NewRenderer(); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	logger.Info("application initialized",
		"store", cfg.Store,
		"session_store", cfg.SessionStore,
		"rate_limit_backend", cfg.RateLimitBackend,
		"events_backend", cfg.EventsBackend,
		"photo_uploads", app.Listings.PhotoUploadsEnabled(),
	)
	return app, nil
}

func (a *App) connectMongo(ctx context.Context) (*mongo.DB, error) {
	db, err := mongo.Connect(ctx, a.Config.MongoURL, a.Config.MongoDatabase)
	if err != nil {
		return nil, err
	}
	a.OnClose(db.Close)
	a.ReadyChecks["mongo"] = db.Ping

	if err := db.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}
	return db, nil
}

func (a *App) redisClient(ctx context.Context) (*goredis.Client, error) {
	if a.redis != nil {
		return a.redis, nil
	}
	client, err := redis.NewClient(ctx, a.Config.RedisURL)
	if err != nil {
		return nil, err
	}
	a.redis = client
	a.OnClose(func(context.Context) error { return client.Close() })
	a.ReadyChecks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	return client, nil
}

func (a *App) sessionStore(ctx context.Context) (auth.SessionRepository, error) {
	switch a.Config.SessionStore {
	case "mongo":
		return mongo.NewSessionStore(a.mongo, mongo.NewGuard(a.logger)), nil

	case "redis":
		client, err := a.redisClient(ctx)
		if err != nil {
			return nil, err
		}
		return redis.NewSessionStore(client), nil

	case "postgres":
		pool, err := postgres.Connect(ctx, a.Config.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.OnClose(func(context.Context) error { pool.Close(); return nil })
		a.ReadyChecks["postgres"] = pool.Ping
		return postgres.NewSessionStore(ctx, pool)

	case "sqlite":
		db, err := sqlite.Open(ctx, a.Config.SQLitePath)
		if err != nil {
			return nil, err
		}
		a.OnClose(func(context.Context) error { return db.Close() })
		if err := db.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("migrate sqlite: %w", err)
		}
		a.ReadyChecks["sqlite"] = db.PingContext
		return sqlite.NewSessionStore(db), nil

	default:
		return memory.NewSessionStore(), nil
	}
}

func (a *App) rateCounter(ctx context.Context) (middleware.Counter, error) {
	if a.Config.RateLimitBackend == "redis" {
		client, err := a.redisClient(ctx)
		if err != nil {
			return nil, err
		}
		return redis.NewWindowCounter(client), nil
	}

	counter := middleware.NewMemoryCounter()
	a.OnClose(func(context.Context) error { return counter.Close() })
	return counter, nil
}

func (a *App) publisher() (events.Publisher, error) {
	var (
		p   events.Publisher
		err error
	)
	switch a.Config.EventsBackend {
	case "rabbitmq":
		var conn *rabbitmq.Connection
		if conn, err = rabbitmq.NewConnection(a.Config.RabbitMQURL); err != nil {
			return nil, fmt.Errorf("connect rabbitmq: %w", err)
		}
		a.OnClose(func(context.Context) error { return conn.Close() })
		a.ReadyChecks["rabbitmq"] = func(context.Context) error {
			if !conn.IsConnected() {
				return errors.New("rabbitmq reconnecting")
			}
			return nil
		}
		p = rabbitmq.NewPublisher(conn)
	case "nats":
		if p, err = natsevents.NewPublisher(a.Config.NATSURL); err != nil {
			return nil, fmt.Errorf("connect nats: %w", err)
		}
		a.OnClose(func(context.Context) error { return p.Close() })
	default:
		p = events.Noop{}
	}
	return p, nil
}

// OnClose registers fn to run when the app is closed
func (a *App) OnClose(fn func(context.Context) error) {
	a.closers = append(a.closers, fn)
}

// Close releases connections in the reverse order they were opened
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
