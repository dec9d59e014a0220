package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/yatra-planner/internal/auth"
	"github.com/ukydev/yatra-planner/internal/catalog"
	"github.com/ukydev/yatra-planner/internal/config"
	"github.com/ukydev/yatra-planner/internal/db"
	"github.com/ukydev/yatra-planner/internal/metrics"
	"github.com/ukydev/yatra-planner/internal/middleware"
	"github.com/ukydev/yatra-planner/internal/notify"
	"github.com/ukydev/yatra-planner/internal/planner"
	"github.com/ukydev/yatra-planner/internal/quotes"
	"github.com/ukydev/yatra-planner/internal/router"
	"go.mongodb.org/mongo-driver/mongo"
)

const sqlitePrefix = "sqlite:"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	cfg.ConfigureLogging()

	if err := run(cfg); err != nil {
		log.WithError(err).Fatal("Server stopped")
	}
	log.Info("Server stopped cleanly")
}

func run(cfg *config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	trusted, err := middleware.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return fmt.Errorf("TRUSTED_PROXIES: %w", err)
	}

	client, err := db.ConnectMongoURI(cfg.MongoURI)
	if err != nil {
		return fmt.Errorf("connect to MongoDB: %w", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.WithError(err).Warn("Failed to disconnect from MongoDB")
		}
	}()
	log.WithField("database", cfg.MongoDB).Info("Connected to MongoDB")
	database := client.Database(cfg.MongoDB)

	destinations := &db.MongoCollection{Collection: database.Collection("destinations")}
	if err := seedCatalog(ctx, destinations, cfg.CatalogPath); err != nil {
		return err
	}

	storage, closeStorage, err := openStateStorage(ctx, cfg, database)
	if err != nil {
		return err
	}
	defer closeStorage()

	m := metrics.NewMetrics(cfg.MetricsNamespace)
	sessions := planner.NewSessions(storage, planner.WithNotifier(notify.Multi{
		notify.ContextNotifier{},
		notify.LogNotifier{Fields: log.Fields{"component": "planner"}},
		notify.CounterNotifier{Counter: m.PersistenceFailures},
	}))
	go sessions.Run(ctx, cfg.SessionIdleTTL)

	var publisher quotes.Publisher
	if cfg.MQTTBroker != "" {
		mqttPub, err := quotes.NewMQTTPublisher(cfg.MQTTBroker, cfg.MQTTClientID)
		if err != nil {
			// quotes are still stored without the broker
			log.WithError(err).Warn("MQTT unavailable, quote events disabled")
		} else {
			defer mqttPub.Close()
			publisher = mqttPub
		}
	}
	provider := &catalog.Mongo{Collection: destinations}
	quoteService := quotes.NewService(
		&db.MongoCollection{Collection: database.Collection("quotes")},
		provider,
		publisher,
		quotes.WithTopic(cfg.MQTTTopic),
		quotes.WithMetrics(m),
	)

	authService, err := auth.NewService(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		return fmt.Errorf("create auth service: %w", err)
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, trusted)
	go limiter.Run(ctx, time.Minute)

	handler := router.New(router.Deps{
		Auth:         authService,
		Users:        &db.MongoUserCollection{Collection: database.Collection("users")},
		Catalog:      provider,
		CatalogAdmin: destinations,
		Sessions:     sessions,
		Quotes:       quoteService,
		Metrics:      m,
		RateLimiter:  limiter,
		CORSOrigins:  cfg.CORSOrigins,
	})

	return serve(newServer(cfg, handler), cfg.ShutdownTimeout)
}

func newServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + strings.TrimPrefix(cfg.Port, ":"),
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// serve runs server until SIGINT or SIGTERM, then shuts it down gracefully.
func serve(server *http.Server, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", server.Addr).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case sig := <-sigCh:
		log.WithField("signal", sig.String()).Info("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

// seedCatalog fills an empty destinations collection from the YAML catalog.
func seedCatalog(ctx context.Context, coll db.DestinationCollection, path string) error {
	if path == "" {
		return nil
	}
	dests, err := catalog.LoadFile(path)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	_, err = catalog.SeedIfEmpty(ctx, coll, dests)
	return err
}

// openStateStorage picks the plan storage: Redis when REDIS_ADDR is set,
// then SQL when DATABASE_URL is set ("sqlite:<path>" or a Postgres URL),
// otherwise the plan_state collection in MongoDB.
func openStateStorage(ctx context.Context, cfg *config.Config, database *mongo.Database) (planner.Storage, func(), error) {
	switch {
	case cfg.RedisAddr != "":
		client, err := db.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		log.WithField("addr", cfg.RedisAddr).Info("Plan storage: Redis")
		return &db.RedisStateStore{Client: client}, func() { _ = client.Close() }, nil

	case cfg.DatabaseURL != "":
		driver, dsn := db.DriverPostgres, cfg.DatabaseURL
		if strings.HasPrefix(dsn, sqlitePrefix) {
			driver, dsn = db.DriverSQLite, strings.TrimPrefix(dsn, sqlitePrefix)
		}
		sqlDB, err := db.OpenSQL(driver, dsn)
		if err != nil {
			return nil, nil, err
		}
		if err := db.InitStateSchema(ctx, sqlDB); err != nil {
			_ = sqlDB.Close()
			return nil, nil, err
		}
		log.WithField("driver", driver).Info("Plan storage: SQL")
		return &db.SQLStateStore{DB: sqlDB, Driver: driver}, func() { _ = sqlDB.Close() }, nil

	case database != nil:
		log.Info("Plan storage: MongoDB")
		return &db.MongoStateStore{Collection: database.Collection("plan_state")}, func() {}, nil
	}
	return nil, nil, errors.New("no plan storage configured")
}
