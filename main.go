package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/recipebox/recipebox/handlers"
	"github.com/recipebox/recipebox/internal/config"
	"github.com/recipebox/recipebox/internal/database"
	"github.com/recipebox/recipebox/internal/httpserver"
	"github.com/recipebox/recipebox/internal/recipe/handler"
	"github.com/recipebox/recipebox/internal/recipe/repository"
	"github.com/recipebox/recipebox/internal/recipe/service"
	"github.com/recipebox/recipebox/internal/storage"
	"github.com/recipebox/recipebox/pkg/logger"
	"github.com/recipebox/recipebox/pkg/metrics"
	"github.com/recipebox/recipebox/pkg/middleware"
	"github.com/redis/go-redis/v9"
)

var startTime = time.Now()

func main() {
	// initialize logging (can be controlled with LOG_LEVEL env: debug|info|warn|error|fatal)
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.LogLevel)
	logger.Infof("config loaded: store=%s redis=%v minio=%v", cfg.Store.Driver, cfg.Redis.Host != "", cfg.MinIO.Endpoint != "")

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = logger.Writer()

	ctx := context.Background()
	svc, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logger.Fatalf("failed to open recipe store: %v", err)
	}

	rdb := connectRedis(ctx, cfg)
	images := openImages(ctx, cfg)

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r := newRouter(cfg, svc, rdb, images)

	srv := httpserver.New(cfg.Addr(), r, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)
	logger.Infof("Starting recipe API on %s", cfg.Addr())
	err = httpserver.Run(srv, cfg.Server.ShutdownTimeout)

	closeStore()
	if rdb != nil {
		_ = rdb.Close()
	}
	if err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}

// newRouter wires middleware and every API route onto a fresh engine.
// rdb and images may be nil.
func newRouter(cfg *config.Config, svc service.Service, rdb *redis.Client, images handler.ImageStore) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(), middleware.CORS())

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && rdb != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(rdb, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	handlers.RegisterSystemRoutes(r, svc, startTime)
	handlers.RegisterSwagger(r)
	handler.RegisterRecipeRoutes(r, svc)
	handler.RegisterImageRoutes(r, images)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

// openStore returns the configured recipe service and a func releasing its connection.
func openStore(ctx context.Context, cfg *config.Config) (service.Service, func(), error) {
	if cfg.Store.Driver == config.StoreMemory {
		logger.Warnf("using in-memory recipe store; data is lost on restart")
		return service.NewMemoryService(), func() {}, nil
	}

	// Retry/backoff when connecting to MongoDB to tolerate startup races
	client, err := database.ConnectWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5, time.Second)
	if err != nil {
		return nil, nil, err
	}
	col := client.Database(cfg.MongoDB.Database).Collection(repository.CollectionName)
	svc, err := service.NewMongoService(ctx, col)
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, err
	}
	logger.Infof("connected to MongoDB database %q", cfg.MongoDB.Database)
	return svc, func() { _ = client.Disconnect(context.Background()) }, nil
}

// connectRedis returns a client for the rate limiter, or nil when Redis is
// not configured or unreachable.
func connectRedis(ctx context.Context, cfg *config.Config) *redis.Client {
	if cfg.Redis.Host == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
		_ = rdb.Close()
		return nil
	}
	logger.Infof("Connected to Redis: %s:%s", cfg.Redis.Host, cfg.Redis.Port)
	return rdb
}

// openImages returns the MinIO image store, or a nil interface when uploads are disabled.
func openImages(ctx context.Context, cfg *config.Config) handler.ImageStore {
	if cfg.MinIO.Endpoint == "" {
		logger.Infof("MINIO_ENDPOINT not set; image uploads disabled")
		return nil
	}
	st, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
	if err != nil {
		logger.Warnf("image storage unavailable: %v", err)
		return nil
	}
	return st
}
