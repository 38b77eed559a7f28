package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/Guyuepp/tweetfeed/internal/config"
	"github.com/Guyuepp/tweetfeed/internal/database"
	"github.com/Guyuepp/tweetfeed/internal/repository"
	mysqlRepo "github.com/Guyuepp/tweetfeed/internal/repository/mysql"
	myRedisCache "github.com/Guyuepp/tweetfeed/internal/repository/redis"
	"github.com/Guyuepp/tweetfeed/internal/rest"
	"github.com/Guyuepp/tweetfeed/internal/rest/middleware"
	"github.com/Guyuepp/tweetfeed/internal/usecase/account"
	"github.com/Guyuepp/tweetfeed/internal/usecase/tweet"
	"github.com/Guyuepp/tweetfeed/internal/workers"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	setupLogger(cfg.Log)

	// prepare database
	db, err := database.Open(cfg.Database)
	if err != nil {
		logrus.Fatal(err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logrus.Errorf("got error when closing the DB connection: %v", err)
		}
	}()
	if cfg.Database.AutoMigrate {
		if err := mysqlRepo.Migrate(db); err != nil {
			logrus.Fatalf("failed to migrate database: %v", err)
		}
	}

	// prepare cache
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Cache.Addr(),
		Password: cfg.Cache.Pass,
		DB:       cfg.Cache.DB,
	})
	defer func() {
		if err := client.Close(); err != nil {
			logrus.Errorf("got error when closing the cache connection: %v", err)
		}
	}()
	if err := client.Ping(context.Background()).Err(); err != nil {
		logrus.Fatalf("failed to open connection to cache: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tweet相关的三层架构
	// 1. DB层
	tweetDBRepo := mysqlRepo.NewTweetDBRepository(db)
	accountRepo := mysqlRepo.NewAccountRepository(db)
	likeRepo := mysqlRepo.NewLikeAggregateRepository(db)
	// 2. Cache层
	tweetCache := myRedisCache.NewTweetCache(client, cfg.Cache.KeyPrefix, cfg.Cache.RecentIndex)
	bloomRepo := myRedisCache.NewTweetBloomFilter(client, cfg.BloomBitSize)
	// 3. Repository协调层
	tweetRepo := repository.NewTweetRepository(tweetDBRepo, tweetCache)

	batcher := workers.NewLikeBatcher(likeRepo, cfg.Like.FlushInterval,
		workers.WithLikeCountSink(tweetCache),
		workers.WithRequeueOnFailure(cfg.Like.RequeueOnFailure),
	)

	tweetSvc := tweet.NewService(tweetRepo, accountRepo, batcher, bloomRepo)
	accountSvc := account.NewService(accountRepo)

	if err := tweetSvc.InitBloomFilter(ctx); err != nil {
		logrus.Fatalf("failed to init bloom filter: %v", err)
	}
	if err := tweetSvc.InitRecentFeed(ctx); err != nil {
		logrus.Fatalf("failed to init recent feed: %v", err)
	}
	batcher.Start()

	// redis 被清空或驱逐后重新预热
	warmer := workers.NewCacheWarmer(cfg.Cache.WarmInterval,
		workers.WarmTask{
			Name: "bloom",
			Ready: func(ctx context.Context) bool {
				// redis 不可用时跳过，下个周期再检查
				ready, err := bloomRepo.Ready(ctx)
				return err != nil || ready
			},
			Warm: tweetSvc.InitBloomFilter,
		},
		workers.WarmTask{
			Name:  "recent",
			Ready: tweetCache.RecentReady,
			Warm:  tweetSvc.InitRecentFeed,
		},
	)
	warmer.Start()

	// prepare gin
	route := gin.New()
	route.Use(gin.Recovery())
	route.Use(middleware.RequestID())
	route.Use(gzip.Gzip(gzip.DefaultCompression))
	route.Use(middleware.CORS())
	route.Use(middleware.SetRequestContextWithTimeout(cfg.Server.ContextTimeout))

	tweetHandler := rest.NewTweetHandler(tweetSvc)
	accountHandler := rest.NewAccountHandler(accountSvc)
	likeLimiter := rate.NewLimiter(rate.Limit(cfg.Like.RateLimit), cfg.Like.RateLimit*2)

	// Register routes
	route.POST("/accounts", accountHandler.Register)
	route.GET("/accounts/:id", accountHandler.GetByID)

	route.GET("/tweets", tweetHandler.FetchTweets)
	route.GET("/tweets/:id", tweetHandler.GetByID)

	identified := route.Group("/")
	identified.Use(middleware.CurrentAccount(accountSvc))
	{
		identified.GET("/accounts/me", accountHandler.Me)
		identified.POST("/tweets", tweetHandler.Store)
		identified.PUT("/tweets/:id", tweetHandler.Update)
		identified.DELETE("/tweets/:id", tweetHandler.Delete)
		identified.POST("/tweets/:id/like", middleware.RateLimit(likeLimiter), tweetHandler.Like)
	}

	// Start Server
	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: route,
	}
	go func() {
		logrus.Infof("Server is running on %s", cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("listen: %s", err)
		}
	}()

	// shutdown
	<-ctx.Done()
	logrus.Info("Shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	warmer.Stop()

	logrus.Info("Draining pending likes...")
	batcher.Stop(shutdownCtx)

	logrus.Info("Server exiting")
}

func setupLogger(cfg config.Log) {
	if cfg.Format == "text" {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logrus.Warnf("unknown log level %q, using info", cfg.Level)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
