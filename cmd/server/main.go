package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/movie-crowdfund/internal/config"
	"github.com/iliyamo/movie-crowdfund/internal/handler"
	"github.com/iliyamo/movie-crowdfund/internal/ledger"
	"github.com/iliyamo/movie-crowdfund/internal/middleware"
	"github.com/iliyamo/movie-crowdfund/internal/queue"
	"github.com/iliyamo/movie-crowdfund/internal/router"
	queue_publisher "github.com/iliyamo/movie-crowdfund/internal/service"
	"github.com/iliyamo/movie-crowdfund/internal/store"
	"github.com/iliyamo/movie-crowdfund/internal/store/mongo"
	"github.com/iliyamo/movie-crowdfund/internal/store/mysql"
)

func main() {
	// Load .env if present without overwriting variables already set in
	// the process environment.
	if envMap, err := godotenv.Read(); err == nil {
		for k, v := range envMap {
			if os.Getenv(k) == "" {
				os.Setenv(k, v)
			}
		}
	}

	cfg := config.Load()

	st := openStore(cfg)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.Close(ctx); err != nil {
			log.Printf("store close: %v", err)
		}
	}()

	// Redis backs the response cache and the rate limiter.  A nil
	// client turns both middlewares into no-ops.
	rdb := config.NewRedisClient()

	// Events stay off unless a broker URL is configured; the workflow
	// accepts a nil publisher.
	var publisher ledger.Publisher
	if queue.BrokerURL() != "" {
		publisher = queue_publisher.New()
	}
	workflow := ledger.New(st, publisher)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(echomw.CORS())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	router.Register(e, router.Handlers{
		Auth:          handler.NewAuthHandler(cfg, st),
		Movies:        handler.NewMovieHandler(st),
		Investments:   handler.NewInvestmentHandler(workflow, st),
		Notifications: handler.NewNotificationHandler(st),
	}, cfg.JWTSecret)

	// Audit consumer for confirmed investments.  It reconnects on its
	// own once started; without a broker URL it is not started at all.
	if queue.BrokerURL() != "" {
		go func() {
			if err := queue.StartInvestmentConsumer(); err != nil {
				log.Printf("investment-consumer: %v", err)
			}
		}()
	} else {
		log.Println("no broker configured; investment events disabled")
	}

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, store=%s)", addr, cfg.Env, cfg.StoreDriver)

	go func() {
		if err := e.Start(addr); err != nil {
			log.Printf("server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

// openStore connects the configured backend, applies schema or indexes
// and seeds demo data when the database is empty.
func openStore(cfg config.Config) store.Store {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch cfg.StoreDriver {
	case config.DriverMongo:
		st, err := mongo.Open(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			log.Fatalf("mongo connect: %v", err)
		}
		if err := st.EnsureIndexes(ctx); err != nil {
			log.Fatalf("mongo indexes: %v", err)
		}
		if err := st.Seed(ctx, cfg.BcryptCost); err != nil {
			log.Fatalf("mongo seed: %v", err)
		}
		return st
	default:
		st, err := mysql.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			log.Fatalf("mysql connect: %v", err)
		}
		if err := st.EnsureSchema(ctx); err != nil {
			log.Fatalf("mysql schema: %v", err)
		}
		if err := st.Seed(ctx, cfg.BcryptCost); err != nil {
			log.Fatalf("mysql seed: %v", err)
		}
		return st
	}
}
