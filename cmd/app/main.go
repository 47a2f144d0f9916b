package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mpopescu/skybooker/config"
	"github.com/mpopescu/skybooker/internal/bootstrap"
	"github.com/mpopescu/skybooker/internal/cache"
	"github.com/mpopescu/skybooker/internal/kafka"
	"github.com/mpopescu/skybooker/internal/repository"
	"github.com/mpopescu/skybooker/internal/search"
	"github.com/mpopescu/skybooker/internal/service/auth"
	"github.com/mpopescu/skybooker/internal/service/cart"
	"github.com/mpopescu/skybooker/internal/service/flights"
	"github.com/mpopescu/skybooker/internal/service/orders"
	"github.com/mpopescu/skybooker/internal/service/users"
	"github.com/sirupsen/logrus"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logrus.WithError(err).Fatal("connect postgres")
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(
		cfg.Redis,
		time.Duration(cfg.Cache.FlightsTTLSeconds)*time.Second,
		time.Duration(cfg.Cache.SearchTTLSeconds)*time.Second,
	)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	searchClient := search.NewClient(cfg.Search)

	userRepo := repository.NewUserRepository(pool)
	flightRepo := repository.NewFlightRepository(pool)
	cartRepo := repository.NewCartRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)

	services := bootstrap.Services{
		Auth:    auth.NewAuthService(userRepo, cfg.Auth.TokenSecret, cfg.Auth.TokenTTL()),
		Users:   users.NewUserService(userRepo),
		Flights: flights.NewFlightService(flightRepo, redisCache, searchClient),
		Cart:    cart.NewCartService(cartRepo, flightRepo),
		Orders: orders.NewOrderService(
			bookingRepo,
			cartRepo,
			userRepo,
			producer,
			cfg.Kafka.OrdersTopic,
			orders.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		),
	}

	if err := bootstrap.Run(ctx, cfg, services); err != nil {
		logrus.WithError(err).Fatal("server error")
	}
}
