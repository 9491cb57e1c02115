package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/tradegate/checkout-service/internal/app"
	"github.com/tradegate/checkout-service/internal/cart"
	"github.com/tradegate/checkout-service/internal/checkout"
	"github.com/tradegate/checkout-service/internal/config"
	"github.com/tradegate/checkout-service/internal/handler"
	"github.com/tradegate/checkout-service/internal/notifier"
	"github.com/tradegate/checkout-service/internal/postgres"
	"github.com/tradegate/checkout-service/internal/repo"
	"github.com/tradegate/checkout-service/internal/session"
	"github.com/tradegate/checkout-service/pkg/trm"
)

func main() {
	conf := config.New()
	logger := newLogger(conf.Env)
	panicIfErr("invalid config", conf.Validate())

	db, err := postgres.New(conf.Postgres)
	panicIfErr("failed to connect to db", err)
	defer db.Close()
	logger.Info("postgres connected")

	panicIfErr("failed to run migrations", postgres.Migrate(db, conf.Postgres.MigrationsPath))

	rdb := redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Addr,
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})
	defer rdb.Close()

	storeRepo := repo.NewPostgresRepo(db)
	txManager := trm.NewManager(db)
	sessions := session.NewStore(conf.Checkout.SessionCapacity, conf.Checkout.SessionTTL)
	buyerCart := cart.NewRedisCart(logger, rdb, conf.Redis.CartTTL)

	kafkaNotifier := notifier.NewKafkaNotifier(logger, notifier.Config{
		Brokers:      conf.Kafka.Brokers,
		Topic:        conf.Kafka.Topic,
		BatchTimeout: conf.Kafka.BatchTimeout,
		WriteTimeout: conf.Kafka.WriteTimeout,
	})
	defer kafkaNotifier.Close()

	machine := checkout.NewMachine(
		logger,
		sessions,
		storeRepo,
		storeRepo,
		storeRepo,
		txManager,
		buyerCart,
		kafkaNotifier,
		checkout.Settings{
			OTPEnabled:      conf.Checkout.OTPEnabled,
			OTPLength:       conf.Checkout.OTPLength,
			OTPExpiry:       conf.Checkout.OTPExpiry,
			OTPMaxAttempts:  conf.Checkout.OTPMaxAttempts,
			ProcessingDelay: conf.Checkout.ProcessingDelay,
			StoreTimeout:    conf.Checkout.StoreTimeout,
			Currency:        conf.Checkout.Currency,
		},
	)

	checkoutHandler := handler.NewCheckoutHandler(logger, machine, storeRepo)
	cartHandler := handler.NewCartHandler(logger, buyerCart)

	app := app.New(logger, conf)
	app.SetHTTPHandlers(checkoutHandler, cartHandler)
	app.SetStarters(sessions)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	panicIfErr("failed to start app", app.Start(ctx))
	<-ctx.Done()
	panicIfErr("failed to stop app", app.Stop())
}

func init() {
	godotenv.Load()
}

func newLogger(env string) *slog.Logger {
	switch env {
	case "production":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

func panicIfErr(prefix string, err error) {
	if err != nil {
		panic(prefix + ": " + err.Error())
	}
}
