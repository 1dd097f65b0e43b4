package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/nurpe/icontrol-orders/internal/config"
	"github.com/nurpe/icontrol-orders/internal/db"
	"github.com/nurpe/icontrol-orders/internal/events"
	"github.com/nurpe/icontrol-orders/internal/excel"
	httphandler "github.com/nurpe/icontrol-orders/internal/http"
	"github.com/nurpe/icontrol-orders/internal/logger"
	"github.com/nurpe/icontrol-orders/internal/metrics"
	"github.com/nurpe/icontrol-orders/internal/pdf"
	"github.com/nurpe/icontrol-orders/internal/repository"
	"github.com/nurpe/icontrol-orders/internal/seed"
	"github.com/nurpe/icontrol-orders/internal/service"
	"github.com/nurpe/icontrol-orders/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orderRepo, customerRepo, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open stores")
	}

	var idempotency repository.IdempotencyStore = repository.NewMemoryIdempotencyStore(cfg.Orders.IdempotencyTTL)
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("failed to connect redis")
		}
		idempotency = repository.NewRedisIdempotencyStore(client, cfg.Orders.IdempotencyTTL)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("idempotency keys stored in redis")
	}

	hub := websocket.NewHub(log)
	go hub.Run(ctx)

	publishers := events.Multi{hub}
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := events.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			log.Fatal().Err(err).Strs("brokers", cfg.Kafka.Brokers).Msg("failed to create kafka producer")
		}
		defer producer.Close()
		publishers = append(publishers, producer)
		log.Info().Str("topic", cfg.Kafka.Topic).Msg("publishing order events to kafka")
	}

	m := metrics.New()
	orderService := service.NewOrderService(orderRepo, customerRepo, service.OrderServiceOptions{
		Idempotency:       idempotency,
		Publisher:         publishers,
		Metrics:           m,
		Excel:             excel.NewGenerator(),
		Receipts:          pdf.NewGenerator("iControl"),
		StrictTransitions: cfg.Orders.StrictTransitions,
	}, log)
	customerService := service.NewCustomerService(customerRepo, orderRepo)

	handler := httphandler.NewHandler(orderService, customerService, hub, log)
	router := httphandler.NewRouter(handler, cfg.HTTP.AllowedOrigins, cfg.Environment, m, log)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	srv := &http.Server{Addr: addr, Handler: router}

	go func() {
		log.Info().
			Str("addr", addr).
			Str("store", cfg.Orders.StoreDriver).
			Bool("strict_transitions", cfg.Orders.StrictTransitions).
			Msg("starting orders service")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (repository.OrderRepository, repository.CustomerRepository, error) {
	switch cfg.Orders.StoreDriver {
	case config.StorePostgres:
		database, err := db.New(cfg.DB, log)
		if err != nil {
			return nil, nil, err
		}
		orders := repository.NewPostgresOrderRepository(database)
		customers := repository.NewPostgresCustomerRepository(database)
		if cfg.Orders.SeedMockData {
			loaded, err := seed.Load(ctx, customers, orders)
			if err != nil {
				return nil, nil, err
			}
			if err := db.SyncSequences(database); err != nil {
				return nil, nil, err
			}
			log.Info().Int("orders", loaded).Msg("mock data loaded")
		}
		return orders, customers, nil

	default:
		if !cfg.Orders.SeedMockData {
			return repository.NewMemoryOrderRepository(nil), repository.NewMemoryCustomerRepository(nil), nil
		}
		log.Info().Int("orders", len(seed.Orders())).Msg("in-memory store seeded with mock data")
		return repository.NewMemoryOrderRepository(seed.Orders()), repository.NewMemoryCustomerRepository(seed.Customers()), nil
	}
}
