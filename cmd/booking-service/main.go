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

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"

	"github.com/prudhivi99/Distributed-Systems/booking-service/internal/booking"
	"github.com/prudhivi99/Distributed-Systems/booking-service/internal/cache"
	"github.com/prudhivi99/Distributed-Systems/booking-service/internal/client"
	"github.com/prudhivi99/Distributed-Systems/booking-service/internal/config"
	"github.com/prudhivi99/Distributed-Systems/booking-service/internal/db"
	"github.com/prudhivi99/Distributed-Systems/booking-service/internal/discovery"
	"github.com/prudhivi99/Distributed-Systems/booking-service/internal/handlers"
	"github.com/prudhivi99/Distributed-Systems/booking-service/internal/messaging"
	"github.com/prudhivi99/Distributed-Systems/booking-service/internal/publisher"
	"github.com/prudhivi99/Distributed-Systems/booking-service/internal/tracing"
)

func main() {
	app := &cli.App{
		Name:  "booking-service",
		Usage: "accepts ticket bookings and publishes them for order processing",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: ".",
				Usage: "directory containing app.env",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "overrides LOG_LEVEL",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.LoadConfig(c.String("config"))
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if lvl := c.String("log-level"); lvl != "" {
				cfg.LogLevel = lvl
			}
			setupLogging(cfg)

			ctx, cancel := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			return run(ctx, cfg)
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("booking-service stopped")
	}
}

func setupLogging(cfg config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	if strings.ToLower(cfg.LogFormat) == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	log.Logger = log.With().Str("service", cfg.AppName).Logger()

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.DefaultContextLogger = &log.Logger

	if level > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	log.Info().Str("driver", cfg.PublisherDriver).Msg("Application starting")

	tp, err := tracing.ConfigureTraceProvider(cfg.JaegerEndpoint, cfg.AppName)
	if err != nil {
		return err
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Error().Err(err).Msg("Failed to shut down tracer provider")
		}
	}()

	// Connect to PostgreSQL
	database, err := db.NewPostgresDB(ctx, cfg.PostgresDSN())
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.InitializeSchema(ctx, database.Conn); err != nil {
		return err
	}

	var customers booking.CustomerFinder = db.NewCustomerRepository(database)
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.RedisAddr, cfg.CustomerCacheTTL)
		if err != nil {
			return err
		}
		defer redisCache.Close()
		customers = db.NewCachedCustomerRepository(customers, redisCache)
	}

	var consul *discovery.ConsulClient
	if cfg.ConsulAddr != "" {
		consul, err = discovery.NewConsulClient(cfg.ConsulAddr)
		if err != nil {
			return err
		}
	}

	var (
		inventoryClient   *client.InventoryClient
		inventoryResolver *discovery.ServiceResolver
	)
	if cfg.InventoryServiceURL != "" {
		log.Info().Str("url", cfg.InventoryServiceURL).Msg("Using inventory service")
		inventoryClient = client.NewInventoryClient(cfg.InventoryServiceURL, cfg.InventoryTimeout)
	} else {
		inventoryResolver, err = discovery.NewServiceResolver(consul, cfg.InventoryServiceName, cfg.InventoryRefreshInterval)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", cfg.InventoryServiceName, err)
		}
		inventoryClient = client.NewDiscoveredInventoryClient(inventoryResolver, cfg.InventoryTimeout)
	}

	broker, closeBroker, err := newBroker(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeBroker(); err != nil {
			log.Error().Err(err).Msg("Failed to close broker")
		}
	}()

	bookingPublisher := publisher.NewBookingPublisher(broker, cfg.BookingTopic, cfg.PublisherDriver)
	bookingService := booking.NewService(customers, inventoryClient, bookingPublisher)
	bookingHandler := handlers.NewBookingHandler(bookingService, cfg.AppName)

	router := handlers.NewRouter(bookingHandler, log.Logger)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           otelhttp.NewHandler(router, cfg.AppName),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if consul != nil {
		err = consul.Register(discovery.ServiceConfig{
			Name: cfg.AppName,
			ID:   cfg.ServiceID,
			Port: cfg.ServicePort,
			Tags: []string{"api", "booking"},
		})
		if err != nil {
			return err
		}
		defer func() {
			if err := consul.Deregister(cfg.ServiceID); err != nil {
				log.Error().Err(err).Msg("Failed to deregister service")
			}
		}()
	}

	g, ctx := errgroup.WithContext(ctx)

	if inventoryResolver != nil {
		g.Go(func() error {
			inventoryResolver.Run(ctx)
			return nil
		})
	}

	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newBroker connects to the configured booking sink and declares the booking
// queue when RabbitMQ is used.
func newBroker(cfg config.Config) (publisher.Broker, func() error, error) {
	switch cfg.PublisherDriver {
	case config.PublisherKafka:
		k, err := messaging.NewKafka(cfg.KafkaBrokers, messaging.NewWatermillLogger(log.Logger))
		if err != nil {
			return nil, nil, err
		}
		return k, k.Close, nil
	default:
		rabbitMQ, err := messaging.NewRabbitMQ(cfg.RabbitMQURL, cfg.PublishTimeout)
		if err != nil {
			return nil, nil, err
		}
		if err := rabbitMQ.DeclareQueue(cfg.BookingTopic); err != nil {
			rabbitMQ.Close()
			return nil, nil, err
		}
		return rabbitMQ, rabbitMQ.Close, nil
	}
}
