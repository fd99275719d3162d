package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"

	"github.com/Hustlehub34/Sporto-sub000/internal/booking"
	"github.com/Hustlehub34/Sporto-sub000/internal/calendar"
	"github.com/Hustlehub34/Sporto-sub000/internal/config"
	"github.com/Hustlehub34/Sporto-sub000/internal/database"
	"github.com/Hustlehub34/Sporto-sub000/internal/handler"
	"github.com/Hustlehub34/Sporto-sub000/internal/middleware"
	"github.com/Hustlehub34/Sporto-sub000/internal/payment"
	"github.com/Hustlehub34/Sporto-sub000/internal/queue"
	"github.com/Hustlehub34/Sporto-sub000/internal/repository"
	"github.com/Hustlehub34/Sporto-sub000/internal/router"
	"github.com/Hustlehub34/Sporto-sub000/internal/service"
)

// venueCatalogue is satisfied by both the in-memory and the MySQL catalogue.
type venueCatalogue interface {
	calendar.VenueSource
	handler.VenueLister
}

func main() {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	venues := openCatalogue(ctx, cfg)
	registry := calendar.NewRegistry(venues, cfg.BookingWindowDays)

	sessions := booking.NewSessionStore()
	go sweep(ctx, sessions, registry, cfg.SessionTTL)

	var notifier booking.Notifier = service.LogNotifier{}
	if cfg.PublishBookings {
		notifier = &service.BookingPublisher{URL: cfg.RabbitURL}
	}
	if cfg.BookingConsumer {
		consumer := &queue.Consumer{URL: cfg.RabbitURL}
		go func() {
			if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
				log.Printf("booking-consumer: stopped: %v", err)
			}
		}()
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis: unavailable, rate limiting and caching disabled")
	} else {
		defer rdb.Close()
	}
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	e := echo.New()
	e.HideBanner = true
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Printf("%s %s %d %s", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	router.RegisterRoutes(e)
	router.RegisterPublic(e, handler.NewPublicHandler(venues, registry), limiter, cache.Middleware())
	router.RegisterOwner(e, handler.NewOwnerHandler(registry, venues, cache), cfg.JWTSecret)
	router.RegisterCustomer(e, handler.NewCustomerHandler(
		registry, sessions, payment.NewSimulated(), notifier, cache, cfg.PlatformFee,
	), cfg.JWTSecret, limiter)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = e.Shutdown(shutdownCtx)
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, venues=%s)", addr, cfg.Env, cfg.VenueSource)
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

func openCatalogue(ctx context.Context, cfg config.Config) venueCatalogue {
	if cfg.VenueSource != config.VenueSourceMySQL {
		mem, err := repository.NewMemoryVenues(repository.SampleVenues()...)
		if err != nil {
			log.Fatalf("venues: sample catalogue: %v", err)
		}
		return mem
	}
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	if cfg.DBMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			log.Fatalf("db: migrate: %v", err)
		}
	}
	return repository.NewVenueRepo(db)
}

// sweep drops idle selections and the calendars of days that have passed.
func sweep(ctx context.Context, st *booking.SessionStore, reg *calendar.Registry, ttl time.Duration) {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	t := time.NewTicker(ttl / 2)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := st.Sweep(ttl); n > 0 {
				log.Printf("sessions: swept %d abandoned selections", n)
			}
			if n := reg.EvictPast(); n > 0 {
				log.Printf("calendars: evicted %d past calendars", n)
			}
		}
	}
}
