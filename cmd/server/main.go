package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/nvminh162/aurora-hotel-system-sub000/internal/aurora"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/bookingedit"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/checkout"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/config"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/database"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/draft"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/handler"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/middleware"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/queue"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/report"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/repository"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/router"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/service"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/validation"
)

func main() {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; drafts kept in memory, cache and rate limit disabled")
	}
	drafts, edits := draftStores(rdb, cfg)

	db, ledger := openLedger(ctx, cfg)
	if db != nil {
		defer db.Close()
	}

	api := aurora.New(cfg.APIBaseURL, cfg.APITimeout)
	brokerURL := service.BrokerURL()
	events := service.NewQueuePublisher(brokerURL)

	checkouts := checkout.NewService(drafts, api, events, cfg.PaymentReturn)
	sessions := bookingedit.NewService(edits, api, ledger, events)
	reports := report.NewService(api)

	h := router.Handlers{
		Health:   &handler.HealthHandler{DB: db, Redis: rdb},
		Auth:     handler.NewAuthHandler(api),
		Catalog:  handler.NewCatalogHandler(api),
		Checkout: handler.NewCheckoutHandler(checkouts, api),
		Booking:  handler.NewBookingHandler(api),
		Edit:     handler.NewEditHandler(sessions, api, api),
		Shift:    handler.NewShiftHandler(api),
		Report:   handler.NewReportHandler(reports),
		Admin:    handler.NewAdminHandler(api),
	}

	cacheCfg := config.LoadCacheConfig()
	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.Default()
	e.Use(echomw.Recover())
	e.Use(middleware.RequestID())
	router.Register(e, h, router.Options{
		JWTSecret:   cfg.JWTSecret,
		RateLimit:   middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		Cache:       middleware.NewRedisCache(cacheCfg, rdb),
		ReportCache: middleware.NewRedisCache(cacheCfg.WithTTL(cacheCfg.ReportTTL, "user_route_query"), rdb),
	})

	go func() {
		if err := queue.StartBookingConsumer(ctx, brokerURL, queue.DefaultLogPath); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("booking-consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	go func() {
		log.Printf("listening on %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	if rdb != nil {
		_ = rdb.Close()
	}
}

// draftStores returns the stores for checkout drafts and edit sessions.
// Both share Redis when it is up but expire on their own TTLs.
func draftStores(rdb *redis.Client, cfg config.Config) (draft.Store, draft.Store) {
	if rdb == nil {
		return draft.NewMemoryStore(cfg.DraftTTL), draft.NewMemoryStore(cfg.EditSessionTTL)
	}
	return draft.NewRedisStore(rdb, cfg.DraftTTL), draft.NewRedisStore(rdb, cfg.EditSessionTTL)
}

// openLedger connects MySQL and prepares the change-set table.  Without a
// database the commit ledger lives in memory and only protects retries
// within this process.
func openLedger(ctx context.Context, cfg config.Config) (*sql.DB, bookingedit.Ledger) {
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Printf("mysql unavailable, change-set ledger kept in memory: %v", err)
		return nil, bookingedit.NewMemoryLedger()
	}
	if err := database.Migrate(ctx, db); err != nil {
		log.Printf("mysql migrate failed, change-set ledger kept in memory: %v", err)
		_ = db.Close()
		return nil, bookingedit.NewMemoryLedger()
	}
	return db, repository.NewChangeSetRepo(db)
}
