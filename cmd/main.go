package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-DropInService/internal/api/handlers"
	blockSlotHandler "github.com/m04kA/SMC-DropInService/internal/api/handlers/block_slot"
	cancelBookingHandler "github.com/m04kA/SMC-DropInService/internal/api/handlers/cancel_booking"
	changeStatusHandler "github.com/m04kA/SMC-DropInService/internal/api/handlers/change_status"
	clearHistoryHandler "github.com/m04kA/SMC-DropInService/internal/api/handlers/clear_history"
	createBookingHandler "github.com/m04kA/SMC-DropInService/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/m04kA/SMC-DropInService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-DropInService/internal/api/handlers/get_booking"
	getDayBookingsHandler "github.com/m04kA/SMC-DropInService/internal/api/handlers/get_day_bookings"
	getGuestBookingsHandler "github.com/m04kA/SMC-DropInService/internal/api/handlers/get_guest_bookings"
	getHistoryHandler "github.com/m04kA/SMC-DropInService/internal/api/handlers/get_history"
	getSettingsHandler "github.com/m04kA/SMC-DropInService/internal/api/handlers/get_settings"
	getWaitlistHandler "github.com/m04kA/SMC-DropInService/internal/api/handlers/get_waitlist"
	joinWaitlistHandler "github.com/m04kA/SMC-DropInService/internal/api/handlers/join_waitlist"
	listBlockedSlotsHandler "github.com/m04kA/SMC-DropInService/internal/api/handlers/list_blocked_slots"
	rescheduleBookingHandler "github.com/m04kA/SMC-DropInService/internal/api/handlers/reschedule_booking"
	unblockSlotHandler "github.com/m04kA/SMC-DropInService/internal/api/handlers/unblock_slot"
	undoActionHandler "github.com/m04kA/SMC-DropInService/internal/api/handlers/undo_action"
	updateBagNumberHandler "github.com/m04kA/SMC-DropInService/internal/api/handlers/update_bag_number"
	updateSettingsHandler "github.com/m04kA/SMC-DropInService/internal/api/handlers/update_settings"
	"github.com/m04kA/SMC-DropInService/internal/api/middleware"
	"github.com/m04kA/SMC-DropInService/internal/catalog"
	"github.com/m04kA/SMC-DropInService/internal/config"
	"github.com/m04kA/SMC-DropInService/internal/infra/cache/availability"
	blockedRepo "github.com/m04kA/SMC-DropInService/internal/infra/storage/blocked"
	bookingRepo "github.com/m04kA/SMC-DropInService/internal/infra/storage/booking"
	historyRepo "github.com/m04kA/SMC-DropInService/internal/infra/storage/history"
	settingsRepo "github.com/m04kA/SMC-DropInService/internal/infra/storage/settings"
	blockingService "github.com/m04kA/SMC-DropInService/internal/service/blocking"
	bookingsService "github.com/m04kA/SMC-DropInService/internal/service/bookings"
	historyService "github.com/m04kA/SMC-DropInService/internal/service/history"
	settingsService "github.com/m04kA/SMC-DropInService/internal/service/settings"
	"github.com/m04kA/SMC-DropInService/internal/serviceday"
	bookSlotUC "github.com/m04kA/SMC-DropInService/internal/usecase/book_slot"
	changeStatusUC "github.com/m04kA/SMC-DropInService/internal/usecase/change_status"
	getAvailableSlotsUC "github.com/m04kA/SMC-DropInService/internal/usecase/get_available_slots"
	joinWaitlistUC "github.com/m04kA/SMC-DropInService/internal/usecase/join_waitlist"
	rescheduleBookingUC "github.com/m04kA/SMC-DropInService/internal/usecase/reschedule_booking"
	undoActionUC "github.com/m04kA/SMC-DropInService/internal/usecase/undo_action"
	"github.com/m04kA/SMC-DropInService/migrations"
	"github.com/m04kA/SMC-DropInService/pkg/dbmetrics"
	"github.com/m04kA/SMC-DropInService/pkg/logger"
	"github.com/m04kA/SMC-DropInService/pkg/metrics"
	"github.com/m04kA/SMC-DropInService/pkg/txmanager"
)

func main() {
	configPath := "config.toml"
	if p := os.Getenv("DROPIN_CONFIG"); p != "" {
		configPath = p
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-DropInService...")
	log.Info("Configuration loaded from %s", configPath)

	// A nil collector records nothing
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), time.Minute)
	if err := migrations.Apply(migrateCtx, db); err != nil {
		cancelMigrate()
		log.Fatal("Failed to apply migrations: %v", err)
	}
	cancelMigrate()
	log.Info("Database migrations applied")

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis is unreachable at %s, availability will be computed on every read: %v", cfg.Redis.Addr, err)
		} else {
			log.Info("Availability cache enabled (addr=%s, ttl=%s)", cfg.Redis.Addr, cfg.Redis.TTL())
		}
		cancelPing()
	}
	availabilityCache := availability.New(redisClient, cfg.Redis.TTL(), log)

	clock, err := serviceday.New(cfg.ServiceDay.Timezone)
	if err != nil {
		log.Fatal("Failed to load service day timezone: %v", err)
	}

	slotCatalog, err := catalog.New(cfg.Catalog.ShowerSlots, cfg.Catalog.ShowerCapacity, cfg.Catalog.LaundrySlots)
	if err != nil {
		log.Fatal("Invalid slot catalog: %v", err)
	}

	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	blockedRepository := blockedRepo.NewRepository(wrappedDB)
	historyRepository := historyRepo.NewRepository(wrappedDB)
	settingsRepository := settingsRepo.NewRepository(wrappedDB)

	txMgr := txmanager.NewTransactionManager(
		wrappedDB,
		txmanager.WithMaxAttempts(cfg.Tx.MaxAttempts),
		txmanager.WithBackoff(cfg.Tx.BackoffDuration()),
		txmanager.WithRetryObserver(metricsCollector),
	)

	// Services
	settingsSvc := settingsService.NewService(
		settingsRepository,
		availabilityCache,
		clock,
		cfg.SettingsDefaults.Settings(),
		log,
	)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		historyRepository,
		availabilityCache,
		txMgr,
		clock,
		metricsCollector,
		log,
	)
	blockingSvc := blockingService.NewService(
		blockedRepository,
		historyRepository,
		slotCatalog,
		availabilityCache,
		txMgr,
		clock,
		metricsCollector,
		log,
	)
	historySvc := historyService.NewService(historyRepository, clock, log)

	// Use cases
	bookSlotUseCase := bookSlotUC.NewUseCase(
		bookingRepository,
		blockedRepository,
		historyRepository,
		settingsSvc,
		slotCatalog,
		availabilityCache,
		txMgr,
		clock,
		metricsCollector,
		log,
	)
	joinWaitlistUseCase := joinWaitlistUC.NewUseCase(
		bookingRepository,
		historyRepository,
		availabilityCache,
		txMgr,
		clock,
		metricsCollector,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		blockedRepository,
		settingsSvc,
		slotCatalog,
		availabilityCache,
		txMgr,
		clock,
		log,
	)
	changeStatusUseCase := changeStatusUC.NewUseCase(
		bookingRepository,
		historyRepository,
		availabilityCache,
		txMgr,
		clock,
		metricsCollector,
		log,
	)
	rescheduleBookingUseCase := rescheduleBookingUC.NewUseCase(
		bookingRepository,
		blockedRepository,
		historyRepository,
		settingsSvc,
		slotCatalog,
		availabilityCache,
		txMgr,
		clock,
		metricsCollector,
		log,
	)
	undoActionUseCase := undoActionUC.NewUseCase(
		bookingRepository,
		blockedRepository,
		historyRepository,
		settingsSvc,
		slotCatalog,
		availabilityCache,
		txMgr,
		clock,
		metricsCollector,
		log,
	)

	// Handlers
	createBooking := createBookingHandler.NewHandler(bookSlotUseCase, log)
	joinWaitlist := joinWaitlistHandler.NewHandler(joinWaitlistUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getGuestBookings := getGuestBookingsHandler.NewHandler(bookingSvc, log)
	getDayBookings := getDayBookingsHandler.NewHandler(bookingSvc, log)
	getWaitlist := getWaitlistHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	updateBagNumber := updateBagNumberHandler.NewHandler(bookingSvc, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(rescheduleBookingUseCase, log)
	changeStatus := changeStatusHandler.NewHandler(changeStatusUseCase, log)
	listBlockedSlots := listBlockedSlotsHandler.NewHandler(blockingSvc, log)
	blockSlot := blockSlotHandler.NewHandler(blockingSvc, log)
	unblockSlot := unblockSlotHandler.NewHandler(blockingSvc, log)
	getHistory := getHistoryHandler.NewHandler(historySvc, log)
	undoAction := undoActionHandler.NewHandler(undoActionUseCase, log)
	clearHistory := clearHistoryHandler.NewHandler(historySvc, log)
	getSettings := getSettingsHandler.NewHandler(settingsSvc, log)
	updateSettings := updateSettingsHandler.NewHandler(settingsSvc, log)

	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()
		if err := wrappedDB.PingContext(ctx); err != nil {
			log.Warn("GET /health - Database unreachable: %v", err)
			handlers.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES
	// ============================================================

	api.HandleFunc("/services/{serviceType}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/settings", getSettings.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (require X-Staff-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Bookings ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/waitlist", joinWaitlist.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/reschedule", rescheduleBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/status", changeStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/bag-number", updateBagNumber.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/guests/{guestId}/bookings", getGuestBookings.Handle).Methods(http.MethodGet)

	// --- Day views ---
	protected.HandleFunc("/services/shower/waitlist", getWaitlist.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/services/{serviceType}/bookings", getDayBookings.Handle).Methods(http.MethodGet)

	// --- History ---
	protected.HandleFunc("/history", getHistory.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/history", clearHistory.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/history/{entryId}/undo", undoAction.Handle).Methods(http.MethodPost)

	// ============================================================
	// STAFF ROLE ROUTES (require X-Staff-Role)
	// ============================================================

	staff := protected.PathPrefix("").Subrouter()
	staff.Use(middleware.RequireRole(middleware.RoleStaff, middleware.RoleAdmin))

	staff.HandleFunc("/blocked-slots", listBlockedSlots.Handle).Methods(http.MethodGet)
	staff.HandleFunc("/blocked-slots", blockSlot.Handle).Methods(http.MethodPost)
	staff.HandleFunc("/blocked-slots", unblockSlot.Handle).Methods(http.MethodDelete)
	staff.HandleFunc("/settings", updateSettings.Handle).Methods(http.MethodPut)

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
