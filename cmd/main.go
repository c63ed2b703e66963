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

	cancelBookingHandler "github.com/sharetours/booking-service/internal/api/handlers/cancel_booking"
	confirmBookingHandler "github.com/sharetours/booking-service/internal/api/handlers/confirm_booking"
	createBookingHandler "github.com/sharetours/booking-service/internal/api/handlers/create_booking"
	getBookingHandler "github.com/sharetours/booking-service/internal/api/handlers/get_booking"
	getUserBookingsHandler "github.com/sharetours/booking-service/internal/api/handlers/get_user_bookings"
	searchToursHandler "github.com/sharetours/booking-service/internal/api/handlers/search_tours"
	"github.com/sharetours/booking-service/internal/api/middleware"
	"github.com/sharetours/booking-service/internal/catalog"
	"github.com/sharetours/booking-service/internal/config"
	bookingRepo "github.com/sharetours/booking-service/internal/infra/storage/booking"
	tourRepo "github.com/sharetours/booking-service/internal/infra/storage/tour"
	"github.com/sharetours/booking-service/internal/ledger"
	bookingsService "github.com/sharetours/booking-service/internal/service/bookings"
	"github.com/sharetours/booking-service/internal/service/holdsweeper"
	cancelBookingUC "github.com/sharetours/booking-service/internal/usecase/cancel_booking"
	confirmBookingUC "github.com/sharetours/booking-service/internal/usecase/confirm_booking"
	requestBookingUC "github.com/sharetours/booking-service/internal/usecase/request_booking"
	searchToursUC "github.com/sharetours/booking-service/internal/usecase/search_tours"
	"github.com/sharetours/booking-service/pkg/dbmetrics"
	"github.com/sharetours/booking-service/pkg/logger"
	"github.com/sharetours/booking-service/pkg/metrics"
	"github.com/sharetours/booking-service/pkg/txmanager"
)

func main() {
	cfg, err := config.Load("config.toml")
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

	log.Info("Starting sharetours booking service...")

	var metricsCollector *metrics.Metrics
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
	log.Info("Connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Repositories share one executor; with metrics enabled every query is
	// timed through the dbmetrics wrapper.
	var (
		tourRepository    *tourRepo.Repository
		bookingRepository *bookingRepo.Repository
		txMgr             *txmanager.TransactionManager
	)
	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.Wrap(db, metricsCollector)
		tourRepository = tourRepo.NewRepository(wrappedDB)
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		tourRepository = tourRepo.NewRepository(db)
		bookingRepository = bookingRepo.NewRepository(db)
		txMgr = txmanager.NewFromSQL(db)
	}

	// The ledger is the in-process serialization point for seat capacity;
	// the catalog index follows it through the change hook.
	seatLedger := ledger.New()
	catalogIndex := catalog.NewIndex(tourRepository, seatLedger, log)
	seatLedger.OnChange(func(snap ledger.Snapshot) {
		catalogIndex.ApplyLedgerChange(snap)
		if metricsCollector != nil {
			metricsCollector.IncCatalogRebuild()
		}
	})

	bootCtx, cancelBoot := context.WithTimeout(context.Background(), 30*time.Second)
	if err := bootstrapState(bootCtx, log, tourRepository, bookingRepository, seatLedger, catalogIndex); err != nil {
		cancelBoot()
		log.Fatal("Failed to rebuild state from storage: %v", err)
	}
	cancelBoot()
	log.Info("State rebuilt: %d open instances in the catalog", catalogIndex.Len())

	holdWindow := time.Duration(cfg.Booking.HoldWindowMinutes) * time.Minute
	sweepInterval := time.Duration(cfg.Booking.SweepIntervalSeconds) * time.Second

	var rbMetrics requestBookingUC.Metrics
	var cbMetrics confirmBookingUC.Metrics
	var clMetrics cancelBookingUC.Metrics
	var stMetrics searchToursUC.Metrics
	var swMetrics holdsweeper.Metrics
	if metricsCollector != nil {
		rbMetrics = metricsCollector
		cbMetrics = metricsCollector
		clMetrics = metricsCollector
		stMetrics = metricsCollector
		swMetrics = metricsCollector
	}

	requestBookingUseCase := requestBookingUC.NewUseCase(
		tourRepository, bookingRepository, seatLedger,
		log, rbMetrics, holdWindow, cfg.Booking.MaxHoldAttempts,
	)
	confirmBookingUseCase := confirmBookingUC.NewUseCase(
		bookingRepository, tourRepository, seatLedger, txMgr, log, cbMetrics,
	)
	cancelBookingUseCase := cancelBookingUC.NewUseCase(
		bookingRepository, tourRepository, seatLedger, log, clMetrics,
	)
	searchToursUseCase := searchToursUC.NewUseCase(catalogIndex, log, stMetrics)

	bookingSvc := bookingsService.NewService(bookingRepository, log)

	sweeper := holdsweeper.NewSweeper(
		bookingRepository, tourRepository, seatLedger, catalogIndex,
		log, swMetrics, sweepInterval,
	)

	createBooking := createBookingHandler.NewHandler(requestBookingUseCase, log)
	confirmBooking := confirmBookingHandler.NewHandler(confirmBookingUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(cancelBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	searchTours := searchToursHandler.NewHandler(searchToursUseCase, log)

	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// public routes
	api.HandleFunc("/tours/search", searchTours.Handle).Methods(http.MethodGet)

	// protected routes require the X-User-ID header
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{id}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{id}/confirm", confirmBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{id}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/users/{id}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	go sweeper.Run(sweepCtx)

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
	stopSweeper()

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

// bootstrapState rebuilds the in-memory ledger and catalog from storage:
// register every open instance with its confirmed seat count, re-establish
// unexpired holds under their stored tokens, then build the catalog index.
// Holds already past their deadline are left for the sweeper's first pass.
func bootstrapState(
	ctx context.Context,
	log *logger.Logger,
	tours *tourRepo.Repository,
	bookings *bookingRepo.Repository,
	seatLedger *ledger.Ledger,
	catalogIndex *catalog.Index,
) error {
	confirmed, err := bookings.ConfirmedSeatsByInstance(ctx)
	if err != nil {
		return fmt.Errorf("load confirmed seats: %w", err)
	}

	instances, err := tours.ListOpenInstances(ctx)
	if err != nil {
		return fmt.Errorf("list open instances: %w", err)
	}

	for _, instance := range instances {
		template, err := tours.GetTemplate(ctx, instance.TemplateID)
		if err != nil {
			return fmt.Errorf("load template %d: %w", instance.TemplateID, err)
		}
		seatLedger.Register(instance.ID, template.MaxGroup, confirmed[instance.ID])
	}

	held, err := bookings.ListHeld(ctx)
	if err != nil {
		return fmt.Errorf("list held bookings: %w", err)
	}
	now := time.Now()
	restored := 0
	for _, b := range held {
		if !b.ConfirmationDeadline.After(now) {
			continue
		}
		if err := seatLedger.RestoreHold(b.HoldToken, b.TourInstanceID, b.ParticipantCount, b.ConfirmationDeadline); err != nil {
			log.Error("bootstrap: failed to restore hold for booking id=%s: %v", b.ID, err)
			continue
		}
		restored++
	}
	if restored > 0 {
		log.Info("bootstrap: restored %d holds", restored)
	}

	if err := catalogIndex.RebuildAll(ctx); err != nil {
		return fmt.Errorf("rebuild catalog: %w", err)
	}

	return nil
}
