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

	cancelBookingHandler "github.com/m04kA/ABS-SchedulingCore/internal/api/handlers/cancel_booking"
	confirmBookingHandler "github.com/m04kA/ABS-SchedulingCore/internal/api/handlers/confirm_booking"
	createBookingHandler "github.com/m04kA/ABS-SchedulingCore/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/m04kA/ABS-SchedulingCore/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/ABS-SchedulingCore/internal/api/handlers/get_booking"
	getBookingOccurrencesHandler "github.com/m04kA/ABS-SchedulingCore/internal/api/handlers/get_booking_occurrences"
	getStaffAgendaHandler "github.com/m04kA/ABS-SchedulingCore/internal/api/handlers/get_staff_agenda"
	recordPaymentHandler "github.com/m04kA/ABS-SchedulingCore/internal/api/handlers/record_payment"
	rescheduleBookingHandler "github.com/m04kA/ABS-SchedulingCore/internal/api/handlers/reschedule_booking"
	suggestServiceHandler "github.com/m04kA/ABS-SchedulingCore/internal/api/handlers/suggest_service"
	summarizeNotesHandler "github.com/m04kA/ABS-SchedulingCore/internal/api/handlers/summarize_notes"
	"github.com/m04kA/ABS-SchedulingCore/internal/api/middleware"
	"github.com/m04kA/ABS-SchedulingCore/internal/availability"
	"github.com/m04kA/ABS-SchedulingCore/internal/config"
	"github.com/m04kA/ABS-SchedulingCore/internal/infra/cache"
	bookingRepo "github.com/m04kA/ABS-SchedulingCore/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/ABS-SchedulingCore/internal/infra/storage/catalog"
	advisoryClient "github.com/m04kA/ABS-SchedulingCore/internal/integrations/advisory"
	"github.com/m04kA/ABS-SchedulingCore/internal/lifecycle"
	advisoryService "github.com/m04kA/ABS-SchedulingCore/internal/service/advisory"
	bookingsService "github.com/m04kA/ABS-SchedulingCore/internal/service/bookings"
	createBookingUC "github.com/m04kA/ABS-SchedulingCore/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/ABS-SchedulingCore/internal/usecase/get_available_slots"
	rescheduleBookingUC "github.com/m04kA/ABS-SchedulingCore/internal/usecase/reschedule_booking"
	"github.com/m04kA/ABS-SchedulingCore/pkg/logger"
	"github.com/m04kA/ABS-SchedulingCore/pkg/metrics"
	"github.com/m04kA/ABS-SchedulingCore/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting ABS-SchedulingCore...")
	log.Info("Configuration loaded from config.toml")

	// Метрики регистрируются всегда, endpoint и middleware - только при включенных метриках
	metricsCollector := metrics.New(cfg.Metrics.ServiceName)

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем репозитории и транзакционный менеджер
	bookingRepository := bookingRepo.NewRepository(db)
	catalogRepository := catalogRepo.NewRepository(db)
	txMgr := txmanager.NewTransactionManager(db)

	// Индекс доступности и движок жизненного цикла бронирований
	index := availability.NewIndex(cfg.Scheduling.LockTimeout())
	engine := lifecycle.NewEngine(cfg.Scheduling.CancelGrace(), nil)

	// Кэш слотов опционален: при выключенном кеше слоты считаются на каждый запрос
	var (
		slotCacheReader    getAvailableSlotsUC.SlotCache
		createCacheInv     createBookingHandler.SlotCacheInvalidator
		rescheduleCacheInv rescheduleBookingHandler.SlotCacheInvalidator
		cancelCacheInv     cancelBookingHandler.SlotCacheInvalidator
	)
	if cfg.Cache.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Addr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to ping redis: %v", err)
		}
		defer rdb.Close()

		slotCache := cache.NewSlotCache(rdb, cfg.Cache.TTL())
		slotCacheReader = slotCache
		createCacheInv = slotCache
		rescheduleCacheInv = slotCache
		cancelCacheInv = slotCache
		log.Info("Slot cache enabled (addr=%s, ttl=%s)", cfg.Cache.Addr, cfg.Cache.TTL())
	}

	// AI-ассистент опционален: при выключенном ассистенте рекомендации недоступны
	var advisoryAPI advisoryService.AdvisoryClient
	if cfg.Advisory.Enabled {
		advisoryAPI = advisoryClient.NewClient(
			cfg.Advisory.APIKey,
			cfg.Advisory.BaseURL,
			cfg.Advisory.Model,
			time.Duration(cfg.Advisory.Timeout)*time.Second,
			log,
		)
		log.Info("Advisory client initialized (model=%s, timeout=%ds)", cfg.Advisory.Model, cfg.Advisory.Timeout)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		catalogRepository,
		index,
		engine,
		txMgr,
		log,
		cfg.Scheduling.HorizonDays,
		cfg.Scheduling.MaxOccurrences,
	)
	advisorySvc := advisoryService.NewService(advisoryAPI, catalogRepository, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		catalogRepository,
		index,
		txMgr,
		log,
		cfg.Scheduling.HorizonDays,
		cfg.Scheduling.MaxOccurrences,
	)
	rescheduleBookingUseCase := rescheduleBookingUC.NewUseCase(
		bookingRepository,
		catalogRepository,
		index,
		txMgr,
		log,
		cfg.Scheduling.HorizonDays,
		cfg.Scheduling.MaxOccurrences,
		cfg.Scheduling.ConflictRetries,
		cfg.Scheduling.ConflictBackoff(),
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		catalogRepository,
		index,
		slotCacheReader,
		log,
		cfg.Scheduling.HorizonDays,
	)

	// Восстанавливаем индекс доступности из хранилища до приема трафика
	if err := bookingSvc.RestoreAvailability(context.Background()); err != nil {
		log.Fatal("Failed to restore availability index: %v", err)
	}

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, metricsCollector, createCacheInv, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(rescheduleBookingUseCase, metricsCollector, rescheduleCacheInv, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, metricsCollector, cancelCacheInv, log)
	confirmBooking := confirmBookingHandler.NewHandler(bookingSvc, log)
	getBookingOccurrences := getBookingOccurrencesHandler.NewHandler(bookingSvc, log)
	recordPayment := recordPaymentHandler.NewHandler(bookingSvc, log)
	getStaffAgenda := getStaffAgendaHandler.NewHandler(bookingSvc, log)
	suggestService := suggestServiceHandler.NewHandler(advisorySvc, log)
	summarizeNotes := summarizeNotesHandler.NewHandler(advisorySvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// --- Бронирования ---
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}/reschedule", rescheduleBooking.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/bookings/{bookingId}/confirm", confirmBooking.Handle).Methods(http.MethodPatch)
	api.HandleFunc("/bookings/{bookingId}/occurrences", getBookingOccurrences.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}/payments", recordPayment.Handle).Methods(http.MethodPost)

	// --- Расписание ---
	api.HandleFunc("/locations/{locationId}/services/{serviceId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/staff/{staffId}/agenda", getStaffAgenda.Handle).Methods(http.MethodGet)

	// --- AI-ассистент ---
	api.HandleFunc("/advisory/service-suggestion", suggestService.Handle).Methods(http.MethodPost)
	api.HandleFunc("/advisory/notes-summary", summarizeNotes.Handle).Methods(http.MethodPost)

	// Фоновое завершение прошедших бронирований
	sweepStop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(cfg.Scheduling.SweepInterval())
		defer ticker.Stop()
		for {
			select {
			case <-sweepStop:
				return
			case <-ticker.C:
				if _, err := bookingSvc.CompleteElapsed(context.Background()); err != nil {
					log.Error("Background sweep failed: %v", err)
				}
			}
		}
	}()
	log.Info("Background completion sweep started (interval=%s)", cfg.Scheduling.SweepInterval())

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	close(sweepStop)

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
