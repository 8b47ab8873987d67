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
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelAppointmentHandler "github.com/vaidhya-health/appointment-service/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/vaidhya-health/appointment-service/internal/api/handlers/create_appointment"
	createSubscriptionOrderHandler "github.com/vaidhya-health/appointment-service/internal/api/handlers/create_subscription_order"
	endCallHandler "github.com/vaidhya-health/appointment-service/internal/api/handlers/end_call"
	getAppointmentHandler "github.com/vaidhya-health/appointment-service/internal/api/handlers/get_appointment"
	getAvailabilityHandler "github.com/vaidhya-health/appointment-service/internal/api/handlers/get_availability"
	getAvailableSlotsHandler "github.com/vaidhya-health/appointment-service/internal/api/handlers/get_available_slots"
	getCustomerAppointmentsHandler "github.com/vaidhya-health/appointment-service/internal/api/handlers/get_customer_appointments"
	getProviderAppointmentsHandler "github.com/vaidhya-health/appointment-service/internal/api/handlers/get_provider_appointments"
	initializeCallHandler "github.com/vaidhya-health/appointment-service/internal/api/handlers/initialize_call"
	respondAppointmentHandler "github.com/vaidhya-health/appointment-service/internal/api/handlers/respond_appointment"
	startCallHandler "github.com/vaidhya-health/appointment-service/internal/api/handlers/start_call"
	updateAvailabilityHandler "github.com/vaidhya-health/appointment-service/internal/api/handlers/update_availability"
	verifyPaymentHandler "github.com/vaidhya-health/appointment-service/internal/api/handlers/verify_payment"
	verifySubscriptionHandler "github.com/vaidhya-health/appointment-service/internal/api/handlers/verify_subscription"
	"github.com/vaidhya-health/appointment-service/internal/api/middleware"
	"github.com/vaidhya-health/appointment-service/internal/config"
	appointmentRepo "github.com/vaidhya-health/appointment-service/internal/infra/storage/appointment"
	availabilityRepo "github.com/vaidhya-health/appointment-service/internal/infra/storage/availability"
	subscriptionRepo "github.com/vaidhya-health/appointment-service/internal/infra/storage/subscription"
	transactionRepo "github.com/vaidhya-health/appointment-service/internal/infra/storage/transaction"
	userRepo "github.com/vaidhya-health/appointment-service/internal/infra/storage/user"
	"github.com/vaidhya-health/appointment-service/internal/integrations/agora"
	"github.com/vaidhya-health/appointment-service/internal/integrations/fast2sms"
	"github.com/vaidhya-health/appointment-service/internal/integrations/razorpay"
	appointmentsService "github.com/vaidhya-health/appointment-service/internal/service/appointments"
	availabilityService "github.com/vaidhya-health/appointment-service/internal/service/availability"
	callsService "github.com/vaidhya-health/appointment-service/internal/service/calls"
	subscriptionsService "github.com/vaidhya-health/appointment-service/internal/service/subscriptions"
	bookAppointmentUC "github.com/vaidhya-health/appointment-service/internal/usecase/book_appointment"
	cancelAppointmentUC "github.com/vaidhya-health/appointment-service/internal/usecase/cancel_appointment"
	confirmPaymentUC "github.com/vaidhya-health/appointment-service/internal/usecase/confirm_payment"
	getAvailableSlotsUC "github.com/vaidhya-health/appointment-service/internal/usecase/get_available_slots"
	"github.com/vaidhya-health/appointment-service/pkg/dbmetrics"
	"github.com/vaidhya-health/appointment-service/pkg/logger"
	"github.com/vaidhya-health/appointment-service/pkg/metrics"
	"github.com/vaidhya-health/appointment-service/pkg/simpletxmanager"
	"github.com/vaidhya-health/appointment-service/pkg/txmanager"
)

func main() {
	// Подхватываем секреты из .env (если файл есть)
	_ = godotenv.Load()

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

	log.Info("Starting appointment-service...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

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

	// Инициализируем интеграционных клиентов
	razorpayClient := razorpay.NewClient(
		cfg.Razorpay.BaseURL,
		cfg.Razorpay.KeyID,
		cfg.Razorpay.KeySecret,
		time.Duration(cfg.Razorpay.Timeout)*time.Second,
		log,
	)
	smsClient := fast2sms.NewClient(
		cfg.Notifications.BaseURL,
		cfg.Notifications.APIKey,
		time.Duration(cfg.Notifications.Timeout)*time.Second,
		log,
	)
	tokenBuilder := agora.NewTokenBuilder(
		cfg.Agora.AppID,
		cfg.Agora.AppCertificate,
		time.Duration(cfg.Agora.TokenTTL)*time.Second,
	)
	log.Info("Integration clients initialized (Razorpay=%s timeout=%ds, Fast2SMS timeout=%ds, Agora token TTL=%ds)",
		cfg.Razorpay.BaseURL, cfg.Razorpay.Timeout, cfg.Notifications.Timeout, cfg.Agora.TokenTTL)

	// Инициализируем репозитории (с метриками или без)
	var (
		userRepository         *userRepo.Repository
		availabilityRepository *availabilityRepo.Repository
		appointmentRepository  *appointmentRepo.Repository
		transactionRepository  *transactionRepo.Repository
		subscriptionRepository *subscriptionRepo.Repository
	)

	// Интерфейс для transaction manager (используется в сервисах и usecases)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
		DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		userRepository = userRepo.NewRepository(wrappedDB)
		availabilityRepository = availabilityRepo.NewRepository(wrappedDB)
		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		transactionRepository = transactionRepo.NewRepository(wrappedDB)
		subscriptionRepository = subscriptionRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		userRepository = userRepo.NewRepository(db)
		availabilityRepository = availabilityRepo.NewRepository(db)
		appointmentRepository = appointmentRepo.NewRepository(db)
		transactionRepository = transactionRepo.NewRepository(db)
		subscriptionRepository = subscriptionRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		userRepository,
		smsClient,
		log,
	)
	availabilitySvc := availabilityService.NewService(
		availabilityRepository,
		userRepository,
		txMgr,
		log,
	)
	subscriptionsSvc := subscriptionsService.NewService(
		subscriptionRepository,
		userRepository,
		razorpayClient,
		txMgr,
		&subscriptionsService.RealTimeProvider{},
		cfg.Razorpay.KeyID,
		log,
	)
	callsSvc := callsService.NewService(
		appointmentRepository,
		tokenBuilder,
		&callsService.RealTimeProvider{},
		log,
	)

	// Инициализируем use cases
	bookAppointmentUseCase := bookAppointmentUC.NewUseCase(
		appointmentRepository,
		availabilityRepository,
		userRepository,
		razorpayClient,
		log,
	)
	confirmPaymentUseCase := confirmPaymentUC.NewUseCase(
		appointmentRepository,
		availabilityRepository,
		transactionRepository,
		userRepository,
		razorpayClient,
		smsClient,
		txMgr,
		log,
	)
	cancelAppointmentUseCase := cancelAppointmentUC.NewUseCase(
		appointmentRepository,
		availabilityRepository,
		userRepository,
		smsClient,
		txMgr,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		availabilityRepository,
		userRepository,
		log,
	)

	// Инициализируем handlers
	createAppointment := createAppointmentHandler.NewHandler(bookAppointmentUseCase, log)
	verifyPayment := verifyPaymentHandler.NewHandler(confirmPaymentUseCase, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(cancelAppointmentUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	respondAppointment := respondAppointmentHandler.NewHandler(appointmentsSvc, log)
	getCustomerAppointments := getCustomerAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getProviderAppointments := getProviderAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getAvailability := getAvailabilityHandler.NewHandler(availabilitySvc, log)
	updateAvailability := updateAvailabilityHandler.NewHandler(availabilitySvc, log)
	createSubscriptionOrder := createSubscriptionOrderHandler.NewHandler(subscriptionsSvc, log)
	verifySubscription := verifySubscriptionHandler.NewHandler(subscriptionsSvc, log)
	initializeCall := initializeCallHandler.NewHandler(callsSvc, log)
	startCall := startCallHandler.NewHandler(callsSvc, log)
	endCall := endCallHandler.NewHandler(callsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Свободные слоты врача на дату
	api.HandleFunc("/doctors/{doctorId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Текущее расписание провайдера
	api.HandleFunc("/providers/{providerId}/availability",
		getAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи на прием ---
	// Инициация записи: резерв + платежный заказ
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)

	// Получение записи по ID
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)

	// Подтверждение оплаты: коммит слота и фиксация записи
	protected.HandleFunc("/appointments/{appointmentId}/verify-payment",
		verifyPayment.Handle).Methods(http.MethodPost)

	// Отмена записи с освобождением слота
	protected.HandleFunc("/appointments/{appointmentId}/cancel",
		cancelAppointment.Handle).Methods(http.MethodPatch)

	// Ответ провайдера: подтверждение или отказ
	protected.HandleFunc("/appointments/{appointmentId}/respond",
		respondAppointment.Handle).Methods(http.MethodPatch)

	// История записей клиента
	protected.HandleFunc("/customers/{customerId}/appointments",
		getCustomerAppointments.Handle).Methods(http.MethodGet)

	// Записи провайдера
	protected.HandleFunc("/providers/{providerId}/appointments",
		getProviderAppointments.Handle).Methods(http.MethodGet)

	// --- Подписки провайдеров ---
	protected.HandleFunc("/subscriptions/order", createSubscriptionOrder.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/subscriptions/verify", verifySubscription.Handle).Methods(http.MethodPost)

	// --- Call-сессии консультаций ---
	protected.HandleFunc("/appointments/{appointmentId}/call/initialize",
		initializeCall.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}/call/start",
		startCall.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}/call/end",
		endCall.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROVIDER ROUTES (требуют активную подписку)
	// ============================================================

	provider := api.PathPrefix("").Subrouter()
	provider.Use(middleware.Auth)
	provider.Use(middleware.RequireSubscription(userRepository, log))

	// Полная замена расписания провайдера
	provider.HandleFunc("/providers/{providerId}/availability",
		updateAvailability.Handle).Methods(http.MethodPut)

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

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

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
