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
	"github.com/sendgrid/sendgrid-go"
	"github.com/twilio/twilio-go"

	createAppointmentHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/create_appointment"
	createCustomerHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/create_customer"
	deleteAppointmentHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/delete_appointment"
	deleteCustomerHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/delete_customer"
	getAppointmentHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_available_slots"
	getBookingRulesHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_booking_rules"
	getCustomerAppointmentsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_customer_appointments"
	listAppointmentsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/list_appointments"
	lookupCustomerHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/lookup_customer"
	searchCustomersHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/search_customers"
	updateCustomerHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/update_customer"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/config"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	customerRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/customer"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/emailjs"
	appointmentsService "github.com/m04kA/SMC-SalonBooking/internal/service/appointments"
	customersService "github.com/m04kA/SMC-SalonBooking/internal/service/customers"
	"github.com/m04kA/SMC-SalonBooking/internal/service/notification"
	createAppointmentUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/txmanager"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.toml"
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
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

	log.Info("Starting SMC-SalonBooking...")
	log.Info("Configuration loaded from %s", configPath)

	location, err := cfg.Salon.Location()
	if err != nil {
		log.Fatal("Invalid salon timezone %q: %v", cfg.Salon.Timezone, err)
	}
	log.Info("Salon id=%s, timezone=%s", cfg.Salon.ID, location)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
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

	// Обертка БД: при выключенных метриках работает как прозрачный прокси
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	if cfg.Metrics.Enabled {
		log.Info("Database metrics collection started")
	}

	// Инициализируем репозитории
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	customerRepository := customerRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Инициализируем каналы уведомлений
	dispatcher := notification.NewDispatcher(
		notificationChannels(cfg.Notification, log),
		time.Duration(cfg.Notification.Timeout)*time.Second,
		log,
		metricsCollector,
	)

	// Инициализируем сервисы
	customerSvc := customersService.NewService(customerRepository, txMgr, log)
	appointmentSvc := appointmentsService.NewService(
		cfg.Salon.ID,
		location,
		appointmentRepository,
		customerRepository,
		txMgr,
		log,
	)

	// Инициализируем use cases (единый серверный источник времени)
	clock := &getAvailableSlotsUC.RealTimeProvider{Location: location}

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		cfg.Salon.ID,
		location,
		appointmentRepository,
		clock,
		log,
	)
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		cfg.Salon.ID,
		location,
		appointmentRepository,
		customerSvc,
		txMgr,
		dispatcher,
		metricsCollector,
		clock,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	lookupCustomer := lookupCustomerHandler.NewHandler(customerSvc, cfg.Salon.ID, log)
	getBookingRules := getBookingRulesHandler.NewHandler(location, clock)

	listAppointments := listAppointmentsHandler.NewHandler(appointmentSvc, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	deleteAppointment := deleteAppointmentHandler.NewHandler(appointmentSvc, log)
	getCustomerAppointments := getCustomerAppointmentsHandler.NewHandler(appointmentSvc, log)
	searchCustomers := searchCustomersHandler.NewHandler(customerSvc, cfg.Salon.ID, log)
	createCustomer := createCustomerHandler.NewHandler(customerSvc, cfg.Salon.ID, log)
	updateCustomer := updateCustomerHandler.NewHandler(customerSvc, cfg.Salon.ID, log)
	deleteCustomer := deleteCustomerHandler.NewHandler(customerSvc, cfg.Salon.ID, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware и endpoint (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (форма записи)
	// ============================================================

	public := api.PathPrefix("").Subrouter()

	var redisClient *redis.Client
	if cfg.RateLimit.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RateLimit.RedisAddr,
			Password: cfg.RateLimit.RedisPassword,
		})
		trustedProxies, err := middleware.ParseTrustedProxies(cfg.RateLimit.TrustedProxies)
		if err != nil {
			log.Fatal("Invalid rate_limit.trusted_proxies: %v", err)
		}
		limiter := middleware.NewRateLimiter(
			redisClient,
			cfg.RateLimit.Limit,
			time.Duration(cfg.RateLimit.WindowSeconds)*time.Second,
			trustedProxies,
			log,
		)
		public.Use(limiter.Middleware)
		log.Info("Rate limit enabled: %d requests per %ds (redis=%s)",
			cfg.RateLimit.Limit, cfg.RateLimit.WindowSeconds, cfg.RateLimit.RedisAddr)
	}

	public.HandleFunc("/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	public.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	public.HandleFunc("/customers/lookup", lookupCustomer.Handle).Methods(http.MethodGet)
	public.HandleFunc("/booking-rules", getBookingRules.Handle).Methods(http.MethodGet)

	// ============================================================
	// ADMIN ROUTES (требуют X-Admin-Token)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminAuth(cfg.Salon.AdminToken, log))

	// --- Записи ---
	admin.HandleFunc("/appointments", listAppointments.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/appointments/{id}", getAppointment.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/appointments/{id}", deleteAppointment.Handle).Methods(http.MethodDelete)

	// --- Клиенты ---
	admin.HandleFunc("/customers/search", searchCustomers.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/customers", createCustomer.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/customers", deleteCustomer.Handle).Methods(http.MethodDelete)
	admin.HandleFunc("/customers/{id}", updateCustomer.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/customers/{id}", deleteCustomer.Handle).Methods(http.MethodDelete)
	admin.HandleFunc("/customers/{id}/appointments", getCustomerAppointments.Handle).Methods(http.MethodGet)

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

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Дожидаемся уведомлений, отправленных до остановки
	dispatcher.Close()
	log.Info("Pending notifications delivered")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Warn("Failed to close redis client: %v", err)
		}
	}

	log.Info("Server stopped gracefully")
}

// notificationChannels собирает каналы доставки по конфигурации
func notificationChannels(cfg config.NotificationConfig, log *logger.Logger) []notification.Channel {
	channels := make([]notification.Channel, 0, 2)
	timeout := time.Duration(cfg.Timeout) * time.Second

	switch cfg.EmailProvider {
	case config.EmailProviderEmailJS:
		client := emailjs.NewClient(cfg.EmailJSURL, emailjs.Credentials{
			ServiceID:  cfg.EmailJSServiceID,
			PublicKey:  cfg.EmailJSPublicKey,
			PrivateKey: cfg.EmailJSPrivateKey,
		}, timeout, log)
		channels = append(channels, notification.NewEmailJSChannel(client, map[notification.Template]string{
			notification.TemplateConfirmation: cfg.EmailJSTemplateValid,
			notification.TemplateNoEmail:      cfg.EmailJSTemplateNoEmail,
		}))
		log.Info("Notifications: EmailJS enabled (service=%s)", cfg.EmailJSServiceID)

	case config.EmailProviderSendGrid:
		client := sendgrid.NewSendClient(cfg.SendGridAPIKey)
		channels = append(channels, notification.NewSendGridChannel(
			client, cfg.SendGridFromEmail, cfg.SendGridFromName, cfg.SalonInboxEmail,
		))
		log.Info("Notifications: SendGrid enabled (inbox=%s)", cfg.SalonInboxEmail)

	default:
		log.Warn("Notifications: email provider disabled")
	}

	if cfg.SMSEnabled {
		client := twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		})
		client.SetTimeout(timeout)
		channels = append(channels, notification.NewSMSChannel(client.Api, cfg.TwilioFromNumber))
		log.Info("Notifications: Twilio SMS enabled (from=%s)", cfg.TwilioFromNumber)
	}

	return channels
}
