package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/iol-platform/logistics-service/internal/api/handlers"
	"github.com/iol-platform/logistics-service/internal/application"
	"github.com/iol-platform/logistics-service/internal/infrastructure/events"
	mongoRepo "github.com/iol-platform/logistics-service/internal/infrastructure/mongodb"
	"github.com/iol-platform/logistics-service/internal/infrastructure/peers"
	"github.com/iol-platform/logistics-service/internal/notification"
	"github.com/iol-platform/logistics-service/pkg/kafka"
	"github.com/iol-platform/logistics-service/pkg/logging"
	"github.com/iol-platform/logistics-service/pkg/metrics"
	"github.com/iol-platform/logistics-service/pkg/middleware"
	"github.com/iol-platform/logistics-service/pkg/mongodb"
	"github.com/iol-platform/logistics-service/pkg/tracing"
)

const serviceName = "logistics-service"

func main() {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)

	if err := run(context.Background(), loadConfig(), signalCh); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, config *Config, signalCh <-chan os.Signal) error {
	logConfig := logging.DefaultConfig(serviceName)
	logConfig.Level = logging.LogLevel(getEnv("LOG_LEVEL", "info"))
	logger := logging.New(logConfig)
	logger.SetDefault()

	logger.Info("Starting logistics-service API")

	tracingConfig := tracing.DefaultConfig(serviceName)
	tracingConfig.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	tracingConfig.Environment = getEnv("ENVIRONMENT", "development")
	tracingConfig.Enabled = getEnv("TRACING_ENABLED", "false") == "true"

	tracerProvider, err := tracing.Initialize(ctx, tracingConfig)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize tracing")
		// Continue without tracing
	} else if tracerProvider != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
				logger.WithError(err).Error("Failed to shutdown tracer")
			}
		}()
		logger.Info("Tracing initialized", "endpoint", tracingConfig.OTLPEndpoint)
	}

	m := metrics.New(metrics.DefaultConfig(serviceName))
	logger.Info("Metrics initialized")

	mongoClient, err := mongodb.NewClient(ctx, config.MongoDB)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to MongoDB")
		return fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	defer mongoClient.Close(ctx)
	logger.Info("Connected to MongoDB", "database", config.MongoDB.Database)

	db := mongoClient.Database()
	companyRepo := mongoRepo.NewCompanyRepository(db, m)
	loRepo := mongoRepo.NewLogisticsObjectRepository(db, m)
	inboundRepo := mongoRepo.NewInboundRepository(db, m)
	userRepo := mongoRepo.NewUserRepository(db, m)

	var publisher *events.Publisher
	if config.KafkaEnabled {
		producer := kafka.NewProducer(config.Kafka)
		defer producer.Close()
		publisher = events.NewPublisher(producer, m, logger, "/"+serviceName)
		logger.Info("Kafka producer initialized", "brokers", config.Kafka.Brokers)
	} else {
		logger.Info("Kafka publishing disabled")
	}

	gateway := peers.NewGateway(&peers.Config{Timeout: config.PeerTimeout}, logger, m)
	dispatcher := notification.NewDispatcher(companyRepo, gateway, logger, config.PeerTimeout)

	loService := application.NewLogisticsObjectService(loRepo, companyRepo, dispatcher, eventPublisher(publisher), m, logger, config.BaseURL)
	companyService := application.NewCompanyService(companyRepo, loRepo, eventPublisher(publisher), logger)
	subscriptionService := application.NewSubscriptionService(inboundRepo, eventPublisher(publisher), m, logger, application.ServerIdentity{
		BaseURL:            config.BaseURL,
		CompanyName:        config.CompanyName,
		IATACargoAgentCode: config.IATACargoAgentCode,
		SubscriptionSecret: config.SubscriptionSecret,
		CacheFor:           config.CacheFor,
	})
	authService := application.NewAuthService(userRepo, companyRepo, logger, config.JWTSecret, config.TokenTTL)

	router := gin.New()
	middleware.Setup(router, middleware.DefaultConfig(serviceName, logger.Logger))
	router.Use(middleware.MetricsMiddleware(m))

	router.GET("/health", middleware.HealthCheck(serviceName))
	router.GET("/ready", middleware.ReadinessCheck(serviceName, func() error {
		return mongoClient.HealthCheck(ctx)
	}))
	router.GET("/metrics", middleware.MetricsEndpoint(m))

	companies := router.Group("/companies")

	handlers.NewCompanyHandlers(companyService, logger).RegisterRoutes(companies, authService, config.ServerOwnSecret)
	handlers.NewLogisticsObjectHandlers(loService, logger).RegisterRoutes(companies, authService)
	handlers.NewUserHandlers(authService, logger).RegisterRoutes(router, companies)
	handlers.NewSubscriptionHandlers(subscriptionService, logger, handlers.SubscriptionSecrets{
		SubscriptionSecret:      config.SubscriptionSecret,
		ServerOwnSecret:         config.ServerOwnSecret,
		KeyForServerInformation: config.KeyForServerInformation,
	}).RegisterRoutes(router)

	srv := &http.Server{
		Addr:         config.ServerAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", "error", err)
		}
	}()
	logger.Info("Server started", "addr", config.ServerAddr, "baseUrl", config.BaseURL)

	select {
	case <-signalCh:
	case <-ctx.Done():
	}
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	dispatcher.Wait()

	logger.Info("Server stopped")
	return nil
}

// eventPublisher keeps the application layer's nil check meaningful when
// Kafka is disabled: a typed nil pointer must not masquerade as a non-nil
// interface value.
func eventPublisher(p *events.Publisher) application.EventPublisher {
	if p == nil {
		return nil
	}
	return p
}

// Config holds application configuration
type Config struct {
	ServerAddr string
	BaseURL    string

	MongoDB      *mongodb.Config
	Kafka        *kafka.Config
	KafkaEnabled bool

	PeerTimeout time.Duration

	ServerOwnSecret         string
	SubscriptionSecret      string
	KeyForServerInformation string

	JWTSecret string
	TokenTTL  time.Duration

	CompanyName        string
	IATACargoAgentCode string
	CacheFor           int
}

func loadConfig() *Config {
	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8080"),
		BaseURL:    getEnv("BASE_URL", "http://localhost:8080"),
		MongoDB: &mongodb.Config{
			URI:            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database:       getEnv("MONGODB_DATABASE", "iol"),
			ConnectTimeout: 10 * time.Second,
			MaxPoolSize:    100,
			MinPoolSize:    10,
		},
		Kafka: &kafka.Config{
			Brokers:      []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			ClientID:     serviceName,
			BatchSize:    100,
			BatchTimeout: 10 * time.Millisecond,
			RequiredAcks: -1,
		},
		KafkaEnabled: getEnv("KAFKA_ENABLED", "false") == "true",

		PeerTimeout: getDurationEnv("PEER_TIMEOUT", 10*time.Second),

		ServerOwnSecret:         getEnv("SERVER_OWN_SECRET", ""),
		SubscriptionSecret:      getEnv("SUBSCRIPTION_SECRET", ""),
		KeyForServerInformation: getEnv("KEY_FOR_SERVER_INFORMATION", ""),

		JWTSecret: getEnv("JWT_SECRET", ""),
		TokenTTL:  getDurationEnv("TOKEN_TTL", time.Hour),

		CompanyName:        getEnv("COMPANY_NAME", "TCF playground"),
		IATACargoAgentCode: getEnv("IATA_CARGO_AGENT_CODE", ""),
		CacheFor:           getIntEnv("CACHE_FOR", 86400),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
