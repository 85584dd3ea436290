package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"gorm.io/gorm"

	_ "github.com/stawicover/agency-api/docs"
	claimdomain "github.com/stawicover/agency-api/internal/claim/domain"
	claimhandler "github.com/stawicover/agency-api/internal/claim/handler"
	claimrepo "github.com/stawicover/agency-api/internal/claim/repository"
	"github.com/stawicover/agency-api/internal/consultation"
	"github.com/stawicover/agency-api/internal/dashboard"
	"github.com/stawicover/agency-api/internal/diaspora"
	"github.com/stawicover/agency-api/internal/middleware"
	"github.com/stawicover/agency-api/internal/outsourcing"
	"github.com/stawicover/agency-api/internal/payment"
	"github.com/stawicover/agency-api/internal/payment/daraja"
	paymentdomain "github.com/stawicover/agency-api/internal/payment/domain"
	paymenthandler "github.com/stawicover/agency-api/internal/payment/handler"
	"github.com/stawicover/agency-api/internal/quote"
	"github.com/stawicover/agency-api/internal/resource"
	userdomain "github.com/stawicover/agency-api/internal/user/domain"
	userhandler "github.com/stawicover/agency-api/internal/user/handler"
	userrepo "github.com/stawicover/agency-api/internal/user/repository"
	"github.com/stawicover/agency-api/kafka"
	"github.com/stawicover/agency-api/pkg/database"
	"github.com/stawicover/agency-api/pkg/logger"
	"github.com/stawicover/agency-api/pkg/tracing"
)

func main() {
	serviceName := getEnv("OTEL_SERVICE_NAME", "agency-api")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)
	logger.SetLevel(getEnv("LOG_LEVEL", "info"))

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", getEnv("ENVIRONMENT", "development")).
		Msg("Starting agency API")

	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	dbConfig := database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "agencydb"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	db, err := database.NewGormConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	if err := db.AutoMigrate(
		&paymentdomain.Payment{},
		&claimdomain.Claim{},
		&quote.Quote{},
		&consultation.Consultation{},
		&outsourcing.Request{},
		&diaspora.Request{},
		&resource.Resource{},
		&userdomain.User{},
	); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}
	logger.Logger.Info().Msg("Database initialized successfully")

	redisClient := newRedisClient()
	publisher := newKafkaPublisher()
	if publisher != nil {
		defer publisher.Close()
	}

	darajaClient := newDarajaClient(redisClient)

	paymentHandler, err := payment.InitializeHandler(db, darajaClient, publisher)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize payment handler")
	}

	httpPort := getEnv("HTTP_PORT", "8080")
	startHTTPServer(db, sqlDB, redisClient, paymentHandler, httpPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")
}

func newRedisClient() *redis.Client {
	redisAddr := getEnv("REDIS_ADDR", "localhost:6379")
	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Logger.Warn().
			Err(err).
			Str("redis_addr", redisAddr).
			Msg("Failed to connect to Redis - token and dashboard caching disabled")
		return nil
	}
	return client
}

func newKafkaPublisher() *kafka.Publisher {
	brokers := getEnv("KAFKA_BROKERS", "")
	if brokers == "" {
		logger.Logger.Warn().Msg("KAFKA_BROKERS not set - payment events disabled")
		return nil
	}

	publisher, err := kafka.NewPublisher([]string{brokers})
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Failed to connect to Kafka - payment events disabled")
		return nil
	}
	return publisher
}

func newDarajaClient(redisClient *redis.Client) *daraja.Client {
	cfg := daraja.ConfigFromEnv()

	var opts []daraja.Option
	if redisClient != nil {
		opts = append(opts, daraja.WithTokenCache(daraja.NewTokenCache(redisClient)))
	}
	return daraja.NewClient(cfg, opts...)
}

func startHTTPServer(db *gorm.DB, sqlDB *sql.DB, redisClient *redis.Client, paymentHandler *paymenthandler.PaymentHandler, port string) {
	router := mux.NewRouter()

	router.Use(middleware.Logging)
	router.Use(middleware.Metrics)
	router.Use(func(next http.Handler) http.Handler {
		return middleware.Tracing("agency-api", next)
	})

	paymentHandler.RegisterRoutes(router)
	paymentHandler.RegisterHealthCheck(router, sqlDB)
	paymenthandler.RegisterSwaggerDocs(router, httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	claimhandler.NewClaimHandler(claimrepo.NewGormClaimRepository(db)).RegisterRoutes(router)
	quote.NewHandler(quote.NewService(quote.NewGormRepository(db))).RegisterRoutes(router)
	consultation.NewHandler(consultation.NewService(consultation.NewGormRepository(db))).RegisterRoutes(router)
	outsourcing.NewHandler(outsourcing.NewService(outsourcing.NewGormRepository(db))).RegisterRoutes(router)
	diaspora.NewHandler(diaspora.NewService(diaspora.NewGormRepository(db))).RegisterRoutes(router)
	resource.NewHandler(resource.NewService(resource.NewGormRepository(db))).RegisterRoutes(router)
	dashboard.NewHandler(dashboard.NewService(dashboard.NewGormRepository(db), redisClient)).RegisterRoutes(router)
	userhandler.NewUserHandler(userrepo.NewGormUserRepository(db)).RegisterRoutes(router)

	router.Handle("/metrics", promhttp.Handler())

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{getEnv("CORS_ALLOWED_ORIGINS", "*")},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	logger.Logger.Info().
		Str("port", port).
		Str("metrics_endpoint", "/metrics").
		Msg("HTTP server started")

	go func() {
		if err := http.ListenAndServe(":"+port, c.Handler(router)); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
