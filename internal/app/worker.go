package app

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"defisalary/internal/employee"
	"defisalary/internal/messaging/kafka"
	"defisalary/internal/messaging/kafka/producer"
	"defisalary/internal/pricefeed"
	"defisalary/internal/shared/connection"
	"defisalary/internal/treasury"
	"defisalary/internal/upkeep"

	"go.uber.org/zap"
)

// The automation loop signs its settlements with this address when no
// operator identity is configured.
const defaultWorkerCaller = "0x0000000000000000000000000000000000000000"

// RunWorker starts the background half of the ledger: the outbox poller
// that ships staged notifications to Kafka, and the upkeep runner that
// settles due salaries on a timer.
func RunWorker() error {
	logger := zap.L().Named("worker")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}
	logger.Info("database connection established")

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}

	kafkaWriter, err := connection.ConnectKafkaWithRetry(os.Getenv("KAFKA_BROKER"), 5)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()
	logger.Info("kafka connection established")

	outboxRepo := kafka.NewOutboxRepository(sqlDB)
	employeeRepo := employee.NewRepository(gormDB)
	treasuryRepo := treasury.NewRepository(gormDB)
	upkeepRepo := upkeep.NewRepository(gormDB)

	priceService := pricefeed.NewService(feedFromEnv(), redisClient)
	transferor := treasury.NewTransferor(treasuryRepo)
	upkeepService := upkeep.NewService(sqlDB, upkeepRepo, employeeRepo, priceService, transferor, outboxRepo, nil)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go producer.ProcessOutboxEvents(
		ctx,
		outboxRepo,
		kafkaWriter,
		zap.L(),
		durationFromEnv("OUTBOX_POLL_INTERVAL_SECONDS", 3*time.Second),
	)

	callerAddress := os.Getenv("WORKER_CALLER_ADDRESS")
	if callerAddress == "" {
		callerAddress = defaultWorkerCaller
	}

	go upkeep.RunLoop(
		ctx,
		upkeepService,
		callerAddress,
		durationFromEnv("UPKEEP_POLL_INTERVAL_SECONDS", time.Minute),
		zap.L(),
	)

	<-ctx.Done()
	logger.Info("worker shutting down")
	return nil
}

func durationFromEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}
