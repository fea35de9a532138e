package main

import (
	"context"
	"log"
	"strconv"

	"sahakari/bachatgat_ledger/configs"
	"sahakari/bachatgat_ledger/internal/app/router"
	"sahakari/bachatgat_ledger/internal/pkg/db"
	"sahakari/bachatgat_ledger/internal/pkg/kafka/producer"
	"sahakari/bachatgat_ledger/internal/pkg/logger"
	"sahakari/bachatgat_ledger/internal/pkg/otel"
	"sahakari/bachatgat_ledger/internal/pkg/redis"
	"sahakari/bachatgat_ledger/internal/pkg/utils/worker"
)

func main() {

	// Load Environment Variables
	err := configs.LoadEnv()
	if err != nil {
		logger.Debug("Error loading .env file: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	//setup otel collector
	_, err = otel.Setup(ctx, configs.SERVICE_NAME, configs.OTEL_URL)
	if err != nil {
		logger.Error(ctx, "Error setting up OTLP: %v", err)
	}

	// DB Connection
	mdb, dbErr := db.NewMongoDB()
	if dbErr != nil {
		log.Fatalf("Error connecting to MongoDB: %v", dbErr)
	}
	db.MDB = mdb
	defer mdb.Close()

	db.EnsureIndexes()

	kafkaProducer, err := producer.NewKafkaProducer(configs.KAFKA_SERVER, configs.KAFKA_TOPIC)
	if err != nil {
		logger.Error(ctx, "failed to create Kafka Producer error: %v", err)
	} else {
		logger.Info(ctx, "Kafka Producer Created")
		producer.KafkaProducer = kafkaProducer
		defer kafkaProducer.Close()
	}

	numberOfWorkers, er := strconv.Atoi(configs.WORKER_POOL)
	if er != nil {
		logger.Error(ctx, "invalid WORKER_POOL value: %v", er)
		numberOfWorkers = 5
	}

	// Connect to Redis
	redisClient, err := redis.ConnectToRedis(ctx, configs.GetRedisConfig(), nil)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	workerPool := worker.NewWorkerPool(numberOfWorkers)
	defer workerPool.Stop()

	r := router.SetupRouter(workerPool, redisClient.Client)

	port := configs.SERVER_PORT

	if err := r.Run(":" + port); err != nil {
		logger.Error(ctx, "Failed to run server: %v", err)
	}
}
