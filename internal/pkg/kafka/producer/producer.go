package producer

import (
	"context"
	"time"

	"sahakari/bachatgat_ledger/configs"
	"sahakari/bachatgat_ledger/internal/pkg/logger"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

type Producer struct {
	producer *kafka.Producer
	topic    string
}

var KafkaProducer *Producer

func NewKafkaProducer(broker, topic string) (*Producer, error) {
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":  broker,
		"security.protocol":  configs.KAFKA_SECURITY_PROTOCOL,
		"sasl.mechanisms":    configs.KAFKA_SASL_MECHANISM,
		"sasl.username":      configs.KAFKA_SASL_USERNAME,
		"sasl.password":      configs.KAFKA_SASL_PASSWORD,
		"session.timeout.ms": configs.KAFKA_SESSION_TIMEOUT_MS,
		"client.id":          configs.KAFKA_CLIENT_ID,
		"log_level":          0,
	})
	if err != nil {
		return nil, err
	}
	return &Producer{producer: p, topic: topic}, nil
}

// Publish sends one ledger event keyed by its transaction id so consumers
// see all events of one entry in order.
func (p *Producer) Publish(ctx context.Context, key string, payload []byte) error {
	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &p.topic, Partition: kafka.PartitionAny},
		Key:            []byte(key),
		Value:          payload,
	}
	if err := p.producer.Produce(msg, nil); err != nil {
		return err
	}
	return nil
}

// SendMessageBatch publishes a batch with per-message retry and backoff,
// returning the transaction ids that made it out and the ones that did not.
func SendMessageBatch(ctx context.Context, kafkaProducer *Producer, messages map[string][]byte, retryCount int) ([]string, []string) {
	var successIDs []string
	var failedIDs []string

	for key, payload := range messages {
		success := false
		for attempt := 0; attempt <= retryCount; attempt++ {
			err := kafkaProducer.Publish(ctx, key, payload)
			if err == nil {
				success = true
				break
			}
			logger.Error(ctx, "failed to send kafka message on attempt %d: %v", attempt+1, err)
			time.Sleep(time.Second * time.Duration(attempt+1))
		}
		if success {
			successIDs = append(successIDs, key)
		} else {
			failedIDs = append(failedIDs, key)
		}
	}

	kafkaProducer.producer.Flush(15 * 1000)
	return successIDs, failedIDs
}

func (p *Producer) Close() {
	p.producer.Close()
}
