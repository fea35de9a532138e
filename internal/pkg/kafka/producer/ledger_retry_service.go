package producer

import (
	"context"
	"fmt"

	"sahakari/bachatgat_ledger/configs"
	"sahakari/bachatgat_ledger/internal/pkg/common"
	"sahakari/bachatgat_ledger/internal/pkg/logger"
	"sahakari/bachatgat_ledger/internal/pkg/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LedgerStoreInterface interface {
	FindUnpublished(ctx context.Context, windowHours int) ([]models.WalletTransaction, error)
	MarkPublished(ctx context.Context, id primitive.ObjectID) error
}

// LedgerRetryService re-publishes ledger entries whose Kafka delivery
// failed at write time. Publication is at-least-once: the flag flips only
// after a confirmed send, so a crash between send and flip re-sends.
type LedgerRetryService struct {
	ledgerStore LedgerStoreInterface
}

func NewLedgerRetryService(ledgerStore LedgerStoreInterface) *LedgerRetryService {
	return &LedgerRetryService{ledgerStore: ledgerStore}
}

func (ls *LedgerRetryService) RetryLedgerEvents(ctx context.Context) ([]string, []string, error) {
	if KafkaProducer == nil {
		p, err := NewKafkaProducer(configs.KAFKA_SERVER, configs.KAFKA_TOPIC)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create kafka producer: %w", err)
		}
		KafkaProducer = p
	}

	entries, err := ls.ledgerStore.FindUnpublished(ctx, configs.KAFKA_RETRY_WINDOW_HOURS)
	if err != nil {
		return nil, nil, err
	}
	if len(entries) == 0 {
		return nil, nil, fmt.Errorf("no unpublished ledger entries in the window")
	}

	messages := make(map[string][]byte, len(entries))
	for _, entry := range entries {
		payload, err := common.SerializeLedgerEvent(entry)
		if err != nil {
			logger.Error(ctx, "failed to serialize ledger entry %s: %v", entry.ID.Hex(), err)
			continue
		}
		messages[entry.ID.Hex()] = payload
	}

	successIDs, failedIDs := SendMessageBatch(ctx, KafkaProducer, messages, 2)

	var flagFailures []string
	for _, idHex := range successIDs {
		id, err := primitive.ObjectIDFromHex(idHex)
		if err != nil {
			continue
		}
		if err := ls.ledgerStore.MarkPublished(ctx, id); err != nil {
			flagFailures = append(flagFailures, idHex)
		}
	}
	if len(flagFailures) > 0 {
		return successIDs, failedIDs, fmt.Errorf("error updating kafka flag for transactions %v", flagFailures)
	}
	return successIDs, failedIDs, nil
}
