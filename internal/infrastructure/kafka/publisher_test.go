package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/confecciones-stock/internal/application/inventory"
	"github.com/jhoicas/confecciones-stock/internal/domain/entity"
	"github.com/jhoicas/confecciones-stock/internal/infrastructure/kafka"
	"github.com/jhoicas/confecciones-stock/pkg/logger"
)

func sampleEvent() inventory.TransferEvent {
	return inventory.TransferEvent{
		Type:       inventory.EventTransferInitiated,
		OccurredAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		ActorID:    "user-1",
		Transfer: entity.TransferRecord{
			ID:           "tr-1",
			ProductID:    "prod-1",
			Quantity:     30,
			FromLocation: entity.LocationManufacturing,
			ToLocation:   entity.LocationWholesale,
			Status:       entity.TransferStatusPending,
			InitiatedBy:  "user-1",
			TransferDate: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		},
	}
}

func TestPublisher_Publish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, sarama.NewConfig())
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var body map[string]any
		if err := json.Unmarshal(val, &body); err != nil {
			return err
		}
		if body["type"] != inventory.EventTransferInitiated {
			return fmt.Errorf("type inesperado: %v", body["type"])
		}
		if body["transfer_id"] != "tr-1" || body["to_location"] != "wholesale" {
			return fmt.Errorf("cuerpo inesperado: %v", body)
		}
		return nil
	})

	p := kafka.NewPublisherWithProducer(producer, "inventory.transfers", logger.Nop())
	require.NoError(t, p.Publish(context.Background(), sampleEvent()))
	require.NoError(t, p.Close())
}

func TestPublisher_PublishError(t *testing.T) {
	producer := mocks.NewSyncProducer(t, sarama.NewConfig())
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := kafka.NewPublisherWithProducer(producer, "inventory.transfers", logger.Nop())
	err := p.Publish(context.Background(), sampleEvent())
	assert.True(t, errors.Is(err, sarama.ErrOutOfBrokers))
	require.NoError(t, p.Close())
}

func TestPublisher_ContextoCancelado(t *testing.T) {
	producer := mocks.NewSyncProducer(t, sarama.NewConfig())
	p := kafka.NewPublisherWithProducer(producer, "inventory.transfers", logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Publish(ctx, sampleEvent()), context.Canceled)
	require.NoError(t, p.Close())
}
