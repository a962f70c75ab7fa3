// Package kafka publica los eventos de ciclo de vida de los traslados en un tópico Kafka.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"

	"github.com/jhoicas/confecciones-stock/internal/application/inventory"
	"github.com/jhoicas/confecciones-stock/pkg/config"
	"github.com/jhoicas/confecciones-stock/pkg/logger"
)

var _ inventory.EventPublisher = (*Publisher)(nil)

// Publisher implementa inventory.EventPublisher sobre un SyncProducer de sarama.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

// NewPublisher conecta con los brokers configurados.
func NewPublisher(cfg config.KafkaConfig, log *logger.Logger) (*Publisher, error) {
	sc := sarama.NewConfig()
	sc.Producer.Return.Successes = true
	sc.Producer.RequiredAcks = sarama.WaitForAll
	sc.Producer.Retry.Max = 3
	sc.Producer.Timeout = 5 * time.Second

	producer, err := sarama.NewSyncProducer(cfg.Brokers, sc)
	if err != nil {
		return nil, fmt.Errorf("crear productor kafka: %w", err)
	}
	return NewPublisherWithProducer(producer, cfg.Topic, log), nil
}

// NewPublisherWithProducer usa un productor ya construido (tests con sarama/mocks).
func NewPublisherWithProducer(producer sarama.SyncProducer, topic string, log *logger.Logger) *Publisher {
	return &Publisher{producer: producer, topic: topic, log: log.Named("kafka")}
}

// transferMessage cuerpo JSON del evento.
type transferMessage struct {
	EventID      string     `json:"event_id"`
	Type         string     `json:"type"`
	OccurredAt   time.Time  `json:"occurred_at"`
	ActorID      string     `json:"actor_id"`
	TransferID   string     `json:"transfer_id"`
	ProductID    string     `json:"product_id"`
	Quantity     int64      `json:"quantity"`
	FromLocation string     `json:"from_location"`
	ToLocation   string     `json:"to_location"`
	Status       string     `json:"status"`
	InitiatedBy  string     `json:"initiated_by"`
	TransferDate time.Time  `json:"transfer_date"`
	ConfirmedBy  *string    `json:"confirmed_by,omitempty"`
	ConfirmedAt  *time.Time `json:"confirmed_at,omitempty"`
	CancelledBy  *string    `json:"cancelled_by,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
}

// Publish envía el evento con el ID del traslado como clave de partición,
// de modo que los eventos de un mismo traslado llegan en orden.
func (p *Publisher) Publish(ctx context.Context, event inventory.TransferEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t := event.Transfer
	body, err := json.Marshal(transferMessage{
		EventID:      uuid.New().String(),
		Type:         event.Type,
		OccurredAt:   event.OccurredAt.UTC(),
		ActorID:      event.ActorID,
		TransferID:   t.ID,
		ProductID:    t.ProductID,
		Quantity:     t.Quantity,
		FromLocation: t.FromLocation.String(),
		ToLocation:   t.ToLocation.String(),
		Status:       string(t.Status),
		InitiatedBy:  t.InitiatedBy,
		TransferDate: t.TransferDate.UTC(),
		ConfirmedBy:  t.ConfirmedBy,
		ConfirmedAt:  t.ConfirmedAt,
		CancelledBy:  t.CancelledBy,
		CancelledAt:  t.CancelledAt,
	})
	if err != nil {
		return fmt.Errorf("serializar evento: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(t.ID),
		Value: sarama.ByteEncoder(body),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event-type"), Value: []byte(event.Type)},
		},
	}
	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("publicar %s: %w", event.Type, err)
	}
	p.log.Debug().
		Str("topic", p.topic).
		Int32("partition", partition).
		Int64("offset", offset).
		Str("event", event.Type).
		Str("transfer_id", t.ID).
		Msg("evento publicado")
	return nil
}

// Close cierra el productor.
func (p *Publisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
