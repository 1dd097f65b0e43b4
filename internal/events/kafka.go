package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"
)

type KafkaProducer struct {
	producer sarama.SyncProducer
	topic    string
	log      zerolog.Logger
}

func NewKafkaProducer(brokers []string, topic string, log zerolog.Logger) (*KafkaProducer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Version = sarama.V2_6_0_0

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, err
	}
	return NewKafkaProducerWith(producer, topic, log), nil
}

// NewKafkaProducerWith wraps an existing producer, e.g. a sarama mock.
func NewKafkaProducerWith(producer sarama.SyncProducer, topic string, log zerolog.Logger) *KafkaProducer {
	return &KafkaProducer{producer: producer, topic: topic, log: log}
}

// Publish keys messages by order id so one order's events stay on one partition.
func (p *KafkaProducer) Publish(_ context.Context, event OrderEvent) error {
	if event.EventTime.IsZero() {
		event.EventTime = time.Now()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.OrderID),
		Value: sarama.ByteEncoder(data),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.Type)},
		},
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.log.Error().Err(err).Str("order_id", event.OrderID).Msg("failed to send order event")
		return err
	}

	p.log.Debug().
		Str("topic", p.topic).
		Int32("partition", partition).
		Int64("offset", offset).
		Str("order_id", event.OrderID).
		Str("event", event.Type).
		Msg("order event published")
	return nil
}

func (p *KafkaProducer) Close() error {
	return p.producer.Close()
}
