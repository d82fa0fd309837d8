package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/votecnp/election-api/internal/config"
)

// NewPublisher returns a Kafka publisher, or a publisher that drops events
// when no brokers are configured.
func NewPublisher(conf *config.KafkaConfig) (Publisher, error) {
	if conf == nil || len(conf.Brokers) == 0 {
		zap.L().Info("kafka brokers not configured, domain events are dropped")
		return NopPublisher{}, nil
	}

	producer, err := NewSyncProducer(conf.Brokers, conf.ClientID)
	if err != nil {
		return nil, fmt.Errorf("NewSyncProducer -> %w", err)
	}

	return NewKafkaPublisher(producer, conf.Topic), nil
}

func NewSyncProducer(brokers []string, clientID string) (sarama.SyncProducer, error) {
	conf := sarama.NewConfig()
	conf.Producer.RequiredAcks = sarama.WaitForAll
	conf.Producer.Retry.Max = 5
	conf.Producer.Return.Successes = true
	conf.Producer.Compression = sarama.CompressionSnappy
	conf.Producer.Partitioner = sarama.NewHashPartitioner
	conf.Version = sarama.V2_0_0_0
	conf.ClientID = clientID

	return sarama.NewSyncProducer(brokers, conf)
}

type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

func NewKafkaPublisher(producer sarama.SyncProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		producer: producer,
		topic:    topic,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, evt Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	value, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("json.Marshal -> %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(evt.Key),
		Value: sarama.ByteEncoder(value),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event-type"), Value: []byte(evt.Type)},
		},
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("p.producer.SendMessage -> %w", err)
	}

	zap.L().Debug("event published",
		zap.String("type", string(evt.Type)),
		zap.String("key", evt.Key),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset),
	)

	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
