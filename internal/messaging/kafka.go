package messaging

import (
	"context"
	"fmt"

	"github.com/Shopify/sarama"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog/log"
)

const partitionKeyMetadata = "partition_key"

// Kafka publishes through a watermill publisher. In production that is the
// synchronous watermill-kafka publisher, which returns after all in-sync
// replicas acknowledged the write.
type Kafka struct {
	publisher message.Publisher
}

func NewKafka(brokers []string, logger watermill.LoggerAdapter) (*Kafka, error) {
	saramaCfg := kafka.DefaultSaramaSyncPublisherConfig()
	saramaCfg.Producer.RequiredAcks = sarama.WaitForAll

	pub, err := kafka.NewPublisher(
		kafka.PublisherConfig{
			Brokers:               brokers,
			Marshaler:             kafka.NewWithPartitioningMarshaler(partitionKey),
			OverwriteSaramaConfig: saramaCfg,
		},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
	}

	log.Info().Strs("brokers", brokers).Msg("Connected to Kafka")

	return NewKafkaWithPublisher(pub), nil
}

func NewKafkaWithPublisher(pub message.Publisher) *Kafka {
	return &Kafka{publisher: pub}
}

func partitionKey(_ string, msg *message.Message) (string, error) {
	return msg.Metadata.Get(partitionKeyMetadata), nil
}

func (k *Kafka) Publish(ctx context.Context, topic string, msg Message) error {
	m := message.NewMessage(msg.ID, msg.Body)
	m.SetContext(ctx)
	for key, v := range msg.Headers {
		m.Metadata.Set(key, v)
	}
	m.Metadata.Set(partitionKeyMetadata, msg.Key)

	if err := k.publisher.Publish(topic, m); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	log.Ctx(ctx).Debug().Str("topic", topic).Str("message_id", msg.ID).Msg("Message published")
	return nil
}

func (k *Kafka) Close() error {
	return k.publisher.Close()
}
