package changefeed

import (
	"strings"

	wkafka "github.com/ThreeDotsLabs/watermill-kafka/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/code19m/errx"
	"github.com/rise-and-shine/docrepo/logger"
)

// KafkaConfig configures the Kafka publisher of the change feed.
type KafkaConfig struct {
	// Brokers is a comma separated list of broker addresses.
	Brokers  string `yaml:"brokers"   validate:"required"`
	ClientID string `yaml:"client_id"                     default:"docrepo"`
}

// NewKafkaPublisher returns a synchronous Kafka publisher. Events of one collection
// share a partition, so consumers see them in write order.
func NewKafkaPublisher(cfg KafkaConfig, log logger.Logger) (message.Publisher, error) {
	saramaCfg := wkafka.DefaultSaramaSyncPublisherConfig()
	saramaCfg.ClientID = cfg.ClientID

	marshaler := wkafka.NewWithPartitioningMarshaler(func(_ string, msg *message.Message) (string, error) {
		key := msg.Metadata.Get(partitionKey)
		if key == "" {
			return "", errx.New("partition key is empty", errx.WithDetails(errx.D{"message_uuid": msg.UUID}))
		}
		return key, nil
	})

	publisher, err := wkafka.NewPublisher(
		strings.Split(cfg.Brokers, ","), marshaler, saramaCfg, NewLoggerAdapter(log.Named("changefeed.kafka")),
	)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	return publisher, nil
}
