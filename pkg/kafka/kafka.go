package kafka

import (
	"time"

	"github.com/IBM/sarama"
)

const BooksTopic = "books"

type Config struct {
	Addrs []string `envconfig:"KAFKA_ADDRS" default:"localhost:9092"`
	// ClientID identifies the producer in broker logs.
	ClientID string        `envconfig:"KAFKA_CLIENT_ID" default:"bookstore"`
	Timeout  time.Duration `envconfig:"KAFKA_TIMEOUT" default:"5s"`
}

func NewProducerConfig(cfg Config) *sarama.Config {
	defaultCfg := sarama.NewConfig()
	defaultCfg.ClientID = cfg.ClientID

	defaultCfg.Producer.RequiredAcks = sarama.WaitForAll
	defaultCfg.Producer.Return.Successes = true
	defaultCfg.Producer.Partitioner = sarama.NewHashPartitioner
	defaultCfg.Producer.Retry.Max = 3
	if cfg.Timeout > 0 {
		defaultCfg.Producer.Timeout = cfg.Timeout
		defaultCfg.Net.DialTimeout = cfg.Timeout
	}
	return defaultCfg
}

func NewProducer(cfg Config) (sarama.SyncProducer, error) {
	return sarama.NewSyncProducer(cfg.Addrs, NewProducerConfig(cfg))
}
