package utils

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/brookfield-ptsa/ptsa-backend/config"
)

var kafkaWriter *kafka.Writer

// InitKafka sets up the shared writer for the announcement delivery topic.
func InitKafka(cfg *config.Config) {
	kafkaWriter = &kafka.Writer{
		Addr:         kafka.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaDeliveryTopic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
	}
	log.Printf("Kafka writer initialized for topic %s", cfg.KafkaDeliveryTopic)
}

// PublishJSON serializes payload and writes it under the given key.
func PublishJSON(ctx context.Context, key string, payload interface{}) error {
	if kafkaWriter == nil {
		log.Println("Kafka not initialized, dropping message")
		return nil
	}

	value, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return kafkaWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
	})
}

// StartConsumer runs a reader loop in its own goroutine and hands each
// message value to handle. Handler errors are logged, the loop keeps going.
func StartConsumer(cfg *config.Config, groupID string, handle func([]byte) error) {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.KafkaBrokers,
		GroupID:  groupID,
		Topic:    cfg.KafkaDeliveryTopic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})

	go func() {
		for {
			msg, err := reader.ReadMessage(context.Background())
			if err != nil {
				log.Printf("kafka read error: %v", err)
				time.Sleep(time.Second)
				continue
			}
			if err := handle(msg.Value); err != nil {
				log.Printf("kafka handler error: %v", err)
			}
		}
	}()
}
