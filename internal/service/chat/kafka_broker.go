package chat

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"kiu_social_server/internal/config"
	"kiu_social_server/pkg/errorx"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaBroker routes persisted-message envelopes through a Kafka topic so a
// multi-process deployment delivers consistently. Every process reads the
// full topic with a plain partition reader: each needs every envelope for
// its own local connections, and the row was written before publishing, so
// redundant consumption never duplicates persistence. Only send_message
// traffic crosses the broker; room membership and typing stay process-local.
type KafkaBroker struct {
	server *ChatServer
	writer *kafka.Writer
	reader *kafka.Reader
	cancel context.CancelFunc
	once   sync.Once
	wg     sync.WaitGroup
}

func NewKafkaBroker(server *ChatServer) *KafkaBroker {
	conf := config.GetConfig().KafkaConfig
	writer := &kafka.Writer{
		Addr:         kafka.TCP(conf.HostPort),
		Topic:        conf.ChatTopic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: time.Duration(conf.Timeout) * time.Second,
		RequiredAcks: kafka.RequireOne,
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:   []string{conf.HostPort},
		Topic:     conf.ChatTopic,
		Partition: conf.Partition,
		MinBytes:  1,
		MaxBytes:  10e6,
	})
	return &KafkaBroker{
		server: server,
		writer: writer,
		reader: reader,
	}
}

func (b *KafkaBroker) Publish(envelope *DeliveryEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return errorx.Wrap(err, errorx.CodeServerBusy, "marshal envelope failed")
	}
	err = b.writer.WriteMessages(context.Background(), kafka.Message{
		Key:   []byte(envelope.SenderId),
		Value: payload,
	})
	if err != nil {
		return errorx.Wrap(err, errorx.CodeServerBusy, "write to kafka failed")
	}
	return nil
}

func (b *KafkaBroker) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for {
			message, err := b.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				zap.L().Error("kafka read failed", zap.Error(err))
				continue
			}
			var envelope DeliveryEnvelope
			if err := json.Unmarshal(message.Value, &envelope); err != nil || envelope.Message == nil {
				zap.L().Warn("malformed kafka envelope", zap.Error(err))
				continue
			}
			b.server.handleDeliver(&envelope)
		}
	}()
}

func (b *KafkaBroker) Stop() {
	b.once.Do(func() {
		if b.cancel != nil {
			b.cancel()
		}
		b.wg.Wait()
		if err := b.writer.Close(); err != nil {
			zap.L().Warn("close kafka writer failed", zap.Error(err))
		}
		if err := b.reader.Close(); err != nil {
			zap.L().Warn("close kafka reader failed", zap.Error(err))
		}
	})
}
