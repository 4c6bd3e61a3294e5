package chat

import (
	"sync"

	"kiu_social_server/pkg/constants"
	"kiu_social_server/pkg/errorx"
)

// ChannelBroker is the single-process broker: persisted-message envelopes
// flow through one buffered channel and are consumed by a single goroutine,
// which serializes fan-out per process.
type ChannelBroker struct {
	server    *ChatServer
	envelopes chan *DeliveryEnvelope
	quit      chan struct{}
	once      sync.Once
}

func NewChannelBroker(server *ChatServer) *ChannelBroker {
	return &ChannelBroker{
		server:    server,
		envelopes: make(chan *DeliveryEnvelope, constants.CHANNEL_SIZE),
		quit:      make(chan struct{}),
	}
}

func (b *ChannelBroker) Publish(envelope *DeliveryEnvelope) error {
	select {
	case b.envelopes <- envelope:
		return nil
	case <-b.quit:
		return errorx.New(errorx.CodeServerBusy, "message broker stopped")
	default:
		return errorx.ErrServerBusy
	}
}

func (b *ChannelBroker) Start() {
	go func() {
		for {
			select {
			case envelope := <-b.envelopes:
				b.server.handleDeliver(envelope)
			case <-b.quit:
				return
			}
		}
	}()
}

func (b *ChannelBroker) Stop() {
	b.once.Do(func() {
		close(b.quit)
	})
}
