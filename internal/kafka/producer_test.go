package kafka

import (
	"context"
	"testing"
)

func TestProducerShutdownFlush(t *testing.T) {
	p := NewProducer([]string{"127.0.0.1:9"}, 4)

	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)

	// cancel with an empty inbox: the loop drains, closes the writer and
	// signals closeCh without touching the network
	cancel()
	p.WaitClosed()
}

func TestProducerCloseFlush(t *testing.T) {
	p := NewProducer([]string{"127.0.0.1:9"}, 4)
	p.Start(context.Background())

	p.Close()
	p.WaitClosed()
}
