package queue

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
)

// JSONHandler adapts a typed handler func onto the router's raw Delivery
// interface. The payload is decoded into T before the func runs; Rabbit
// redelivers on nack, so the wrapped func must tolerate repeats.
type JSONHandler[T any] struct {
	HandleFunc func(ctx context.Context, msg T) error
}

func (h JSONHandler[T]) Handle(ctx context.Context, d amqp.Delivery) error {
	var msg T
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		return err
	}
	return h.HandleFunc(ctx, msg)
}
