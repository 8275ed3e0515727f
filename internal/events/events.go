package events

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	EventOrderCreated = "order.created"
	EventWaiterCalled = "waiter.called"
)

// StaffEvent is pushed to a restaurant's dashboard subscribers when a new
// order lands or a table calls a waiter. Delivery is at-most-once; a
// disconnected dashboard simply misses the cue and catches up from the
// order list.
type StaffEvent struct {
	EventType    string    `json:"event_type"`
	OccurredAt   time.Time `json:"occurred_at"`
	RestaurantID uint      `json:"restaurant_id"`
	OrderToken   string    `json:"order_token,omitempty"`
	TableNumber  string    `json:"table_number,omitempty"`
	Total        float64   `json:"total,omitempty"`
}

func OrdersTopic(restaurantID uint) string {
	return fmt.Sprintf("restaurant.%d.orders", restaurantID)
}

func WaiterTopic(restaurantID uint) string {
	return fmt.Sprintf("restaurant.%d.waiter", restaurantID)
}

type HandlerFunc func(ctx context.Context, msg []byte) error

type Publisher struct {
	conn *nats.Conn
}

func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &Publisher{conn: conn}, nil
}

func (p *Publisher) Publish(_ context.Context, topic string, msg []byte) error {
	return p.conn.Publish(topic, msg)
}

func (p *Publisher) Close() error {
	p.conn.Close()
	return nil
}

type Subscriber struct {
	conn *nats.Conn
}

func NewSubscriber(url string) (*Subscriber, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &Subscriber{conn: conn}, nil
}

func (s *Subscriber) Subscribe(ctx context.Context, topic string, handler HandlerFunc) (*nats.Subscription, error) {
	return s.conn.Subscribe(topic, func(msg *nats.Msg) {
		if err := handler(ctx, msg.Data); err != nil {
			log.Printf("Event handler failed on %s: %v\n", topic, err)
		}
	})
}

func (s *Subscriber) Close() error {
	s.conn.Close()
	return nil
}
