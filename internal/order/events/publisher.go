package events

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/lokamart/e-commerce-api/internal/platform/logger"
)

// OrderEvent dikirim ke queue setiap kali order dibuat, dibatalkan, atau
// berganti status. Consumer-nya (notifikasi, fulfilment) hidup di luar repo ini.
type OrderEvent struct {
	Type          string    `json:"type"` // order.created | order.status_updated | order.cancelled
	OrderID       string    `json:"orderId"`
	UserID        string    `json:"userId"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"paymentStatus"`
	TotalAmount   float64   `json:"totalAmount"`
	OccurredAt    time.Time `json:"occurredAt"`
}

const (
	TypeOrderCreated       = "order.created"
	TypeOrderStatusUpdated = "order.status_updated"
	TypeOrderCancelled     = "order.cancelled"
)

type Publisher interface {
	Publish(ctx context.Context, event OrderEvent) error
	Close()
}

type amqpPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
}

// NewAMQPPublisher membuka koneksi dan mendeklarasikan queue durable.
func NewAMQPPublisher(url, queue string) (Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	logger.Info("Connected to RabbitMQ, publishing order events to queue '%s'", queue)
	return &amqpPublisher{conn: conn, channel: ch, queue: queue}, nil
}

func (p *amqpPublisher) Publish(ctx context.Context, event OrderEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.channel.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.OccurredAt,
		Body:         body,
	})
}

func (p *amqpPublisher) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

// noopPublisher dipakai saat AMQP_URL tidak di-set; API tetap jalan tanpa broker.
type noopPublisher struct{}

func NewNoopPublisher() Publisher { return noopPublisher{} }

func (noopPublisher) Publish(ctx context.Context, event OrderEvent) error { return nil }
func (noopPublisher) Close()                                              {}
