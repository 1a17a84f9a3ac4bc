package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"restobill/internal/domain/model"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

const (
	// 注文イベントの topic exchange
	OrdersExchange = "restobill.orders"

	RoutingKeyCompleted = "order.completed"
	RoutingKeyCancelled = "order.cancelled"
)

// AMQPPublisher は注文イベントを RabbitMQ に送る。
type AMQPPublisher struct {
	mu      sync.Mutex
	url     string
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewAMQPPublisher は接続して exchange を宣言する。
func NewAMQPPublisher(url string) (*AMQPPublisher, error) {
	p := &AMQPPublisher{url: url}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *AMQPPublisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		OrdersExchange, // name
		"topic",        // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return fmt.Errorf("declare %s exchange: %w", OrdersExchange, err)
	}

	p.conn = conn
	p.channel = ch
	return nil
}

// PublishOrderClosed は completed / cancelled でルーティングキーを分ける。
func (p *AMQPPublisher) PublishOrderClosed(ctx context.Context, ev model.OrderClosedEvent) error {
	key, err := RoutingKey(ev.Status)
	if err != nil {
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// 切れていたら1回だけつなぎ直す
	if p.conn == nil || p.conn.IsClosed() {
		if err := p.connect(); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(ctx,
		OrdersExchange, // exchange
		key,            // routing key
		false,          // mandatory
		false,          // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    ev.OrderID,
			Timestamp:    ev.ClosedAt,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", key, err)
	}

	log.Debug().Str("routing_key", key).Str("order_id", ev.OrderID).Int("size", len(body)).Msg("order event published")
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// RoutingKey は終端ステータスに対応するキー。
func RoutingKey(status model.OrderStatus) (string, error) {
	switch status {
	case model.OrderStatusCompleted:
		return RoutingKeyCompleted, nil
	case model.OrderStatusCancelled:
		return RoutingKeyCancelled, nil
	default:
		return "", fmt.Errorf("no routing key for order status %q", status)
	}
}

// NopPublisher は RABBITMQ_URL が無いときに使う。
type NopPublisher struct{}

func (NopPublisher) PublishOrderClosed(ctx context.Context, ev model.OrderClosedEvent) error {
	return nil
}

func (NopPublisher) Close() error { return nil }
