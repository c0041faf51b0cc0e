package messaging

import (
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jhoicas/Stock-api/pkg/config"
	"github.com/jhoicas/Stock-api/pkg/logger"
)

// RabbitMQ conexión y canal hacia el broker.
type RabbitMQ struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	log     *logger.Logger
	mu      sync.Mutex
}

// Connect abre conexión y canal y fija el prefetch.
func Connect(cfg config.RabbitMQConfig, log *logger.Logger) (*RabbitMQ, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if cfg.PrefetchCount > 0 {
		if err := ch.Qos(cfg.PrefetchCount, 0, false); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("set qos: %w", err)
		}
	}
	log.Info().Str("exchange", cfg.Exchange).Msg("conectado a RabbitMQ")
	return &RabbitMQ{conn: conn, channel: ch, log: log}, nil
}

// DeclareExchange declara un exchange topic durable.
func (r *RabbitMQ) DeclareExchange(name string) error {
	return r.channel.ExchangeDeclare(
		name,    // name
		"topic", // type
		true,    // durable
		false,   // auto-deleted
		false,   // internal
		false,   // no-wait
		nil,
	)
}

// Healthy indica si la conexión sigue abierta.
func (r *RabbitMQ) Healthy() bool {
	return r.conn != nil && !r.conn.IsClosed()
}

// Close cierra canal y conexión.
func (r *RabbitMQ) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.channel != nil {
		if err := r.channel.Close(); err != nil {
			r.log.Warn().Err(err).Msg("no se pudo cerrar el canal")
		}
	}
	if r.conn != nil && !r.conn.IsClosed() {
		if err := r.conn.Close(); err != nil {
			return fmt.Errorf("close rabbitmq: %w", err)
		}
	}
	return nil
}
