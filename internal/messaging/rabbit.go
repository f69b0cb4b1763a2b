// internal/messaging/rabbit.go
package messaging

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/streadway/amqp"

	"punchease/internal/metrics"
	"punchease/internal/model"
)

type RabbitClient struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	URL     string
}

func NewRabbitClient(url string) (*RabbitClient, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	return &RabbitClient{
		conn:    conn,
		channel: ch,
		URL:     url,
	}, nil
}

func (r *RabbitClient) GetChannel() *amqp.Channel {
	return r.channel
}

func (r *RabbitClient) GetConnection() *amqp.Connection {
	return r.conn
}

// ChangeQueueName returns the durable change queue for a company.
func ChangeQueueName(companyID string) string {
	return fmt.Sprintf("company_%s_changes", companyID)
}

// DeclareQueues creates a company's durable change queue and its DLQ
func (r *RabbitClient) DeclareQueues(companyID string) error {
	queueName := ChangeQueueName(companyID)
	dlqName := fmt.Sprintf("company_%s_dlq", companyID)

	// 1. DLQ
	_, err := r.channel.QueueDeclare(
		dlqName,
		true, false, false, false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare DLQ: %w", err)
	}

	// 2. Change queue with DLQ binding
	args := amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": dlqName,
	}
	_, err = r.channel.QueueDeclare(
		queueName,
		true, false, false, false,
		args,
	)
	if err != nil {
		return fmt.Errorf("declare change queue: %w", err)
	}

	log.Printf("[Rabbit] Queues declared for company %s", companyID)
	return nil
}

// Publish sends a raw message to the company's change queue
func (r *RabbitClient) Publish(companyID string, body []byte) error {
	queueName := ChangeQueueName(companyID)
	err := r.channel.Publish(
		"",        // default exchange
		queueName, // routing key (queue name)
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish to queue %s: %w", queueName, err)
	}
	return nil
}

// PublishChange serializes a change event onto its company's queue.
// Every committed mutation announces itself here.
func (r *RabbitClient) PublishChange(ev *model.ChangeEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}
	return r.Publish(ev.CompanyID.String(), body)
}

// Close cleans up connection and channel
func (r *RabbitClient) Close() error {
	if err := r.channel.Close(); err != nil {
		return err
	}
	if err := r.conn.Close(); err != nil {
		return err
	}
	return nil
}

func (r *RabbitClient) UpdateQueueDepth(companyID string) {
	queueName := ChangeQueueName(companyID)

	q, err := r.channel.QueueInspect(queueName)
	if err != nil {
		log.Printf("[Rabbit] Failed to inspect queue for %s: %v", companyID, err)
		return
	}

	metrics.QueueDepth.WithLabelValues(companyID).Set(float64(q.Messages))
}
