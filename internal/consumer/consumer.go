// internal/consumer/consumer.go
package consumer

import (
	"fmt"
	"log"

	"github.com/streadway/amqp"

	"punchease/internal/messaging"
)

type ChangeHandlerFunc func(companyID string, delivery amqp.Delivery)

// Consumer holds control channels and metadata for a running company
// change-feed consumer
type Consumer struct {
	CompanyID   string
	QueueName   string
	Channel     *amqp.Channel
	StopChan    chan struct{}
	DoneChan    chan struct{}
	Handler     ChangeHandlerFunc
	ConsumerTag string
}

// StartConsumer starts a goroutine that drains a company's change queue
func StartConsumer(conn *amqp.Connection, companyID string, handler ChangeHandlerFunc) (*Consumer, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("company %s: failed to open channel: %w", companyID, err)
	}

	queueName := messaging.ChangeQueueName(companyID)
	consumerTag := fmt.Sprintf("changes-%s", companyID)

	msgs, err := ch.Consume(
		queueName,
		consumerTag,
		false, // autoAck: false to handle manually
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("company %s: failed to start consuming: %w", companyID, err)
	}

	c := &Consumer{
		CompanyID:   companyID,
		QueueName:   queueName,
		Channel:     ch,
		StopChan:    make(chan struct{}),
		DoneChan:    make(chan struct{}),
		Handler:     handler,
		ConsumerTag: consumerTag,
	}

	go c.consumeLoop(msgs)

	log.Printf("Started change consumer for company %s", companyID)
	return c, nil
}

// consumeLoop processes change events until StopChan is closed
func (c *Consumer) consumeLoop(msgs <-chan amqp.Delivery) {
	defer func() {
		close(c.DoneChan)
	}()

	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				log.Printf("Company %s: delivery channel closed", c.CompanyID)
				return
			}
			c.Handler(c.CompanyID, msg)

		case <-c.StopChan:
			log.Printf("Stopping change consumer for company %s...", c.CompanyID)
			_ = c.Channel.Cancel(c.ConsumerTag, false)
			return
		}
	}
}

// Stop signals the consumer to stop and waits for cleanup
func (c *Consumer) Stop() {
	close(c.StopChan)
	<-c.DoneChan
	_ = c.Channel.Close()
	log.Printf("Stopped change consumer for company %s", c.CompanyID)
}
