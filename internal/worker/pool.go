package worker

import (
	"log"

	"github.com/streadway/amqp"

	"punchease/internal/messaging"
	"punchease/internal/metrics"
)

// HandlerFunc processes one delivery; a non-nil error sends it to the DLQ.
type HandlerFunc func(delivery amqp.Delivery) error

// WorkerPool drains a company's change queue with a configurable number
// of goroutines. It competes with the manager's consumer on the same
// queue, which is safe: RabbitMQ shares deliveries between consumers.
type WorkerPool struct {
	companyID string
	ch        *amqp.Channel
	stopCh    chan struct{}
	workers   int
	handler   HandlerFunc
}

func NewWorkerPool(companyID string, rabbit *messaging.RabbitClient, workerCount int, handler HandlerFunc) *WorkerPool {
	return &WorkerPool{
		companyID: companyID,
		ch:        rabbit.GetChannel(),
		stopCh:    make(chan struct{}),
		workers:   workerCount,
		handler:   handler,
	}
}

func (wp *WorkerPool) Start() error {
	log.Printf("[Worker] Starting pool for company %s (%d workers)", wp.companyID, wp.workers)

	msgs, err := wp.ch.Consume(
		messaging.ChangeQueueName(wp.companyID),
		"",
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	for i := 0; i < wp.workers; i++ {
		go wp.run(msgs)
	}
	return nil
}

func (wp *WorkerPool) run(msgs <-chan amqp.Delivery) {
	metrics.WorkerActive.WithLabelValues(wp.companyID).Add(1)
	defer metrics.WorkerActive.WithLabelValues(wp.companyID).Sub(1)

	for {
		select {
		case <-wp.stopCh:
			log.Printf("[Worker] Stopping pool for company %s", wp.companyID)
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}

			if err := wp.handler(msg); err != nil {
				log.Printf("[Worker] Failed to process change event: %v", err)
				_ = msg.Reject(false) // send to DLQ
				continue
			}

			_ = msg.Ack(false)
			metrics.ChangeEventsProcessed.WithLabelValues(wp.companyID).Inc()
		}
	}
}

func (wp *WorkerPool) Stop() {
	close(wp.stopCh)
}

// SetWorkerCount updates the worker pool to use a new concurrency level
func (wp *WorkerPool) SetWorkerCount(n int) error {
	if n <= 0 || n == wp.workers {
		return nil
	}

	log.Printf("[Worker][%s] Rescaling worker pool: %d -> %d", wp.companyID, wp.workers, n)

	// Stop existing workers, then restart with the new count.
	wp.Stop()
	wp.workers = n
	wp.stopCh = make(chan struct{})
	return wp.Start()
}
