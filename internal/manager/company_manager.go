// internal/manager/company_manager.go
package manager

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"

	"punchease/internal/consumer"
	"punchease/internal/messaging"
	"punchease/internal/model"
	"punchease/internal/storage"
	"punchease/internal/worker"
)

// CompanyManager owns the runtime resources of each registered company:
// its audit partition, change queue, consumer, and worker pool.
type CompanyManager struct {
	rabbitConn *amqp.Connection
	rabbit     *messaging.RabbitClient
	storage    *storage.Storage
	workers    int

	mu        sync.RWMutex
	consumers map[uuid.UUID]*consumer.Consumer
	pools     map[uuid.UUID]*worker.WorkerPool
}

func NewCompanyManager(
	rabbitConn *amqp.Connection,
	rabbit *messaging.RabbitClient,
	storage *storage.Storage,
	workers int,
) *CompanyManager {
	return &CompanyManager{
		rabbitConn: rabbitConn,
		rabbit:     rabbit,
		storage:    storage,
		workers:    workers,
		consumers:  make(map[uuid.UUID]*consumer.Consumer),
		pools:      make(map[uuid.UUID]*worker.WorkerPool),
	}
}

// Register ensures the company's audit partition and change queues exist
// and starts its consumer and worker pool. Registering a company twice is
// a no-op.
func (cm *CompanyManager) Register(companyID uuid.UUID) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if _, exists := cm.consumers[companyID]; exists {
		return nil // already registered
	}

	if err := cm.storage.EnsureAuditPartition(companyID); err != nil {
		return err
	}

	if err := cm.rabbit.DeclareQueues(companyID.String()); err != nil {
		return err
	}

	c, err := consumer.StartConsumer(cm.rabbitConn, companyID.String(), cm.handleChange)
	if err != nil {
		return err
	}
	cm.consumers[companyID] = c

	pool := worker.NewWorkerPool(companyID.String(), cm.rabbit, cm.workers, cm.persistDelivery)
	if err := pool.Start(); err != nil {
		c.Stop()
		delete(cm.consumers, companyID)
		return fmt.Errorf("start worker pool: %w", err)
	}
	cm.pools[companyID] = pool

	log.Printf("Company %s registered, change feed running", companyID)
	return nil
}

// Deregister stops the company's consumer and pool and deletes its queue
func (cm *CompanyManager) Deregister(companyID uuid.UUID) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	c, exists := cm.consumers[companyID]
	if !exists {
		return nil // nothing to remove
	}

	c.Stop()
	if pool, ok := cm.pools[companyID]; ok {
		pool.Stop()
		delete(cm.pools, companyID)
	}

	queueName := messaging.ChangeQueueName(companyID.String())
	_, err := cm.rabbit.GetChannel().QueueDelete(queueName, false, false, false)
	if err != nil {
		log.Printf("Failed to delete queue %s: %v", queueName, err)
	}

	delete(cm.consumers, companyID)

	log.Printf("Company %s deregistered, change feed stopped", companyID)
	return nil
}

// ShutdownAll stops every company's consumer and pool
func (cm *CompanyManager) ShutdownAll() {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	for id, c := range cm.consumers {
		c.Stop()
		log.Printf("Stopped company %s", id)
	}
	for _, pool := range cm.pools {
		pool.Stop()
	}
	cm.consumers = make(map[uuid.UUID]*consumer.Consumer)
	cm.pools = make(map[uuid.UUID]*worker.WorkerPool)
}

// handleChange persists a change event from the queue (callback from consumer)
func (cm *CompanyManager) handleChange(companyID string, msg amqp.Delivery) {
	if err := cm.persistDelivery(msg); err != nil {
		log.Printf("Change event persist failed: %v", err)
		msg.Nack(false, false)
		return
	}
	msg.Ack(false)
}

// persistDelivery decodes a change event and writes it to the company's
// audit partition.
func (cm *CompanyManager) persistDelivery(msg amqp.Delivery) error {
	var ev model.ChangeEvent
	if err := json.Unmarshal(msg.Body, &ev); err != nil {
		return fmt.Errorf("decode change event: %w", err)
	}

	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}

	if err := cm.storage.InsertChangeEvent(&ev); err != nil {
		return fmt.Errorf("insert change event: %w", err)
	}
	return nil
}

// ListCompanyIDs returns all currently registered company UUIDs
func (cm *CompanyManager) ListCompanyIDs() []string {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	ids := make([]string, 0, len(cm.consumers))
	for id := range cm.consumers {
		ids = append(ids, id.String())
	}
	return ids
}

// SetWorkerCount rescales a company's pool and persists the level
func (cm *CompanyManager) SetWorkerCount(companyID uuid.UUID, n int) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	pool, ok := cm.pools[companyID]
	if !ok {
		return fmt.Errorf("company not registered: %s", companyID)
	}

	if err := pool.SetWorkerCount(n); err != nil {
		return err
	}

	if err := cm.storage.UpdateCompanyConcurrency(companyID, n); err != nil {
		return fmt.Errorf("failed to persist concurrency: %w", err)
	}
	return nil
}
