package jobqueue

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/nhatminh-io/memberhub/internal/pkg/env"
	"github.com/nhatminh-io/memberhub/internal/pkg/points"
)

// Manager manages the global job queue and background tasks
type Manager struct {
	queue              *Queue
	expiryTicker       *time.Ticker
	auditTicker        *time.Ticker
	counterFlushTicker *time.Ticker
	stopCh             chan struct{}
	wg                 sync.WaitGroup
	mu                 sync.Mutex
	running            bool
}

var (
	globalManager *Manager
	managerOnce   sync.Once
)

// GetManager returns the global job queue manager (singleton)
func GetManager() *Manager {
	managerOnce.Do(func() {
		workerCount := envInt("JOB_QUEUE_WORKERS", 3)

		globalManager = &Manager{
			queue:  NewQueue(workerCount),
			stopCh: make(chan struct{}),
		}
	})
	return globalManager
}

// GetQueue returns the managed job queue
func (m *Manager) GetQueue() *Queue {
	return m.queue
}

// Start starts the job queue and background tasks
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}

	// Recreate stop channel for each start cycle so manager can be restarted safely.
	m.stopCh = make(chan struct{})
	m.running = true
	log.Info("[JobQueue Manager] Starting job queue and background tasks")

	// Start the job queue
	m.queue.Start()

	expiryInterval := time.Duration(envInt("EXPIRY_SWEEP_INTERVAL_MINUTES", 10)) * time.Minute
	auditInterval := time.Duration(envInt("ENTITLEMENT_AUDIT_INTERVAL_MINUTES", 60)) * time.Minute

	// Start expiry sweep scheduling - configurable interval
	m.expiryTicker = time.NewTicker(expiryInterval)
	m.wg.Add(1)
	go m.expiryWorker()

	// Start entitlement audit scheduling - configurable interval
	m.auditTicker = time.NewTicker(auditInterval)
	m.wg.Add(1)
	go m.auditWorker()

	// Start counter flush worker (Redis -> DB) every 5 seconds
	m.counterFlushTicker = time.NewTicker(5 * time.Second)
	m.wg.Add(1)
	go m.counterFlushWorker()

	log.Info("[JobQueue Manager] Started successfully")
}

// Stop stops the job queue and background tasks
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	log.Info("[JobQueue Manager] Stopping job queue and background tasks...")

	if m.expiryTicker != nil {
		m.expiryTicker.Stop()
	}
	if m.auditTicker != nil {
		m.auditTicker.Stop()
	}
	if m.counterFlushTicker != nil {
		m.counterFlushTicker.Stop()
	}

	// Signal workers to stop. The field is left pointing at the closed
	// channel: workers read it unsynchronized, and a nil here would make a
	// late reader block on a nil channel and hang the Wait below.
	close(m.stopCh)
	m.running = false

	// Wait for background workers to finish
	m.wg.Wait()

	// Stop the job queue
	m.queue.Stop()

	log.Info("[JobQueue Manager] Stopped successfully")
}

// expiryWorker periodically enqueues an expiry sweep job
func (m *Manager) expiryWorker() {
	defer m.wg.Done()
	for {
		select {
		case <-m.stopCh:
			log.Info("[JobQueue Manager] Expiry worker stopping")
			return
		case <-m.expiryTicker.C:
			payload := SubscriptionExpiryJobPayload{BatchSize: defaultExpiryBatchSize}
			if _, err := m.queue.EnqueueJob(JobTypeSubscriptionExpiry, payload.ToMap()); err != nil {
				log.Errorf("[JobQueue Manager] Error enqueuing expiry sweep: %v", err)
			}
		}
	}
}

// auditWorker periodically enqueues an entitlement audit job
func (m *Manager) auditWorker() {
	defer m.wg.Done()
	repair := env.GetEnv("ENTITLEMENT_AUDIT_REPAIR", "true") == "true"
	for {
		select {
		case <-m.stopCh:
			log.Info("[JobQueue Manager] Audit worker stopping")
			return
		case <-m.auditTicker.C:
			payload := EntitlementAuditJobPayload{Repair: repair}
			if _, err := m.queue.EnqueueJob(JobTypeEntitlementAudit, payload.ToMap()); err != nil {
				log.Errorf("[JobQueue Manager] Error enqueuing entitlement audit: %v", err)
			}
		}
	}
}

// counterFlushWorker periodically flushes pending point counters from Redis to DB
func (m *Manager) counterFlushWorker() {
	defer m.wg.Done()
	for {
		select {
		case <-m.stopCh:
			log.Info("[JobQueue Manager] Counter flush worker stopping")
			return
		case <-m.counterFlushTicker.C:
			if err := points.FlushAll(); err != nil {
				log.Errorf("[JobQueue Manager] Counter flush error: %v", err)
			}
		}
	}
}

// IsRunning returns whether the manager is currently running
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// RunExpirySweepOnce exposes a manual trigger for a single expiry sweep (admin use).
func (m *Manager) RunExpirySweepOnce() error {
	payload := SubscriptionExpiryJobPayload{BatchSize: defaultExpiryBatchSize}
	_, err := m.queue.EnqueueJob(JobTypeSubscriptionExpiry, payload.ToMap())
	return err
}

func envInt(key string, fallback int) int {
	v := env.GetEnv(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
