// Package observability aggregates runtime counters for the debug surface.
package observability

import (
	"log/slog"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/process"
)

// Stats is the snapshot served by the debug endpoint.
type Stats struct {
	ConnectionsBound    uint64  `json:"connections_bound"`
	ConnectionsRejected uint64  `json:"connections_rejected"`
	ConnectionsActive   int64   `json:"connections_active"`
	EventsRelayed       uint64  `json:"events_relayed"`
	MessagesPushed      uint64  `json:"messages_pushed"`
	DeliveryMisses      uint64  `json:"delivery_misses"`
	AllocMemMb          uint64  `json:"alloc_mem_mb"`
	NumGC               uint32  `json:"num_gc"`
	CPUPercent          float64 `json:"cpu_percent"`
	CapturedAt          string  `json:"captured_at"`
}

// Manager collects gateway telemetry with atomic counters.
type Manager struct {
	log *slog.Logger

	connectionsBound    atomic.Uint64
	connectionsRejected atomic.Uint64
	connectionsActive   atomic.Int64
	eventsRelayed       atomic.Uint64
	messagesPushed      atomic.Uint64
	deliveryMisses      atomic.Uint64

	proc *process.Process
}

func NewManager(log *slog.Logger) *Manager {
	m := &Manager{log: log}
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		// Process stats degrade to zero, counters still work.
		log.Warn("process stats unavailable", "error", err)
	} else {
		m.proc = proc
	}
	return m
}

func (m *Manager) IncrConnectionsBound() {
	m.connectionsBound.Add(1)
	m.connectionsActive.Add(1)
}

func (m *Manager) IncrConnectionsRejected() { m.connectionsRejected.Add(1) }

func (m *Manager) DecrConnectionsActive() { m.connectionsActive.Add(-1) }

func (m *Manager) IncrEventsRelayed() { m.eventsRelayed.Add(1) }

func (m *Manager) IncrMessagesPushed() { m.messagesPushed.Add(1) }

func (m *Manager) IncrDeliveryMisses() { m.deliveryMisses.Add(1) }

// Snapshot captures counters plus process memory and CPU usage.
func (m *Manager) Snapshot() Stats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	stats := Stats{
		ConnectionsBound:    m.connectionsBound.Load(),
		ConnectionsRejected: m.connectionsRejected.Load(),
		ConnectionsActive:   m.connectionsActive.Load(),
		EventsRelayed:       m.eventsRelayed.Load(),
		MessagesPushed:      m.messagesPushed.Load(),
		DeliveryMisses:      m.deliveryMisses.Load(),
		AllocMemMb:          mem.Alloc / 1024 / 1024,
		NumGC:               mem.NumGC,
		CapturedAt:          time.Now().UTC().Format(time.RFC3339),
	}
	if m.proc != nil {
		if cpu, err := m.proc.CPUPercent(); err == nil {
			stats.CPUPercent = cpu
		}
	}
	return stats
}
