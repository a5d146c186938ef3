package monitor

import (
	"context"
	"sync"
	"time"

	"dnsdelay/internal/models"
)

// SessionRunner executes one full probe session.
type SessionRunner interface {
	Run(ctx context.Context) models.Report
}

// Monitor periodically re-runs a probe session and keeps recent reports in
// memory for the HTTP layer. Nothing is written to disk.
type Monitor struct {
	runner     SessionRunner
	interval   time.Duration
	maxHistory int

	// OnReport, when set, observes every completed session report.
	OnReport func(models.Report)

	mu      sync.RWMutex
	latest  *models.Report
	history []models.Report
	subs    map[chan models.Report]struct{}

	stopCh chan struct{}
	doneCh chan struct{}
}

// New configures a monitor around the given session runner.
func New(runner SessionRunner, interval time.Duration, maxHistory int) *Monitor {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	if maxHistory <= 0 {
		maxHistory = 200
	}
	return &Monitor{
		runner:     runner,
		interval:   interval,
		maxHistory: maxHistory,
		subs:       make(map[chan models.Report]struct{}),
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

// Start launches the session loop in a goroutine.
func (m *Monitor) Start() {
	go m.run()
}

// Stop requests graceful loop termination and waits until it is done.
func (m *Monitor) Stop() {
	select {
	case <-m.doneCh:
		return
	default:
	}
	close(m.stopCh)
	<-m.doneCh
}

// RunOnce executes a single session, records it, and notifies subscribers.
func (m *Monitor) RunOnce(ctx context.Context) models.Report {
	report := m.runner.Run(ctx)

	m.mu.Lock()
	m.latest = &report
	m.history = append(m.history, report)
	if len(m.history) > m.maxHistory {
		m.history = m.history[len(m.history)-m.maxHistory:]
	}
	subs := make([]chan models.Report, 0, len(m.subs))
	for ch := range m.subs {
		subs = append(subs, ch)
	}
	m.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- report:
		default: // slow consumer, drop rather than stall the loop
		}
	}
	if m.OnReport != nil {
		m.OnReport(report)
	}
	return report
}

// Latest returns the most recent session report.
func (m *Monitor) Latest() (models.Report, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.latest == nil {
		return models.Report{}, false
	}
	return *m.latest, true
}

// HistoryN returns up to limit of the most recent reports, oldest first.
func (m *Monitor) HistoryN(limit int) []models.Report {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.history) == 0 {
		return nil
	}
	if limit <= 0 || limit > len(m.history) {
		limit = len(m.history)
	}
	out := make([]models.Report, limit)
	copy(out, m.history[len(m.history)-limit:])
	return out
}

// Subscribe registers a channel that receives every completed report. The
// returned func unregisters it.
func (m *Monitor) Subscribe() (<-chan models.Report, func()) {
	ch := make(chan models.Report, 4)

	m.mu.Lock()
	m.subs[ch] = struct{}{}
	m.mu.Unlock()

	cancel := func() {
		m.mu.Lock()
		delete(m.subs, ch)
		m.mu.Unlock()
	}
	return ch, cancel
}

func (m *Monitor) run() {
	defer close(m.doneCh)

	m.RunOnce(context.Background())

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.RunOnce(context.Background())
		case <-m.stopCh:
			return
		}
	}
}
