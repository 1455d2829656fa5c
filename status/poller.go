package status

import (
	"context"
	"sort"
	"sync"

	"github.com/truemediaorg/postanalyzer/analyzer"
	"golang.org/x/exp/maps"

	log "github.com/sirupsen/logrus"
)

type StatusSource interface {
	FetchHealth(ctx context.Context) (*analyzer.HealthStatus, error)
	FetchMetrics(ctx context.Context) (*analyzer.Metrics, error)
}

/*
Snapshot is what the status panel renders.
Health and Metrics are nil until a fetch succeeds; a nil Health is shown as
"unknown", which is not the same thing as a service that reported "unhealthy".
*/
type Snapshot struct {
	Health  *analyzer.HealthStatus
	Metrics *analyzer.Metrics
}

func (s Snapshot) HealthLabel() analyzer.HealthState {
	if s.Health == nil {
		return analyzer.HealthStateUnknown
	}
	return s.Health.Status
}

// ServiceNames returns the reported service names in a stable order.
func (s Snapshot) ServiceNames() []string {
	if s.Health == nil {
		return nil
	}
	names := maps.Keys(s.Health.Services)
	sort.Strings(names)
	return names
}

// Poller fetches health and metrics once per activation. It never starts a
// background loop of its own.
type Poller struct {
	source StatusSource

	mu          sync.Mutex
	snapshot    Snapshot
	deactivated bool
}

func NewPoller(source StatusSource) *Poller {
	return &Poller{source: source}
}

func (p *Poller) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot
}

func (p *Poller) Deactivate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deactivated = true
}

// Activate fetches health, then metrics. A failure in one doesn't stop the
// other and neither is returned; they're logged and the previous value stays.
func (p *Poller) Activate(ctx context.Context) {
	health, err := p.source.FetchHealth(ctx)
	if err != nil {
		log.Warnf("health check failed: %v", err)
	} else {
		p.update(func(s *Snapshot) { s.Health = health })
	}

	metrics, err := p.source.FetchMetrics(ctx)
	if err != nil {
		log.Warnf("metrics fetch failed: %v", err)
	} else {
		p.update(func(s *Snapshot) { s.Metrics = metrics })
	}
}

func (p *Poller) update(apply func(*Snapshot)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.deactivated {
		log.Debug("discarding status response for deactivated poller")
		return
	}
	apply(&p.snapshot)
}
