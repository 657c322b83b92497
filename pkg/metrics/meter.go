// Package metrics aggregates delivery outcomes into per-target counters for
// the HTTP surface's /api/metrics endpoint.
package metrics

import (
	"strings"
	"sync"
	"time"

	"github.com/tinyland-inc/wordclaw/pkg/delivery"
)

// TargetMeter tracks delivery activity for one conversation target.
type TargetMeter struct {
	TargetID     string    `json:"target_id"`
	Deliveries   int64     `json:"deliveries"`
	PartsSent    int64     `json:"parts_sent"`
	PartsFailed  int64     `json:"parts_failed"`
	LastActivity time.Time `json:"last_activity"`
}

// MeterStore aggregates outcome logs per target. Safe for concurrent use.
type MeterStore struct {
	mu     sync.RWMutex
	meters map[string]*TargetMeter
}

func NewMeterStore() *MeterStore {
	return &MeterStore{
		meters: make(map[string]*TargetMeter),
	}
}

// Record folds one delivery outcome into the target's counters.
func (s *MeterStore) Record(targetID string, outcome delivery.Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	meter, ok := s.meters[targetID]
	if !ok {
		meter = &TargetMeter{TargetID: targetID}
		s.meters[targetID] = meter
	}

	meter.Deliveries++
	for _, tag := range outcome {
		if strings.Contains(tag, "Failed") {
			meter.PartsFailed++
		} else {
			meter.PartsSent++
		}
	}
	meter.LastActivity = time.Now()
}

// Get returns a copy of the meter for one target.
func (s *MeterStore) Get(targetID string) (TargetMeter, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.meters[targetID]
	if !ok {
		return TargetMeter{}, false
	}
	return *m, true
}

// Snapshot returns a copy of all meters.
func (s *MeterStore) Snapshot() map[string]TargetMeter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make(map[string]TargetMeter, len(s.meters))
	for id, m := range s.meters {
		result[id] = *m
	}
	return result
}
