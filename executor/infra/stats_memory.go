package infra

import (
	"context"
	"sync"

	"executor-lote/executor/domain"
)

type Counters struct {
	Started   int64
	Success   int64
	Failure   int64
	Cancelled int64
}

func (c *Counters) bump(out domain.Outcome) {
	switch out {
	case domain.OutcomeStarted:
		c.Started++
	case domain.OutcomeSuccess:
		c.Success++
	case domain.OutcomeFailure:
		c.Failure++
	case domain.OutcomeCancelled:
		c.Cancelled++
	}
}

// MemoryStatsStore é uma implementação simples em memória.
// Útil para testes e desenvolvimento.
//
// Não faz expiração e não é indicada para produção.
type MemoryStatsStore struct {
	mu      sync.Mutex
	total   Counters
	byBatch map[string]Counters

	trackBatches bool
}

type MemoryStatsOption func(*MemoryStatsStore)

func WithTrackBatches(track bool) MemoryStatsOption {
	return func(s *MemoryStatsStore) { s.trackBatches = track }
}

func NewMemoryStatsStore(opts ...MemoryStatsOption) *MemoryStatsStore {
	s := &MemoryStatsStore{
		byBatch: make(map[string]Counters),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStatsStore) Record(_ context.Context, ev domain.StatsEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total.bump(ev.Outcome)
	if s.trackBatches && ev.Batch != "" {
		c := s.byBatch[ev.Batch]
		c.bump(ev.Outcome)
		s.byBatch[ev.Batch] = c
	}
	return nil
}

func (s *MemoryStatsStore) Total() Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

func (s *MemoryStatsStore) ByBatch() map[string]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Counters, len(s.byBatch))
	for k, v := range s.byBatch {
		out[k] = v
	}
	return out
}
