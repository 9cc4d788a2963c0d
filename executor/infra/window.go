package infra

import (
	"sync"
	"time"

	"executor-lote/executor/domain"
)

// SlidingWindowGate limita inícios por janela deslizante: no máximo maxRate
// timestamps de início dentro de [now-window, now].
//
// Quando nega, a dica de retry é o tempo até o início mais antigo envelhecer
// para fora da janela — exatamente quando uma vaga de taxa reabre mesmo sem
// nenhuma task terminar.
type SlidingWindowGate struct {
	mu      sync.Mutex
	starts  []time.Time
	maxRate int
	window  time.Duration
}

func NewSlidingWindowGate(maxRate int, window time.Duration) *SlidingWindowGate {
	return &SlidingWindowGate{
		starts:  make([]time.Time, 0, maxRate),
		maxRate: maxRate,
		window:  window,
	}
}

// Reserve implementa domain.StartGate.
func (g *SlidingWindowGate) Reserve(now time.Time) (bool, time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()

	// descarta inícios que já saíram da janela
	cutoff := now.Add(-g.window)
	kept := g.starts[:0]
	for _, s := range g.starts {
		if s.After(cutoff) {
			kept = append(kept, s)
		}
	}
	g.starts = kept

	if len(g.starts) < g.maxRate {
		g.starts = append(g.starts, now)
		return true, 0
	}

	// starts está em ordem de inserção; o mais antigo define a próxima vaga
	return false, g.starts[0].Add(g.window).Sub(now)
}

// FixedWindowGate limita inícios por janela fixa: o contador zera a cada
// `window`, ancorado na primeira reserva. "5 por segundo" aqui significa 5 a
// partir do instante em que a janela corrente abriu, não uma média móvel.
type FixedWindowGate struct {
	mu      sync.Mutex
	opened  time.Time
	count   int
	maxRate int
	window  time.Duration
}

func NewFixedWindowGate(maxRate int, window time.Duration) *FixedWindowGate {
	return &FixedWindowGate{maxRate: maxRate, window: window}
}

// Reserve implementa domain.StartGate.
func (g *FixedWindowGate) Reserve(now time.Time) (bool, time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.opened.IsZero() || !now.Before(g.opened.Add(g.window)) {
		// abre (ou reabre) a janela corrente
		g.opened = now
		g.count = 0
	}

	if g.count < g.maxRate {
		g.count++
		return true, 0
	}
	return false, g.opened.Add(g.window).Sub(now)
}

var (
	_ domain.StartGate = (*SlidingWindowGate)(nil)
	_ domain.StartGate = (*FixedWindowGate)(nil)
)
