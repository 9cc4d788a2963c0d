package infra

import (
	"sync"
	"time"

	"executor-lote/executor/domain"
)

// Store é um cache de gates compartilhados por chave (ex: host de destino),
// com limpeza periódica de chaves ociosas.
//
// Serve para lotes sucessivos (ou paralelos) contra o mesmo destino dividirem
// um único orçamento de taxa, em vez de cada Run criar o seu.
type Store struct {
	mu           sync.Mutex
	entries      map[string]*storeEntry
	maxRate      int
	window       time.Duration
	idleTTL      time.Duration
	cleanupEvery time.Duration
}

type storeEntry struct {
	gate     *BucketGate
	lastSeen time.Time
}

type StoreOption func(*Store)

func WithIdleTTL(d time.Duration) StoreOption {
	return func(s *Store) { s.idleTTL = d }
}

func WithCleanupEvery(d time.Duration) StoreOption {
	return func(s *Store) { s.cleanupEvery = d }
}

func NewStore(maxRate int, window time.Duration, opts ...StoreOption) *Store {
	s := &Store{
		entries:      make(map[string]*storeEntry),
		maxRate:      maxRate,
		window:       window,
		idleTTL:      15 * time.Minute,
		cleanupEvery: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) MaxRate() int          { return s.maxRate }
func (s *Store) Window() time.Duration { return s.window }

// Get retorna o gate da chave, criando um token bucket novo na primeira vez.
// O mesmo ponteiro é retornado para a mesma chave enquanto ela não expirar.
func (s *Store) Get(key string) domain.StartGate {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if ent, ok := s.entries[key]; ok {
		ent.lastSeen = now
		return ent.gate
	}

	gate := NewBucketGate(s.maxRate, s.window)
	s.entries[key] = &storeEntry{gate: gate, lastSeen: now}
	return gate
}

func (s *Store) Cleanup() {
	cutoff := time.Now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, ent := range s.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(s.entries, k)
		}
	}
}

// StartJanitor inicia uma goroutine que limpa chaves inativas periodicamente.
// Pare cancelando o contexto.
func (s *Store) StartJanitor(ctx DoneContext) {
	if s.cleanupEvery <= 0 {
		return
	}

	t := time.NewTicker(s.cleanupEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Cleanup()
			}
		}
	}()
}

// DoneContext é o mínimo necessário para aceitar context.Context sem importar
// context aqui. (Permite reuso em libs sem acoplar.)
type DoneContext interface {
	Done() <-chan struct{}
}
