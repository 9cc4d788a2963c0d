package domain

import (
	"context"
	"time"
)

// Outcome é o que o executor reporta sobre uma task para fins de estatística.
type Outcome string

const (
	OutcomeStarted   Outcome = "started"
	OutcomeSuccess   Outcome = "success"
	OutcomeFailure   Outcome = "failure"
	OutcomeCancelled Outcome = "cancelled"
)

// StatsEvent representa um evento do ciclo de vida de uma task.
//
// Batch é um rótulo livre escolhido pelo chamador (ex: nome do job).
// Cuidado com cardinalidade: rótulos sem controle podem explodir o número de
// chaves em uma base como Redis.
type StatsEvent struct {
	Batch   string
	Index   int
	Outcome Outcome

	At time.Time
}

// StatsStore é a estratégia de persistência para estatísticas de execução.
//
// Implementações podem armazenar em Redis, memória, etc.
// O executor trata erro como best-effort (não afeta o resultado das tasks).
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
}
