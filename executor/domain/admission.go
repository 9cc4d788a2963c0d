package domain

import (
	"context"
	"time"
)

// StartGate decide se mais um início de task cabe no orçamento de taxa agora.
//
// Reserve é um check-and-record atômico: se ok=true, o início já foi
// contabilizado e a task DEVE começar. Se ok=false, nada foi contabilizado e
// retryIn é uma dica de quanto esperar antes de tentar de novo (0 = tente
// assim que puder).
//
// Observação: a implementação pode ser janela deslizante, janela fixa,
// token bucket, etc. Reserve nunca bloqueia; quem espera é o chamador.
type StartGate interface {
	Reserve(now time.Time) (ok bool, retryIn time.Duration)
}

// SlotPool representa um recurso com capacidade finita (as vagas de
// concorrência do lote).
//
// A semântica é: Acquire bloqueia até conseguir uma vaga ou até o ctx
// encerrar. Ao adquirir, retorna uma função de release que deve ser chamada
// exatamente uma vez.
type SlotPool interface {
	Acquire(ctx context.Context) (release func(), ok bool)
}
