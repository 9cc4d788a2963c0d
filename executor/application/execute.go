package application

import (
	"context"
	"sync"
	"time"

	"executor-lote/executor/domain"
)

// Deps agrupa as portas que o caso de uso usa.
//
// Campos nil degradam: Pool/Gate nil significa "sem limite" e Stats nil
// significa "sem estatística". Isso permite testar cada regra isolada.
type Deps struct {
	Pool     domain.SlotPool
	Gate     domain.StartGate
	Stats    domain.StatsStore
	Batch    string
	FailFast bool
}

// Execute roda as tasks com admissão estritamente FIFO.
//
// Uma task só começa quando há vaga no Pool E o Gate aceita registrar mais um
// início. A vaga é adquirida antes do gate: assim a taxa domina a concorrência
// e o timestamp de início só é registrado quando a task realmente começa.
//
// O loop de admissão roda em uma única goroutine, então a ordem de início é a
// ordem de submissão mesmo que tasks anteriores ainda estejam em voo.
func Execute[T any](ctx context.Context, tasks []domain.Task[T], d Deps) []domain.Result[T] {
	results := make([]domain.Result[T], len(tasks))
	if len(tasks) == 0 {
		return results
	}

	// admCtx governa apenas admissões: fail-fast aborta admCtx, nunca o ctx
	// que as tasks em voo recebem.
	admCtx, abort := context.WithCancelCause(ctx)
	defer abort(nil)

	var wg sync.WaitGroup
	for i, task := range tasks {
		if admCtx.Err() != nil {
			results[i] = cancelled[T](i, admCtx)
			d.record(ctx, i, domain.OutcomeCancelled)
			continue
		}

		release, ok := acquire(admCtx, d.Pool)
		if !ok {
			results[i] = cancelled[T](i, admCtx)
			d.record(ctx, i, domain.OutcomeCancelled)
			continue
		}
		if !awaitGate(admCtx, d.Gate) {
			release()
			results[i] = cancelled[T](i, admCtx)
			d.record(ctx, i, domain.OutcomeCancelled)
			continue
		}

		d.record(ctx, i, domain.OutcomeStarted)
		wg.Add(1)
		go func(idx int, t domain.Task[T]) {
			defer wg.Done()
			defer release()

			v, err := t(ctx)
			if err != nil {
				results[idx] = domain.Result[T]{Index: idx, Kind: domain.Failure, Err: err}
				d.record(ctx, idx, domain.OutcomeFailure)
				if d.FailFast {
					abort(domain.ErrFailFast)
				}
				return
			}
			results[idx] = domain.Result[T]{Index: idx, Kind: domain.Success, Value: v}
			d.record(ctx, idx, domain.OutcomeSuccess)
		}(i, task)
	}

	wg.Wait()
	return results
}

func cancelled[T any](idx int, ctx context.Context) domain.Result[T] {
	return domain.Result[T]{Index: idx, Kind: domain.Cancelled, Err: context.Cause(ctx)}
}

func acquire(ctx context.Context, pool domain.SlotPool) (func(), bool) {
	if pool == nil {
		return func() {}, true
	}
	return pool.Acquire(ctx)
}

// awaitGate espera o gate aceitar mais um início, dormindo a dica de retry
// entre tentativas. Retorna false se o ctx encerrar antes.
func awaitGate(ctx context.Context, gate domain.StartGate) bool {
	if gate == nil {
		return true
	}
	for {
		ok, retryIn := gate.Reserve(time.Now())
		if ok {
			return true
		}
		if retryIn <= 0 {
			// dica ausente: evita busy-loop com uma espera mínima
			retryIn = time.Millisecond
		}
		t := time.NewTimer(retryIn)
		select {
		case <-ctx.Done():
			t.Stop()
			return false
		case <-t.C:
		}
	}
}

func (d Deps) record(ctx context.Context, idx int, out domain.Outcome) {
	if d.Stats == nil {
		return
	}
	_ = d.Stats.Record(ctx, domain.StatsEvent{
		Batch:   d.Batch,
		Index:   idx,
		Outcome: out,
		At:      time.Now(),
	})
}
