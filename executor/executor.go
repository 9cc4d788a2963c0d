package executor

import (
	"context"
	"fmt"
	"time"

	"executor-lote/executor/application"
	"executor-lote/executor/domain"
	"executor-lote/executor/infra"
)

// Aliases para o caso comum não precisar importar domain.
type (
	Task[T any]   = domain.Task[T]
	Result[T any] = domain.Result[T]
)

// WindowPolicy escolhe como o orçamento de taxa é contabilizado.
type WindowPolicy string

const (
	// PolicySliding conta inícios na janela móvel [now-Window, now]. Padrão.
	PolicySliding WindowPolicy = "sliding"
	// PolicyFixed zera o contador a cada Window, ancorado no primeiro início.
	PolicyFixed WindowPolicy = "fixed"
	// PolicyBucket usa token bucket (x/time/rate): média MaxRate/Window com
	// burst de até MaxRate.
	PolicyBucket WindowPolicy = "bucket"
)

type Options struct {
	// MaxConcurrency é o número máximo de tasks em voo ao mesmo tempo.
	MaxConcurrency int
	// MaxRate é o número máximo de inícios por Window.
	MaxRate int
	Window  time.Duration
	// Policy vazio equivale a PolicySliding.
	Policy WindowPolicy
	// FailFast cancela as admissões restantes na primeira falha. Tasks em voo
	// terminam e seus resultados são mantidos.
	FailFast bool
	// Batch é um rótulo livre usado nas estatísticas.
	Batch string
	Stats domain.StatsStore
	// Gate substitui o gate que seria criado por Policy/MaxRate/Window.
	// Use para compartilhar um orçamento entre lotes (ex: infra.Store.Get).
	Gate domain.StartGate
}

func (o Options) validate() error {
	if o.MaxConcurrency <= 0 {
		return fmt.Errorf("%w: MaxConcurrency must be > 0", domain.ErrInvalidConfig)
	}
	if o.Gate != nil {
		// gate externo já carrega o próprio orçamento
		return nil
	}
	if o.MaxRate <= 0 {
		return fmt.Errorf("%w: MaxRate must be > 0", domain.ErrInvalidConfig)
	}
	if o.Window <= 0 {
		return fmt.Errorf("%w: Window must be > 0", domain.ErrInvalidConfig)
	}
	switch o.Policy {
	case "", PolicySliding, PolicyFixed, PolicyBucket:
		return nil
	default:
		return fmt.Errorf("%w: unknown window policy %q", domain.ErrInvalidConfig, o.Policy)
	}
}

func (o Options) gate() domain.StartGate {
	if o.Gate != nil {
		return o.Gate
	}
	switch o.Policy {
	case PolicyFixed:
		return infra.NewFixedWindowGate(o.MaxRate, o.Window)
	case PolicyBucket:
		return infra.NewBucketGate(o.MaxRate, o.Window)
	default:
		return infra.NewSlidingWindowGate(o.MaxRate, o.Window)
	}
}

// Run executa as tasks e devolve exatamente um Result por task, na ordem de
// submissão, quando todas terminarem (ou forem canceladas).
//
// Erro de configuração é retornado antes de qualquer task ser invocada.
// Falha de uma task NÃO aborta as irmãs (a menos de FailFast); ela vira um
// Result com Kind=Failure no índice correspondente.
func Run[T any](ctx context.Context, tasks []domain.Task[T], opts Options) ([]domain.Result[T], error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		// lote vazio: nada de gate, pool ou goroutines
		return []domain.Result[T]{}, nil
	}

	results := application.Execute(ctx, tasks, application.Deps{
		Pool:     infra.NewChanPool(opts.MaxConcurrency),
		Gate:     opts.gate(),
		Stats:    opts.Stats,
		Batch:    opts.Batch,
		FailFast: opts.FailFast,
	})
	return results, nil
}
