package domain

import (
	"context"
	"errors"
)

// Task é uma unidade de trabalho assíncrono submetida ao executor.
//
// A task recebe o contexto do chamador (não o contexto interno de admissão):
// cancelamento do lote interrompe admissões, mas a task em voo decide sozinha
// se observa ctx.Done() ou termina o que começou.
type Task[T any] func(ctx context.Context) (T, error)

// Kind classifica o desfecho de uma task.
type Kind int

const (
	// Success indica que a task terminou sem erro.
	Success Kind = iota
	// Failure indica que a task executou e retornou erro.
	Failure
	// Cancelled indica que a task nunca foi admitida (lote cancelado ou
	// fail-fast disparado antes dela começar).
	Cancelled
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Failure:
		return "failure"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Result associa o desfecho de uma task ao seu índice de submissão.
//
// O executor devolve os resultados ordenados por Index, independente da ordem
// de término.
type Result[T any] struct {
	Index int
	Kind  Kind
	Value T
	Err   error
}

// ErrInvalidConfig é a base dos erros de configuração do executor.
// Nenhuma task é invocada quando a configuração é inválida.
var ErrInvalidConfig = errors.New("invalid executor config")

// ErrFailFast é a causa de cancelamento usada quando uma falha aborta as
// admissões restantes do lote (política fail-fast).
var ErrFailFast = errors.New("fail-fast: batch aborted after task failure")
