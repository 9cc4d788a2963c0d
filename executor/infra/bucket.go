package infra

import (
	"time"

	"executor-lote/executor/domain"

	"golang.org/x/time/rate"
)

// BucketGate limita inícios com token bucket (x/time/rate): taxa média de
// maxRate por `window` com burst de até maxRate inícios imediatos.
//
// Diferente da janela deslizante, o bucket deixa passar uma rajada inicial e
// depois espaça os inícios uniformemente. Útil quando o recurso tolera picos.
type BucketGate struct {
	lim *rate.Limiter
}

func NewBucketGate(maxRate int, window time.Duration) *BucketGate {
	return &BucketGate{
		lim: rate.NewLimiter(rate.Limit(float64(maxRate)/window.Seconds()), maxRate),
	}
}

// Reserve implementa domain.StartGate.
func (g *BucketGate) Reserve(now time.Time) (bool, time.Duration) {
	r := g.lim.ReserveN(now, 1)
	if !r.OK() {
		// burst menor que 1 nunca acontece aqui; deixa a dica neutra
		return false, 0
	}
	if delay := r.DelayFrom(now); delay > 0 {
		// devolve o token: Reserve não pode contabilizar início que não ocorreu
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

var _ domain.StartGate = (*BucketGate)(nil)
