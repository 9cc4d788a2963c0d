package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"executor-lote/executor/domain"
)

type countingGate struct {
	mu       sync.Mutex
	reserves int
	denies   int // nega as primeiras `denies` reservas
	retryIn  time.Duration
}

func (g *countingGate) Reserve(time.Time) (bool, time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reserves++
	if g.reserves <= g.denies {
		return false, g.retryIn
	}
	return true, 0
}

func (g *countingGate) count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.reserves
}

type recordingStats struct {
	mu     sync.Mutex
	events []domain.StatsEvent
}

func (s *recordingStats) Record(_ context.Context, ev domain.StatsEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

func (s *recordingStats) byOutcome(out domain.Outcome) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, ev := range s.events {
		if ev.Outcome == out {
			n++
		}
	}
	return n
}

func constTask[T any](v T) domain.Task[T] {
	return func(context.Context) (T, error) { return v, nil }
}

func TestExecute_EmptyTasks(t *testing.T) {
	results := Execute(context.Background(), []domain.Task[int]{}, Deps{})
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}

func TestExecute_OrderIndependentOfCompletion(t *testing.T) {
	// tasks mais antigas demoram mais: a ordem de término é invertida
	tasks := make([]domain.Task[int], 5)
	for i := range tasks {
		i := i
		tasks[i] = func(ctx context.Context) (int, error) {
			time.Sleep(time.Duration(5-i) * 10 * time.Millisecond)
			return i, nil
		}
	}

	results := Execute(context.Background(), tasks, Deps{})
	for i, res := range results {
		if res.Index != i {
			t.Fatalf("expected result %d at position %d, got index %d", i, i, res.Index)
		}
		if res.Kind != domain.Success || res.Value != i {
			t.Fatalf("expected success with value %d, got kind=%s value=%d err=%v", i, res.Kind, res.Value, res.Err)
		}
	}
}

func TestExecute_FailureDoesNotAbortSiblings(t *testing.T) {
	boom := errors.New("boom")
	tasks := []domain.Task[int]{
		constTask(0),
		func(context.Context) (int, error) { return 0, boom },
		constTask(2),
	}

	results := Execute(context.Background(), tasks, Deps{})
	if results[1].Kind != domain.Failure || !errors.Is(results[1].Err, boom) {
		t.Fatalf("expected failure with boom at index 1, got kind=%s err=%v", results[1].Kind, results[1].Err)
	}
	for _, i := range []int{0, 2} {
		if results[i].Kind != domain.Success {
			t.Fatalf("expected sibling %d to succeed, got %s (%v)", i, results[i].Kind, results[i].Err)
		}
	}
}

func TestExecute_FailFastCancelsPending(t *testing.T) {
	boom := errors.New("boom")
	// o gate libera só o primeiro início; os demais ficam esperando a dica
	// de 1h até o fail-fast abortar a admissão
	gateOnce := &gateAfterFirst{}

	tasks := []domain.Task[int]{
		func(context.Context) (int, error) { return 0, boom },
		constTask(1),
		constTask(2),
	}

	results := Execute(context.Background(), tasks, Deps{Gate: gateOnce, FailFast: true})
	if results[0].Kind != domain.Failure {
		t.Fatalf("expected failure at index 0, got %s", results[0].Kind)
	}
	for _, i := range []int{1, 2} {
		if results[i].Kind != domain.Cancelled {
			t.Fatalf("expected index %d cancelled, got %s", i, results[i].Kind)
		}
		if !errors.Is(results[i].Err, domain.ErrFailFast) {
			t.Fatalf("expected fail-fast cause at index %d, got %v", i, results[i].Err)
		}
	}
}

// gateAfterFirst permite a primeira reserva e nega todas as seguintes.
type gateAfterFirst struct {
	mu    sync.Mutex
	first bool
}

func (g *gateAfterFirst) Reserve(now time.Time) (bool, time.Duration) {
	g.mu.Lock()
	if !g.first {
		g.first = true
		g.mu.Unlock()
		return true, 0
	}
	g.mu.Unlock()
	return false, time.Hour
}

func TestExecute_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	invoked := false
	tasks := []domain.Task[int]{
		func(context.Context) (int, error) { invoked = true; return 0, nil },
	}

	results := Execute(ctx, tasks, Deps{})
	if invoked {
		t.Fatalf("expected no task invocation after cancellation")
	}
	if results[0].Kind != domain.Cancelled {
		t.Fatalf("expected cancelled result, got %s", results[0].Kind)
	}
	if !errors.Is(results[0].Err, context.Canceled) {
		t.Fatalf("expected context.Canceled cause, got %v", results[0].Err)
	}
}

func TestExecute_GateRetryHintIsHonored(t *testing.T) {
	gate := &countingGate{denies: 3, retryIn: time.Millisecond}

	results := Execute(context.Background(), []domain.Task[int]{constTask(7)}, Deps{Gate: gate})
	if results[0].Kind != domain.Success || results[0].Value != 7 {
		t.Fatalf("expected success with value 7, got kind=%s value=%d", results[0].Kind, results[0].Value)
	}
	if gate.count() != 4 {
		t.Fatalf("expected 4 reserve attempts (3 denied + 1 ok), got %d", gate.count())
	}
}

func TestExecute_StatsBestEffort(t *testing.T) {
	stats := &recordingStats{}
	boom := errors.New("boom")
	tasks := []domain.Task[int]{
		constTask(0),
		func(context.Context) (int, error) { return 0, boom },
	}

	Execute(context.Background(), tasks, Deps{Stats: stats, Batch: "lote-x"})
	if n := stats.byOutcome(domain.OutcomeStarted); n != 2 {
		t.Fatalf("expected 2 started events, got %d", n)
	}
	if n := stats.byOutcome(domain.OutcomeSuccess); n != 1 {
		t.Fatalf("expected 1 success event, got %d", n)
	}
	if n := stats.byOutcome(domain.OutcomeFailure); n != 1 {
		t.Fatalf("expected 1 failure event, got %d", n)
	}
	for _, ev := range stats.events {
		if ev.Batch != "lote-x" {
			t.Fatalf("expected batch label on all events, got %q", ev.Batch)
		}
	}
}
