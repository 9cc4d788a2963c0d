package infra

import (
	"context"
	"testing"
)

func TestChanPool_AcquireRelease(t *testing.T) {
	pool := NewChanPool(1)

	release, ok := pool.Acquire(context.Background())
	if !ok {
		t.Fatalf("expected acquire to succeed")
	}

	// sem vaga: um ctx cancelado faz o segundo acquire desistir
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	if _, ok := pool.Acquire(cancelled); ok {
		t.Fatalf("expected acquire to fail on full pool with cancelled ctx")
	}

	release()
	release2, ok := pool.Acquire(context.Background())
	if !ok {
		t.Fatalf("expected acquire to succeed after release")
	}
	release2()
}
