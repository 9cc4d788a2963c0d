package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"executor-lote/executor"
	"executor-lote/executor/infra"
)

func main() {
	// Exemplo: usando a lib diretamente, com estatísticas em memória
	stats := infra.NewMemoryStatsStore(infra.WithTrackBatches(true))

	tasks := make([]executor.Task[int], 10)
	for i := range tasks {
		i := i
		tasks[i] = func(ctx context.Context) (int, error) {
			// simula uma chamada externa com latência variável
			d := time.Duration(50+rand.Intn(150)) * time.Millisecond
			select {
			case <-time.After(d):
				return i * i, nil
			case <-ctx.Done():
				return 0, ctx.Err()
			}
		}
	}

	start := time.Now()
	results, err := executor.Run(context.Background(), tasks, executor.Options{
		MaxConcurrency: 3,
		MaxRate:        5,
		Window:         1 * time.Second,
		Batch:          "exemplo",
		Stats:          stats,
	})
	if err != nil {
		log.Fatalf("run error: %v", err)
	}

	for _, res := range results {
		fmt.Printf("task %d: %s value=%d\n", res.Index, res.Kind, res.Value)
	}

	total := stats.Total()
	log.Printf("elapsed=%s started=%d success=%d failure=%d cancelled=%d",
		time.Since(start).Round(time.Millisecond),
		total.Started, total.Success, total.Failure, total.Cancelled)
}
