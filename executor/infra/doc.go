// Package infra contém implementações concretas (infraestrutura) para os
// contratos definidos no pacote domain.
//
// Exemplos:
//   - SlidingWindowGate / FixedWindowGate: contagem de inícios por janela
//   - BucketGate: token bucket usando golang.org/x/time/rate
//   - ChanPool: semáforo simples para limite de concorrência
//   - Store: cache de gates compartilhados por chave, com limpeza periódica
//   - MemoryStatsStore / RedisStatsStore: estatísticas de execução
package infra
