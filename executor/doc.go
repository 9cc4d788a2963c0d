// Package executor roda lotes de tasks assíncronas com limite de concorrência
// e limite de taxa de inícios por janela de tempo.
//
// Visão geral (camadas):
//
//   - domain: contratos e tipos do domínio (Task, Result, gates)
//   - application: o loop de admissão FIFO (caso de uso), sem infraestrutura
//   - infra: implementações concretas (janela deslizante/fixa, token bucket,
//     semáforo, stores de estatística em memória e Redis)
//   - executor (este pacote): Options + Run, validação e wiring das camadas
//
// Fluxo de um lote:
//
//  1. Valida a configuração (erro antes de qualquer task rodar)
//  2. Admite tasks em ordem de submissão: vaga de concorrência, depois gate
//  3. Cada desfecho é gravado no índice original da task
//  4. Devolve os resultados ordenados por índice quando tudo terminar
//
// Variáveis de ambiente do binário disparador (cmd/disparador) controlam o
// comportamento, como MAX_CONCURRENCY, MAX_RATE, WINDOW e POLICY.
package executor
