// Package application contém o caso de uso de execução de lote: admitir tasks
// em ordem FIFO respeitando vaga de concorrência e orçamento de taxa, e montar
// o resultado ordenado por índice de submissão.
//
// Ele depende apenas do pacote domain e não conhece net/http, redis nem as
// implementações concretas dos gates.
package application
