// Package domain define contratos e tipos de domínio para execução de lotes
// com limite de concorrência e de taxa.
//
// Este pacote não depende de net/http, redis ou implementações concretas.
// A intenção é permitir testes de unidade puros e desacoplar a regra de
// admissão de detalhes de infraestrutura.
package domain
