package main

import (
	"fmt"
	"math/rand"
	"net/http"
	"time"
)

func main() {
	http.HandleFunc("/lento", func(w http.ResponseWriter, r *http.Request) {
		atraso := time.Duration(100+rand.Intn(400)) * time.Millisecond
		time.Sleep(atraso)
		if rand.Intn(10) == 0 {
			http.Error(w, "deu ruim", http.StatusInternalServerError)
			fmt.Printf("Log: /lento falhou de propósito (atraso %s)\n", atraso)
			return
		}
		fmt.Fprintf(w, "ok depois de %s\n", atraso)
		fmt.Println("Log: Alguém acessou o endpoint /lento")
	})
	fmt.Println("Servidor lento rodando em http://localhost:8082")
	err := http.ListenAndServe(":8082", nil)
	if err != nil {
		fmt.Printf("Erro ao subir o servidor: %s\n", err)
	}
}
