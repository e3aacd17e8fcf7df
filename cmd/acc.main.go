package main

import (
	"log"
	"net/http"

	"account-service/internal/server"
)

func main() {
	srv := server.NewServer()
	defer srv.Close()

	log.Printf("account service running on %s", srv.Cfg.HTTPAddr)
	if err := http.ListenAndServe(srv.Cfg.HTTPAddr, srv.Handler); err != nil {
		log.Fatalf("[FATAL] server stopped: %v", err)
	}
}
