package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"quill/config"
	"quill/database"
	"quill/site"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBPath, cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	s := site.New(db, cfg)
	r := s.Router()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Running on http://localhost:%s", cfg.Port)
		if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
			log.Printf("HTTP server stopped: %v", err)
		}
	}()

	// Block until a signal is received
	<-signals
	log.Println("Shutting down gracefully...")

	// Close the database connection
	database.Close(db)
}
