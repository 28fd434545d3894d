// One-shot runner for the transport promotion pass.
// cmd/promote-transport/main.go
package main

import (
	"log"
	"time"

	"resource-request-api/config"
	"resource-request-api/services"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize database
	config.InitDB()

	promoted, err := services.PromoteDueTransport(config.DB, time.Now())
	if err != nil {
		log.Fatal("Transport promotion failed:", err)
	}

	log.Printf("Transport promotion completed, %d request(s) marked in progress\n", promoted)
}
