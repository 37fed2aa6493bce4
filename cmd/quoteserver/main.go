package main

import (
	"log"

	"github.com/mleary/quotedash/internal/testutil/quoteserver"
)

// main runs the mock quotes service as a standalone executable, used for
// local dashboard demos and classroom exercises.
func main() {
	config := quoteserver.LoadConfig()

	server := quoteserver.NewServer(config)

	log.Printf("quoteserver listening on %s", config.Addr)
	if err := server.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
