package main

import (
	"log"
	"os"

	"github.com/bitcoin-sv/spend-broadcaster/cmd/spend-broadcaster/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		log.Fatalf("failed to run spend-broadcaster: %v", err)
	}

	os.Exit(0)
}
