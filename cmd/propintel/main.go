package main

import (
	"log"

	"github.com/MrSnakeDoc/propintel/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ propintel failed: %v", err)
	}
}
