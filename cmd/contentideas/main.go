package main

import (
	"log"

	"github.com/MrSnakeDoc/contentideas/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ contentideas failed: %v", err)
	}
}
