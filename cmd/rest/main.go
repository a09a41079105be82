package main

import (
	"context"
	"log"

	"workmate-bot/internal/bootstrap"
	"workmate-bot/internal/config"
	"workmate-bot/internal/server"
	"workmate-bot/internal/tracer"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)

	// 3. Build the knowledge index before serving traffic. A failure is not
	// fatal: the index stays empty and queries answer the "no documents"
	// branch until a rebuild succeeds.
	if err := container.KnowledgeIndex.Rebuild(context.Background()); err != nil {
		container.Logger.Warn("main", "initial index build failed", map[string]interface{}{"error": err.Error()})
	}

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
