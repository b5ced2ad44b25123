package main

import (
	"context"
	"log"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"

	"github.com/example/chatroom-service/modules/api"
	"github.com/example/chatroom-service/modules/directory"
	"github.com/example/chatroom-service/modules/history"
	"github.com/example/chatroom-service/modules/registry"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== Chatroom Service ===")

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Create modules
	registryModule := registry.NewModule()
	directoryModule := directory.NewModule()
	historyModule := history.NewModule()
	apiModule := api.NewModule()

	// The API module writes to clients through the registry's hub.
	apiModule.SetHub(registryModule.GetHub())

	// Register modules. The framework resolves start order from the
	// declared dependencies.
	app.Register(registryModule)
	app.Register(directoryModule)
	app.Register(historyModule)
	app.Register(apiModule)

	// Start application
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo()

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Println("REST endpoints:")
	log.Printf("  POST http://localhost:%s/create-room   - Create a room", port)
	log.Printf("  GET  http://localhost:%s/room/:roomKey - Check room existence", port)
	log.Printf("  GET  http://localhost:%s/health        - Health check", port)
	log.Println("")
	log.Println("WebSocket endpoint:")
	log.Printf("  ws://localhost:%s/ws", port)
	log.Println("")
	log.Println("WebSocket messages:")
	log.Println("  {\"type\":\"join-room\",\"roomKey\":\"A1B2C3\",\"username\":\"alice\"}")
	log.Println("  {\"type\":\"send-message\",\"text\":\"hello\"}")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
