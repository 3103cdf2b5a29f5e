// Command server runs the HTTP facade in front of the Temporal client.
package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"

	"github.com/durableai/durable-agent/internal/httpapi"
	"github.com/durableai/durable-agent/internal/models"
	"github.com/durableai/durable-agent/internal/temporalclient"
)

func main() {
	_ = godotenv.Load()

	cfg := models.ConfigFromEnv()

	opts := temporalclient.MustLoadClientOptions(os.Getenv("TEMPORAL_HOST_URL"), os.Getenv("TEMPORAL_NAMESPACE"))
	c, err := client.Dial(opts)
	if err != nil {
		log.Fatalf("unable to create Temporal client: %v", err)
	}
	defer c.Close()

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}

	srv := httpapi.NewServer(c, cfg)
	log.Printf("server listening on %s (task_queue=%s)", addr, cfg.TaskQueue)
	if err := srv.Routes().Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
