// Command worker runs the Temporal worker hosting the conversation
// workflow and its activities.
package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/durableai/durable-agent/internal/activities"
	"github.com/durableai/durable-agent/internal/mcp"
	"github.com/durableai/durable-agent/internal/models"
	"github.com/durableai/durable-agent/internal/reasoner"
	"github.com/durableai/durable-agent/internal/temporalclient"
	"github.com/durableai/durable-agent/internal/tools"
	agentwf "github.com/durableai/durable-agent/internal/workflow"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := models.ConfigFromEnv()

	opts := temporalclient.MustLoadClientOptions(os.Getenv("TEMPORAL_HOST_URL"), os.Getenv("TEMPORAL_NAMESPACE"))
	c, err := client.Dial(opts)
	if err != nil {
		log.Fatalf("unable to create Temporal client: %v", err)
	}
	defer c.Close()

	registry, err := tools.BuildSet(cfg.ToolSet)
	if err != nil {
		log.Fatalf("unable to build tool set %q: %v", cfg.ToolSet, err)
	}

	reasonerClient, err := reasoner.New(cfg)
	if err != nil {
		log.Fatalf("unable to create reasoner: %v", err)
	}

	pool := mcp.NewSessionPool(mcp.DefaultMaxSessionsPerEndpoint)
	defer pool.Shutdown()

	w := worker.New(c, cfg.TaskQueue, worker.Options{})
	w.RegisterWorkflow(agentwf.ConversationWorkflow)

	reasonerActivities := activities.NewReasonerActivities(reasonerClient)
	w.RegisterActivity(reasonerActivities.Reason)
	w.RegisterActivity(reasonerActivities.Extract)

	toolActivities := activities.NewToolActivities(registry, pool, cfg)
	w.RegisterActivity(toolActivities.ExecuteTool)

	log.Printf("worker starting: task_queue=%s tool_set=%s tools_mock=%v proxy_mode=%v",
		cfg.TaskQueue, cfg.ToolSet, cfg.ToolsMock, cfg.ProxyMode)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker stopped: %v", err)
	}
}
