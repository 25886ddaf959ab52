// Command healthcheck probes the server's /health endpoint. It is intended as
// a container health check: exit 0 when the API and its store are healthy.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"todoapp/internal/client"
	"todoapp/internal/util"
)

func main() {
	urlFlag := flag.String("url", util.EnvOrDefault("TODO_API_URL", "http://localhost:8080"), "API base URL")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	api := client.New(*urlFlag, 3*time.Second)
	health, err := api.CheckHealth(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "health check request failed: %v\n", err)
		os.Exit(1)
	}
	if health.Status != "healthy" {
		fmt.Fprintf(os.Stderr, "health check failed: status=%s database=%s\n", health.Status, health.Database)
		os.Exit(1)
	}
	fmt.Println("Health check passed")
}
