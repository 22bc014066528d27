// Command replay re-delivers webhook payloads captured from the service log.
//
//	replay -url http://localhost:8080/api/webhook payload1.json payload2.json
//
// Entries that were already ingested are answered with 409 and count as
// delivered, so replaying a batch twice is safe.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"gitlab.com/witness-archive/api/archive-ingest/pkg/logger"
)

func main() {
	url := flag.String("url", "http://localhost:8080/api/webhook", "webhook endpoint")
	secret := flag.String("secret", os.Getenv("WEBHOOK_SECRET"), "shared webhook secret")
	timeout := flag.Duration("timeout", 30*time.Second, "per request timeout")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: replay [-url URL] [-secret SECRET] payload.json...")
		os.Exit(2)
	}

	if err := logger.Initialize("info", "development"); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	failed := newReplayer(*url, *secret, *timeout, logger.Log).ReplayAll(ctx, flag.Args())
	logger.Log.Info("Replay finished", zap.Int("files", flag.NArg()), zap.Int("failed", failed))
	if failed > 0 {
		logger.Sync()
		os.Exit(1)
	}
}
