package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/calldesk/console/internal/backend"
	"github.com/calldesk/console/internal/eventbus"
	"github.com/calldesk/console/internal/server"
	"github.com/calldesk/console/internal/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	upstream := os.Getenv("BACKEND_URL")
	if upstream == "" {
		log.Fatal("BACKEND_URL is required")
	}

	port := 8080
	if p := os.Getenv("PORT"); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client := backend.NewClient(upstream, &http.Client{Timeout: 15 * time.Second})
	sessions := session.NewManager(durationEnv("SESSION_MAX_AGE", 12*time.Hour), durationEnv("SESSION_IDLE_TIMEOUT", 30*time.Minute))
	bus := eventbus.New(256)

	// Expired sessions are also evicted lazily on Get; this sweep keeps
	// the map from growing with abandoned logins.
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := sessions.Cleanup(); n > 0 {
					log.Printf("session sweep removed %d sessions", n)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	if err := server.Run(ctx, server.Config{
		Port:     port,
		Backend:  client,
		Sessions: sessions,
		Bus:      bus,
	}); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

func durationEnv(name string, fallback time.Duration) time.Duration {
	if v := os.Getenv(name); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid %s %q, using %s", name, v, fallback)
	}
	return fallback
}
