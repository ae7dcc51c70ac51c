package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"sip-call-api/internal/call"
	"sip-call-api/internal/config"
	"sip-call-api/internal/realtime"
	"sip-call-api/internal/watcher"
)

const envFile = ".env"

func main() {
	if err := config.LoadDotenv(envFile); err != nil {
		log.Printf("load %s: %v", envFile, err)
	}
	store := config.NewStore(config.FromEnv(), envFile)

	registry := call.NewRegistry(call.NewPJSUALauncher(store))

	// Pick up credential edits without a restart; they apply to the
	// next call, since SIP config is validated at call time.
	cfgWatch, err := watcher.New(envFile, func() {
		if err := store.Reload(); err != nil {
			log.Printf("config reload: %v", err)
			return
		}
		log.Printf("configuration reloaded from %s", envFile)
	})
	if err != nil {
		log.Printf("config watcher disabled: %v", err)
	}

	rtServer := realtime.New(registry)

	port := store.Current().Port
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: rtServer.Handler(),
	}

	// Graceful shutdown on signals.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Println("Shutting down...")
		if cfgWatch != nil {
			cfgWatch.Shutdown()
		}
		registry.Shutdown()
		httpServer.Close()
	}()

	log.Printf("sip-call-api listening on http://localhost:%d", port)
	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("HTTP server error: %v", err)
	}
}
