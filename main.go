package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sheetsync/pkg/api"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	verbose := flag.Bool("v", false, "Verbose logging")
	config := flag.String("config", "jobs.toml", "Job configuration file")
	listenAddress := flag.String("listen", ":80", "HTTP listen address")

	flag.Parse()
	if *verbose {
		// Set the log level to debug
		log.SetLevel(log.DebugLevel)
	}
	// Set the log format to include a leading timestamp in ISO8601 format
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("Failed to load .env: %v", err)
	}

	syncer, err := api.NewSyncerFromConfig(context.Background(), *config)
	if err != nil {
		log.Fatalf("Failed to load %s: %v", *config, err)
	}

	server := &http.Server{
		Addr:              *listenAddress,
		Handler:           api.GetRouter(syncer),
		ReadHeaderTimeout: 2 * time.Second,
	}
	go startServer(server)

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	// In all cases, just exit and let the container restart from scratch.
	// There's less to get wrong doing it this way.
	<-signalChan
	log.Info("Signalled, shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Errorf("Shutdown: %v", err)
	}
}

func startServer(server *http.Server) {
	log.Infof("listening for HTTP on: %s", server.Addr)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal("ListenAndServeError: ", err)
	}
}
