package main

import (
	"context"
	"flag"
	"os"
	"strings"

	"sheetsync/pkg/api"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// jobList collects -job values; each may itself be a comma separated list.
type jobList []string

func (j *jobList) String() string {
	return strings.Join(*j, ",")
}

func (j *jobList) Set(value string) error {
	for _, name := range strings.Split(value, ",") {
		if name = strings.TrimSpace(name); name != "" {
			*j = append(*j, name)
		}
	}
	return nil
}

func main() {
	var jobs jobList
	verbose := flag.Bool("v", false, "Verbose logging")
	config := flag.String("config", "jobs.toml", "Job configuration file")
	flag.Var(&jobs, "job", "Job name to run, repeatable or comma separated (default all)")

	flag.Parse()
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("Failed to load .env: %v", err)
	}

	if err := api.RunSync(context.Background(), *config, jobs...); err != nil {
		log.Fatalf("Sync failed: %v", err)
	}
}
