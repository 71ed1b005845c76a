package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"quizhub/internal/cli"
	"quizhub/internal/config"
	"quizhub/internal/quiz"
	"quizhub/internal/quiz/sqlite"
)

func main() {
	user := flag.String("user", "", "name to record attempts under (required)")
	flag.Parse()

	if *user == "" {
		fmt.Fprintln(os.Stderr, "error: -user is required")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	store, err := sqlite.NewSQLiteStore(cfg.SQLitePath)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer store.Close()

	service := quiz.NewService(store, store)

	if err := cli.Run(context.Background(), os.Stdin, os.Stdout, service, *user); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
