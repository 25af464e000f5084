// check_backend fetches the category directory from the configured backend
// once and prints it as JSON. It exits non-zero when the category list
// cannot be fetched.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/raushankrgupta/merchant-dashboard/backend"
	"github.com/raushankrgupta/merchant-dashboard/catalog"
	"github.com/raushankrgupta/merchant-dashboard/config"
	"github.com/raushankrgupta/merchant-dashboard/errx"
	"github.com/raushankrgupta/merchant-dashboard/logx"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logx.Init(cfg.Env())

	baseURL := flag.String("backend", cfg.BackendURL, "catalog backend base URL")
	xlsx := flag.String("xlsx", "", "also write the directory to this spreadsheet file")
	flag.Parse()

	client, err := backend.NewClient(*baseURL, cfg.BackendTimeout)
	if err != nil {
		logx.Fatal().Err(err).Msg("Invalid backend URL")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	store := catalog.NewStore(client)
	if err := store.Refresh(ctx); err != nil {
		logx.Fatal().Err(err).Int("status", errx.StatusOf(err)).Msg(errx.MessageOf(err))
	}
	directory := store.Snapshot()

	b, _ := json.MarshalIndent(directory, "", "  ")
	fmt.Println(string(b))

	failed := 0
	for _, entry := range directory {
		if entry.Failed {
			failed++
		}
	}
	logx.Info().Int("categories", len(directory)).Int("failed", failed).Msg("Directory fetched")

	if *xlsx != "" {
		f, err := os.Create(*xlsx)
		if err != nil {
			logx.Fatal().Err(err).Msg("Failed to create spreadsheet")
		}
		defer f.Close()
		if err := catalog.WriteXLSX(f, directory, client.ImageURL); err != nil {
			logx.Fatal().Err(err).Msg("Failed to write spreadsheet")
		}
		logx.Info().Str("file", *xlsx).Msg("Spreadsheet written")
	}
}
