// Command migrate applies the database schema.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"campfire/internal/config"
	"campfire/internal/database"
	"campfire/internal/seed"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate <up|reset>")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Connect migrates on its own outside production; running Migrate again is harmless.
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(flag.Arg(0))) {
	case "up":
		if err := database.Migrate(db); err != nil {
			return err
		}
		log.Println("schema up to date")
	case "reset":
		if cfg.IsProduction() {
			return fmt.Errorf("refusing to reset a production database")
		}
		if err := database.Migrate(db); err != nil {
			return err
		}
		if err := seed.ClearAll(db); err != nil {
			return fmt.Errorf("reset failed: %w", err)
		}
		log.Println("all tables emptied")
	default:
		return usage()
	}
	return nil
}
