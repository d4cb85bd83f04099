package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/database"
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/models"
)

type PartsConfig struct {
	Parts []models.Part `yaml:"parts"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	var (
		partsPath = flag.String("parts", "configs/parts.yaml", "path to parts.yaml")
		dbPath    = flag.String("db", "./data/hazem-opel.db", "path to sqlite db")
	)
	flag.Parse()

	data, err := os.ReadFile(*partsPath)
	if err != nil {
		return fmt.Errorf("read parts: %w", err)
	}
	var cfg PartsConfig
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse parts: %w", err)
	}
	if len(cfg.Parts) == 0 {
		return fmt.Errorf("no parts in yaml")
	}

	db, err := database.NewDB(*dbPath, &logger)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	created := 0
	updated := 0
	for _, p := range cfg.Parts {
		if p.Name == "" {
			continue
		}
		existing, err := db.GetPartByName(ctx, p.Name)
		if err == nil {
			p.ID = existing.ID
			if err = db.UpdatePart(ctx, &p); err != nil {
				return fmt.Errorf("update %s: %w", p.Name, err)
			}
			updated++
			continue
		}
		if !errors.Is(err, database.ErrNotFound) {
			return fmt.Errorf("get %s: %w", p.Name, err)
		}
		if err = db.CreatePart(ctx, &p); err != nil {
			return fmt.Errorf("create %s: %w", p.Name, err)
		}
		created++
	}

	fmt.Printf("done: created=%d updated=%d\n", created, updated)
	return nil
}
