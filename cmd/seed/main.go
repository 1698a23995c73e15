// Command seed replaces every listing in MongoDB with the bundled samples.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jayramgit94/AirBnb-DB-project/internal/config"
	"github.com/jayramgit94/AirBnb-DB-project/internal/domain"
	"github.com/jayramgit94/AirBnb-DB-project/internal/listing"
	"github.com/jayramgit94/AirBnb-DB-project/internal/seed"
	"github.com/jayramgit94/AirBnb-DB-project/internal/storage/mongo"
)

func main() {
	if err := run(); err != nil {
		slog.Error("seeding error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	file := flag.String("file", "", "YAML file with listings (default: bundled samples)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	samples, err := loadSamples(*file)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := mongo.Connect(ctx, cfg.MongoURL, cfg.MongoDatabase)
	if err != nil {
		return err
	}
	defer db.Close(context.Background())
	slog.Info("connected to MongoDB")

	placeholder := cfg.PlaceholderImageURL
	if placeholder == "" {
		placeholder = listing.DefaultPlaceholderImage
	}

	n, err := seed.Run(ctx, mongo.NewListingStore(db, nil), samples, placeholder)
	if err != nil {
		return err
	}

	slog.Info("database seeded successfully", "listings", n)
	return nil
}

func loadSamples(path string) ([]domain.ListingFields, error) {
	if path == "" {
		return seed.Samples()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return seed.Decode(f)
}
