package main

import (
	"context"
	"flag"
	"os"

	"go.uber.org/zap"

	"github.com/platefeed/backend/config"
	"github.com/platefeed/backend/internal/database"
	"github.com/platefeed/backend/internal/service"
	"github.com/platefeed/backend/pkg/logger"
)

// Loads the ingredient catalog from a CSV file of
// "name,measurement_unit" rows. Rows whose name already exists are
// skipped.
func main() {
	path := flag.String("file", "data/ingredients.csv", "Path to the ingredients CSV file")
	flag.Parse()

	logger.InitDefault()
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	db, err := database.New(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	f, err := os.Open(*path)
	if err != nil {
		logger.Fatal("failed to open CSV file", zap.String("path", *path), zap.Error(err))
	}
	defer f.Close()

	imported, err := service.NewIngredientService(db).ImportCSV(context.Background(), f)
	if err != nil {
		logger.Fatal("import failed", zap.Error(err))
	}

	logger.Info("ingredients imported",
		zap.Int("count", imported),
		zap.String("path", *path))
}
