package main

import (
	"context"
	"log"

	"site-ops-api-server/config"
	"site-ops-api-server/internal/api/routes"
	"site-ops-api-server/internal/auth"
	"site-ops-api-server/internal/database"
	"site-ops-api-server/internal/logger"
	"site-ops-api-server/internal/s3"
	"site-ops-api-server/internal/socket"
	"site-ops-api-server/internal/warehouse"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Local development reads .env; in deployment the variables come from
	// the environment directly.
	godotenv.Load()

	cfg, err := config.LoadConfig("./config")
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}

	appLogger := logger.New(cfg.Server.Environment)
	defer appLogger.Sync()

	auth.JwtSecret = []byte(cfg.JWT.Secret)

	client, db, err := database.Connect(context.Background(), cfg.Mongo)
	if err != nil {
		appLogger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer client.Disconnect(context.Background())

	if err := database.SeedAdmin(db, appLogger); err != nil {
		appLogger.Fatal("failed to seed admin account", zap.Error(err))
	}

	s3Uploader, err := s3.NewUploader(cfg.S3)
	if err != nil {
		appLogger.Fatal("failed to initialize S3 uploader", zap.Error(err))
	}

	wsHub := socket.NewHub(appLogger)

	stockLedger := warehouse.NewMongoStockLedger(db)
	requestStore := warehouse.NewMongoRequestStore(db)
	warehouseService := warehouse.NewService(stockLedger, requestStore)

	router := routes.SetupRouter(cfg, db, warehouseService, stockLedger, s3Uploader, wsHub, appLogger)

	appLogger.Info("starting API server", zap.String("port", cfg.Server.Port))
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		appLogger.Fatal("server exited", zap.Error(err))
	}
}
