package database

import (
	"context"
	"time"

	"site-ops-api-server/internal/auth"
	"site-ops-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// SeedAdmin creates the initial admin account if no admin exists yet.
func SeedAdmin(db *mongo.Database, log *zap.Logger) error {
	userCollection := db.Collection("users")
	adminEmail := "admin@example.com"

	count, err := userCollection.CountDocuments(context.Background(), bson.M{"email": adminEmail})
	if err != nil {
		return err
	}

	if count > 0 {
		log.Info("admin already exists, seeding skipped")
		return nil
	}

	log.Info("admin not found, seeding")
	hashedPassword, err := auth.HashPassword("adminpassword")
	if err != nil {
		return err
	}

	admin := models.User{
		EmployeeID: "EMP-admin",
		Email:      adminEmail,
		Name:       "Administrator",
		Password:   hashedPassword,
		Role:       "admin",
		SiteID:     "head-office",
		Status:     "active",
		CreatedAt:  time.Now(),
	}

	_, err = userCollection.InsertOne(context.Background(), admin)
	if err != nil {
		return err
	}

	log.Info("admin seeded successfully")
	return nil
}
