package database

import (
	"edumart/models"
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DbInstance struct holds the database connection instance
type DbInstance struct {
	Db *gorm.DB
}

// Database is the global database instance
var Database DbInstance

// ConnectDb establishes a connection to PostgreSQL
func ConnectDb() {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
		os.Exit(2)
	}

	// Set up connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(0)

	runMigrations(db)

	Database = DbInstance{Db: db}
}

// runMigrations performs database migrations
func runMigrations(db *gorm.DB) {
	log.Println("Running Migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Enrollment{},
		&models.SubscriptionPlan{},
		&models.Subscription{},
		&models.Order{},
		&models.OrderItem{},
		&models.Refund{},
		&models.InstructorEarning{},
		&models.Payout{},
		&models.Bundle{},
		&models.BundleCourse{},
		&models.BundlePurchase{},
		&models.Cart{},
		&models.CartItem{},
		&models.WebhookEvent{},
	)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	// AutoMigrate cannot express a partial unique index; this one enforces
	// at-most-one non-terminal subscription per user under concurrency.
	if err := db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_one_live_subscription_per_user
		 ON subscriptions (user_id)
		 WHERE status IN ('trialing', 'active', 'past_due') AND deleted_at IS NULL`,
	).Error; err != nil {
		log.Fatalf("Failed to create subscription uniqueness index: %v", err)
	}

	log.Println("Migrations completed successfully.")
}
