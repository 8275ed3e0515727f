package db

import (
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/models"
)

var DB *gorm.DB

func Init() {

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=Africa/Nairobi",
		getEnv("POSTGRES_HOST", "localhost"),
		getEnv("POSTGRES_USER", "menuhub"),
		getEnv("POSTGRES_PASSWORD", "menuhub"),
		getEnv("POSTGRES_DB", "menuhub"),
		getEnv("DB_PORT", "5432"),
	)

	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})

	if err != nil {

		log.Fatalf("Failed to connect to DB: %v", err)
	}

	err = DB.AutoMigrate(
		&models.Restaurant{},
		&models.MenuCategory{},
		&models.MenuItem{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.CustomerLead{},
		&models.Subscriber{},
		&models.PaymentSettings{},
		&models.NotificationSettings{},
		&models.WaiterCall{},
		&models.User{},
	)

	if err != nil {

		log.Fatalf("Failed to migrate DB: %v", err)
	}

	log.Println("Database connected and migrated successfully")
}

func SetTestDB(testDB *gorm.DB) {
	DB = testDB
}

func getEnv(key, fallback string) string {

	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return fallback
}
