package migrations

import (
	"log"

	"store_manager/internal/models"
	"store_manager/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RunMigrations creates default data after the schema migration: the admin
// account, the singleton payment settings row and the stock payment methods.
func RunMigrations(db *gorm.DB, adminUsername, adminPassword string) error {
	log.Println("Running default data migrations...")

	if err := seedAdmin(db, adminUsername, adminPassword); err != nil {
		log.Printf("Warning: Failed to seed admin account: %v", err)
	}

	settingsRepo := repository.NewSettingsRepository(db)
	if _, err := settingsRepo.GetPaymentSettings(); err != nil {
		log.Printf("Warning: Failed to seed payment settings: %v", err)
	}

	if err := seedPaymentMethods(db); err != nil {
		log.Printf("Warning: Failed to seed payment methods: %v", err)
	}

	log.Println("Default data migrations completed")
	return nil
}

func seedAdmin(db *gorm.DB, username, password string) error {
	var count int64
	if err := db.Model(&models.Customer{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.Customer{
		Username:     username,
		Role:         "Admin",
		IsVerified:   true,
		PasswordHash: string(hashed),
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Printf("Admin account %q created", username)
	return nil
}

func seedPaymentMethods(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.PaymentMethod{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := []models.PaymentMethod{
		{Name: "Cash on Delivery", Type: "cod"},
		{Name: "Bkash", Type: "manual"},
		{Name: "Nagad", Type: "manual"},
		{Name: "Rocket", Type: "manual"},
	}
	for i := range defaults {
		if err := db.Create(&defaults[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
