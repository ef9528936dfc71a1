// Command seedadmin creates the default administrator if it does not exist
// and can optionally load a few sample clients.
package main

import (
	"errors"
	"flag"
	"strings"

	"github.com/Nogthings/befosa-software/internal/auth"
	"github.com/Nogthings/befosa-software/internal/config"
	"github.com/Nogthings/befosa-software/internal/database"
	"github.com/Nogthings/befosa-software/internal/logger"
	"github.com/Nogthings/befosa-software/internal/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var sampleClients = []models.Client{
	{Name: "Ganadera del Norte", Phone: "662-000-0001", City: "Hermosillo", RFC: "GNO010101AAA"},
	{Name: "Rancho San Miguel", Phone: "644-000-0002", City: "Cd. Obregon", RFC: "RSM020202BBB"},
	{Name: "Engordas del Valle", Phone: "687-000-0003", City: "Guasave", RFC: "EVA030303CCC"},
}

func main() {
	withClients := flag.Bool("sample-clients", false, "also create sample clients when none exist")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.Must(logger.New(cfg.IsDevelopment()))
	defer func() { _ = log.Sync() }()

	db, err := database.Open(cfg.DatabaseDSN, log.Named("database"))
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}

	if err := seedAdmin(db, cfg.DefaultAdminEmail, cfg.DefaultAdminPassword, log); err != nil {
		log.Fatal("failed to seed admin", zap.Error(err))
	}
	if *withClients {
		if err := seedClients(db, log); err != nil {
			log.Fatal("failed to seed clients", zap.Error(err))
		}
	}
}

func seedAdmin(db *gorm.DB, email, password string, log *zap.Logger) error {
	email = strings.ToLower(strings.TrimSpace(email))

	var existing models.User
	err := db.Where("role = ?", models.RoleAdmin).First(&existing).Error
	if err == nil {
		log.Info("admin already exists", zap.String("email", existing.Email))
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), auth.PasswordCost)
	if err != nil {
		return err
	}
	admin := models.User{
		Name:         "Administrator",
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Info("admin created", zap.String("email", email))
	return nil
}

func seedClients(db *gorm.DB, log *zap.Logger) error {
	var count int64
	if err := db.Model(&models.Client{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Info("clients already present, skipping samples", zap.Int64("count", count))
		return nil
	}

	clients := make([]models.Client, len(sampleClients))
	copy(clients, sampleClients)
	if err := db.Create(&clients).Error; err != nil {
		return err
	}
	log.Info("sample clients created", zap.Int("count", len(clients)))
	return nil
}
