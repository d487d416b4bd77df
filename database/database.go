package database

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"shiftnote-backend/models"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Connect(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=shiftnote port=5432 sslmode=disable"
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates every table. The composite unique index on schedules
// (name, date, store_id) is what makes bulk uploads idempotent.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.AllowedName{},
		&models.WorkLog{},
		&models.Schedule{},
		&models.ScheduleComment{},
		&models.Notice{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// CreateDefaultAdmin makes sure one admin account exists so the allowlist can be bootstrapped.
// When no password is configured a random one is generated and logged once.
func CreateDefaultAdmin(db *gorm.DB, name, password string) error {
	if name == "" {
		name = "admin"
	}

	var existing models.User
	err := db.Where("name = ?", name).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("look up admin: %w", err)
	}

	generated := false
	if password == "" {
		buf := make([]byte, 12)
		if _, err := rand.Read(buf); err != nil {
			return fmt.Errorf("generate admin password: %w", err)
		}
		password = hex.EncodeToString(buf)
		generated = true
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Name:     name,
		Password: string(hashedPassword),
		Role:     models.RoleAdmin,
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	if generated {
		log.Warn().Str("name", name).Str("password", password).Msg("default admin created with generated password")
	} else {
		log.Info().Str("name", name).Msg("default admin created")
	}
	return nil
}
