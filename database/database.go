package database

import (
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"sweeparcade/models"
)

// Connect opens the database from DB_* env vars and optionally
// auto-migrates when DB_AUTO_MIGRATE is set.
func Connect() *gorm.DB {
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	pass := os.Getenv("DB_PASSWORD")
	name := os.Getenv("DB_NAME")
	sslmode := os.Getenv("DB_SSLMODE")

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		host, user, pass, name, port, sslmode,
	)

	db, err := Open(dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	log.Info().Str("host", host).Str("db", name).Msg("connected to database")

	autoMigrate, err := strconv.ParseBool(os.Getenv("DB_AUTO_MIGRATE"))
	if err != nil {
		log.Warn().Str("value", os.Getenv("DB_AUTO_MIGRATE")).Msg("invalid DB_AUTO_MIGRATE, skipping migration")
	}

	if autoMigrate {
		if err := Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("failed to auto-migrate database")
		}
		log.Info().Msg("auto migration completed")
	}

	return db
}

func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Wallet{},
		&models.Bonus{},
		&models.CoinTransaction{},
		&models.RechargeRequest{},
		&models.WithdrawalRequest{},
		&models.GameAccountRequest{},
		&models.UserGameAccount{},
		&models.Notification{},
		&models.OTP{},
	)
}
