package database

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/vitrinepost/vitrinepost/app/models"
	"github.com/vitrinepost/vitrinepost/internal/pkg/env"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const maxRetries = 5
const retryDelay = 5 * time.Second

var DB *gorm.DB

// GetDB returns the shared connection opened by SetupDatabase.
func GetDB() *gorm.DB {
	if DB == nil {
		panic("database not initialized. Call SetupDatabase first.")
	}
	return DB
}

// SetupDatabase opens the configured driver (DB_DRIVER: mysql, postgres or sqlite),
// retrying while the server comes up, and migrates the schema.
func SetupDatabase() {
	var err error
	driver := env.GetEnv("DB_DRIVER", "mysql")

	for i := 0; i < maxRetries; i++ {
		DB, err = open(driver)
		if err == nil {
			if err = AutoMigrate(DB); err != nil {
				panic(fmt.Errorf("auto migrate: %w", err))
			}
			log.Infof("[Database] Connected using %s driver", driver)
			return
		}

		log.Warnf("[Database] Failed to connect (try %d/%d): %v", i+1, maxRetries, err)
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}

	panic(err)
}

func open(driver string) (*gorm.DB, error) {
	switch driver {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			env.GetEnv("DB_USER", ""),
			env.GetEnv("DB_PASSWORD", ""),
			env.GetEnv("DB_HOST", "127.0.0.1"),
			env.GetEnv("DB_PORT", "3306"),
			env.GetEnv("DB_NAME", ""),
		)
		return gorm.Open(mysql.New(mysql.Config{
			DSN:                       dsn,
			DefaultStringSize:         256,
			DisableDatetimePrecision:  true,
			DontSupportRenameIndex:    true,
			DontSupportRenameColumn:   true,
			SkipInitializeWithVersion: false,
		}), &gorm.Config{})
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			env.GetEnv("DB_HOST", "127.0.0.1"),
			env.GetEnv("DB_USER", ""),
			env.GetEnv("DB_PASSWORD", ""),
			env.GetEnv("DB_NAME", ""),
			env.GetEnv("DB_PORT", "5432"),
			env.GetEnv("DB_SSLMODE", "disable"),
		)
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	case "sqlite":
		return OpenSQLite(env.GetEnv("DB_NAME", "vitrinepost.db"))
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

// AutoMigrate creates or updates every table the service owns.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Profile{},
		&models.Factory{},
		&models.Category{},
		&models.Product{},
		&models.BrandKit{},
		&models.Template{},
		&models.Generation{},
		&models.Usage{},
	)
}
