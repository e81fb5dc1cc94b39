package mockapi

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Chaturved5/estate-portal/internal/models"
)

// Token is the server-side bearer token table. Backend-only, never part of
// the client wire format.
type Token struct {
	Token     string `gorm:"primaryKey"`
	UserID    string `gorm:"index;not null"`
	CreatedAt time.Time
}

// Connect opens the database behind the mock API. Postgres DSNs get a short
// retry loop so a sibling container has time to come up; anything else is
// treated as a sqlite path or file: DSN.
func Connect(dsn string) (*gorm.DB, error) {
	var db *gorm.DB
	var err error
	if isPostgresDSN(dsn) {
		for i := 0; i < 5; i++ {
			db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
			if err == nil {
				break
			}
			log.Printf("mockapi: database connect attempt %d/5 failed, retrying", i+1)
			time.Sleep(2 * time.Second)
		}
	} else {
		db, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	}
	if err != nil {
		return nil, fmt.Errorf("database connect failed: %w", err)
	}
	return db, nil
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=")
}

// AutoMigrate creates the schema from the gorm models. The default path;
// RunMigrations is the alternative for postgres deployments that want
// versioned SQL.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Property{},
		&models.Review{},
		&models.Booking{},
		&models.Payment{},
		&models.Notification{},
		&models.VerificationRequest{},
		&Token{},
	)
}

// RunMigrations applies the versioned SQL migrations from dir against a
// postgres DSN. ErrNoChange is not an error.
func RunMigrations(dsn, dir string) error {
	m, err := migrate.New("file://"+dir, dsn)
	if err != nil {
		return fmt.Errorf("migrate init failed: %w", err)
	}
	defer m.Close()
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migrate up failed: %w", err)
	}
	return nil
}
