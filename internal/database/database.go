package database

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/abolmasow/electronic-library/internal/config"
	"github.com/abolmasow/electronic-library/internal/entities"
)

var defaultCategories = []entities.Category{
	{Name: "Fiction", Description: "Novels, short stories and poetry"},
	{Name: "Non-fiction", Description: "Essays, biographies and documentary prose"},
	{Name: "Science", Description: "Natural and exact sciences"},
	{Name: "Technology", Description: "Engineering and computing"},
	{Name: "Children", Description: "Books for young readers"},
}

type Database struct {
	DB *gorm.DB
}

// NewDatabase opens the application store for the configured driver and
// migrates the schema. SQLite is used for local setups and tests, Postgres
// in production (the backup job dumps the same Postgres instance).
func NewDatabase(cfg config.Database) (*Database, error) {
	dialector, err := openDialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Author{},
		&entities.Publisher{},
		&entities.Category{},
		&entities.Book{},
		&entities.BookCopy{},
		&entities.Loan{},
		&entities.Reservation{},
		&entities.Review{},
		&entities.Fine{},
		&entities.BackupRecord{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	database := &Database{DB: db}

	if err := database.seedCategories(); err != nil {
		return nil, fmt.Errorf("failed to seed categories: %w", err)
	}

	log.Printf("Database initialized (%s)", cfg.Driver)

	return database, nil
}

func openDialector(cfg config.Database) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverSQLite, "":
		return sqlite.Open(cfg.Path), nil
	case config.DriverPostgres:
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unknown database driver: %s", cfg.Driver)
	}
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *Database) seedCategories() error {
	for _, category := range defaultCategories {
		// FirstOrCreate keeps reboots quiet: no record-not-found noise,
		// and anything else is a real error.
		err := d.DB.Where("name = ?", category.Name).FirstOrCreate(&category).Error
		if err != nil {
			return fmt.Errorf("failed to seed category %s: %w", category.Name, err)
		}
	}
	return nil
}
