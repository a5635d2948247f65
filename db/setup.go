package db

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/taskhive-dev/taskhive/internal/models"
	"github.com/taskhive-dev/taskhive/internal/types"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Connect opens the database for the given driver. Unique-constraint
// violations are translated to gorm.ErrDuplicatedKey.
func Connect(driver, dsn string, log *logrus.Entry) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch driver {
	case DriverPostgres, "":
		dialector = postgres.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	cfg := &gorm.Config{
		TranslateError: true,
		// users and workspaces reference each other
		DisableForeignKeyConstraintWhenMigrating: true,
	}

	if log != nil {
		cfg.Logger = logger.New(log, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		})
	} else {
		cfg.Logger = logger.Default.LogMode(logger.Silent)
	}

	conn, err := gorm.Open(dialector, cfg)

	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}

	return conn, nil
}

func MigrateDatabase(conn *gorm.DB) error {
	models := []interface{}{
		&models.User{},
		&models.Account{},
		&models.Role{},
		&models.Workspace{},
		&models.Member{},
		&models.Project{},
		&models.Task{},
	}

	if err := conn.AutoMigrate(models...); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	return nil
}

// SeedRoles upserts the fixed role table so stored permission lists always
// match the compiled-in sets.
func SeedRoles(conn *gorm.DB) error {
	for _, name := range types.Roles() {
		role := models.Role{
			Name:        name,
			Permissions: datatypes.NewJSONSlice(name.Permissions()),
		}

		err := conn.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"permissions", "updated_at"}),
		}).Create(&role).Error

		if err != nil {
			return fmt.Errorf("seed role %s: %w", name, err)
		}
	}

	return nil
}

// Setup migrates and seeds in one call.
func Setup(conn *gorm.DB) error {
	if err := MigrateDatabase(conn); err != nil {
		return err
	}

	return SeedRoles(conn)
}
