package repo

import (
	"fmt"
	"strings"

	"KeyVault/internal/model"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// defaultSQLiteDSN используется, если строка подключения не задана.
const defaultSQLiteDSN = "file:keyvault.db?_pragma=foreign_keys(1)"

// InitDB открывает БД и применяет миграции.
// DSN PostgreSQL (postgres://, postgresql://, key=value с host=) открывается через pgx,
// всё остальное считается путём к файлу SQLite.
func InitDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(Dialector(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Dialector выбирает драйвер по строке подключения.
func Dialector(dsn string) gorm.Dialector {
	if IsPostgresDSN(dsn) {
		return postgres.Open(dsn)
	}
	if dsn == "" {
		dsn = defaultSQLiteDSN
	}
	// modernc.org/sqlite регистрируется под именем "sqlite"
	return gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
}

// IsPostgresDSN сообщает, указывает ли строка на PostgreSQL.
func IsPostgresDSN(dsn string) bool {
	d := strings.ToLower(strings.TrimSpace(dsn))
	return strings.HasPrefix(d, "postgres://") ||
		strings.HasPrefix(d, "postgresql://") ||
		strings.Contains(d, "host=")
}

// Migrate создаёт таблицы для всех моделей.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Project{},
		&model.Member{},
		&model.Key{},
		&model.Activity{},
	)
}
