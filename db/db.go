package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/puoklam/spot-backend/db/model"
	"github.com/puoklam/spot-backend/env"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

var (
	ErrNotFound            = errors.New("record not found")
	ErrAssociationConflict = errors.New("association already exists")
	ErrUserExists          = errors.New("email / username exists")
)

// Store is the persistence layer for every entity. It is the sole owner of
// records; entities reference each other by id only.
type Store struct {
	db *gorm.DB
}

// Open connects to the configured database and migrates the schema.
func Open(cfg env.Config, l zerolog.Logger) (*Store, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case env.DriverPostgres:
		dialector = postgres.Open(cfg.DBConn)
	case env.DriverSQLite:
		dialector = sqlite.Open(sqliteDSN(cfg.DBConn))
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.DBDriver)
	}
	gdb, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
		Logger:         logger.Default.LogMode(gormLogLevel(l.GetLevel())),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DBDriver, err)
	}
	if err := gdb.AutoMigrate(model.All()...); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	l.Info().Str("driver", cfg.DBDriver).Msg("database ready")
	return &Store{db: gdb}, nil
}

// sqliteDSN turns on foreign key enforcement, which sqlite leaves off per connection.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=on"
	}
	return dsn + "?_foreign_keys=on"
}

func gormLogLevel(lvl zerolog.Level) logger.LogLevel {
	switch {
	case lvl == zerolog.Disabled:
		return logger.Silent
	case lvl <= zerolog.DebugLevel:
		return logger.Info
	case lvl <= zerolog.WarnLevel:
		return logger.Warn
	default:
		return logger.Error
	}
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// update writes every column of v, which must carry its primary key.
func (s *Store) update(ctx context.Context, v any) error {
	res := s.conn(ctx).Model(v).Select("*").Omit(clause.Associations).Updates(v)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func deleteByID(tx *gorm.DB, v any, id uint) error {
	res := tx.Delete(v, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func conflict(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAssociationConflict
	}
	return err
}

// userConflict reports a clash on the unique username or email index.
func userConflict(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrUserExists
	}
	return err
}
