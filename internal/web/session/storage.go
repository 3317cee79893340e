package session

import (
	"errors"
	"time"

	"github.com/gofiber/storage/mysql/v2"
	"github.com/gofiber/storage/postgres/v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rgcpoolandspa/poolsite/internal/config"
	"github.com/rgcpoolandspa/poolsite/internal/db/dsn"
	"github.com/rgcpoolandspa/poolsite/internal/db/models"
)

const storageTable = "admin_sessions"

// NewStorage returns the session backend for the configured database engine.
// MySQL and PostgreSQL use the fiber storage drivers, sqlite keeps sessions
// in the sessions table through gdb.
func NewStorage(cfg *config.Config, gdb *gorm.DB) (Storage, error) {
	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		return mysql.New(mysql.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         storageTable,
		}), nil
	case config.EnginePostgres:
		return postgres.New(postgres.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         storageTable,
		}), nil
	case config.EngineSQLite, "":
		if gdb == nil {
			return nil, errors.New("sqlite session storage needs a database")
		}

		return NewGormStorage(gdb), nil
	}

	return nil, config.ErrUnknownGormEngine
}

// GormStorage stores sessions in models.SessionRecord rows.
type GormStorage struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormStorage creates a gorm backed session storage.
func NewGormStorage(db *gorm.DB) *GormStorage {
	return &GormStorage{db: db, now: time.Now}
}

// Get returns the stored value, or nil when the key is missing or expired.
func (s *GormStorage) Get(key string) ([]byte, error) {
	var rec models.SessionRecord

	err := s.db.Where("session_key = ?", key).Limit(1).Find(&rec).Error
	if err != nil {
		return nil, err
	}

	if rec.Key == "" || (rec.ExpiresAt != 0 && rec.ExpiresAt <= s.now().Unix()) {
		return nil, nil
	}

	return rec.Data, nil
}

// Set stores val under key. A zero exp never expires.
func (s *GormStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}

	rec := models.SessionRecord{Key: key, Data: val}
	if exp > 0 {
		rec.ExpiresAt = s.now().Add(exp).Unix()
	}

	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "expires_at"}),
	}).Create(&rec).Error
}

// Delete removes key.
func (s *GormStorage) Delete(key string) error {
	return s.db.Where("session_key = ?", key).Delete(&models.SessionRecord{}).Error
}

// Reset removes all sessions.
func (s *GormStorage) Reset() error {
	return s.db.Where("1 = 1").Delete(&models.SessionRecord{}).Error
}

// GC removes expired sessions and returns how many were deleted.
func (s *GormStorage) GC() (int64, error) {
	res := s.db.Where("expires_at <> 0 AND expires_at <= ?", s.now().Unix()).Delete(&models.SessionRecord{})

	return res.RowsAffected, res.Error
}

// Close is a no-op, the database is owned by the caller.
func (s *GormStorage) Close() error { return nil }
