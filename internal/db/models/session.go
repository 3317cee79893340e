package models

// SessionRecord is a stored admin session, used by the sqlite session backend.
type SessionRecord struct {
	Key       string `gorm:"column:session_key;primaryKey;size:128"`
	Data      []byte
	ExpiresAt int64 `gorm:"index"` // unix seconds, 0 never expires
}

// TableName returns the sessions table name.
func (SessionRecord) TableName() string { return "sessions" }
