package models

import (
	"time"
)

// KVEntry backs the key-value namespace when it lives in sqlite.
type KVEntry struct {
	Key       string `gorm:"primaryKey"`
	Value     string
	UpdatedAt time.Time
}
