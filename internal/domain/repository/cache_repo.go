package repository

import (
	"time"
)

// CacheRepository defines cache operations backed by Redis. Used to
// keep resolved access codes hot in front of Postgres.
type CacheRepository interface {
	Set(key string, value interface{}, expiration time.Duration) error
	Get(key string) (string, error)
	Delete(key string) error
	SetJSON(key string, value interface{}, expiration time.Duration) error
	GetJSON(key string, dest interface{}) error
	Exists(key string) (bool, error)
}
