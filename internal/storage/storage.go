// Package storage 提供持久化日程文档所用的键值存储后端
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("storage: key not found")

// Storage 以整份文档为单位读写，对应浏览器中的 localStorage
type Storage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}

const (
	DriverDisk     = "disk"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Options struct {
	Driver   string
	DiskPath string
	Redis    *redis.Client
	DB       *sql.DB
}

func New(opts Options) (Storage, error) {
	switch opts.Driver {
	case DriverDisk:
		return NewDiskStorage(opts.DiskPath), nil
	case DriverRedis:
		if opts.Redis == nil {
			return nil, errors.New("storage: redis driver requires a redis client")
		}
		return NewRedisStorage(opts.Redis), nil
	case DriverPostgres:
		if opts.DB == nil {
			return nil, errors.New("storage: postgres driver requires a database pool")
		}
		return NewPostgresStorage(opts.DB), nil
	case DriverMemory:
		return NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", opts.Driver)
	}
}
