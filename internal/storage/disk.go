package storage

import (
	"context"
	"errors"
	"io/fs"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

// DiskStorage 将每个键保存为 basePath 下的一个文件
type DiskStorage struct {
	d *diskv.Diskv
}

func NewDiskStorage(basePath string) *DiskStorage {
	return &DiskStorage{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		Transform:    keyToDir,
		CacheSizeMax: 1024 * 1024, // 1MB
	})}
}

// 冒号之前的部分作为目录，例如 schedule-storage:42 存放在 schedule-storage/ 下
func keyToDir(key string) []string {
	parts := strings.Split(key, ":")
	return parts[:len(parts)-1]
}

func (s *DiskStorage) Load(_ context.Context, key string) ([]byte, error) {
	data, err := s.d.Read(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (s *DiskStorage) Save(_ context.Context, key string, data []byte) error {
	return s.d.Write(key, data)
}
