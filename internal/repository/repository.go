// Package repository 负责用户数据在 PostgreSQL 中的读写。
//
// 所需的表结构：
//
//	CREATE TABLE users (
//		id            BIGSERIAL PRIMARY KEY,
//		username      TEXT NOT NULL UNIQUE,
//		password_hash TEXT NOT NULL,
//		full_name     TEXT NOT NULL,
//		email         TEXT NOT NULL UNIQUE,
//		role          TEXT NOT NULL,
//		is_active     BOOLEAN NOT NULL DEFAULT TRUE,
//		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
//		version       INTEGER NOT NULL DEFAULT 1
//	);
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sysu-ecnc-dev/week-planner/backend/internal/config"
)

type Repository struct {
	cfg    *config.Config
	dbpool *sql.DB
}

func NewRepository(cfg *config.Config, dbpool *sql.DB) *Repository {
	return &Repository{
		cfg:    cfg,
		dbpool: dbpool,
	}
}

// withTimeout 每条查询都有独立的超时
func (r *Repository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
}
