package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/week-planner/backend/internal/calendar"
	"github.com/sysu-ecnc-dev/week-planner/backend/internal/config"
	"github.com/sysu-ecnc-dev/week-planner/backend/internal/repository"
	"github.com/sysu-ecnc-dev/week-planner/backend/internal/seed"
	"github.com/sysu-ecnc-dev/week-planner/backend/internal/storage"
	"github.com/sysu-ecnc-dev/week-planner/backend/internal/store"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var userID int64
	var file string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机用户, 2: 为用户插入本周的随机子日程, 3: 从 CSV 导入子日程)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.Int64Var(&userID, "user-id", 0, "子日程所属的用户 ID")
	flag.StringVar(&file, "file", "", "要导入的 CSV 文件路径")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	location, err := time.LoadLocation(cfg.Calendar.Timezone)
	if err != nil {
		logger.Error("无法加载时区", "timezone", cfg.Calendar.Timezone, "error", err)
		return
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 只有 redis 驱动需要 redis 客户端
	var rdb *redis.Client
	if cfg.Storage.Driver == storage.DriverRedis {
		rdb = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
	}

	st, err := storage.New(storage.Options{
		Driver:   cfg.Storage.Driver,
		DiskPath: cfg.Storage.DiskPath,
		Redis:    rdb,
		DB:       dbpool,
	})
	if err != nil {
		logger.Error("无法创建日程存储", "error", err)
		return
	}
	registry := store.NewRegistry(st, store.RegistryOptions{
		KeyPrefix:            cfg.Storage.Key,
		Location:             location,
		DefaultMainSchedules: cfg.Calendar.DefaultMainSchedules,
		StoreOptions: []store.Option{
			store.WithTimeout(time.Duration(cfg.Storage.Timeout) * time.Second),
		},
	})

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的用户数量")
			return
		}
		cnt := seed.SeedRandomUsers(context.Background(), repo, n, cfg.Seed.User.Password, cfg.Email.UserDomain)
		slog.Info("插入用户成功", slog.Int("count", cnt))
	case 2:
		if n <= 0 || userID <= 0 {
			slog.Error("请输入合法的子日程数量和用户 ID")
			return
		}
		weekStart, _ := calendar.WeekBounds(time.Now(), location)
		cnt, err := seed.SeedRandomSubSchedules(context.Background(), registry, userID, weekStart, n)
		if err != nil {
			slog.Error("无法插入随机子日程", slog.String("error", err.Error()))
			return
		}
		slog.Info("插入子日程成功", slog.Int64("user_id", userID), slog.Int("count", cnt))
	case 3:
		if userID <= 0 || file == "" {
			slog.Error("请指定用户 ID 和 CSV 文件")
			return
		}
		f, err := os.Open(file)
		if err != nil {
			slog.Error("无法打开 CSV 文件", slog.String("error", err.Error()))
			return
		}
		defer f.Close()

		cnt, err := seed.ImportSubSchedules(context.Background(), registry, userID, f, location)
		if err != nil {
			slog.Error("无法导入子日程", slog.String("error", err.Error()))
			return
		}
		slog.Info("导入子日程成功", slog.Int64("user_id", userID), slog.Int("count", cnt))
	default:
		slog.Error("指定的操作非法")
	}
}
