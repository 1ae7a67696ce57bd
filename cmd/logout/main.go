package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/week-planner/backend/internal/apiclient"
	"github.com/sysu-ecnc-dev/week-planner/backend/internal/config"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 读取配置，作为命令行参数的默认值
	cfg, err := config.LoadAPIConfig()
	if err != nil {
		logger.Error("无法读取配置", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var baseURL string
	var logoutPath string
	var timeout int
	var token string

	flag.StringVar(&baseURL, "base-url", cfg.BaseURL, "后端服务地址")
	flag.StringVar(&logoutPath, "path", cfg.LogoutPath, "登出接口路径")
	flag.IntVar(&timeout, "timeout", cfg.Timeout, "请求超时时间（秒）")
	flag.StringVar(&token, "token", "", "登录后获得的令牌（"+apiclient.TokenCookieName+" cookie 的值）")
	flag.Parse()

	if token == "" {
		logger.Error("未指定令牌")
		os.Exit(1)
	}

	client := apiclient.New(baseURL, time.Duration(timeout)*time.Second,
		apiclient.WithLogoutPath(logoutPath),
		apiclient.WithToken(token),
	)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	result, err := client.Logout(ctx)
	if err != nil {
		logger.Error("登出失败", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("登出成功", slog.String("result", fmt.Sprint(result)))
}
