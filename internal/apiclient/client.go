// Package apiclient 封装对后端接口的调用
package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// TokenCookieName 与服务端登录时写入的 cookie 名称一致
const TokenCookieName = "__week_planner_token"

type Client struct {
	baseURL    string
	logoutPath string
	token      string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithLogoutPath(path string) Option {
	return func(c *Client) {
		c.logoutPath = path
	}
}

// WithToken 让每个请求都携带登录令牌 cookie
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

const DefaultLogoutPath = "/aB12Xz/odsQk"

func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		logoutPath: DefaultLogoutPath,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type logoutResponse struct {
	Result any `json:"result"`
}

// Logout 发送不带请求体的 POST 请求，返回响应中的 result 字段
func (c *Client) Logout(ctx context.Context) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.logoutPath, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: c.token})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求登出接口失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("登出接口返回状态码 %d", resp.StatusCode)
	}

	var body logoutResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("解析登出响应失败: %w", err)
	}
	return body.Result, nil
}
