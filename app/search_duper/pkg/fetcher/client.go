package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iWorld-y/search_duper/app/search_duper/pkg/search"
)

const (
	// DefaultUserAgent 模拟桌面浏览器，部分引擎会拒绝或改写非浏览器请求
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.36"

	defaultTimeout      = 10 * time.Second
	defaultMaxPageBytes = 10 * 1024 * 1024
)

// StatusError 引擎返回了非 200 状态码
type StatusError struct {
	Engine     string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("failed to retrieve results from %s: status code %d", e.Engine, e.StatusCode)
}

// Options 客户端配置
type Options struct {
	UserAgent    string
	Timeout      time.Duration
	MaxPageBytes int64
	// Log 结果页被截断时输出告警，为空时不输出
	Log logrus.FieldLogger
}

// Client 搜索结果页抓取客户端
type Client struct {
	userAgent    string
	maxPageBytes int64
	client       *http.Client
	log          logrus.FieldLogger
}

// NewClient 创建抓取客户端，零值字段使用默认值
func NewClient(opts Options) *Client {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxPageBytes <= 0 {
		opts.MaxPageBytes = defaultMaxPageBytes
	}
	return &Client{
		userAgent:    opts.UserAgent,
		maxPageBytes: opts.MaxPageBytes,
		client: &http.Client{
			Timeout: opts.Timeout,
		},
		log: opts.Log,
	}
}

// Fetch 向引擎发起一次 GET 请求并返回结果页 HTML
func (c *Client) Fetch(ctx context.Context, engine search.Engine, query string, count int) (string, error) {
	target, err := engine.URL(query, count)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("create request failed: %w", err)
	}
	httpReq.Header.Set("User-Agent", c.userAgent)

	res, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request to %s failed: %w", engine.Name, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", &StatusError{Engine: engine.Name, StatusCode: res.StatusCode}
	}

	// 多读一个字节用来判断是否超出上限
	body, err := io.ReadAll(io.LimitReader(res.Body, c.maxPageBytes+1))
	if err != nil {
		return "", fmt.Errorf("read body from %s failed: %w", engine.Name, err)
	}
	if int64(len(body)) > c.maxPageBytes {
		body = body[:c.maxPageBytes]
		if c.log != nil {
			c.log.WithField("engine", engine.Name).Warnf("[%s] 结果页超过 %d 字节，只解析前 %d 字节", engine.Name, c.maxPageBytes, c.maxPageBytes)
		}
	}

	return string(body), nil
}
