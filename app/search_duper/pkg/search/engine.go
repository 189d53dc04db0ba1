package search

import (
	"fmt"
	"net/url"
	"strconv"
)

const (
	Google = "google"
	Bing   = "bing"
	Yahoo  = "yahoo"
)

// Engine 搜索引擎的请求地址模板
type Engine struct {
	Name       string
	BaseURL    string
	QueryParam string
	CountParam string
}

// DefaultEngines 默认引擎列表，顺序即搜索顺序
var DefaultEngines = []Engine{
	{Name: Google, BaseURL: "https://www.google.com/search", QueryParam: "q", CountParam: "num"},
	{Name: Bing, BaseURL: "https://www.bing.com/search", QueryParam: "q", CountParam: "count"},
	{Name: Yahoo, BaseURL: "https://search.yahoo.com/search", QueryParam: "p", CountParam: "n"},
}

// Lookup 按名称查找默认引擎
func Lookup(name string) (Engine, bool) {
	for _, e := range DefaultEngines {
		if e.Name == name {
			return e, true
		}
	}
	return Engine{}, false
}

// Names 返回所有支持的引擎名称
func Names() []string {
	names := make([]string, 0, len(DefaultEngines))
	for _, e := range DefaultEngines {
		names = append(names, e.Name)
	}
	return names
}

// URL 拼接搜索地址，query 会被 URL 编码
func (e Engine) URL(query string, count int) (string, error) {
	u, err := url.Parse(e.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL for %s: %w", e.Name, err)
	}

	q := u.Query()
	q.Set(e.QueryParam, query)
	q.Set(e.CountParam, strconv.Itoa(count))
	u.RawQuery = q.Encode()

	return u.String(), nil
}
