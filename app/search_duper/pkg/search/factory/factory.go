package factory

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/iWorld-y/search_duper/app/search_duper/pkg/config"
	"github.com/iWorld-y/search_duper/app/search_duper/pkg/fetcher"
	"github.com/iWorld-y/search_duper/app/search_duper/pkg/scraper"
	"github.com/iWorld-y/search_duper/app/search_duper/pkg/search"
)

// NewEngines 根据配置返回引擎列表，保持配置中的顺序
func NewEngines(cfg *config.Config) ([]search.Engine, error) {
	if len(cfg.Search.Engines) == 0 {
		return nil, fmt.Errorf("search engines not configured")
	}

	engines := make([]search.Engine, 0, len(cfg.Search.Engines))
	for _, name := range cfg.Search.Engines {
		e, ok := search.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown search engine: %s", name)
		}
		if override := cfg.Search.BaseURLs[name]; override != "" {
			e.BaseURL = override
		}
		engines = append(engines, e)
	}
	return engines, nil
}

// NewSearchers 根据配置为每个引擎创建搜索实例，所有引擎共用一个抓取客户端
func NewSearchers(cfg *config.Config, log logrus.FieldLogger) ([]search.Searcher, error) {
	engines, err := NewEngines(cfg)
	if err != nil {
		return nil, err
	}

	client := fetcher.NewClient(fetcher.Options{
		UserAgent:    cfg.Search.UserAgent,
		Timeout:      cfg.Search.Timeout,
		MaxPageBytes: cfg.Search.MaxPageBytes,
		Log:          log,
	})

	searchers := make([]search.Searcher, 0, len(engines))
	for _, e := range engines {
		searchers = append(searchers, scraper.New(e, client, nil))
	}
	return searchers, nil
}
