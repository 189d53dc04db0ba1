package scraper

import (
	"context"

	"github.com/iWorld-y/search_duper/app/search_duper/pkg/extractor"
	"github.com/iWorld-y/search_duper/app/search_duper/pkg/search"
)

// Fetcher 抓取引擎结果页
type Fetcher interface {
	Fetch(ctx context.Context, engine search.Engine, query string, count int) (string, error)
}

// Scraper 抓取单个引擎的结果页并提取链接
type Scraper struct {
	engine  search.Engine
	fetcher Fetcher
	filter  extractor.LinkFilter
}

// New 创建 Scraper，filter 为空时使用基于引擎名称的默认策略
func New(engine search.Engine, fetcher Fetcher, filter extractor.LinkFilter) *Scraper {
	if filter == nil {
		filter = extractor.NewNameFilter(engine.Name)
	}
	return &Scraper{
		engine:  engine,
		fetcher: fetcher,
		filter:  filter,
	}
}

// Ensure Scraper implements search.Searcher
var _ search.Searcher = (*Scraper)(nil)

// Name implements search.Searcher
func (s *Scraper) Name() string {
	return s.engine.Name
}

// Search implements search.Searcher
func (s *Scraper) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	html, err := s.fetcher.Fetch(ctx, s.engine, req.Query, req.MaxResults)
	if err != nil {
		return nil, err
	}
	return &search.Response{URLs: extractor.Extract(html, s.filter)}, nil
}
