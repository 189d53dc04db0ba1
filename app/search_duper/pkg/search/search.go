package search

import (
	"context"

	"github.com/iWorld-y/search_duper/app/search_duper/pkg/model"
)

// Searcher 定义通用的搜索接口，每个实例对应一个搜索引擎
type Searcher interface {
	Name() string
	Search(ctx context.Context, req *Request) (*Response, error)
}

// Request 通用搜索请求
type Request struct {
	Query      string
	MaxResults int
}

// Response 通用搜索响应
type Response struct {
	URLs model.URLSet
}
