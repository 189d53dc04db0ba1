package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/iWorld-y/search_duper/app/search_duper/pkg/fetcher"
	"github.com/iWorld-y/search_duper/app/search_duper/pkg/model"
	"github.com/iWorld-y/search_duper/app/search_duper/pkg/search"
)

// ErrAllEnginesFailed 所有引擎都未能返回结果页
var ErrAllEnginesFailed = errors.New("all search engines failed")

// ResultWriter 写出最终结果
type ResultWriter interface {
	Write(query string, urls []string) (string, error)
}

// Recorder 记录搜索历史
type Recorder interface {
	SaveRun(ctx context.Context, run *model.Run) error
}

// Engine 核心处理引擎
type Engine struct {
	searchers []search.Searcher
	writer    ResultWriter
	recorder  Recorder
	log       logrus.FieldLogger
}

// NewEngine 创建引擎实例，recorder 可以为 nil
func NewEngine(searchers []search.Searcher, writer ResultWriter, recorder Recorder, log logrus.FieldLogger) *Engine {
	return &Engine{
		searchers: searchers,
		writer:    writer,
		recorder:  recorder,
		log:       log,
	}
}

// RunOptions 运行选项
type RunOptions struct {
	Query      string
	NumResults int
}

// Report 一次运行的结果
type Report struct {
	FileName  string
	URLs      []string
	PerEngine []model.EngineResult
	Failed    []string
}

// Run 执行一次搜索：各引擎并发抓取，合并去重后写入文件
//
// 单个引擎失败只记录警告；所有引擎都失败时仍会写出只有表头的文件，并返回 ErrAllEnginesFailed。
func (e *Engine) Run(ctx context.Context, opts RunOptions) (*Report, error) {
	if opts.Query == "" {
		return nil, fmt.Errorf("empty search query")
	}
	if opts.NumResults <= 0 {
		return nil, fmt.Errorf("num results must be positive, got %d", opts.NumResults)
	}
	if len(e.searchers) == 0 {
		return nil, fmt.Errorf("no searchers configured")
	}

	// 每个 goroutine 只写自己的下标，无需加锁
	results := make([]model.EngineResult, len(e.searchers))

	// errgroup 只负责并发和汇合：单个引擎失败记录在 EngineResult.Err 中，
	// 不能让它取消其他引擎，所以 goroutine 一律返回 nil
	var g errgroup.Group
	for i, s := range e.searchers {
		i, s := i, s
		g.Go(func() error {
			results[i] = e.searchOne(ctx, s, opts)
			return nil
		})
	}
	g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &Report{PerEngine: results}
	sets := make(map[string]model.URLSet, len(results))
	for _, r := range results {
		if r.Err != nil {
			report.Failed = append(report.Failed, r.Engine)
		}
		sets[r.Engine] = r.URLs
	}

	union := model.Union(sets)
	report.URLs = union.Sorted()
	e.log.Infof("共获得 %d 条去重后的结果", len(report.URLs))

	path, err := e.writer.Write(opts.Query, report.URLs)
	if err != nil {
		return nil, fmt.Errorf("save results: %w", err)
	}
	report.FileName = path

	if e.recorder != nil {
		run := &model.Run{
			Query:      opts.Query,
			NumResults: opts.NumResults,
			FileName:   path,
			Results:    results,
		}
		if err := e.recorder.SaveRun(ctx, run); err != nil {
			e.log.Errorf("保存搜索历史失败: %v", err)
		}
	}

	if len(report.Failed) == len(results) {
		return report, ErrAllEnginesFailed
	}
	return report, nil
}

func (e *Engine) searchOne(ctx context.Context, s search.Searcher, opts RunOptions) model.EngineResult {
	name := s.Name()
	entry := e.log.WithField("engine", name)

	resp, err := s.Search(ctx, &search.Request{Query: opts.Query, MaxResults: opts.NumResults})
	if err != nil {
		var statusErr *fetcher.StatusError
		if errors.As(err, &statusErr) {
			entry = entry.WithField("status", statusErr.StatusCode)
		}
		entry.Warnf("获取 [%s] 搜索结果失败: %v", name, err)
		return model.EngineResult{Engine: name, URLs: model.NewURLSet(), Err: err}
	}

	urls := resp.URLs
	if urls == nil {
		urls = model.NewURLSet()
	}
	entry.Debugf("[%s] 提取到 %d 条结果", name, urls.Len())
	return model.EngineResult{Engine: name, URLs: urls}
}
