package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/pflag"

	"github.com/iWorld-y/search_duper/app/search_duper/pkg/config"
	"github.com/iWorld-y/search_duper/app/search_duper/pkg/engine"
	"github.com/iWorld-y/search_duper/app/search_duper/pkg/logger"
	"github.com/iWorld-y/search_duper/app/search_duper/pkg/search/factory"
	"github.com/iWorld-y/search_duper/app/search_duper/pkg/storage"
	"github.com/iWorld-y/search_duper/app/search_duper/pkg/writer"
)

const version = "0.1.0"

const defaultNumResults = 50

// 退出码
const (
	exitOK         = 0
	exitFailure    = 1
	exitUsage      = 2
	exitAllEngines = 3
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func printIntro(w io.Writer) {
	border := color.New(color.FgCyan, color.Bold)
	title := color.New(color.FgHiWhite, color.Bold)

	border.Fprintln(w, "=========================================")
	border.Fprintln(w, "=                                       =")
	title.Fprintf(w, "=          SearchDuper v.%s          =\n", version)
	title.Fprintln(w, "=      Meta-Search w/out Duplicates     =")
	border.Fprintln(w, "=                                       =")
	border.Fprintln(w, "=========================================")
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("search_duper", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Searches Google, Bing and Yahoo and saves unique results to a CSV file.")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Usage: search_duper -s \"Your Search Query\" [-n 100]")
		fs.PrintDefaults()
	}

	query := fs.StringP("search_query", "s", "", "Search query string (required)")
	numResults := fs.IntP("num_results", "n", defaultNumResults, "Number of search results per engine")
	configPath := fs.StringP("config", "c", "", "Path to the config file (or $CONFIG_PATH)")
	printConfig := fs.Bool("print-config", false, "Print the effective config as YAML and exit")
	showVersion := fs.BoolP("version", "v", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if *showVersion {
		fmt.Fprintf(stdout, "search_duper %s\n", version)
		return exitOK
	}

	// 参数校验在任何网络请求之前完成
	if *query == "" && !*printConfig {
		fmt.Fprintln(stderr, "error: required flag -s/--search_query not set")
		fs.Usage()
		return exitUsage
	}

	// 1. 加载配置
	cfg, err := config.LoadConfig(config.ResolvePath(*configPath))
	if err != nil {
		fmt.Fprintf(stderr, "无法加载配置文件: %v\n", err)
		return exitFailure
	}
	if fs.Changed("num_results") {
		cfg.Search.NumResults = *numResults
	}

	if *printConfig {
		if err := cfg.Dump(stdout); err != nil {
			fmt.Fprintf(stderr, "输出配置失败: %v\n", err)
			return exitFailure
		}
		return exitOK
	}

	if cfg.Search.NumResults <= 0 {
		fmt.Fprintf(stderr, "error: -n/--num_results must be positive, got %d\n", cfg.Search.NumResults)
		fs.Usage()
		return exitUsage
	}

	// 2. 初始化日志
	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		fmt.Fprintf(stderr, "无法初始化日志: %v\n", err)
		return exitFailure
	}
	log := logger.Log

	printIntro(stdout)
	fmt.Fprintf(stdout, "Searching for %s and %d results per engine...\n", *query, cfg.Search.NumResults)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. 可选的历史记录
	var recorder engine.Recorder
	if cfg.DB.Host != "" {
		store, err := storage.NewStorage(ctx, cfg.DB)
		if err != nil {
			log.Errorf("无法连接数据库: %v. 将仅生成 CSV 文件。", err)
		} else {
			defer store.Close()
			recorder = store
			log.Info("已成功连接到数据库")
		}
	} else {
		log.Debug("未配置数据库信息，跳过搜索历史记录")
	}

	// 4. 初始化搜索客户端
	searchers, err := factory.NewSearchers(cfg, log)
	if err != nil {
		log.Errorf("搜索客户端初始化失败: %v", err)
		return exitFailure
	}

	w := writer.New(cfg.Output.Dir, log)
	w.Header = cfg.Output.Header

	// 5. 搜索、去重、写入
	report, err := engine.NewEngine(searchers, w, recorder, log).Run(ctx, engine.RunOptions{
		Query:      *query,
		NumResults: cfg.Search.NumResults,
	})
	switch {
	case errors.Is(err, engine.ErrAllEnginesFailed):
		log.Errorf("所有搜索引擎均失败，结果文件仅包含表头: %s", report.FileName)
		fmt.Fprintf(stdout, "Unique and relevant search results saved to %s\n", report.FileName)
		return exitAllEngines
	case err != nil:
		log.Errorf("搜索失败: %v", err)
		return exitFailure
	}

	log.Infof("本次共保存 %d 条结果，失败的引擎: %v", len(report.URLs), report.Failed)
	// 确认信息直接输出到终端，不受日志级别影响
	fmt.Fprintf(stdout, "Unique and relevant search results saved to %s\n", report.FileName)
	return exitOK
}
