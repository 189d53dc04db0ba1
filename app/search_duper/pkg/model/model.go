package model

import "sort"

// URLSet 一组去重后的结果链接，既用于单个引擎的结果，也用于合并后的结果
type URLSet map[string]struct{}

// NewURLSet 用给定链接创建集合
func NewURLSet(urls ...string) URLSet {
	s := make(URLSet, len(urls))
	for _, u := range urls {
		s.Add(u)
	}
	return s
}

// Add 加入一个链接，完全相同的字符串只保留一份
func (s URLSet) Add(url string) {
	s[url] = struct{}{}
}

// Has 判断链接是否存在
func (s URLSet) Has(url string) bool {
	_, ok := s[url]
	return ok
}

// Len 集合大小
func (s URLSet) Len() int {
	return len(s)
}

// Sorted 返回按字典序排列的链接列表，保证输出文件内容稳定
func (s URLSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for u := range s {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

// Union 合并所有引擎的结果集合
func Union(sets map[string]URLSet) URLSet {
	total := 0
	for _, s := range sets {
		total += len(s)
	}
	out := make(URLSet, total)
	for _, s := range sets {
		for u := range s {
			out.Add(u)
		}
	}
	return out
}

// EngineResult 单个引擎一次搜索的结果
type EngineResult struct {
	Engine string
	URLs   URLSet
	Err    error // 抓取失败时非空，此时 URLs 为空集合
}

// Run 一次完整搜索的记录，用于写入历史
type Run struct {
	Query      string
	NumResults int
	FileName   string
	Results    []EngineResult
}
