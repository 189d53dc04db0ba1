package extractor

import (
	"regexp"
	"strings"
)

// 空白按 Unicode 判断，&nbsp; 解码后的 U+00A0 也会截断链接
var httpsPattern = regexp.MustCompile(`https://[^\s\v\x1c-\x1f\x{85}\p{Z}]+`)

// LinkFilter 单个引擎的链接筛选策略
type LinkFilter interface {
	// Candidate 从锚点文本和 href 中取出候选结果链接，不符合时返回 false
	Candidate(text, href string) (string, bool)
	// SelfReferential 判断链接是否指回引擎自身的域名
	SelfReferential(url string) bool
}

// NameFilter 基于引擎名称的默认筛选策略
//
// 锚点文本里出现引擎名的视为导航链接，例如 "Google Images"；
// 链接中出现 "<引擎名>.<单词>" 的视为引擎自己的页面，例如 accounts.google.com。
type NameFilter struct {
	name     string
	selfHost *regexp.Regexp
}

// NewNameFilter 创建基于引擎名称的筛选策略
func NewNameFilter(engineName string) *NameFilter {
	name := strings.ToLower(engineName)
	return &NameFilter{
		name:     name,
		selfHost: regexp.MustCompile(`(?i)` + regexp.QuoteMeta(name) + `\.[\p{L}\p{N}_]+`),
	}
}

var _ LinkFilter = (*NameFilter)(nil)

// Candidate 实现 LinkFilter
func (f *NameFilter) Candidate(text, href string) (string, bool) {
	if strings.Contains(strings.ToLower(text), f.name) {
		return "", false
	}
	// 只取 href 中第一个 https:// 开头的片段，跳转包装和站内相对链接都会在这里被过滤
	u := httpsPattern.FindString(href)
	if u == "" {
		return "", false
	}
	return u, true
}

// SelfReferential 实现 LinkFilter
func (f *NameFilter) SelfReferential(url string) bool {
	return f.selfHost.MatchString(url)
}
