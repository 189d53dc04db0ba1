package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/iWorld-y/search_duper/app/search_duper/pkg/model"
)

// Extract 从搜索结果页 HTML 中提取外部结果链接
//
// 解析失败不会返回错误，无法识别的锚点直接忽略。
func Extract(html string, filter LinkFilter) model.URLSet {
	links := model.NewURLSet()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return links
	}

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		text := sel.Text()
		if href == "" || strings.TrimSpace(text) == "" {
			return
		}

		u, ok := filter.Candidate(text, href)
		if !ok || filter.SelfReferential(u) {
			return
		}
		links.Add(u)
	})

	return links
}
