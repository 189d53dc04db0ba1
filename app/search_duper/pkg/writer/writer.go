package writer

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultHeader 结果文件的表头
	DefaultHeader = "Search Results"

	timestampLayout = "2006-01-02_15-04-05"
	queryPrefixLen  = 20
)

// Writer 将结果链接写入 CSV 文件
type Writer struct {
	Dir    string
	Header string
	Now    func() time.Time
	Log    logrus.FieldLogger
}

// New 创建 Writer，dir 为空时写入当前目录
func New(dir string, log logrus.FieldLogger) *Writer {
	if dir == "" {
		dir = "."
	}
	return &Writer{
		Dir:    dir,
		Header: DefaultHeader,
		Now:    time.Now,
		Log:    log,
	}
}

// FileName 生成文件名：查询前 20 个字符 + 本地时间
func FileName(query string, t time.Time) string {
	prefix := []rune(query)
	if len(prefix) > queryPrefixLen {
		prefix = prefix[:queryPrefixLen]
	}
	return fmt.Sprintf("%s_%s.csv", string(prefix), t.Format(timestampLayout))
}

// Write 写入结果文件并返回文件路径，行顺序与 urls 一致
func (w *Writer) Write(query string, urls []string) (string, error) {
	path := filepath.Join(w.Dir, FileName(query, w.Now()))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create result file: %w", err)
	}

	cw := csv.NewWriter(f)
	if err := cw.Write([]string{w.Header}); err != nil {
		f.Close()
		return "", fmt.Errorf("write header: %w", err)
	}
	for _, u := range urls {
		if err := cw.Write([]string{u}); err != nil {
			f.Close()
			return "", fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		return "", fmt.Errorf("flush result file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close result file: %w", err)
	}

	if w.Log != nil {
		w.Log.Infof("去重后的搜索结果已保存到 %s", path)
	}
	return path, nil
}
