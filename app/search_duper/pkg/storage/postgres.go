package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/iWorld-y/search_duper/app/search_duper/pkg/config"
	"github.com/iWorld-y/search_duper/app/search_duper/pkg/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS search_runs (
	id          SERIAL PRIMARY KEY,
	query       TEXT NOT NULL,
	num_results INTEGER NOT NULL,
	file_name   TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS search_results (
	run_id INTEGER NOT NULL REFERENCES search_runs(id) ON DELETE CASCADE,
	engine TEXT NOT NULL,
	url    TEXT NOT NULL
);`

// Storage 搜索历史存储
type Storage struct {
	db *sql.DB
}

// DSN 生成 PostgreSQL 连接串
func DSN(cfg config.DBConfig) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	parts := []string{
		"host=" + quote(cfg.Host),
		fmt.Sprintf("port=%d", cfg.Port),
		"user=" + quote(cfg.User),
		"password=" + quote(cfg.Password),
		"dbname=" + quote(cfg.Name),
		"sslmode=" + quote(sslMode),
	}
	return strings.Join(parts, " ")
}

// quote 按 libpq 的规则转义连接串中的值
func quote(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// NewStorage 连接数据库并初始化表结构
func NewStorage(ctx context.Context, cfg config.DBConfig) (*Storage, error) {
	db, err := sql.Open("postgres", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

// SaveRun 保存一次搜索及各引擎的结果
func (s *Storage) SaveRun(ctx context.Context, run *model.Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	var runID int
	err = tx.QueryRowContext(ctx,
		`INSERT INTO search_runs (query, num_results, file_name) VALUES ($1, $2, $3) RETURNING id`,
		removeNullBytes(run.Query), run.NumResults, run.FileName,
	).Scan(&runID)
	if err != nil {
		return rollback(tx, err)
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("search_results", "run_id", "engine", "url"))
	if err != nil {
		return rollback(tx, err)
	}
	for _, r := range run.Results {
		for _, u := range r.URLs.Sorted() {
			if _, err := stmt.ExecContext(ctx, runID, r.Engine, removeNullBytes(u)); err != nil {
				stmt.Close()
				return rollback(tx, err)
			}
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return rollback(tx, err)
	}
	if err := stmt.Close(); err != nil {
		return rollback(tx, err)
	}

	return tx.Commit()
}

func rollback(tx *sql.Tx, err error) error {
	if rerr := tx.Rollback(); rerr != nil {
		err = fmt.Errorf("%w: %v", err, rerr)
	}
	return err
}

// removeNullBytes 移除 NULL 字符，PostgreSQL 文本字段不支持 NULL 字节
func removeNullBytes(s string) string {
	return strings.ReplaceAll(s, "\x00", "")
}
