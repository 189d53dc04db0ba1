package storage

import (
	"context"
	"os"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/search_duper/app/search_duper/pkg/config"
	"github.com/iWorld-y/search_duper/app/search_duper/pkg/model"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DBConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "duper",
		Password: "it's a secret",
		Name:     "search",
	})

	assert.Equal(t, `host=localhost port=5432 user=duper password='it\'s a secret' dbname=search sslmode=disable`, dsn)
}

func TestDSN_EmptyValues(t *testing.T) {
	dsn := DSN(config.DBConfig{Host: "db", Port: 6543, SSLMode: "require"})

	assert.Equal(t, `host=db port=6543 user='' password='' dbname='' sslmode=require`, dsn)
}

func TestRemoveNullBytes(t *testing.T) {
	assert.Equal(t, "https://example.com/ab", removeNullBytes("https://example.com/a\x00b"))
}

// 需要真实数据库，设置 SEARCH_DUPER_TEST_DB_HOST 后运行
func TestSaveRun(t *testing.T) {
	host := os.Getenv("SEARCH_DUPER_TEST_DB_HOST")
	if host == "" {
		t.Skip("SEARCH_DUPER_TEST_DB_HOST not set")
	}
	port, _ := strconv.Atoi(os.Getenv("SEARCH_DUPER_TEST_DB_PORT"))
	if port == 0 {
		port = 5432
	}

	ctx := context.Background()
	s, err := NewStorage(ctx, config.DBConfig{
		Host:     host,
		Port:     port,
		User:     os.Getenv("SEARCH_DUPER_TEST_DB_USER"),
		Password: os.Getenv("SEARCH_DUPER_TEST_DB_PASSWORD"),
		Name:     os.Getenv("SEARCH_DUPER_TEST_DB_NAME"),
	})
	require.NoError(t, err)
	defer s.Close()

	err = s.SaveRun(ctx, &model.Run{
		Query:      "rust programming",
		NumResults: 10,
		FileName:   "rust programming_2024-03-09_14-05-06.csv",
		Results: []model.EngineResult{
			{Engine: "google", URLs: model.NewURLSet("https://www.rust-lang.org/learn")},
			{Engine: "bing", URLs: model.NewURLSet()},
		},
	})
	assert.NoError(t, err)
}
