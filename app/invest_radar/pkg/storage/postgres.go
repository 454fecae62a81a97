package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/config"
	"github.com/iWorld-y/invest_radar/app/invest_radar/pkg/model"
)

// MaxResults 结果日志保留的最大条数
const MaxResults = 250

type Storage struct {
	db *sql.DB
}

func NewStorage(cfg config.DBConfig) (*Storage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s, err := NewWithDB(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewWithDB 使用已有连接并初始化表结构
func NewWithDB(db *sql.DB) (*Storage, error) {
	s := &Storage{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS analysis_results (
			id SERIAL PRIMARY KEY,
			entity TEXT NOT NULL,
			entity_key TEXT NOT NULL,
			score INTEGER NOT NULL,
			verdict TEXT NOT NULL,
			payload JSONB NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analysis_results_entity_key ON analysis_results (entity_key)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query %s: %w", query, err)
		}
	}
	return nil
}

func entityKey(entity string) string {
	return strings.ToLower(strings.TrimSpace(entity))
}

// SaveResult 同名实体（忽略大小写）只保留最新一条，总数不超过 MaxResults
func (s *Storage) SaveResult(ctx context.Context, res *model.AnalysisResult) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	key := entityKey(res.Entity)
	if _, err := tx.ExecContext(ctx, `DELETE FROM analysis_results WHERE entity_key = $1`, key); err != nil {
		return fmt.Errorf("failed to delete previous result: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO analysis_results (entity, entity_key, score, verdict, payload)
		VALUES ($1, $2, $3, $4, $5)`,
		res.Entity, key, res.Score, string(res.Verdict), string(payload))
	if err != nil {
		return fmt.Errorf("failed to insert result: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM analysis_results
		WHERE id NOT IN (SELECT id FROM analysis_results ORDER BY created_at DESC, id DESC LIMIT $1)`,
		MaxResults)
	if err != nil {
		return fmt.Errorf("failed to trim results: %w", err)
	}

	return tx.Commit()
}

// Portfolio 最新的结果在前
func (s *Storage) Portfolio(ctx context.Context) ([]model.AnalysisResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT payload FROM analysis_results
		ORDER BY created_at DESC, id DESC
		LIMIT $1`, MaxResults)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var items []model.AnalysisResult
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var res model.AnalysisResult
		if err := json.Unmarshal(payload, &res); err != nil {
			return nil, fmt.Errorf("failed to decode result: %w", err)
		}
		items = append(items, res)
	}
	return items, rows.Err()
}
