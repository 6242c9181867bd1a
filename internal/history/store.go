package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // 無 CGO 版本驅動

	"github.com/asccclass/tripmate/trip"
)

// Entry 是一筆已生成的行程紀錄
type Entry struct {
	ID          int64       `json:"id"`
	Provider    string      `json:"provider"`
	Origin      string      `json:"origin"`
	Destination string      `json:"destination"`
	Days        int         `json:"days"`
	Budget      int         `json:"budget"`
	Result      trip.Result `json:"result"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Store 把生成過的行程存進 SQLite，供 CLI 與 API 回顧
// 注意：只存最終結果，對話過程不落地
type Store struct {
	db *sql.DB
}

// NewStore 初始化並建立資料庫連線
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	// 設定連線池，避免 SQLite 併發寫入衝突
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close 關閉資料庫
func (s *Store) Close() error { return s.db.Close() }

// migrate 負責建立必要的表格
func (s *Store) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS trips (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		provider TEXT NOT NULL,       -- 生成用的 LLM 後端
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		days INTEGER NOT NULL,
		budget INTEGER NOT NULL,
		result_json TEXT NOT NULL,    -- 正規化後的行程 JSON
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to run migration: %w", err)
	}
	return nil
}

// Save 儲存一筆行程，回傳流水號
func (s *Store) Save(ctx context.Context, provider string, req trip.Request, res *trip.Result) (int64, error) {
	resultJSON, err := json.Marshal(res)
	if err != nil {
		return 0, err
	}

	out, err := s.db.ExecContext(ctx,
		`INSERT INTO trips (provider, origin, destination, days, budget, result_json) VALUES (?, ?, ?, ?, ?, ?)`,
		provider, req.Origin, req.Destination, req.Days, req.Budget, string(resultJSON))
	if err != nil {
		return 0, err
	}
	return out.LastInsertId()
}

// List 依時間新到舊列出最近的行程
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, provider, origin, destination, days, budget, result_json, created_at
		 FROM trips ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e          Entry
			resultJSON string
		)
		if err := rows.Scan(&e.ID, &e.Provider, &e.Origin, &e.Destination, &e.Days, &e.Budget, &resultJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(resultJSON), &e.Result); err != nil {
			return nil, fmt.Errorf("corrupt trip record %d: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get 取出單筆行程
func (s *Store) Get(ctx context.Context, id int64) (*Entry, error) {
	var (
		e          Entry
		resultJSON string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, provider, origin, destination, days, budget, result_json, created_at
		 FROM trips WHERE id = ?`, id).
		Scan(&e.ID, &e.Provider, &e.Origin, &e.Destination, &e.Days, &e.Budget, &resultJSON, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(resultJSON), &e.Result); err != nil {
		return nil, fmt.Errorf("corrupt trip record %d: %w", id, err)
	}
	return &e, nil
}
