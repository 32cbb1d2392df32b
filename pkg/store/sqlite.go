// Package store 把服务端的每局游戏记录到 SQLite 索引
//
// 写入经由缓冲通道交给单个写入 goroutine，通道满时丢弃，
// 不会阻塞房间的模拟循环。
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"
)

// queueSize 写入队列容量
const queueSize = 1024

// timeLayout 固定宽度的 UTC 时间，字符串顺序即时间顺序
const timeLayout = "2006-01-02T15:04:05.000000000Z"

type reqKind int

const (
	reqSessionStart reqKind = iota + 1
	reqLevelUp
	reqSessionEnd
)

type req struct {
	kind      reqKind
	sessionID string
	seed      int64
	level     int
	recycled  int
	frame     uint64
	at        time.Time
}

// SessionRow 一局游戏的记录
type SessionRow struct {
	ID        string
	StartedAt time.Time
	EndedAt   *time.Time // 未结束时为 nil
	Seed      int64
	Level     int
	Recycled  int
}

// SQLiteIndex 会话历史索引
type SQLiteIndex struct {
	db *sql.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	mu      sync.RWMutex // 保护 closed 与对 ch 的发送/关闭
	closed  bool
	dropped atomic.Int64
}

// OpenSQLite 打开（或创建）索引数据库
func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, errors.New("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{
		db: db,
		ch: make(chan req, queueSize),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("pragma %q: %w", p, err)
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT,
			seed INTEGER NOT NULL,
			level INTEGER NOT NULL DEFAULT 1,
			recycled INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS level_ups (
			session_id TEXT NOT NULL REFERENCES sessions(id),
			level INTEGER NOT NULL,
			frame INTEGER NOT NULL,
			at TEXT NOT NULL,
			PRIMARY KEY (session_id, level)
		);`,
		`CREATE INDEX IF NOT EXISTS sessions_started ON sessions(started_at);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to init schema: %w", err)
		}
	}
	return nil
}

// Close 等待队列写完后关闭数据库
func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		close(s.ch)
		s.mu.Unlock()
		s.wg.Wait()
		err = s.db.Close()
		if n := s.dropped.Load(); n > 0 {
			log.Printf("[Store] %d writes dropped while the writer was behind", n)
		}
	})
	return err
}

func (s *SQLiteIndex) enqueue(r req) {
	if s == nil {
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- r:
	default:
		s.dropped.Add(1)
	}
}

// SessionStarted 记录新的一局
func (s *SQLiteIndex) SessionStarted(id string, seed int64, at time.Time) {
	s.enqueue(req{kind: reqSessionStart, sessionID: id, seed: seed, at: at})
}

// LevelUp 记录一次升级
func (s *SQLiteIndex) LevelUp(id string, level int, frame uint64, at time.Time) {
	s.enqueue(req{kind: reqLevelUp, sessionID: id, level: level, frame: frame, at: at})
}

// SessionEnded 记录一局的最终结果
func (s *SQLiteIndex) SessionEnded(id string, level, recycled int, at time.Time) {
	s.enqueue(req{kind: reqSessionEnd, sessionID: id, level: level, recycled: recycled, at: at})
}

// Dropped 返回因队列满而丢弃的写入数量
func (s *SQLiteIndex) Dropped() int64 {
	return s.dropped.Load()
}

func (s *SQLiteIndex) loop() {
	for r := range s.ch {
		if err := s.apply(r); err != nil {
			log.Printf("[Store] write failed for session %s: %v", r.sessionID, err)
		}
	}
}

func (s *SQLiteIndex) apply(r req) error {
	at := r.at.UTC().Format(timeLayout)
	var err error
	switch r.kind {
	case reqSessionStart:
		_, err = s.db.Exec(`INSERT OR IGNORE INTO sessions(id,started_at,seed) VALUES(?,?,?)`, r.sessionID, at, r.seed)
	case reqLevelUp:
		_, err = s.db.Exec(`INSERT OR REPLACE INTO level_ups(session_id,level,frame,at) VALUES(?,?,?,?)`, r.sessionID, r.level, int64(r.frame), at)
		if err == nil {
			_, err = s.db.Exec(`UPDATE sessions SET level=MAX(level,?) WHERE id=?`, r.level, r.sessionID)
		}
	case reqSessionEnd:
		_, err = s.db.Exec(`UPDATE sessions SET ended_at=?, level=?, recycled=? WHERE id=?`, at, r.level, r.recycled, r.sessionID)
	}
	return err
}

// RecentSessions 按开始时间倒序返回最近的会话
func (s *SQLiteIndex) RecentSessions(ctx context.Context, limit int) ([]SessionRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id,started_at,ended_at,seed,level,recycled FROM sessions ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRow
	for rows.Next() {
		var (
			r       SessionRow
			started string
			ended   sql.NullString
		)
		if err := rows.Scan(&r.ID, &started, &ended, &r.Seed, &r.Level, &r.Recycled); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if r.StartedAt, err = time.Parse(timeLayout, started); err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		if ended.Valid {
			t, err := time.Parse(timeLayout, ended.String)
			if err != nil {
				return nil, fmt.Errorf("parse ended_at: %w", err)
			}
			r.EndedAt = &t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
