// Copyright (c) 2025 Wosool
// Licensed under the MIT License. See LICENSE file in the project root for details.

package server

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// QueryRecord is one stored question/SQL round trip.
type QueryRecord struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Question  string `json:"question"`
	SQL       string `json:"sql"`
	RowCount  int    `json:"row_count"`
	CreatedAt string `json:"created_at"`
}

// FeedbackRecord is one user rating of a generated query.
type FeedbackRecord struct {
	ID       string `json:"id"`
	QueryID  string `json:"query_id"`
	Username string `json:"username"`
	Question string `json:"question"`
	Feedback string `json:"feedback"`
	Rating   int    `json:"rating"`
	Created  string `json:"created_at"`
}

// HistoryStore persists query history and feedback in SQLite.
type HistoryStore struct {
	db *sql.DB
}

// NewHistoryStore opens (and migrates) the history database.
func NewHistoryStore(path string) (*HistoryStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &HistoryStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating history database: %w", err)
	}
	return s, nil
}

func (s *HistoryStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS queries (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL,
			question TEXT NOT NULL,
			sql_text TEXT NOT NULL,
			row_count INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_queries_user ON queries(username, created_at)`,
		`CREATE TABLE IF NOT EXISTS feedback (
			id TEXT PRIMARY KEY,
			query_id TEXT NOT NULL,
			username TEXT NOT NULL,
			question TEXT NOT NULL,
			feedback TEXT NOT NULL,
			rating INTEGER NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

// RecordQuery stores an executed query and returns its id.
func (s *HistoryStore) RecordQuery(ctx context.Context, username, question, sqlText string, rowCount int) (string, error) {
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO queries (id, username, question, sql_text, row_count, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, username, question, sqlText, rowCount, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", err
	}
	return id, nil
}

// History returns the user's most recent queries, newest first.
func (s *HistoryStore) History(ctx context.Context, username string, limit int) ([]QueryRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, username, question, sql_text, row_count, created_at
		   FROM queries WHERE username = ? ORDER BY created_at DESC LIMIT ?`,
		username, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []QueryRecord{}
	for rows.Next() {
		var r QueryRecord
		if err := rows.Scan(&r.ID, &r.Username, &r.Question, &r.SQL, &r.RowCount, &r.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// RecordFeedback stores a user rating.
func (s *HistoryStore) RecordFeedback(ctx context.Context, f FeedbackRecord) (string, error) {
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO feedback (id, query_id, username, question, feedback, rating, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, f.QueryID, f.Username, f.Question, f.Feedback, f.Rating, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", err
	}
	return id, nil
}

// FeedbackCount returns how many feedback rows are stored.
func (s *HistoryStore) FeedbackCount(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM feedback`).Scan(&n)
	return n, err
}

// Ping checks the underlying database.
func (s *HistoryStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// Close releases the database handle.
func (s *HistoryStore) Close() error { return s.db.Close() }
