package main

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/tmc/langchaingo/memory/sqlite3"
	"github.com/tmc/langchaingo/schema"
)

// HistoryFactory returns the message history of one conversation.
type HistoryFactory func(session string) schema.ChatMessageHistory

func OpenHistoryDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open chat history %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open chat history %s: %w", path, err)
	}

	return db, nil
}

// SqliteHistories keys every conversation as "<prefix>:<session>" in one sqlite table.
func SqliteHistories(db *sql.DB, prefix string) HistoryFactory {
	return func(session string) schema.ChatMessageHistory {
		return sqlite3.NewSqliteChatMessageHistory(
			sqlite3.WithSession(prefix+":"+session),
			sqlite3.WithDB(db),
		)
	}
}
