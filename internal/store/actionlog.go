package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/XBC-D2O/acpoke-plugin/internal/model"
)

// ActionLog 基于 SQLite 的动作历史存储，仅追加，供后续生成上下文消费
type ActionLog struct {
	db *sql.DB
}

// Open 打开（或创建）动作历史库并确保表结构存在
func Open(path string) (*ActionLog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open action log %s: %w", path, err)
	}
	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure action log schema: %w", err)
	}
	return &ActionLog{db: db}, nil
}

func ensureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS action_records (
            task_id TEXT PRIMARY KEY,
            chat_id TEXT,
            group_id TEXT,
            user_id TEXT NOT NULL,
            action_name TEXT NOT NULL,
            prompt_display TEXT NOT NULL,
            build_into_prompt BOOLEAN NOT NULL DEFAULT 0,
            done BOOLEAN NOT NULL DEFAULT 0,
            reason TEXT,
            created_at TIMESTAMP NOT NULL
        );`,
		`CREATE INDEX IF NOT EXISTS action_records_chat_idx ON action_records(chat_id, created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// RecordAction 追加一条动作记录
func (l *ActionLog) RecordAction(ctx context.Context, rec model.ActionRecord) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO action_records
            (task_id, chat_id, group_id, user_id, action_name, prompt_display, build_into_prompt, done, reason, created_at)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.TaskID, rec.ChatID, rec.GroupID, rec.UserID, rec.ActionName,
		rec.PromptDisplay, rec.BuildIntoPrompt, rec.Done, rec.Reason, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert action record: %w", err)
	}
	return nil
}

// RecentActions 按时间倒序取某会话最近的动作记录
func (l *ActionLog) RecentActions(ctx context.Context, chatID string, limit int) ([]model.ActionRecord, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT task_id, chat_id, group_id, user_id, action_name, prompt_display, build_into_prompt, done, reason, created_at
            FROM action_records WHERE chat_id = ? ORDER BY created_at DESC LIMIT ?`,
		chatID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query action records: %w", err)
	}
	defer rows.Close()

	var records []model.ActionRecord
	for rows.Next() {
		var rec model.ActionRecord
		if err := rows.Scan(
			&rec.TaskID, &rec.ChatID, &rec.GroupID, &rec.UserID, &rec.ActionName,
			&rec.PromptDisplay, &rec.BuildIntoPrompt, &rec.Done, &rec.Reason, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan action record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close 关闭底层数据库
func (l *ActionLog) Close() error {
	return l.db.Close()
}
