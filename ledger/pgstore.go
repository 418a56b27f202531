package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"vpnkeybot/core/logger"
)

// PGStore is the PostgreSQL-backed ledger. Row-level upserts give the same
// per-user atomicity the file store gets from its mutex; key order is the
// insertion order of the user_keys rows.
type PGStore struct {
	db *sqlx.DB
}

// NewPG wraps an open database handle. Migrations must have been applied.
func NewPG(db *sqlx.DB) *PGStore {
	return &PGStore{db: db}
}

// Language implements Store.
func (s *PGStore) Language(ctx context.Context, userID string) string {
	var lang string
	err := s.db.GetContext(ctx, &lang, `SELECT lang FROM users WHERE user_id = $1`, userID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logger.LED.Error("language lookup failed",
				slog.String("event", "ledger.language"),
				slog.String("user_id", userID),
				slog.String("err", err.Error()),
			)
		}
		return DefaultLanguage
	}
	if lang == "" {
		return DefaultLanguage
	}
	return lang
}

// SetLanguage implements Store.
func (s *PGStore) SetLanguage(ctx context.Context, userID, lang string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (user_id, lang) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET lang = EXCLUDED.lang`,
		userID, lang,
	)
	if err != nil {
		return fmt.Errorf("set language: %w", err)
	}
	return nil
}

// Record implements Store.
func (s *PGStore) Record(ctx context.Context, userID string) (UserRecord, error) {
	rec := UserRecord{Lang: s.Language(ctx, userID)}

	var keys []string
	err := s.db.SelectContext(ctx, &keys,
		`SELECT link FROM user_keys WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return rec, fmt.Errorf("load keys: %w", err)
	}
	rec.Keys = keys
	return rec, nil
}

// AppendKey implements Store.
func (s *PGStore) AppendKey(ctx context.Context, userID, link string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO users (user_id, lang) VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING`,
		userID, DefaultLanguage,
	); err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO user_keys (user_id, link) VALUES ($1, $2)`,
		userID, link,
	); err != nil {
		return fmt.Errorf("append key: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append: %w", err)
	}
	return nil
}
