package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"vpnkeybot/core/logger"
)

// FileStore keeps the whole ledger in memory and writes it through to a
// single JSON snapshot on disk after every mutation. One mutex serializes all
// read-modify-write cycles; expected throughput makes finer locking pointless.
type FileStore struct {
	mu    sync.Mutex
	path  string
	users map[string]*UserRecord
}

// OpenFile loads the ledger snapshot at path. An absent file starts an empty
// ledger; malformed content is logged and discarded so the process can still
// start.
func OpenFile(path string) *FileStore {
	s := &FileStore{
		path:  path,
		users: make(map[string]*UserRecord),
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.LED.Info("ledger file absent, starting empty",
			slog.String("event", "ledger.load"),
			slog.String("path", path),
		)
		return s
	case err != nil:
		logger.LED.Warn("ledger file unreadable, starting empty",
			slog.String("event", "ledger.load"),
			slog.String("path", path),
			slog.String("err", err.Error()),
		)
		return s
	}

	loaded := make(map[string]*UserRecord)
	if err := json.Unmarshal(data, &loaded); err != nil {
		logger.LED.Warn("ledger file malformed, starting empty",
			slog.String("event", "ledger.load"),
			slog.String("path", path),
			slog.String("err", err.Error()),
		)
		return s
	}
	for id, rec := range loaded {
		if rec == nil {
			rec = &UserRecord{}
		}
		s.users[id] = rec
	}

	logger.LED.Info("ledger loaded",
		slog.String("event", "ledger.load"),
		slog.String("path", path),
		slog.Int("users", len(s.users)),
	)
	return s
}

// Language implements Store.
func (s *FileStore) Language(_ context.Context, userID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.users[userID]; ok && rec.Lang != "" {
		return rec.Lang
	}
	return DefaultLanguage
}

// SetLanguage implements Store. A failed flush keeps the in-memory change;
// durability catches up on the next successful flush.
func (s *FileStore) SetLanguage(_ context.Context, userID, lang string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(userID).Lang = lang
	s.flushLocked()
	return nil
}

// Record implements Store.
func (s *FileStore) Record(_ context.Context, userID string) (UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.users[userID]; ok {
		out := rec.clone()
		if out.Lang == "" {
			out.Lang = DefaultLanguage
		}
		return out, nil
	}
	return UserRecord{Lang: DefaultLanguage}, nil
}

// AppendKey implements Store.
func (s *FileStore) AppendKey(_ context.Context, userID, link string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.record(userID)
	rec.Keys = append(rec.Keys, link)
	s.flushLocked()
	return nil
}

// Flush writes the current snapshot to disk. Mutating operations flush
// implicitly; this is for shutdown.
func (s *FileStore) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flush()
}

// record returns the user's entry, creating it lazily. Callers hold s.mu.
func (s *FileStore) record(userID string) *UserRecord {
	rec, ok := s.users[userID]
	if !ok {
		rec = &UserRecord{}
		s.users[userID] = rec
	}
	return rec
}

// flushLocked persists the snapshot and downgrades I/O failure to an error
// log: the user's action already succeeded in memory.
func (s *FileStore) flushLocked() {
	if err := s.flush(); err != nil {
		logger.LED.Error("ledger flush failed",
			slog.String("event", "ledger.flush"),
			slog.String("path", s.path),
			slog.String("err", err.Error()),
		)
	}
}

func (s *FileStore) flush() error {
	data, err := json.MarshalIndent(s.users, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal ledger: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create ledger dir: %w", err)
	}

	// Write to a temp file and rename so a crash mid-write never leaves a
	// truncated snapshot behind.
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp ledger file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close ledger file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace ledger file: %w", err)
	}
	return nil
}
