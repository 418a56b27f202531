package ledger

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempLedger(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "users.json")
}

func TestOpenFileAbsentStartsEmpty(t *testing.T) {
	s := OpenFile(tempLedger(t))

	rec, err := s.Record(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, DefaultLanguage, rec.Lang)
	assert.Empty(t, rec.Keys)
}

func TestOpenFileMalformedStartsEmpty(t *testing.T) {
	path := tempLedger(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := OpenFile(path)
	rec, err := s.Record(context.Background(), "42")
	require.NoError(t, err)
	assert.Empty(t, rec.Keys)
}

func TestLanguageDefault(t *testing.T) {
	s := OpenFile(tempLedger(t))
	assert.Equal(t, "en", s.Language(context.Background(), "99"))
}

func TestSetLanguage(t *testing.T) {
	ctx := context.Background()
	s := OpenFile(tempLedger(t))

	require.NoError(t, s.SetLanguage(ctx, "7", "ru"))
	assert.Equal(t, "ru", s.Language(ctx, "7"))
	assert.Equal(t, "en", s.Language(ctx, "8"), "other users keep the default")
}

func TestAppendKeyPreservesOrder(t *testing.T) {
	ctx := context.Background()
	s := OpenFile(tempLedger(t))

	links := []string{"vmess://first", "vless://second", "vmess://third"}
	for _, l := range links {
		require.NoError(t, s.AppendKey(ctx, "7", l))
	}

	rec, err := s.Record(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, links, rec.Keys)
}

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := tempLedger(t)

	s := OpenFile(path)
	require.NoError(t, s.SetLanguage(ctx, "7", "uz"))
	require.NoError(t, s.AppendKey(ctx, "7", "vmess://abc"))
	require.NoError(t, s.AppendKey(ctx, "9", "vless://def"))

	reopened := OpenFile(path)
	rec, err := reopened.Record(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, "uz", rec.Lang)
	assert.Equal(t, []string{"vmess://abc"}, rec.Keys)

	rec, err = reopened.Record(ctx, "9")
	require.NoError(t, err)
	assert.Equal(t, "en", rec.Lang)
	assert.Equal(t, []string{"vless://def"}, rec.Keys)
}

func TestSnapshotShape(t *testing.T) {
	ctx := context.Background()
	path := tempLedger(t)

	s := OpenFile(path)
	require.NoError(t, s.SetLanguage(ctx, "7", "ru"))
	require.NoError(t, s.AppendKey(ctx, "7", "vmess://abc"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw map[string]struct {
		Lang string   `json:"lang"`
		Keys []string `json:"keys"`
	}
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Contains(t, raw, "7")
	assert.Equal(t, "ru", raw["7"].Lang)
	assert.Equal(t, []string{"vmess://abc"}, raw["7"].Keys)
}

func TestRecordReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := OpenFile(tempLedger(t))
	require.NoError(t, s.AppendKey(ctx, "7", "vmess://abc"))

	rec, err := s.Record(ctx, "7")
	require.NoError(t, err)
	rec.Keys[0] = "mutated"

	again, err := s.Record(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, []string{"vmess://abc"}, again.Keys)
}

func TestFlushUnwritablePathDoesNotFailMutations(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocked")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	// The snapshot path sits "inside" a regular file, so MkdirAll fails on
	// every flush. Mutations still succeed in memory.
	s := OpenFile(filepath.Join(blocker, "users.json"))
	require.NoError(t, s.AppendKey(ctx, "7", "vmess://abc"))

	rec, err := s.Record(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, []string{"vmess://abc"}, rec.Keys)
	assert.Error(t, s.Flush())
}
